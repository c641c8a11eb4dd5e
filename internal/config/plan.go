package config

import (
	"fmt"
	"os"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/selection"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// Plan describes a batch split: named groups, each filled by the union of
// its rules.
type Plan struct {
	Output       string      `yaml:"output"`
	OnlySelected bool        `yaml:"only_selected"`
	Groups       []GroupPlan `yaml:"groups"`
}

// GroupPlan is one group of a plan. An empty name falls back to "Group <n>".
type GroupPlan struct {
	Name  string     `yaml:"name"`
	Rules []RulePlan `yaml:"rules"`
}

// RulePlan sets exactly one of its fields.
type RulePlan struct {
	Normal *NormalRule `yaml:"normal,omitempty"`
	Box    *BoxRule    `yaml:"box,omitempty"`
	Grow   *GrowRule   `yaml:"grow,omitempty"`
}

// NormalRule configures a NormalMatch. Tolerance defaults to selection.normal_tolerance.
type NormalRule struct {
	Vector    []float64 `yaml:"vector"`
	Tolerance *float64  `yaml:"tolerance,omitempty"`
}

// BoxRule configures a BoundingBox rule.
type BoxRule struct {
	Min []float64 `yaml:"min"`
	Max []float64 `yaml:"max"`
}

// GrowRule configures RegionGrowing. Angle defaults to selection.angle_tolerance.
type GrowRule struct {
	Seed  int      `yaml:"seed"`
	Angle *float64 `yaml:"angle,omitempty"`
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(data []byte) (*Plan, error) {
	plan := &Plan{}
	if err := decodeStrict(data, plan); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Validate checks the plan shape without a mesh.
func (p *Plan) Validate() error {
	if len(p.Groups) == 0 {
		return fmt.Errorf("plan has no groups")
	}
	for i, g := range p.Groups {
		if err := stl.ValidateName(g.Name); err != nil {
			return fmt.Errorf("group %d: %w", i+1, err)
		}
		if len(g.Rules) == 0 {
			return fmt.Errorf("group %d: no rules", i+1)
		}
		for j, r := range g.Rules {
			if _, err := r.Rule(SelectionConfig{}); err != nil {
				return fmt.Errorf("group %d rule %d: %w", i+1, j+1, err)
			}
		}
	}
	return nil
}

// Rule converts the plan entry into a selection rule, taking omitted
// tolerances from defaults.
func (r RulePlan) Rule(defaults SelectionConfig) (selection.Rule, error) {
	set := 0
	for _, ok := range []bool{r.Normal != nil, r.Box != nil, r.Grow != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of normal, box or grow must be set, got %d", set)
	}

	switch {
	case r.Normal != nil:
		target, err := toVector("vector", r.Normal.Vector)
		if err != nil {
			return nil, err
		}
		if target.IsZero() {
			return nil, fmt.Errorf("normal vector must not be zero")
		}
		tolerance := defaults.NormalTolerance
		if r.Normal.Tolerance != nil {
			tolerance = *r.Normal.Tolerance
		}
		if tolerance < 0 {
			return nil, fmt.Errorf("normal tolerance must not be negative, got %v", tolerance)
		}
		return selection.NormalMatch{Target: target, Tolerance: tolerance}, nil

	case r.Box != nil:
		lo, err := toVector("min", r.Box.Min)
		if err != nil {
			return nil, err
		}
		hi, err := toVector("max", r.Box.Max)
		if err != nil {
			return nil, err
		}
		return selection.BoundingBox{Box: geometry.Box(lo, hi)}, nil

	default:
		if r.Grow.Seed < 0 {
			return nil, fmt.Errorf("grow seed must not be negative, got %d", r.Grow.Seed)
		}
		angle := defaults.AngleTolerance
		if r.Grow.Angle != nil {
			angle = *r.Grow.Angle
		}
		return selection.RegionGrowing{Seed: r.Grow.Seed, AngleTolerance: angle}, nil
	}
}

func toVector(field string, values []float64) (geometry.Vector3, error) {
	if len(values) != 3 {
		return geometry.Vector3{}, fmt.Errorf("%s needs 3 components, got %d", field, len(values))
	}
	return geometry.NewVector3(values[0], values[1], values[2]), nil
}

// Apply runs the plan against m. Every plan group becomes a new group in
// order, even when its rules select nothing.
func (p *Plan) Apply(m *mesh.Mesh, defaults SelectionConfig) (*selection.State, error) {
	state := selection.NewState()
	for i, g := range p.Groups {
		rules := make([]selection.Rule, 0, len(g.Rules))
		for j, r := range g.Rules {
			rule, err := r.Rule(defaults)
			if err != nil {
				return nil, fmt.Errorf("group %d rule %d: %w", i+1, j+1, err)
			}
			rules = append(rules, rule)
		}

		faces, err := selection.SelectAll(m, rules...)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i+1, err)
		}
		state.AddGroup(g.Name)
		state.MergeRegion(faces)
	}
	return state, nil
}
