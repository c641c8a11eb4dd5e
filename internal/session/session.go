// Package session holds the interactive picking state: a mesh, its
// selection groups and the current picking mode.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/philipparndt/stlsplit/pkg/analysis"
	"github.com/philipparndt/stlsplit/pkg/export"
	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/selection"
)

// Mode decides what picking a face does
type Mode int

const (
	// ModeToggle flips membership of the picked face in the active group
	ModeToggle Mode = iota
	// ModeGrow merges the region grown from the picked face into the active group
	ModeGrow
)

func (m Mode) String() string {
	if m == ModeGrow {
		return "grow"
	}
	return "toggle"
}

// ParseMode accepts "toggle" or "grow"
func ParseMode(name string) (Mode, error) {
	switch name {
	case "toggle":
		return ModeToggle, nil
	case "grow":
		return ModeGrow, nil
	}
	return ModeToggle, fmt.Errorf("unknown mode %q (expected toggle or grow)", name)
}

// Options configures a session
type Options struct {
	AngleTolerance  float64
	// NormalTolerance is the default cosine gap for normal rules; zero
	// means selection.DefaultNormalTolerance
	NormalTolerance float64
	Log             *zap.Logger
}

// Session owns the selection state for one mesh
type Session struct {
	mesh            *mesh.Mesh
	state           *selection.State
	mode            Mode
	angleTolerance  float64
	normalTolerance float64
	log             *zap.Logger
}

// New starts a session in toggle mode without any group
func New(m *mesh.Mesh, opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.NormalTolerance == 0 {
		opts.NormalTolerance = selection.DefaultNormalTolerance
	}
	return &Session{
		mesh:            m,
		state:           selection.NewState(),
		angleTolerance:  opts.AngleTolerance,
		normalTolerance: opts.NormalTolerance,
		log:             log,
	}
}

// Mesh returns the session mesh
func (s *Session) Mesh() *mesh.Mesh { return s.mesh }

// State returns the live selection state
func (s *Session) State() *selection.State { return s.state }

// Mode returns the picking mode
func (s *Session) Mode() Mode { return s.mode }

// SetMode switches the picking mode
func (s *Session) SetMode(m Mode) {
	s.mode = m
	s.log.Debug("mode changed", zap.Stringer("mode", m))
}

// AngleTolerance returns the region growing tolerance in degrees
func (s *Session) AngleTolerance() float64 { return s.angleTolerance }

// SetAngleTolerance sets the region growing tolerance in degrees
func (s *Session) SetAngleTolerance(deg float64) { s.angleTolerance = deg }

// NormalTolerance returns the default cosine gap for normal rules
func (s *Session) NormalTolerance() float64 { return s.normalTolerance }

// PickResult reports the effect of a pick
type PickResult struct {
	Face     int
	Group    int
	Selected bool // toggle mode: face is selected afterwards
	Region   int  // grow mode: size of the grown region
	Added    int  // faces that were not in the group before
}

// Pick applies the current mode to face f
func (s *Session) Pick(f int) (PickResult, error) {
	if err := s.mesh.CheckFace(f); err != nil {
		return PickResult{}, err
	}

	if s.mode == ModeToggle {
		selected := s.state.ToggleFace(f)
		added := 0
		if selected {
			added = 1
		}
		res := PickResult{Face: f, Group: s.state.ActiveID(), Selected: selected, Added: added}
		s.log.Debug("face toggled", zap.Int("face", f), zap.Int("group", res.Group), zap.Bool("selected", selected))
		return res, nil
	}

	return s.Grow(f, s.angleTolerance)
}

// Grow merges the region grown from seed into the active group
func (s *Session) Grow(seed int, angle float64) (PickResult, error) {
	region, err := selection.RegionGrowing{Seed: seed, AngleTolerance: angle}.Select(s.mesh)
	if err != nil {
		return PickResult{}, err
	}
	added := s.state.MergeRegion(region)
	res := PickResult{Face: seed, Group: s.state.ActiveID(), Selected: true, Region: len(region), Added: added}
	s.log.Debug("region merged",
		zap.Int("seed", seed),
		zap.Float64("angle", angle),
		zap.Int("region", res.Region),
		zap.Int("added", added),
	)
	return res, nil
}

// ApplyRule merges the faces selected by rule into the active group and
// returns how many matched and how many were new.
func (s *Session) ApplyRule(rule selection.Rule) (matched, added int, err error) {
	faces, err := rule.Select(s.mesh)
	if err != nil {
		return 0, 0, err
	}
	added = s.state.MergeRegion(faces)
	s.log.Debug("rule applied", zap.Stringer("rule", rule), zap.Int("matched", len(faces)), zap.Int("added", added))
	return len(faces), added, nil
}

// Status summarises the session for display
type Status struct {
	Mode           Mode
	AngleTolerance  float64
	Active         int
	Groups         []analysis.GroupSummary
	Total          int
}

// Status returns the current mode, groups and total selection
func (s *Session) Status() Status {
	return Status{
		Mode:           s.mode,
		AngleTolerance: s.angleTolerance,
		Active:         s.state.ActiveID(),
		Groups:         analysis.SummarizeGroups(s.mesh, s.state),
		Total:          s.state.TotalSelected(),
	}
}

// Export writes the groups to path, adding the .stl suffix when missing
func (s *Session) Export(path string, onlySelected bool) (*export.Result, error) {
	res, err := export.ExportFile(path, s.mesh, s.state, onlySelected)
	if err != nil {
		return nil, err
	}
	s.log.Info("exported selection",
		zap.String("path", res.Path),
		zap.Int("solids", len(res.Solids)),
		zap.Bool("onlySelected", onlySelected),
	)
	return res, nil
}
