// Package selection implements geometric face-selection rules and the
// multi-group selection state they feed.
package selection

import (
	"fmt"
	"math"
	"slices"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/mesh"
)

// DefaultNormalTolerance is the library default cosine gap for NormalMatch
const DefaultNormalTolerance = 0.01

// parallelEpsilon absorbs the rounding of a dot product between two unit
// normals (a few ulps of 1.0), so that a zero tolerance still matches
// exactly parallel faces without admitting any measurable tilt.
const parallelEpsilon = 4 * 0x1p-52

// Rule maps a mesh to a set of face ids. Results are sorted ascending
// and free of duplicates. Rules never modify the mesh.
type Rule interface {
	Select(m *mesh.Mesh) ([]int, error)
	String() string
}

// NormalMatch selects faces whose normal is aligned with Target:
// |dot(normal, unit(Target)) - 1| < Tolerance. This is a cosine gap, not an
// angle, and anti-parallel faces never match. Zero-area faces never match,
// and neither does anything under a negative tolerance.
type NormalMatch struct {
	Target    geometry.Vector3
	Tolerance float64
}

// Select implements Rule
func (r NormalMatch) Select(m *mesh.Mesh) ([]int, error) {
	target := r.Target.Normalize()
	selected := make([]int, 0)
	if target.IsZero() {
		return selected, nil
	}

	for f, n := range m.Normals() {
		if n.IsZero() {
			continue
		}
		gap := math.Abs(n.Dot(target) - 1.0)
		if gap < r.Tolerance || (r.Tolerance >= 0 && gap <= parallelEpsilon) {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

func (r NormalMatch) String() string {
	return fmt.Sprintf("normal(%g, %g, %g; tol=%g)", r.Target.X, r.Target.Y, r.Target.Z, r.Tolerance)
}

// BoundingBox selects faces whose centroid lies inside the closed box.
// A box that is inverted on any axis selects nothing.
type BoundingBox struct {
	Box geometry.BoundingBox
}

// Select implements Rule
func (r BoundingBox) Select(m *mesh.Mesh) ([]int, error) {
	selected := make([]int, 0)
	if !r.Box.Valid() {
		return selected, nil
	}

	for f, c := range m.Centroids() {
		if r.Box.Contains(c) {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

func (r BoundingBox) String() string {
	return fmt.Sprintf("box(%g,%g,%g .. %g,%g,%g)",
		r.Box.Min.X, r.Box.Min.Y, r.Box.Min.Z, r.Box.Max.X, r.Box.Max.Y, r.Box.Max.Z)
}

// RegionGrowing grows a region breadth-first from Seed over the vertex
// adjacency. Every candidate is compared against the seed's normal, never
// against the neighbour it was reached from, so a gently curving surface
// stops once the accumulated bend exceeds AngleTolerance (degrees).
type RegionGrowing struct {
	Seed           int
	AngleTolerance float64
}

// Select implements Rule
func (r RegionGrowing) Select(m *mesh.Mesh) ([]int, error) {
	if err := m.CheckFace(r.Seed); err != nil {
		return nil, err
	}

	normals := m.Normals()
	adjacency := m.Adjacency()
	reference := normals[r.Seed]

	selected := map[int]bool{r.Seed: true}
	frontier := slices.Clone(adjacency[r.Seed])

	for len(frontier) > 0 {
		inFrontier := make(map[int]bool, len(frontier))
		for _, f := range frontier {
			inFrontier[f] = true
		}

		var next []int
		queued := make(map[int]bool)
		for _, f := range frontier {
			if selected[f] || !r.accepts(reference, normals[f]) {
				continue
			}
			selected[f] = true
			for _, n := range adjacency[f] {
				if !selected[n] && !inFrontier[n] && !queued[n] {
					queued[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}

	out := make([]int, 0, len(selected))
	for f := range selected {
		out = append(out, f)
	}
	slices.Sort(out)
	return out, nil
}

// accepts compares a candidate normal with the seed normal. Zero normals
// (degenerate faces, or a degenerate seed) are never accepted. Coplanar
// faces pass a zero tolerance even when acos rounding reports a tiny angle,
// and 180° or more accepts every non-degenerate face.
func (r RegionGrowing) accepts(reference, candidate geometry.Vector3) bool {
	if reference.IsZero() || candidate.IsZero() || r.AngleTolerance < 0 {
		return false
	}
	if r.AngleTolerance >= 180 || 1-reference.Dot(candidate) <= parallelEpsilon {
		return true
	}
	return reference.AngleTo(candidate) <= r.AngleTolerance
}

func (r RegionGrowing) String() string {
	return fmt.Sprintf("grow(seed=%d; angle=%g°)", r.Seed, r.AngleTolerance)
}

// SelectAll returns the sorted union of the faces selected by every rule
func SelectAll(m *mesh.Mesh, rules ...Rule) ([]int, error) {
	var union []int
	for _, rule := range rules {
		faces, err := rule.Select(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rule, err)
		}
		union = append(union, faces...)
	}
	slices.Sort(union)
	return slices.Compact(union), nil
}
