package stl

import (
	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// Model is one named solid: a flat list of facets
type Model struct {
	Name      string
	Triangles []geometry.Triangle
}

// NewModel creates a new empty solid
func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle appends a facet to the solid
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of facets
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// MismatchedNormals counts facets whose stored normal differs from the one
// implied by the vertex winding by more than eps in any component. Facets
// with a zero stored normal are not counted.
func (m *Model) MismatchedNormals(eps float64) int {
	count := 0
	for _, t := range m.Triangles {
		if t.Normal.IsZero() {
			continue
		}
		if !t.Normal.Normalize().ApproxEqual(t.CalculateNormal(), eps) {
			count++
		}
	}
	return count
}

// Merge concatenates several solids into one model named after the first.
// Facet order is preserved.
func Merge(solids []*Model) *Model {
	if len(solids) == 0 {
		return NewModel("")
	}
	merged := NewModel(solids[0].Name)
	for _, s := range solids {
		merged.Triangles = append(merged.Triangles, s.Triangles...)
	}
	return merged
}
