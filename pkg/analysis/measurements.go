package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/selection"
)

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox     geometry.BoundingBox
	Dimensions      geometry.Vector3
	SurfaceArea     float64
	TriangleCount   int
	VertexCount     int
	DegenerateCount int
	EdgeCount       int
	MinEdgeLength   float64
	MaxEdgeLength   float64
	AvgEdgeLength   float64
	AvgNeighbors    float64
	Components      int
}

// AnalyzeMesh collects statistics of a mesh. Edges are counted once even
// when shared by several faces.
func AnalyzeMesh(m *mesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   m.BoundingBox(),
		TriangleCount: m.FaceCount(),
		VertexCount:   m.VertexCount(),
		Components:    len(m.Components()),
	}
	if m.VertexCount() > 0 {
		result.Dimensions = result.BoundingBox.Size()
	}

	seen := make(map[[2]int]bool)
	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	totalNeighbors := 0

	adjacency := m.Adjacency()
	for f := 0; f < m.FaceCount(); f++ {
		tri, _ := m.Triangle(f)
		face, _ := m.Face(f)

		result.SurfaceArea += tri.Area()
		if tri.Normal.IsZero() {
			result.DegenerateCount++
		}
		totalNeighbors += len(adjacency[f])

		lengths := tri.EdgeLengths()
		for i := 0; i < 3; i++ {
			key := edgeKey(face[i], face[(i+1)%3])
			if seen[key] {
				continue
			}
			seen[key] = true

			length := lengths[i]
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	result.EdgeCount = len(seen)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}
	if m.FaceCount() > 0 {
		result.AvgNeighbors = float64(totalNeighbors) / float64(m.FaceCount())
	}

	return result
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// GroupSummary describes one selection group for status output
type GroupSummary struct {
	ID     int
	Name   string
	Faces  int
	Area   float64
	Active bool
}

// SummarizeGroups reports size and area of every group. Members outside
// the mesh are counted but contribute no area.
func SummarizeGroups(m *mesh.Mesh, state *selection.State) []GroupSummary {
	out := make([]GroupSummary, 0, state.Len())
	for _, g := range state.Groups() {
		summary := GroupSummary{ID: g.ID, Name: g.Name, Faces: g.Len(), Active: g.ID == state.ActiveID()}
		for _, f := range g.Members() {
			if tri, err := m.Triangle(f); err == nil {
				summary.Area += tri.Area()
			}
		}
		out = append(out, summary)
	}
	return out
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
