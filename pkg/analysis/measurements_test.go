package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/mesh/meshtest"
	"github.com/philipparndt/stlsplit/pkg/selection"
)

func TestAnalyzeCube(t *testing.T) {
	result := AnalyzeMesh(meshtest.UnitCube())

	if result.TriangleCount != 12 || result.VertexCount != 8 {
		t.Errorf("expected 12 triangles and 8 vertices, got %d and %d", result.TriangleCount, result.VertexCount)
	}
	if math.Abs(result.SurfaceArea-6) > 1e-10 {
		t.Errorf("SurfaceArea failed: expected 6, got %v", result.SurfaceArea)
	}
	// 12 cube edges plus one diagonal per side
	if result.EdgeCount != 18 {
		t.Errorf("EdgeCount failed: expected 18, got %d", result.EdgeCount)
	}
	if math.Abs(result.MinEdgeLength-1) > 1e-10 || math.Abs(result.MaxEdgeLength-math.Sqrt2) > 1e-10 {
		t.Errorf("edge range failed: got %v..%v", result.MinEdgeLength, result.MaxEdgeLength)
	}
	if result.Dimensions != geometry.NewVector3(1, 1, 1) {
		t.Errorf("Dimensions failed: got %v", result.Dimensions)
	}
	if result.Components != 1 || result.DegenerateCount != 0 {
		t.Errorf("expected one component without degenerate faces, got %+v", result)
	}
}

func TestAnalyzeEmptyMesh(t *testing.T) {
	m, _ := mesh.New(nil, nil)
	result := AnalyzeMesh(m)

	if result.TriangleCount != 0 || result.EdgeCount != 0 || result.AvgNeighbors != 0 {
		t.Errorf("expected zeroed result, got %+v", result)
	}
	if result.MinEdgeLength != 0 {
		t.Errorf("MinEdgeLength should be 0 without edges, got %v", result.MinEdgeLength)
	}
}

func TestSummarizeGroups(t *testing.T) {
	m := meshtest.UnitCube()
	s := selection.NewState()
	s.MergeRegion([]int{meshtest.CubeTop0, meshtest.CubeTop1})
	s.AddGroup("side")
	s.MergeRegion([]int{meshtest.CubeFront0})

	summaries := SummarizeGroups(m, s)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Faces != 2 || math.Abs(summaries[0].Area-1) > 1e-10 || summaries[0].Active {
		t.Errorf("unexpected first summary %+v", summaries[0])
	}
	if summaries[1].Name != "side" || !summaries[1].Active || math.Abs(summaries[1].Area-0.5) > 1e-10 {
		t.Errorf("unexpected second summary %+v", summaries[1])
	}
}

func TestFormatVector(t *testing.T) {
	if got := FormatVector(geometry.NewVector3(1, -2.5, 0)); got != "(1.000000, -2.500000, 0.000000)" {
		t.Errorf("FormatVector failed: got %s", got)
	}
}
