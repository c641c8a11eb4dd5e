package mesh_test

import (
	"errors"
	"testing"

	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/mesh/meshtest"
)

func TestSubmeshKeepsOnlyReferencedVertices(t *testing.T) {
	m := meshtest.UnitCube()

	sub, err := m.Submesh([]int{meshtest.CubeTop1, meshtest.CubeTop0, meshtest.CubeTop0})
	if err != nil {
		t.Fatalf("Submesh failed: %v", err)
	}

	if sub.FaceCount() != 2 {
		t.Errorf("expected 2 faces, got %d", sub.FaceCount())
	}
	if sub.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", sub.VertexCount())
	}

	for i, f := range []int{meshtest.CubeTop0, meshtest.CubeTop1} {
		orig, _ := m.Triangle(f)
		got, _ := sub.Triangle(i)
		if got != orig {
			t.Errorf("face %d changed: expected %v, got %v", f, orig, got)
		}
	}
}

func TestSubmeshOutOfRange(t *testing.T) {
	_, err := meshtest.UnitCube().Submesh([]int{0, 99})

	var idx *mesh.IndexError
	if !errors.As(err, &idx) || idx.Index != 99 {
		t.Errorf("expected IndexError for 99, got %v", err)
	}
}

func TestSubmeshEmpty(t *testing.T) {
	sub, err := meshtest.UnitCube().Submesh(nil)
	if err != nil {
		t.Fatalf("Submesh failed: %v", err)
	}
	if sub.FaceCount() != 0 || sub.VertexCount() != 0 {
		t.Errorf("expected empty mesh, got %d faces %d vertices", sub.FaceCount(), sub.VertexCount())
	}
}
