package mesh

import (
	"math"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// DefaultWeldTolerance is the grid size used to merge coincident vertices
const DefaultWeldTolerance = 1e-6

type vertexKey struct {
	x, y, z int64
}

func quantize(p geometry.Vector3, tolerance float64) vertexKey {
	if tolerance <= 0 {
		tolerance = 1e-12
	}
	scale := 1.0 / tolerance
	return vertexKey{
		x: int64(math.Round(p.X * scale)),
		y: int64(math.Round(p.Y * scale)),
		z: int64(math.Round(p.Z * scale)),
	}
}

// FromTriangles welds a triangle soup into an indexed mesh. Positions that
// fall into the same tolerance cell share one vertex, which keeps the
// position seen first. Stored facet normals are ignored; normals are
// always recomputed from the winding.
func FromTriangles(triangles []geometry.Triangle, tolerance float64) *Mesh {
	index := make(map[vertexKey]int)
	vertices := make([]geometry.Vector3, 0, len(triangles))
	faces := make([]Face, 0, len(triangles))

	for _, t := range triangles {
		var face Face
		for i, p := range t.Vertices() {
			key := quantize(p, tolerance)
			vi, ok := index[key]
			if !ok {
				vi = len(vertices)
				index[key] = vi
				vertices = append(vertices, p)
			}
			face[i] = vi
		}
		faces = append(faces, face)
	}

	return &Mesh{vertices: vertices, faces: faces}
}

// FromModel welds all facets of an STL model
func FromModel(model *stl.Model, tolerance float64) *Mesh {
	return FromTriangles(model.Triangles, tolerance)
}
