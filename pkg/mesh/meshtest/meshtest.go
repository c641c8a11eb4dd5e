// Package meshtest provides small fixture meshes for tests.
package meshtest

import (
	"math"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/mesh"
)

// Cube face ids, two triangles per side, outward winding
const (
	CubeBottom0 = iota
	CubeBottom1
	CubeTop0
	CubeTop1
	CubeFront0
	CubeFront1
	CubeBack0
	CubeBack1
	CubeLeft0
	CubeLeft1
	CubeRight0
	CubeRight1
)

// UnitCube returns the [0,1]^3 cube as 8 vertices and 12 triangles
func UnitCube() *mesh.Mesh {
	vertices := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	faces := []mesh.Face{
		{0, 2, 1}, {0, 3, 2}, // bottom -Z
		{4, 5, 6}, {4, 6, 7}, // top +Z
		{0, 1, 5}, {0, 5, 4}, // front -Y
		{3, 7, 6}, {3, 6, 2}, // back +Y
		{0, 4, 7}, {0, 7, 3}, // left -X
		{1, 2, 6}, {1, 6, 5}, // right +X
	}
	return must(mesh.New(vertices, faces))
}

// Strip returns a strip of quads extruded along X whose profile bends by
// step degrees per segment. Segment k holds faces 2k and 2k+1 and its
// normal is tilted k*step degrees away from +Z. Only neighbouring
// segments share vertices.
func Strip(segments int, step float64) *mesh.Mesh {
	profile := make([][2]float64, segments+1)
	for k := 0; k < segments; k++ {
		a := float64(k) * step * math.Pi / 180
		profile[k+1] = [2]float64{profile[k][0] + math.Cos(a), profile[k][1] + math.Sin(a)}
	}

	vertices := make([]geometry.Vector3, 0, 2*len(profile))
	for _, p := range profile {
		vertices = append(vertices,
			geometry.NewVector3(0, p[0], p[1]),
			geometry.NewVector3(1, p[0], p[1]),
		)
	}

	faces := make([]mesh.Face, 0, 2*segments)
	for k := 0; k < segments; k++ {
		a0, b0, a1, b1 := 2*k, 2*k+1, 2*k+2, 2*k+3
		faces = append(faces, mesh.Face{a0, b0, b1}, mesh.Face{a0, b1, a1})
	}
	return must(mesh.New(vertices, faces))
}

// TwoIslands returns two disjoint unit squares in the XY plane, faces
// {0,1} and {2,3}
func TwoIslands() *mesh.Mesh {
	vertices := []geometry.Vector3{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		{X: 5, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 1}, {X: 5, Y: 1},
	}
	faces := []mesh.Face{{0, 1, 2}, {0, 2, 3}, {4, 5, 6}, {4, 6, 7}}
	return must(mesh.New(vertices, faces))
}

// Tetrahedron returns a regular-ish tetrahedron with outward faces; every
// face is adjacent to the other three
func Tetrahedron() *mesh.Mesh {
	vertices := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
	}
	faces := []mesh.Face{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
	return must(mesh.New(vertices, faces))
}

func must(m *mesh.Mesh, err error) *mesh.Mesh {
	if err != nil {
		panic(err)
	}
	return m
}
