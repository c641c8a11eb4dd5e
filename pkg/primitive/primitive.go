// Package primitive generates simple solids as STL models using signed
// distance functions and marching cubes.
package primitive

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// DefaultCells is the marching cubes resolution along the longest axis
const DefaultCells = 50

// Kind names a primitive shape
type Kind string

const (
	Box      Kind = "box"
	Sphere   Kind = "sphere"
	Cylinder Kind = "cylinder"
)

// Kinds lists the supported shapes
var Kinds = []Kind{Box, Sphere, Cylinder}

// ParseKind accepts a shape name case-insensitively
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(name))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q (expected box, sphere or cylinder)", name)
}

// Params describes a shape centred at the origin. Box uses Size, Sphere
// uses Radius, Cylinder uses Radius and Height along Z. Round softens box
// and cylinder edges.
type Params struct {
	Kind   Kind
	Size   geometry.Vector3
	Radius float64
	Height float64
	Round  float64
	Cells  int
}

func (p Params) solid() (sdf.SDF3, error) {
	switch p.Kind {
	case Box:
		return sdf.Box3D(v3.Vec{X: p.Size.X, Y: p.Size.Y, Z: p.Size.Z}, p.Round)
	case Sphere:
		return sdf.Sphere3D(p.Radius)
	case Cylinder:
		return sdf.Cylinder3D(p.Height, p.Radius, p.Round)
	default:
		return nil, fmt.Errorf("unknown shape %q", p.Kind)
	}
}

// Generate tessellates the shape into a single solid named after its kind
func Generate(p Params) (*stl.Model, error) {
	s, err := p.solid()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", p.Kind, err)
	}

	cells := p.Cells
	if cells <= 0 {
		cells = DefaultCells
	}

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	model := stl.NewModel(string(p.Kind))
	model.Triangles = make([]geometry.Triangle, 0, len(triangles))
	for _, tri := range triangles {
		model.AddTriangle(geometry.NewTriangle(
			toVector(tri.Normal()),
			toVector(tri[0]),
			toVector(tri[1]),
			toVector(tri[2]),
		))
	}
	return model, nil
}

func toVector(v v3.Vec) geometry.Vector3 {
	return geometry.NewVector3(v.X, v.Y, v.Z)
}
