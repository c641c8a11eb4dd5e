// Package mesh holds the indexed triangle mesh that face selection works on.
//
// A Mesh is immutable after construction. Face normals and the face
// adjacency table are derived lazily on first use and cached for the
// lifetime of the mesh. Face ids are positions in the face list.
package mesh

import (
	"fmt"
	"sync"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// Face is a triangle given as three vertex indices in winding order
type Face [3]int

// Mesh is an indexed triangle mesh
type Mesh struct {
	vertices []geometry.Vector3
	faces    []Face

	normalsOnce sync.Once
	normals     []geometry.Vector3

	adjacencyOnce sync.Once
	adjacency     [][]int
}

// New builds a mesh from vertex positions and faces. Every vertex index
// referenced by a face must be in range. An empty face list is valid.
func New(vertices []geometry.Vector3, faces []Face) (*Mesh, error) {
	for f, face := range faces {
		for _, vi := range face {
			if err := checkIndex("vertex", vi, len(vertices)); err != nil {
				return nil, fmt.Errorf("face %d: %w", f, err)
			}
		}
	}

	return &Mesh{
		vertices: append([]geometry.Vector3(nil), vertices...),
		faces:    append([]Face(nil), faces...),
	}, nil
}

// FaceCount returns the number of faces
func (m *Mesh) FaceCount() int {
	return len(m.faces)
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// CheckFace returns an *IndexError when f is not a face id of this mesh
func (m *Mesh) CheckFace(f int) error {
	return checkIndex("face", f, len(m.faces))
}

// Face returns the vertex indices of face f
func (m *Mesh) Face(f int) (Face, error) {
	if err := m.CheckFace(f); err != nil {
		return Face{}, err
	}
	return m.faces[f], nil
}

// Vertex returns the position of vertex v
func (m *Mesh) Vertex(v int) (geometry.Vector3, error) {
	if err := checkIndex("vertex", v, len(m.vertices)); err != nil {
		return geometry.Vector3{}, err
	}
	return m.vertices[v], nil
}

// NormalOf returns the unit normal of face f, or the zero vector for a
// zero-area face
func (m *Mesh) NormalOf(f int) (geometry.Vector3, error) {
	if err := m.CheckFace(f); err != nil {
		return geometry.Vector3{}, err
	}
	return m.Normals()[f], nil
}

// Normals returns the cached per-face normals. The slice is shared and
// must not be modified.
func (m *Mesh) Normals() []geometry.Vector3 {
	m.normalsOnce.Do(func() {
		m.normals = make([]geometry.Vector3, len(m.faces))
		for f, face := range m.faces {
			m.normals[f] = geometry.FaceNormal(m.vertices[face[0]], m.vertices[face[1]], m.vertices[face[2]])
		}
	})
	return m.normals
}

// Centroid returns the mean of the three vertices of face f
func (m *Mesh) Centroid(f int) (geometry.Vector3, error) {
	if err := m.CheckFace(f); err != nil {
		return geometry.Vector3{}, err
	}
	return m.centroid(f), nil
}

func (m *Mesh) centroid(f int) geometry.Vector3 {
	face := m.faces[f]
	return geometry.Centroid(m.vertices[face[0]], m.vertices[face[1]], m.vertices[face[2]])
}

// Centroids returns the centroid of every face in face order
func (m *Mesh) Centroids() []geometry.Vector3 {
	out := make([]geometry.Vector3, len(m.faces))
	for f := range m.faces {
		out[f] = m.centroid(f)
	}
	return out
}

// Triangle returns face f as a standalone triangle carrying its computed normal
func (m *Mesh) Triangle(f int) (geometry.Triangle, error) {
	if err := m.CheckFace(f); err != nil {
		return geometry.Triangle{}, err
	}
	return m.triangle(f), nil
}

func (m *Mesh) triangle(f int) geometry.Triangle {
	face := m.faces[f]
	return geometry.NewTriangle(m.Normals()[f], m.vertices[face[0]], m.vertices[face[1]], m.vertices[face[2]])
}

// BoundingBox returns the bounds of all referenced and unreferenced vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range m.vertices {
		bbox.Extend(v)
	}
	return bbox
}

// ToModel converts the mesh into a single STL solid in face order
func (m *Mesh) ToModel(name string) *stl.Model {
	model := stl.NewModel(name)
	model.Triangles = make([]geometry.Triangle, 0, len(m.faces))
	for f := range m.faces {
		model.AddTriangle(m.triangle(f))
	}
	return model
}
