package mesh

import (
	"slices"

	"github.com/philipparndt/stlsplit/pkg/geometry"
)

// Submesh extracts the faces in ids as a new mesh. Duplicate ids are
// ignored and faces keep ascending id order. Only referenced vertices
// are kept, renumbered in order of first use; each face keeps its
// original winding.
func (m *Mesh) Submesh(ids []int) (*Mesh, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for _, f := range sorted {
		if err := m.CheckFace(f); err != nil {
			return nil, err
		}
	}

	remap := make(map[int]int)
	vertices := make([]geometry.Vector3, 0)
	faces := make([]Face, 0, len(sorted))

	for _, f := range sorted {
		var face Face
		for i, v := range m.faces[f] {
			nv, ok := remap[v]
			if !ok {
				nv = len(vertices)
				remap[v] = nv
				vertices = append(vertices, m.vertices[v])
			}
			face[i] = nv
		}
		faces = append(faces, face)
	}

	return &Mesh{vertices: vertices, faces: faces}, nil
}
