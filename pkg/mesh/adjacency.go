package mesh

import "slices"

// NeighborsOf returns the sorted ids of all faces sharing at least one
// vertex with face f. Faces touching only at a corner are neighbours too.
// The slice is shared and must not be modified.
func (m *Mesh) NeighborsOf(f int) ([]int, error) {
	if err := m.CheckFace(f); err != nil {
		return nil, err
	}
	return m.Adjacency()[f], nil
}

// Adjacency returns the cached face adjacency table indexed by face id
func (m *Mesh) Adjacency() [][]int {
	m.adjacencyOnce.Do(func() {
		m.adjacency = buildAdjacency(len(m.vertices), m.faces)
	})
	return m.adjacency
}

// buildAdjacency uses a temporary vertex -> incident faces index that is
// dropped once the table is built.
func buildAdjacency(vertexCount int, faces []Face) [][]int {
	incident := make([][]int, vertexCount)
	for f, face := range faces {
		for i, v := range face {
			if slices.Contains(face[:i], v) {
				continue
			}
			incident[v] = append(incident[v], f)
		}
	}

	adjacency := make([][]int, len(faces))
	for f, face := range faces {
		var neighbors []int
		for _, v := range face {
			for _, other := range incident[v] {
				if other != f {
					neighbors = append(neighbors, other)
				}
			}
		}
		slices.Sort(neighbors)
		adjacency[f] = slices.Compact(neighbors)
	}

	return adjacency
}

// Components returns the vertex-connected components of the mesh. Each
// component is sorted; components are ordered by their smallest face id.
func (m *Mesh) Components() [][]int {
	adjacency := m.Adjacency()
	seen := make([]bool, len(m.faces))

	var components [][]int
	for start := range m.faces {
		if seen[start] {
			continue
		}
		seen[start] = true
		component := []int{start}
		for queue := []int{start}; len(queue) > 0; queue = queue[1:] {
			for _, n := range adjacency[queue[0]] {
				if !seen[n] {
					seen[n] = true
					component = append(component, n)
					queue = append(queue, n)
				}
			}
		}
		slices.Sort(component)
		components = append(components, component)
	}

	return components
}
