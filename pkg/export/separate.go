package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/selection"
)

// ManifestEntry maps one group to the file it was written to
type ManifestEntry struct {
	Group string `json:"group"`
	File  string `json:"file"`
	Faces int    `json:"faces"`
}

// WriteSeparate writes every non-empty group into its own single-solid
// file <dir>/<prefix>_<n>.stl, numbered from 0 in creation order.
func WriteSeparate(dir, prefix string, m *mesh.Mesh, state *selection.State) ([]ManifestEntry, error) {
	groups := state.NonEmpty()
	if len(groups) == 0 {
		return nil, ErrEmptySelection
	}

	entries := make([]ManifestEntry, 0, len(groups))
	for i, g := range groups {
		sub, err := m.Submesh(g.Members())
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%d%s", prefix, i, Suffix))
		if err := WriteFile(path, sub.ToModel(g.Name)); err != nil {
			return nil, err
		}
		entries = append(entries, ManifestEntry{Group: g.Name, File: path, Faces: sub.FaceCount()})
	}

	return entries, nil
}

// WriteManifest stores entries as indented JSON
func WriteManifest(path string, entries []ManifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
