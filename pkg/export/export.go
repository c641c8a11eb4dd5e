// Package export writes selection groups as named solids of a
// multi-solid ASCII STL file.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/selection"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// BodyName names the solid holding every face outside all groups
const BodyName = "Body"

// Suffix is appended to output names that lack it
const Suffix = ".stl"

// ErrEmptySelection is returned when no group holds any face
var ErrEmptySelection = errors.New("nothing to export: every selection group is empty")

// SolidInfo describes one written solid
type SolidInfo struct {
	Name   string
	Facets int
}

// Result describes a written file
type Result struct {
	Path   string
	Solids []SolidInfo
}

// Solids builds the solids to export. Unless onlySelected is set, faces
// outside every group come first as "Body". Each non-empty group follows
// in creation order as the induced submesh named after the group.
func Solids(m *mesh.Mesh, state *selection.State, onlySelected bool) ([]*stl.Model, error) {
	groups := state.NonEmpty()
	if len(groups) == 0 {
		return nil, ErrEmptySelection
	}

	var solids []*stl.Model
	if !onlySelected {
		if body := complement(m.FaceCount(), state.Union()); len(body) > 0 {
			sub, err := m.Submesh(body)
			if err != nil {
				return nil, err
			}
			solids = append(solids, sub.ToModel(BodyName))
		}
	}

	for _, g := range groups {
		sub, err := m.Submesh(g.Members())
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Name, err)
		}
		solids = append(solids, sub.ToModel(g.Name))
	}

	return solids, nil
}

// Export writes the selection to w
func Export(w io.Writer, m *mesh.Mesh, state *selection.State, onlySelected bool) error {
	solids, err := Solids(m, state, onlySelected)
	if err != nil {
		return err
	}
	return stl.WriteASCII(w, solids...)
}

// ExportFile writes the selection to path, adding the .stl suffix when
// missing. Nothing is created when the selection is empty, and the file
// only appears once it has been written completely.
func ExportFile(path string, m *mesh.Mesh, state *selection.State, onlySelected bool) (*Result, error) {
	solids, err := Solids(m, state, onlySelected)
	if err != nil {
		return nil, err
	}

	path = WithSuffix(path)
	if err := WriteFile(path, solids...); err != nil {
		return nil, err
	}

	result := &Result{Path: path}
	for _, s := range solids {
		result.Solids = append(result.Solids, SolidInfo{Name: s.Name, Facets: s.TriangleCount()})
	}
	return result, nil
}

// WithSuffix appends .stl unless name already ends with it (any case)
func WithSuffix(name string) string {
	if strings.EqualFold(filepath.Ext(name), Suffix) {
		return name
	}
	return name + Suffix
}

// WriteFile writes solids into a pending file next to path and atomically
// replaces path with it once everything is written. On error path is left
// untouched and the pending file is removed.
func WriteFile(path string, solids ...*stl.Model) error {
	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer pf.Cleanup()

	if err := stl.WriteASCII(pf, solids...); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// complement returns the face ids in [0, n) that are not in sorted
func complement(n int, sorted []int) []int {
	out := make([]int, 0, n)
	j := 0
	for f := 0; f < n; f++ {
		for j < len(sorted) && sorted[j] < f {
			j++
		}
		if j < len(sorted) && sorted[j] == f {
			continue
		}
		out = append(out, f)
	}
	return out
}
