// Package loader turns .stl and .scad files into welded meshes.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/philipparndt/stlsplit/pkg/mesh"
	"github.com/philipparndt/stlsplit/pkg/openscad"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

// normalCheckTolerance allows for the six digits ASCII writers print
const normalCheckTolerance = 1e-3

// Options controls loading
type Options struct {
	// WeldTolerance is the quantum used to merge coincident vertices
	WeldTolerance float64
	// OpenSCAD overrides the openscad binary
	OpenSCAD string
	Log      *zap.Logger
}

// Result is a loaded mesh together with the files it was built from
type Result struct {
	Mesh *mesh.Mesh
	Name string
	// Sources lists the input file and, for .scad, every use/include dependency
	Sources []string
}

// Load reads path into a mesh. Multi-solid ASCII files are merged into a
// single mesh in file order.
func Load(ctx context.Context, path string, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	var (
		model   *stl.Model
		sources []string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		model, err = stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		sources = []string{path}
	case ".scad":
		model, sources, err = renderSCAD(ctx, path, opts, log)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported file type: %q (expected .stl or .scad)", ext)
	}

	if n := model.MismatchedNormals(normalCheckTolerance); n > 0 {
		log.Warn("stored normals disagree with vertex winding, using the winding",
			zap.String("path", path), zap.Int("facets", n))
	}

	m := mesh.FromModel(model, opts.WeldTolerance)
	log.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("triangles", model.TriangleCount()),
		zap.Int("vertices", m.VertexCount()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{Mesh: m, Name: model.Name, Sources: sources}, nil
}

// renderSCAD renders a .scad file into a temporary STL and parses it
func renderSCAD(ctx context.Context, path string, opts Options, log *zap.Logger) (*stl.Model, []string, error) {
	renderer := openscad.NewRenderer(filepath.Dir(path))
	if opts.OpenSCAD != "" {
		renderer.Binary = opts.OpenSCAD
	}

	sources, err := renderer.ResolveDependencies(filepath.Base(path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	tmp, err := os.CreateTemp("", "stlsplit-*.stl")
	if err != nil {
		return nil, nil, err
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	log.Info("rendering OpenSCAD file", zap.String("path", path), zap.Int("dependencies", len(sources)-1))
	if err := renderer.RenderToSTL(ctx, filepath.Base(path), tmpName); err != nil {
		return nil, nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}

	model, err := stl.Parse(tmpName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return model, sources, nil
}
