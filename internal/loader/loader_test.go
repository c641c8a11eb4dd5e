package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipparndt/stlsplit/pkg/geometry"
	"github.com/philipparndt/stlsplit/pkg/mesh/meshtest"
	"github.com/philipparndt/stlsplit/pkg/stl"
)

func writeCube(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, stl.WriteASCII(&buf, meshtest.UnitCube().ToModel("cube")))

	path := filepath.Join(dir, "cube.stl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestLoadSTLWeldsVertices(t *testing.T) {
	path := writeCube(t, t.TempDir())

	res, err := Load(context.Background(), path, Options{WeldTolerance: 1e-6})
	require.NoError(t, err)

	assert.Equal(t, "cube", res.Name)
	assert.Equal(t, 12, res.Mesh.FaceCount())
	assert.Equal(t, 8, res.Mesh.VertexCount(), "36 triangle corners weld into 8 vertices")
	assert.Equal(t, []string{path}, res.Sources)
	assert.Len(t, res.Mesh.Components(), 1)
}

func TestLoadUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	src := writeCube(t, dir)
	path := filepath.Join(dir, "CUBE.STL")
	require.NoError(t, os.Rename(src, path))

	res, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Mesh.FaceCount())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(context.Background(), "model.obj", Options{})
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestLoadBrokenSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid x\n  facet normal 0 0 1\n"), 0644))

	_, err := Load(context.Background(), path, Options{})
	assert.ErrorContains(t, err, "failed to parse STL file")
}

func TestLoadSCADWithoutOpenSCAD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.scad")
	require.NoError(t, os.WriteFile(path, []byte("cube(1);\n"), 0644))

	_, err := Load(context.Background(), path, Options{OpenSCAD: "openscad-does-not-exist"})
	assert.ErrorContains(t, err, "failed to render OpenSCAD file")
}

func TestLoadWarnsAboutStoredNormals(t *testing.T) {
	dir := t.TempDir()
	model := meshtest.UnitCube().ToModel("cube")
	model.Triangles[0].Normal = model.Triangles[0].Normal.Mul(-1)
	model.Triangles[1].Normal = geometry.Vector3{}

	var buf bytes.Buffer
	require.NoError(t, stl.WriteASCII(&buf, model))
	path := filepath.Join(dir, "flipped.stl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	_, err := Load(context.Background(), path, Options{WeldTolerance: 1e-6, Log: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("stored normals").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["facets"])

	// a clean file stays quiet
	core, logs = observer.New(zapcore.WarnLevel)
	_, err = Load(context.Background(), writeCube(t, dir), Options{WeldTolerance: 1e-6, Log: zap.New(core)})
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}
