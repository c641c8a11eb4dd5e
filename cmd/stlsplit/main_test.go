package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlsplit/pkg/stl"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestGenerateInfoSplit(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "generate", "box", "--size", "2,2,2", "--cells", "8", "-o", "box")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote box")
	require.FileExists(t, filepath.Join(dir, "box.stl"))

	out, err = execute(t, "info", "box.stl")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected components: 1")

	plan := "groups:\n  - name: lid\n    rules:\n      - normal: {vector: [0, 0, 1]}\n"
	require.NoError(t, os.WriteFile("plan.yaml", []byte(plan), 0644))

	out, err = execute(t, "split", "box.stl", "--plan", "plan.yaml", "--output", "parts")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote parts.stl")

	f, err := os.Open(filepath.Join(dir, "parts.stl"))
	require.NoError(t, err)
	defer f.Close()
	solids, err := stl.ParseSolids(f)
	require.NoError(t, err)
	require.Len(t, solids, 2)
	assert.Equal(t, "Body", solids[0].Name)
	assert.Equal(t, "lid", solids[1].Name)
}

func TestSplitEmptySelection(t *testing.T) {
	isolate(t)

	_, err := execute(t, "generate", "sphere", "--radius", "1", "--cells", "8", "-o", "ball.stl")
	require.NoError(t, err)

	plan := "groups:\n  - rules:\n      - box: {min: [5, 5, 5], max: [6, 6, 6]}\n"
	require.NoError(t, os.WriteFile("plan.yaml", []byte(plan), 0644))

	_, err = execute(t, "split", "ball.stl", "--plan", "plan.yaml", "--output", "empty")
	assert.ErrorContains(t, err, "nothing to export")
	assert.NoFileExists(t, "empty.stl")
}

func TestSelectFromStdin(t *testing.T) {
	isolate(t)

	_, err := execute(t, "generate", "box", "--size", "2,2,2", "--cells", "8", "-o", "box.stl")
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("normal 0 0 -1\nexport picked --only-selected\nquit\n"))
	rootCmd.SetArgs([]string{"select", "box.stl"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "wrote picked.stl")
	assert.NotContains(t, out.String(), "Body")
	assert.FileExists(t, "picked.stl")
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stlsplit "))
}

func TestFacesCount(t *testing.T) {
	isolate(t)

	_, err := execute(t, "generate", "box", "--size", "2,2,2", "--cells", "8", "-o", "box.stl")
	require.NoError(t, err)

	_, err = execute(t, "faces", "box.stl", "-n", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count must not be negative")

	out, err := execute(t, "faces", "box.stl", "-n", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "First 0 Faces")
	assert.NotContains(t, out, "Face #")

	out, err = execute(t, "faces", "box.stl", "-n", "1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "Face #0:")
}
