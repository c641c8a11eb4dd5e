package session

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/stlsplit/pkg/mesh/meshtest"
	"github.com/philipparndt/stlsplit/pkg/selection"
)

func runScript(t *testing.T, s *Session, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	sh := NewShell(s, &out)
	require.NoError(t, sh.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n"))))
	return out.String()
}

func TestShellScript(t *testing.T) {
	s := newCubeSession()
	path := filepath.Join(t.TempDir(), "parts")

	out := runScript(t, s,
		"# select the lid first",
		"normal 0 0 1",
		"",
		"new lid",
		"mode grow --angle 1",
		"pick 4",
		"status",
		"export "+path,
		"quit",
		"pick 0",
	)

	assert.Contains(t, out, "2 faces, 2 new in Group 1")
	assert.Contains(t, out, "active group 1: lid")
	assert.Contains(t, out, "mode grow, angle tolerance 1.00°")
	assert.Contains(t, out, "face 4: region of 2 faces, 2 new in lid")
	assert.Contains(t, out, "total selected: 4")
	assert.Contains(t, out, "wrote "+path+".stl")
	assert.NotContains(t, out, "error:")

	// lines after quit are not executed
	assert.Equal(t, 4, s.State().TotalSelected())
	assert.Equal(t, ModeGrow, s.Mode())
	assert.Equal(t, 1.0, s.AngleTolerance())
}

func TestShellNegativeComponents(t *testing.T) {
	s := newCubeSession()

	out := runScript(t, s, "normal 0 -1 0", "new", "box -1 -1 -1 2 2 0.1")
	assert.NotContains(t, out, "error:")

	groups := s.State().Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, []int{meshtest.CubeFront0, meshtest.CubeFront1}, groups[0].Members())
	assert.Equal(t, []int{meshtest.CubeBottom0, meshtest.CubeBottom1}, groups[1].Members())
}

func TestShellFlagsDoNotLeak(t *testing.T) {
	s := newCubeSession()

	runScript(t, s, "normal --tolerance 2 0 0 1", "new", "normal 0 0 1")

	groups := s.State().Groups()
	require.Len(t, groups, 2)
	// every side but the anti-parallel bottom is within a cosine gap of 2
	assert.Equal(t, 10, groups[0].Len())
	assert.Equal(t, 2, groups[1].Len())
}

func TestShellErrorsContinue(t *testing.T) {
	s := newCubeSession()

	out := runScript(t, s,
		"pick 99",
		"pick x",
		"use 3",
		"bogus",
		"mode paint",
		"box 1 2 3",
		"export out.stl",
		"pick 2",
	)

	assert.Contains(t, out, "error: face index 99 out of range [0, 12)")
	assert.Contains(t, out, `error: invalid face index "x"`)
	assert.Contains(t, out, "error: group index 3 out of range [0, 0)")
	assert.Contains(t, out, `error: unknown command "bogus"`)
	assert.Contains(t, out, `error: unknown mode "paint"`)
	assert.Contains(t, out, "error: accepts 6 arg(s), received 3")
	assert.Contains(t, out, "error: nothing to export")
	assert.Contains(t, out, "face 2 added to Group 1")
	assert.Equal(t, 1, s.State().TotalSelected())
}

func TestShellRejectsBadInput(t *testing.T) {
	s := newCubeSession()

	out := runScript(t, s,
		"normal 0 0 1 -t -1",
		"new lid\a",
		"new lid",
		"rename top\x00",
	)

	assert.Contains(t, out, "error: tolerance must not be negative, got -1")
	assert.Contains(t, out, `error: solid name "lid\a" contains control character U+0007`)
	assert.Contains(t, out, `error: solid name "top\x00" contains control character U+0000`)
	assert.Equal(t, 0, s.State().TotalSelected())
	require.Equal(t, 1, s.State().Len())
	assert.Equal(t, "lid", s.State().Groups()[0].Name)
}

func TestShellGroupNavigation(t *testing.T) {
	s := newCubeSession()

	out := runScript(t, s,
		"next",
		"pick 0",
		"new",
		"new",
		"pick 1",
		"next",
		"rename base",
		"pick 0",
		"use 1",
		"clear",
	)

	assert.Contains(t, out, "no groups")
	assert.Contains(t, out, "cleared Group 2")

	groups := s.State().Groups()
	require.Len(t, groups, 2, "new reuses an empty active group")
	assert.Equal(t, "base", groups[0].Name)
	assert.True(t, groups[0].Empty(), "toggling face 0 again removed it")
	assert.True(t, groups[1].Empty())
	assert.Equal(t, 1, s.State().ActiveID())
}

func TestEscapeNegativeNumbers(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"box -1 -1 -1 1 1 1", "box -- -1 -1 -1 1 1 1"},
		{"normal 0 -1 0", "normal 0 -- -1 0"},
		{"normal --tolerance 0.5 0 0 -1", "normal --tolerance 0.5 0 0 -- -1"},
		{"grow 3 --angle -1", "grow 3 --angle -1"},
		{"box -- -1 0 0 1 1 1", "box -- -1 0 0 1 1 1"},
		{"pick 1 2", "pick 1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := escapeNegativeNumbers(strings.Fields(tt.in))
			assert.Equal(t, tt.expected, strings.Join(got, " "))
		})
	}
}

func TestShellStatusJSON(t *testing.T) {
	s := newCubeSession()

	out := runScript(t, s, "pick 3 2", "status --json")

	var snap selection.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out[strings.Index(out, "{"):]), &snap))
	assert.Equal(t, 0, snap.Active)
	assert.Equal(t, 2, snap.Total)
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, []int{2, 3}, snap.Groups[0].Faces)
}

func TestShellStopsOnCancel(t *testing.T) {
	s := newCubeSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := NewShell(s, &out).Run(ctx, strings.NewReader("pick 0\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.State().TotalSelected())
}

func TestShellPrompt(t *testing.T) {
	var out bytes.Buffer
	sh := NewShell(newCubeSession(), &out)
	sh.Prompt = "> "

	require.NoError(t, sh.Run(context.Background(), strings.NewReader("mode\n")))
	assert.Equal(t, "> mode toggle, angle tolerance 5.00°\n> ", out.String())
}
