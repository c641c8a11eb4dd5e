package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Equal(t, 0.02, cfg.Selection.NormalTolerance)
	assert.Equal(t, 5.0, cfg.Selection.AngleTolerance)
	assert.Equal(t, 1e-6, cfg.Selection.WeldTolerance)
	assert.False(t, cfg.Export.OnlySelected)
	assert.Equal(t, "split.stl", cfg.Export.Output)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
logging:
  level: debug
selection:
  angle_tolerance: 12.5
export:
  only_selected: true
  output: parts.stl
watch:
  debounce: 2s
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := Load(configPath, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 12.5, cfg.Selection.AngleTolerance)
	assert.True(t, cfg.Export.OnlySelected)
	assert.Equal(t, "parts.stl", cfg.Export.Output)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	// untouched keys keep their defaults
	assert.Equal(t, 0.02, cfg.Selection.NormalTolerance)
	assert.Equal(t, 1e-6, cfg.Selection.WeldTolerance)
}

func TestLoadFlagsWin(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  level: warn\n  file: a.log\n"), 0644))

	cfg, err := Load(configPath, Overrides{LogLevel: "error"})
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "a.log", cfg.Logging.File)
}

func TestLoadStandardLocations(t *testing.T) {
	t.Chdir(t.TempDir())
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level, "defaults without any file")

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "stlsplit"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "stlsplit", "config.yaml"), []byte("logging:\n  level: warn\n"), 0644))
	cfg, err = Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)

	require.NoError(t, os.WriteFile("stlsplit.yaml", []byte("logging:\n  level: debug\n"), 0644))
	cfg, err = Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level, "working directory file comes first")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "logging:\n  colour: true\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"negative tolerance", "selection:\n  normal_tolerance: -1\n"},
		{"zero debounce", "watch:\n  debounce: 0s\n"},
		{"invalid yaml", "logging: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path, Overrides{})
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"), Overrides{})
	assert.Error(t, err, "an explicit path must exist")
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Selection.AngleTolerance = 7
	cfg.Watch.Debounce = time.Second
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := Load(path, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
