// Package config handles stlsplit configuration and split plans.
package config

import (
	"fmt"
	"time"

	"github.com/philipparndt/stlsplit/internal/logger"
)

// Config holds all tool settings.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Selection SelectionConfig `yaml:"selection"`
	Export    ExportConfig    `yaml:"export"`
	Watch     WatchConfig     `yaml:"watch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// SelectionConfig holds default rule tolerances.
type SelectionConfig struct {
	NormalTolerance float64 `yaml:"normal_tolerance"`
	AngleTolerance  float64 `yaml:"angle_tolerance"` // degrees
	WeldTolerance   float64 `yaml:"weld_tolerance"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	OnlySelected bool   `yaml:"only_selected"`
	Output       string `yaml:"output"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Selection: SelectionConfig{
			NormalTolerance: 0.02,
			AngleTolerance:  5,
			WeldTolerance:   1e-6,
		},
		Export: ExportConfig{
			Output: "split.stl",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Selection.NormalTolerance < 0 {
		return fmt.Errorf("selection.normal_tolerance must not be negative, got %v", c.Selection.NormalTolerance)
	}
	if c.Selection.WeldTolerance < 0 {
		return fmt.Errorf("selection.weld_tolerance must not be negative, got %v", c.Selection.WeldTolerance)
	}
	if c.Export.Output == "" {
		return fmt.Errorf("export.output must not be empty")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %v", c.Watch.Debounce)
	}
	return nil
}
