package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

// Themes lists the theme names the TUI and HTML export know about.
var Themes = []string{"default", "gruvbox", "tokyonight", "catppuccin"}

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	if _, err := c.Heatmap.Thresholds(); err != nil {
		return fmt.Errorf("heatmap: %w", err)
	}
	if !slices.Contains(Themes, c.UI.Theme) {
		return fmt.Errorf("ui.theme must be one of %s (got %q)", strings.Join(Themes, ", "), c.UI.Theme)
	}
	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("log.mode must be dev or prod (got %q)", c.Log.Mode)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0 (got %v)", c.Server.ShutdownTimeout)
	}
	return nil
}

// Thresholds converts the configured levels into classifier thresholds.
func (h HeatmapConfig) Thresholds() (heatmap.Thresholds, error) {
	var t heatmap.Thresholds
	if len(h.Levels) != len(t) {
		return t, fmt.Errorf("levels must have %d values (got %d)", len(t), len(h.Levels))
	}
	copy(t[:], h.Levels)
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}
