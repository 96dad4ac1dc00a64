// Package config loads and saves the editor's TOML settings file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"zone-editor/internal/coords"
	"zone-editor/internal/editor"
	"zone-editor/internal/render"
	"zone-editor/internal/zone"
)

// Config holds runtime settings. Fields may be loaded from a TOML file and
// overridden by command-line flags.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Display DisplayConfig `toml:"display"`
	Style   StyleConfig   `toml:"style"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig controls drawing and hit-testing. Radii are display pixels.
type EditorConfig struct {
	Kind            string  `toml:"kind"`       // "polygon" or "line"
	Completion      string  `toml:"completion"` // "closure" or "max-points"
	MaxPoints       int     `toml:"max_points"`
	VertexHitRadius float64 `toml:"vertex_hit_radius"`
	ClosureRadius   float64 `toml:"closure_radius"`
}

// DisplayConfig controls how the frame is laid out on the surface.
type DisplayConfig struct {
	Fit     string  `toml:"fit"` // "stretch" or "fit"
	Padding float64 `toml:"padding"`
}

// StyleConfig controls overlay appearance.
type StyleConfig struct {
	LineWidth          float64 `toml:"line_width"`
	HandleSize         float64 `toml:"handle_size"`
	HoverScale         float64 `toml:"hover_scale"`
	SelectedWidthScale float64 `toml:"selected_width_scale"`
	ShowLabels         bool    `toml:"show_labels"`
	ShowVertexIndices  bool    `toml:"show_vertex_indices"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			Kind:            "polygon",
			Completion:      "closure",
			MaxPoints:       4,
			VertexHitRadius: 10,
			ClosureRadius:   15,
		},
		Display: DisplayConfig{
			Fit:     "stretch",
			Padding: 32,
		},
		Style: StyleConfig{
			LineWidth:          2.5,
			HandleSize:         8,
			HoverScale:         1.5,
			SelectedWidthScale: 1.2,
			ShowLabels:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate clamps numeric values to safe ranges and resets unknown names to
// their defaults. The returned error lists every name that was reset.
func (c *Config) Validate() error {
	def := DefaultConfig()
	var errs []error

	c.Editor.Kind = strings.ToLower(strings.TrimSpace(c.Editor.Kind))
	if _, err := zone.ParseKind(c.Editor.Kind); err != nil {
		errs = append(errs, err)
		c.Editor.Kind = def.Editor.Kind
	}
	c.Editor.Completion = strings.ToLower(strings.TrimSpace(c.Editor.Completion))
	if _, err := editor.ParseCompletion(c.Editor.Completion); err != nil {
		errs = append(errs, err)
		c.Editor.Completion = def.Editor.Completion
	}
	if c.Editor.MaxPoints < zone.Polygon.MinPoints() {
		c.Editor.MaxPoints = def.Editor.MaxPoints
	}
	if c.Editor.VertexHitRadius <= 0 {
		c.Editor.VertexHitRadius = def.Editor.VertexHitRadius
	}
	if c.Editor.ClosureRadius <= 0 {
		c.Editor.ClosureRadius = def.Editor.ClosureRadius
	}

	c.Display.Fit = strings.ToLower(strings.TrimSpace(c.Display.Fit))
	if _, err := coords.ParseScaleMode(c.Display.Fit); err != nil {
		errs = append(errs, err)
		c.Display.Fit = def.Display.Fit
	}
	if c.Display.Padding < 0 {
		c.Display.Padding = 0
	}

	if c.Style.LineWidth <= 0 {
		c.Style.LineWidth = def.Style.LineWidth
	}
	if c.Style.HandleSize <= 0 {
		c.Style.HandleSize = def.Style.HandleSize
	}
	if c.Style.HoverScale < 1 {
		c.Style.HoverScale = def.Style.HoverScale
	}
	if c.Style.SelectedWidthScale < 1 {
		c.Style.SelectedWidthScale = def.Style.SelectedWidthScale
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
		c.Log.Level = def.Log.Level
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
		c.Log.Format = def.Log.Format
	}
	return errors.Join(errs...)
}

// Load reads configuration from the given TOML file. A missing file yields
// DefaultConfig(). On a decode error the defaults are returned with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in TOML format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// EditorConfig converts the settings to the editor's configuration.
func (c *Config) EditorConfig() (editor.Config, error) {
	kind, err := zone.ParseKind(c.Editor.Kind)
	if err != nil {
		return editor.Config{}, err
	}
	completion, err := editor.ParseCompletion(c.Editor.Completion)
	if err != nil {
		return editor.Config{}, err
	}
	scale, err := coords.ParseScaleMode(c.Display.Fit)
	if err != nil {
		return editor.Config{}, err
	}
	ec := editor.Config{
		Kind:            kind,
		Completion:      completion,
		MaxPoints:       c.Editor.MaxPoints,
		VertexHitRadius: c.Editor.VertexHitRadius,
		ClosureRadius:   c.Editor.ClosureRadius,
		Scale:           scale,
		Padding:         c.Display.Padding,
	}
	return ec, ec.Validate()
}

// RenderStyle converts the settings to a render style.
func (c *Config) RenderStyle() render.Style {
	st := render.DefaultStyle()
	st.LineWidth = c.Style.LineWidth
	st.HandleSize = c.Style.HandleSize
	st.HoverScale = c.Style.HoverScale
	st.SelectedWidthScale = c.Style.SelectedWidthScale
	st.ShowLabels = c.Style.ShowLabels
	st.ShowVertexIndices = c.Style.ShowVertexIndices
	return st
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
