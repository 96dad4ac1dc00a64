package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"zone-editor/internal/coords"
	"zone-editor/internal/editor"
	"zone-editor/internal/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone-editor.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[editor]
kind = "line"
closure_radius = 20

[display]
fit = "fit"

[style]
show_vertex_indices = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Editor.Kind)
	assert.Equal(t, 20.0, cfg.Editor.ClosureRadius)
	assert.Equal(t, 10.0, cfg.Editor.VertexHitRadius)
	assert.Equal(t, "fit", cfg.Display.Fit)
	assert.Equal(t, 32.0, cfg.Display.Padding)
	assert.True(t, cfg.Style.ShowLabels)
	assert.True(t, cfg.Style.ShowVertexIndices)

	ec, err := cfg.EditorConfig()
	require.NoError(t, err)
	assert.Equal(t, zone.Line, ec.Kind)
	assert.Equal(t, coords.Fit, ec.Scale)
	assert.Equal(t, 32.0, ec.Padding)
}

func TestLoadBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor\nkind = "), 0o644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidateClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Editor.Kind = "circle"
	cfg.Editor.Completion = "Max-Points"
	cfg.Editor.MaxPoints = 1
	cfg.Editor.VertexHitRadius = -3
	cfg.Display.Fit = "zoom"
	cfg.Display.Padding = -10
	cfg.Style.LineWidth = 0
	cfg.Style.HoverScale = 0.5
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circle")
	assert.Contains(t, err.Error(), "zoom")
	assert.Contains(t, err.Error(), "loud")
	assert.Contains(t, err.Error(), "xml")

	assert.Equal(t, "polygon", cfg.Editor.Kind)
	assert.Equal(t, "max-points", cfg.Editor.Completion)
	assert.Equal(t, 4, cfg.Editor.MaxPoints)
	assert.Equal(t, 10.0, cfg.Editor.VertexHitRadius)
	assert.Equal(t, "stretch", cfg.Display.Fit)
	assert.Equal(t, 0.0, cfg.Display.Padding)
	assert.Equal(t, 2.5, cfg.Style.LineWidth)
	assert.Equal(t, 1.5, cfg.Style.HoverScale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	require.NoError(t, cfg.Validate())
	ec, err := cfg.EditorConfig()
	require.NoError(t, err)
	assert.Equal(t, editor.CompleteAtMaxPoints, ec.Completion)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "zone-editor.toml")
	cfg := DefaultConfig()
	cfg.Editor.Completion = "max-points"
	cfg.Editor.MaxPoints = 6
	cfg.Style.ShowLabels = false
	cfg.Log.Format = "json"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestRenderStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Style.LineWidth = 4
	cfg.Style.ShowVertexIndices = true

	st := cfg.RenderStyle()
	assert.Equal(t, 4.0, st.LineWidth)
	assert.Equal(t, 8.0, st.HandleSize)
	assert.True(t, st.ShowLabels)
	assert.True(t, st.ShowVertexIndices)
	assert.NotEmpty(t, st.PreviewDash)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("")
	assert.Error(t, err)
}
