package frame

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"zone-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, A: 255})
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadImage(t *testing.T) {
	path := writePNG(t, 64, 48)

	f, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path)
	assert.False(t, f.Video)
	assert.Equal(t, 64, f.Width())
	assert.Equal(t, 48, f.Height())
	assert.Equal(t, geometry.NewSize(64, 48), f.Size())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))

	_, err := Load(context.Background(), filepath.Join(dir, "frame.txt"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(context.Background(), corrupt)
	assert.Error(t, err)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, writePNG(t, 4, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupportedFormats(t *testing.T) {
	for _, p := range []string{"a.PNG", "b.tiff", "c.webp", "d.mp4", "e.MKV"} {
		assert.True(t, IsSupportedFormat(p), p)
	}
	assert.False(t, IsSupportedFormat("notes.txt"))
	assert.Contains(t, SupportedFormats(), ".bmp")

	var zero Frame
	assert.True(t, zero.Size().Empty())
}
