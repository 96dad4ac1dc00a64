// Package frame loads the reference frame that zones are drawn over: a still
// image, or a single snapshot frame taken from a video file.
package frame

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"zone-editor/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for files whose extension is not a known image
// or video format.
var ErrUnsupported = errors.New("unsupported frame format")

var (
	imageFormats = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp"}
	videoFormats = []string{".mp4", ".avi", ".mkv", ".mov", ".webm"}
)

// Frame is a decoded reference frame.
type Frame struct {
	Path  string      // Original file path
	Image image.Image // Decoded pixels
	Video bool        // Taken from a video file
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	if f.Image == nil {
		return 0
	}
	return f.Image.Bounds().Dy()
}

// Size returns the frame dimensions.
func (f *Frame) Size() geometry.Size {
	return geometry.NewSize(float64(f.Width()), float64(f.Height()))
}

// Load reads the frame at path. Video files yield their first decodable frame.
func Load(ctx context.Context, path string) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(imageFormats, ext):
		return loadImage(path)
	case slices.Contains(videoFormats, ext):
		return loadVideo(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

func loadImage(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image %s has no pixels", path)
	}
	return &Frame{Path: path, Image: img}, nil
}

// IsSupportedFormat checks if the given path has a supported image or video extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(imageFormats, ext) || slices.Contains(videoFormats, ext)
}

// SupportedFormats returns every accepted extension.
func SupportedFormats() []string {
	return slices.Concat(imageFormats, videoFormats)
}
