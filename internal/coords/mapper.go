// Package coords converts pointer positions between the display surface and
// the fixed source-frame coordinate space.
package coords

import (
	"errors"
	"fmt"
	"math"

	"zone-editor/pkg/geometry"
)

// ErrSourceNotReady is returned when a conversion is attempted before both the
// display size and the reference-frame size are known.
var ErrSourceNotReady = errors.New("source frame size not known")

// ErrOutsideFrame is returned for a display position in the padding around
// the frame.
var ErrOutsideFrame = errors.New("position outside the source frame")

// ScaleMode selects how the source frame is laid out on the display surface.
type ScaleMode int

const (
	// Stretch maps the frame onto the full display; x and y scale independently.
	Stretch ScaleMode = iota
	// Fit scales uniformly to fit the padded display, never enlarging, centred.
	Fit
)

func (m ScaleMode) String() string {
	switch m {
	case Stretch:
		return "stretch"
	case Fit:
		return "fit"
	default:
		return "unknown"
	}
}

// ParseScaleMode parses "stretch" or "fit".
func ParseScaleMode(s string) (ScaleMode, error) {
	switch s {
	case "stretch", "":
		return Stretch, nil
	case "fit":
		return Fit, nil
	}
	return Stretch, fmt.Errorf("unknown scale mode %q", s)
}

// Mapper is a pure function of the current display and source sizes.
// The zero value is not ready.
type Mapper struct {
	Mode    ScaleMode
	Padding float64       // Fit only: margin kept free on every side, display pixels
	Display geometry.Size // available display area
	Source  geometry.Size // reference frame resolution
}

// Ready reports whether both sizes are known.
func (m Mapper) Ready() bool {
	return !m.Display.Empty() && !m.Source.Empty()
}

// Ratio returns the source units per display pixel along x and y.
func (m Mapper) Ratio() (rx, ry float64, err error) {
	if !m.Ready() {
		return 0, 0, ErrSourceNotReady
	}
	if m.Mode == Fit {
		s := m.fitScale()
		return 1 / s, 1 / s, nil
	}
	return m.Source.Width / m.Display.Width, m.Source.Height / m.Display.Height, nil
}

// fitScale is the display-per-source factor min(availW/srcW, availH/srcH, 1).
func (m Mapper) fitScale() float64 {
	availW := math.Max(1, m.Display.Width-2*m.Padding)
	availH := math.Max(1, m.Display.Height-2*m.Padding)
	return math.Min(math.Min(availW/m.Source.Width, availH/m.Source.Height), 1)
}

// Surface returns the display-space rectangle the frame occupies.
func (m Mapper) Surface() (geometry.Rect, error) {
	if !m.Ready() {
		return geometry.Rect{}, ErrSourceNotReady
	}
	if m.Mode != Fit {
		return geometry.Rect{Width: m.Display.Width, Height: m.Display.Height}, nil
	}
	s := m.fitScale()
	w, h := m.Source.Width*s, m.Source.Height*s
	return geometry.Rect{
		X:      (m.Display.Width - w) / 2,
		Y:      (m.Display.Height - h) / 2,
		Width:  w,
		Height: h,
	}, nil
}

// Inside reports whether a display-space position lies on the frame.
func (m Mapper) Inside(p geometry.Point) bool {
	surf, err := m.Surface()
	return err == nil && surf.Contains(p)
}

// Clamp limits a source-space position to the frame bounds.
func (m Mapper) Clamp(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: math.Max(0, math.Min(m.Source.Width, p.X)),
		Y: math.Max(0, math.Min(m.Source.Height, p.Y)),
	}
}

// ToSource converts a display-space position to source space.
func (m Mapper) ToSource(p geometry.Point) (geometry.Point, error) {
	rx, ry, err := m.Ratio()
	if err != nil {
		return geometry.Point{}, err
	}
	surf, _ := m.Surface()
	return geometry.Point{X: (p.X - surf.X) * rx, Y: (p.Y - surf.Y) * ry}, nil
}

// ToDisplay converts a source-space position to display space.
func (m Mapper) ToDisplay(p geometry.Point) (geometry.Point, error) {
	rx, ry, err := m.Ratio()
	if err != nil {
		return geometry.Point{}, err
	}
	surf, _ := m.Surface()
	return geometry.Point{X: p.X/rx + surf.X, Y: p.Y/ry + surf.Y}, nil
}

// ToSourceLength converts a display-pixel length (a hit radius, a handle size)
// into source units using the x ratio.
func (m Mapper) ToSourceLength(px float64) (float64, error) {
	rx, _, err := m.Ratio()
	if err != nil {
		return 0, err
	}
	return px * rx, nil
}

// ToDisplayLength converts a source-space length into display pixels.
func (m Mapper) ToDisplayLength(src float64) (float64, error) {
	rx, _, err := m.Ratio()
	if err != nil {
		return 0, err
	}
	return src / rx, nil
}
