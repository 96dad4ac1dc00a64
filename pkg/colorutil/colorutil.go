// Package colorutil provides the zone colour palette shared by the renderer and the UI.
package colorutil

import (
	"hash/fnv"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Common overlay colors used throughout the application.
var (
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Amber = color.NRGBA{R: 0xfb, G: 0xbd, B: 0x05, A: 255} // default zone colour
)

// goldenAngle is the hue step in degrees between consecutive class indices.
const goldenAngle = 137.508

// ParseHex parses "#rrggbb" (or "#rgb") into an opaque colour.
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats an opaque colour as "#rrggbb".
func Hex(c color.NRGBA) string {
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// ForIndex returns the palette colour for a numeric class index.
func ForIndex(index int) color.NRGBA {
	hue := math.Mod(float64(index)*goldenAngle, 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsl(hue, 0.85, 0.55).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ForTag returns a stable palette colour for a detection-class tag.
func ForTag(tag string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return ForIndex(int(h.Sum32() % 360))
}

// ForZone picks a zone's colour: an explicit hex value wins, then the first
// class tag, then Amber.
func ForZone(explicit string, tags []string) color.NRGBA {
	if explicit != "" {
		if c, err := ParseHex(explicit); err == nil {
			return c
		}
	}
	if len(tags) > 0 {
		return ForTag(tags[0])
	}
	return Amber
}

// WithAlpha returns c with its alpha replaced by a (0-1).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	c.A = uint8(math.Round(a * 255))
	return c
}
