// Package raster paints render command lists into RGBA images with gg.
package raster

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font/basicfont"

	"zone-editor/internal/render"
)

// DefaultCacheSize is the number of scaled backgrounds kept per frame.
const DefaultCacheSize = 8

// Canvas colour behind the reference frame.
var backdrop = color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 255}

type scaleKey struct {
	w, h int
}

// Rasterizer holds the reference frame and its resized copies. It is safe
// for concurrent use.
type Rasterizer struct {
	mu         sync.Mutex
	background image.Image
	scaled     *lru.Cache[scaleKey, *image.NRGBA]
}

// New creates a rasterizer that caches up to cacheSize resized backgrounds.
func New(cacheSize int) (*Rasterizer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[scaleKey, *image.NRGBA](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Rasterizer{scaled: c}, nil
}

// SetBackground replaces the reference frame. nil clears it.
func (r *Rasterizer) SetBackground(img image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.background = img
	r.scaled.Purge()
}

// HasBackground reports whether a reference frame is set.
func (r *Rasterizer) HasBackground() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.background != nil
}

// CachedSizes returns the number of resized backgrounds held.
func (r *Rasterizer) CachedSizes() int {
	return r.scaled.Len()
}

// Draw paints cmds onto a fresh width x height image.
func (r *Rasterizer) Draw(cmds []render.Command, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(backdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for _, c := range cmds {
		switch c.Op {
		case render.OpImage:
			if bg := r.scaledBackground(c.Rect.Width, c.Rect.Height); bg != nil {
				dc.DrawImage(bg, int(math.Round(c.Rect.X)), int(math.Round(c.Rect.Y)))
			}
		case render.OpPath:
			drawPath(dc, c)
		case render.OpCircle:
			dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
			paint(dc, c)
		case render.OpText:
			drawText(dc, c)
		}
	}
	return dc.Image().(*image.RGBA)
}

func (r *Rasterizer) scaledBackground(w, h float64) *image.NRGBA {
	key := scaleKey{int(math.Round(w)), int(math.Round(h))}
	if key.w <= 0 || key.h <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.background == nil {
		return nil
	}
	if img, ok := r.scaled.Get(key); ok {
		return img
	}
	img := imaging.Resize(r.background, key.w, key.h, imaging.Linear)
	r.scaled.Add(key, img)
	return img
}

func drawPath(dc *gg.Context, c render.Command) {
	if len(c.Points) == 0 {
		return
	}
	dc.MoveTo(c.Points[0].X, c.Points[0].Y)
	for _, p := range c.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if c.Closed {
		dc.ClosePath()
	}
	paint(dc, c)
}

// paint fills and strokes the current path, then clears it.
func paint(dc *gg.Context, c render.Command) {
	if c.Fill.A > 0 {
		dc.SetColor(c.Fill)
		dc.FillPreserve()
	}
	if c.Stroke.A > 0 && c.Width > 0 {
		dc.SetColor(c.Stroke)
		dc.SetLineWidth(c.Width)
		dc.SetDash(c.Dash...)
		dc.StrokePreserve()
		dc.SetDash()
	}
	dc.ClearPath()
}

func drawText(dc *gg.Context, c render.Command) {
	if c.Text == "" {
		return
	}
	// Dark shadow keeps labels legible over bright frames.
	dc.SetColor(color.NRGBA{A: 200})
	dc.DrawString(c.Text, c.Center.X+1, c.Center.Y+1)
	col := c.Fill
	col.A = 255
	dc.SetColor(col)
	dc.DrawString(c.Text, c.Center.X, c.Center.Y)
}
