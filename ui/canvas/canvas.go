// Package canvas provides the zone drawing surface.
package canvas

import (
	"errors"
	"image"

	"zone-editor/internal/app"
	"zone-editor/internal/coords"
	"zone-editor/internal/editor"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// ZoneCanvas shows the reference frame with its zones and feeds mouse input
// to the session. Display coordinates are fyne units relative to the widget.
type ZoneCanvas struct {
	widget.BaseWidget

	session *app.Session
	raster  *fynecanvas.Raster
	size    fyne.Size

	onError func(error) // Pointer errors other than "frame not loaded" and off-frame presses
}

var (
	_ desktop.Mouseable  = (*ZoneCanvas)(nil)
	_ desktop.Hoverable  = (*ZoneCanvas)(nil)
	_ desktop.Cursorable = (*ZoneCanvas)(nil)
)

// NewZoneCanvas creates a canvas bound to the session and redraws it
// whenever the session reports a change.
func NewZoneCanvas(s *app.Session) *ZoneCanvas {
	zc := &ZoneCanvas{session: s}
	zc.raster = fynecanvas.NewRaster(zc.draw)
	zc.raster.SetMinSize(fyne.NewSize(400, 300))
	zc.ExtendBaseWidget(zc)

	s.On(app.EventRedraw, func(interface{}) { zc.Refresh() })
	return zc
}

// OnError sets the callback for rejected pointer input.
func (zc *ZoneCanvas) OnError(callback func(error)) {
	zc.onError = callback
}

// Resize keeps the editor's display size in step with the widget.
func (zc *ZoneCanvas) Resize(size fyne.Size) {
	zc.BaseWidget.Resize(size)
	if size == zc.size {
		return
	}
	zc.size = size
	zc.session.SetDisplaySize(float64(size.Width), float64(size.Height))
}

// draw renders at widget resolution; the raster scales to device pixels.
func (zc *ZoneCanvas) draw(w, h int) image.Image {
	uw, uh := int(zc.size.Width), int(zc.size.Height)
	if uw <= 0 || uh <= 0 {
		uw, uh = w, h
	}
	return zc.session.Image(uw, uh)
}

func pointer(ev *desktop.MouseEvent) editor.PointerEvent {
	pe := editor.PointerEvent{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	if ev.Button == desktop.MouseButtonSecondary {
		pe.Button = editor.ButtonSecondary
	}
	return pe
}

func (zc *ZoneCanvas) report(err error) {
	if err == nil || errors.Is(err, coords.ErrSourceNotReady) || errors.Is(err, coords.ErrOutsideFrame) {
		return
	}
	if zc.onError != nil {
		zc.onError(err)
	}
}

// MouseDown implements desktop.Mouseable.
func (zc *ZoneCanvas) MouseDown(ev *desktop.MouseEvent) {
	zc.report(zc.session.PointerDown(pointer(ev)))
}

// MouseUp implements desktop.Mouseable.
func (zc *ZoneCanvas) MouseUp(ev *desktop.MouseEvent) {
	zc.report(zc.session.PointerUp(pointer(ev)))
}

// MouseIn implements desktop.Hoverable.
func (zc *ZoneCanvas) MouseIn(ev *desktop.MouseEvent) {
	zc.report(zc.session.PointerMove(pointer(ev)))
}

// MouseMoved implements desktop.Hoverable.
func (zc *ZoneCanvas) MouseMoved(ev *desktop.MouseEvent) {
	zc.report(zc.session.PointerMove(pointer(ev)))
}

// MouseOut implements desktop.Hoverable.
func (zc *ZoneCanvas) MouseOut() {
	zc.session.PointerLeave()
}

// Cursor implements desktop.Cursorable. fyne has no grab cursor, so vertex
// handles use the pointer.
func (zc *ZoneCanvas) Cursor() desktop.Cursor {
	switch zc.session.Cursor() {
	case editor.CursorGrab, editor.CursorGrabbing:
		return desktop.PointerCursor
	case editor.CursorCrosshair:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// Refresh redraws the canvas.
func (zc *ZoneCanvas) Refresh() {
	zc.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (zc *ZoneCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &zoneCanvasRenderer{canvas: zc}
}

type zoneCanvasRenderer struct {
	canvas *ZoneCanvas
}

func (r *zoneCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *zoneCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *zoneCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *zoneCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *zoneCanvasRenderer) Destroy() {}
