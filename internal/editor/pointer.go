package editor

import (
	"fmt"

	"zone-editor/internal/coords"
	"zone-editor/internal/zone"
	"zone-editor/pkg/geometry"
)

// PointerDown handles a button press. Before the reference frame is known it
// returns coords.ErrSourceNotReady, and for a press in the padding around the
// frame coords.ErrOutsideFrame; neither changes anything.
func (e *Editor) PointerDown(ev PointerEvent) error {
	if e.mapper.Ready() && !e.mapper.Inside(geometry.Pt(ev.X, ev.Y)) {
		e.logger.Debug("press outside frame ignored", "x", ev.X, "y", ev.Y)
		return coords.ErrOutsideFrame
	}
	p, err := e.track(ev)
	if err != nil {
		return err
	}

	if ev.Button == ButtonSecondary {
		e.secondary()
		e.changed()
		return nil
	}

	switch e.mode {
	case ModeDrawing:
		e.downDrawing(p)
	case ModeEditing:
		e.downEditing(p)
	default:
		e.downIdle(p)
	}
	e.changed()
	return nil
}

// PointerMove updates the elastic preview and hover state, or moves the
// dragged vertex. It never changes the set of zones.
func (e *Editor) PointerMove(ev PointerEvent) error {
	p, err := e.track(ev)
	if err != nil {
		return err
	}

	switch {
	case e.mode == ModeEditing && e.dragging >= 0:
		p = e.mapper.Clamp(p)
		if e.cfg.Completion == CompleteAtMaxPoints {
			p = p.Round()
		}
		if err := e.store.MovePoint(e.selected, e.dragging, p); err != nil {
			e.logger.Warn("drag rejected", "zone", e.selected, "error", err)
			e.dragging = -1
			break
		}
		e.dragMoved = true
		e.hovered = e.dragging
	case e.mode == ModeEditing:
		e.hovered = e.vertexAt(p)
	default:
		e.hovered = -1
	}
	e.changed()
	return nil
}

// PointerUp ends an active drag.
func (e *Editor) PointerUp(ev PointerEvent) error {
	_, err := e.track(ev)
	e.endDrag()
	e.changed()
	return err
}

// PointerLeave is called when the pointer exits the surface. An active drag
// is committed and the elastic preview disappears.
func (e *Editor) PointerLeave() {
	e.endDrag()
	e.pointer = nil
	e.hovered = -1
	e.changed()
}

func (e *Editor) track(ev PointerEvent) (geometry.Point, error) {
	p, err := e.mapper.ToSource(geometry.Pt(ev.X, ev.Y))
	if err != nil {
		e.logger.Debug("pointer event ignored", "error", err)
		return geometry.Point{}, err
	}
	e.pointer = &p
	return p, nil
}

func (e *Editor) downIdle(p geometry.Point) {
	if hit, ok := e.zoneAt(p); ok {
		e.selectZone(hit.ID)
		return
	}
	e.startDrawing(p)
}

func (e *Editor) downEditing(p geometry.Point) {
	e.endDrag()
	sel, ok := e.store.Get(e.selected)
	if !ok {
		// The selection vanished underneath us; behave as if nothing was selected.
		e.deselect()
		e.downIdle(p)
		return
	}

	if idx := e.vertexAt(p); idx >= 0 {
		e.dragging = idx
		e.hovered = idx
		e.dragOrigin = sel.Points[idx]
		e.dragMoved = false
		return
	}

	if !sel.Complete() {
		e.restore(sel, p)
		return
	}

	if hit, ok := e.zoneAt(p); ok {
		e.selectZone(hit.ID)
		return
	}
	e.deselect()
}

// restore appends a point to a selected zone that editing left below its minimum.
func (e *Editor) restore(sel zone.Zone, p geometry.Point) {
	if e.cfg.Completion == CompleteAtMaxPoints {
		p = p.Round()
	}
	if err := e.store.AppendPoint(sel.ID, p); err != nil {
		e.logger.Warn("point rejected", "zone", sel.ID, "error", err)
		return
	}
	e.notifyUpdated(sel.ID)
}

func (e *Editor) startDrawing(p geometry.Point) {
	if e.cfg.Completion == CompleteAtMaxPoints {
		p = p.Round()
	}
	e.mode = ModeDrawing
	e.pending = []geometry.Point{p}
	e.logger.Debug("drawing started", "kind", e.cfg.Kind)
}

func (e *Editor) downDrawing(p geometry.Point) {
	if e.cfg.Completion == CompleteAtMaxPoints {
		p = p.Round()
	}

	if e.cfg.Kind == zone.Line {
		e.pending = append(e.pending, p)
		if len(e.pending) >= zone.Line.MinPoints() {
			e.commit()
		}
		return
	}

	if e.cfg.Completion == CompleteOnClosure && e.nearStart(p) {
		if len(e.pending) < zone.Polygon.MinPoints() {
			e.logger.Debug("closure rejected", "points", len(e.pending))
			return
		}
		e.commit()
		return
	}
	e.pending = append(e.pending, p)
	if e.cfg.Completion == CompleteAtMaxPoints && len(e.pending) >= e.cfg.MaxPoints {
		e.commit()
	}
}

// nearStart reports whether p is a closure attempt: at least two points are
// pending and p lies within the closure radius of the first.
func (e *Editor) nearStart(p geometry.Point) bool {
	if len(e.pending) < 2 {
		return false
	}
	r, err := e.mapper.ToSourceLength(e.cfg.ClosureRadius)
	if err != nil {
		return false
	}
	return geometry.Distance(p, e.pending[0]) <= r
}

func (e *Editor) commit() {
	points := e.pending
	e.pending = nil
	e.mode = ModeIdle

	e.created++
	z, err := e.store.Create(points, e.cfg.Kind, defaultLabel(e.cfg.Kind, e.created), nil)
	if err != nil {
		e.logger.Warn("zone rejected", "kind", e.cfg.Kind, "points", len(points), "error", err)
		return
	}
	e.logger.Info("zone created", "zone", z.ID, "kind", z.Kind, "points", len(z.Points))
	e.emit(Event{Type: EventZoneCreated, ZoneID: z.ID, Kind: z.Kind, Points: geometry.Clone(z.Points)})
}

func (e *Editor) endDrag() {
	if e.dragging < 0 {
		return
	}
	moved := e.dragMoved
	e.dragging = -1
	e.dragMoved = false
	if moved {
		e.notifyUpdated(e.selected)
	}
}

// secondary removes the most recent point of whatever is being edited.
func (e *Editor) secondary() {
	switch e.mode {
	case ModeDrawing:
		e.pending = e.pending[:len(e.pending)-1]
		if len(e.pending) == 0 {
			e.mode = ModeIdle
		}
	case ModeEditing:
		if e.dragging >= 0 {
			return
		}
		removed, err := e.store.RemoveLastPoint(e.selected)
		if err != nil {
			e.logger.Warn("point removal rejected", "zone", e.selected, "error", err)
			return
		}
		if removed {
			e.hovered = -1
			e.notifyUpdated(e.selected)
		}
	}
}

func (e *Editor) notifyUpdated(id string) {
	z, ok := e.store.Get(id)
	if !ok {
		return
	}
	e.emit(Event{Type: EventZoneUpdated, ZoneID: id, Kind: z.Kind, Points: z.Points})
}

// vertexAt returns the index of a vertex of the selected zone under p, or -1.
func (e *Editor) vertexAt(p geometry.Point) int {
	sel, ok := e.store.Get(e.selected)
	if !ok {
		return -1
	}
	r, err := e.mapper.ToSourceLength(e.cfg.VertexHitRadius)
	if err != nil {
		return -1
	}
	idx, _ := geometry.NearestVertex(p, sel.Points, r)
	return idx
}

// zoneAt returns the topmost complete zone whose body contains p. A line's
// body is the band within the vertex hit radius of its segment.
func (e *Editor) zoneAt(p geometry.Point) (zone.Zone, bool) {
	lineBand, err := e.mapper.ToSourceLength(e.cfg.VertexHitRadius)
	if err != nil {
		return zone.Zone{}, false
	}
	return e.store.Topmost(func(z zone.Zone) bool {
		if !z.Complete() {
			return false
		}
		if z.Kind == zone.Line {
			return geometry.SegmentDistance(p, z.Points[0], z.Points[1]) <= lineBand
		}
		return geometry.PointInPolygon(p, z.Points)
	})
}

func defaultLabel(kind zone.Kind, n int) string {
	if kind == zone.Line {
		return fmt.Sprintf("Line %d", n)
	}
	return fmt.Sprintf("Zone %d", n)
}

// Snapshot is an immutable copy of everything the renderer needs.
type Snapshot struct {
	Mode            Mode
	Mapper          coords.Mapper
	Zones           []zone.Zone
	Selected        string
	Hovered         int
	Dragging        int
	Pending         []geometry.Point
	Kind            zone.Kind
	Completion      Completion
	ClosureRadius   float64 // display pixels
	VertexHitRadius float64 // display pixels
	Pointer         *geometry.Point
}

// Snapshot copies the current state for rendering.
func (e *Editor) Snapshot() Snapshot {
	s := Snapshot{
		Mode:            e.mode,
		Mapper:          e.mapper,
		Zones:           e.store.All(),
		Selected:        e.selected,
		Hovered:         e.hovered,
		Dragging:        e.dragging,
		Pending:         geometry.Clone(e.pending),
		Kind:            e.cfg.Kind,
		Completion:      e.cfg.Completion,
		ClosureRadius:   e.cfg.ClosureRadius,
		VertexHitRadius: e.cfg.VertexHitRadius,
	}
	if e.pointer != nil {
		p := *e.pointer
		s.Pointer = &p
	}
	return s
}
