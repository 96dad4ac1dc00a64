// Package editor implements the zone annotation state machine: it turns
// pointer input into validated zone geometry and emits notifications.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"zone-editor/internal/coords"
	"zone-editor/internal/zone"
	"zone-editor/pkg/geometry"
)

// Config holds the editor's tunable behaviour. Radii are in display pixels.
type Config struct {
	Kind            zone.Kind
	Completion      Completion
	MaxPoints       int // polygon cap for CompleteAtMaxPoints
	VertexHitRadius float64
	ClosureRadius   float64
	Scale           coords.ScaleMode
	Padding         float64
}

// DefaultConfig returns the free-drawing defaults.
func DefaultConfig() Config {
	return Config{
		Kind:            zone.Polygon,
		Completion:      CompleteOnClosure,
		MaxPoints:       4,
		VertexHitRadius: 10,
		ClosureRadius:   15,
		Scale:           coords.Stretch,
	}
}

// Validate rejects settings the state machine cannot honour.
func (c Config) Validate() error {
	if c.Kind != zone.Polygon && c.Kind != zone.Line {
		return fmt.Errorf("unknown zone kind %d", int(c.Kind))
	}
	if c.Completion == CompleteAtMaxPoints && c.MaxPoints < zone.Polygon.MinPoints() {
		return fmt.Errorf("max points must be at least %d, got %d", zone.Polygon.MinPoints(), c.MaxPoints)
	}
	if c.VertexHitRadius <= 0 || c.ClosureRadius <= 0 {
		return errors.New("hit radii must be positive")
	}
	if c.Padding < 0 {
		return errors.New("padding must not be negative")
	}
	return nil
}

// Editor owns the zone store exclusively and is driven by one pointer event
// at a time. It is not safe for concurrent use.
type Editor struct {
	cfg       Config
	store     *zone.Store
	mapper    coords.Mapper
	logger    *slog.Logger
	listeners map[EventType][]Listener

	mode       Mode
	pending    []geometry.Point
	selected   string
	dragging   int // vertex index, -1 for none
	hovered    int // vertex index, -1 for none
	dragOrigin geometry.Point
	dragMoved  bool
	pointer    *geometry.Point // last pointer position, source space
	created    int             // zones created this session, for default labels
}

// New creates an editor with an empty store. A nil logger discards output.
func New(cfg Config, logger *slog.Logger) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Editor{
		cfg:       cfg,
		store:     zone.NewStore(),
		mapper:    coords.Mapper{Mode: cfg.Scale, Padding: cfg.Padding},
		logger:    logger,
		listeners: make(map[EventType][]Listener),
		dragging:  -1,
		hovered:   -1,
	}, nil
}

// Config returns the current configuration.
func (e *Editor) Config() Config {
	return e.cfg
}

// SetConfig applies new settings. A drawing in progress is discarded when
// the kind or completion policy changes.
func (e *Editor) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if e.mode == ModeDrawing && (cfg.Kind != e.cfg.Kind || cfg.Completion != e.cfg.Completion || cfg.MaxPoints != e.cfg.MaxPoints) {
		e.logger.Debug("discarding drawing after config change", "points", len(e.pending))
		e.pending = nil
		e.mode = ModeIdle
	}
	e.cfg = cfg
	e.mapper.Mode = cfg.Scale
	e.mapper.Padding = cfg.Padding
	e.changed()
	return nil
}

// SetKind switches the drawing mode selector between Polygon and Line.
func (e *Editor) SetKind(kind zone.Kind) error {
	cfg := e.cfg
	cfg.Kind = kind
	return e.SetConfig(cfg)
}

// SetDisplaySize records the display surface size after layout or resize.
func (e *Editor) SetDisplaySize(width, height float64) {
	e.mapper.Display = geometry.NewSize(width, height)
	e.changed()
}

// SetSourceSize records the reference frame resolution once it has loaded.
func (e *Editor) SetSourceSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid source size %vx%v", width, height)
	}
	e.mapper.Source = geometry.NewSize(width, height)
	e.logger.Info("reference frame ready", "width", width, "height", height)
	e.emit(Event{Type: EventFrameLoaded, Width: width, Height: height})
	e.changed()
	return nil
}

// ClearSource forgets the reference frame, e.g. after a failed reload.
// Pointer input is rejected until SetSourceSize is called again.
func (e *Editor) ClearSource() {
	e.reset()
	e.mapper.Source = geometry.Size{}
	e.changed()
}

// Ready reports whether pointer input can be mapped to source space.
func (e *Editor) Ready() bool {
	return e.mapper.Ready()
}

// Mapper returns the current coordinate mapper.
func (e *Editor) Mapper() coords.Mapper {
	return e.mapper
}

// Mode returns the active mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Selected returns the selected zone id, or "" when nothing is selected.
func (e *Editor) Selected() string {
	return e.selected
}

// Pending returns a copy of the in-progress points.
func (e *Editor) Pending() []geometry.Point {
	return geometry.Clone(e.pending)
}

// Zones returns copies of every zone in stored order.
func (e *Editor) Zones() []zone.Zone {
	return e.store.All()
}

// Zone returns a copy of one zone.
func (e *Editor) Zone(id string) (zone.Zone, bool) {
	return e.store.Get(id)
}

// Cursor returns the pointer shape for the current state.
func (e *Editor) Cursor() Cursor {
	switch {
	case e.dragging >= 0:
		return CursorGrabbing
	case e.hovered >= 0:
		return CursorGrab
	case e.selected != "":
		return CursorDefault
	default:
		return CursorCrosshair
	}
}

// LoadZones replaces the zone collection with the one supplied by the
// surrounding application. Any interaction in progress is abandoned.
func (e *Editor) LoadZones(zones []zone.Zone) error {
	if err := e.store.Replace(zones); err != nil {
		return err
	}
	e.reset()
	e.logger.Info("zones loaded", "count", e.store.Len())
	e.emit(Event{Type: EventZonesLoaded})
	e.changed()
	return nil
}

// CreateZone adds a complete zone on behalf of the collaborator.
func (e *Editor) CreateZone(points []geometry.Point, kind zone.Kind, label string, classTags []string) (zone.Zone, error) {
	z, err := e.store.Create(points, kind, label, classTags)
	if err != nil {
		return zone.Zone{}, err
	}
	e.emit(Event{Type: EventZoneCreated, ZoneID: z.ID, Kind: z.Kind, Points: geometry.Clone(z.Points)})
	e.changed()
	return z, nil
}

// Select selects a zone by id; "" deselects. An in-progress drawing is discarded.
func (e *Editor) Select(id string) error {
	if id == "" {
		e.reset()
		e.changed()
		return nil
	}
	if _, ok := e.store.Get(id); !ok {
		return fmt.Errorf("%w: %s", zone.ErrUnknownZone, id)
	}
	e.abandonDrag()
	e.pending = nil
	e.selectZone(id)
	e.changed()
	return nil
}

// DeleteZone removes a zone. Deleting the selected zone deselects it.
func (e *Editor) DeleteZone(id string) error {
	if err := e.store.Remove(id); err != nil {
		return err
	}
	if id == e.selected {
		e.dragging = -1
		e.deselect()
	}
	e.emit(Event{Type: EventZoneDeleted, ZoneID: id})
	e.changed()
	return nil
}

// SetLabel renames a zone.
func (e *Editor) SetLabel(id, label string) error {
	if err := e.store.SetLabel(id, label); err != nil {
		return err
	}
	e.notifyUpdated(id)
	e.changed()
	return nil
}

// SetClassTags assigns the detection-class filters of a zone.
func (e *Editor) SetClassTags(id string, tags []string) error {
	if err := e.store.SetClassTags(id, tags); err != nil {
		return err
	}
	e.notifyUpdated(id)
	e.changed()
	return nil
}

// SetColor sets a zone's display colour.
func (e *Editor) SetColor(id, color string) error {
	if err := e.store.SetColor(id, color); err != nil {
		return err
	}
	e.notifyUpdated(id)
	e.changed()
	return nil
}

// SetZoneMeta renames a zone and replaces its class tags in one update.
func (e *Editor) SetZoneMeta(id, label string, tags []string) error {
	if _, ok := e.store.Get(id); !ok {
		return fmt.Errorf("%w: %s", zone.ErrUnknownZone, id)
	}
	if err := e.store.SetLabel(id, label); err != nil {
		return err
	}
	if err := e.store.SetClassTags(id, tags); err != nil {
		return err
	}
	e.notifyUpdated(id)
	e.changed()
	return nil
}

// UpdatePoints replaces a zone's points on behalf of the collaborator. A drag
// in progress on that zone is dropped where it is.
func (e *Editor) UpdatePoints(id string, points []geometry.Point) error {
	if err := e.store.UpdatePoints(id, points); err != nil {
		return err
	}
	if id == e.selected {
		e.dragging = -1
		e.dragMoved = false
		e.hovered = -1
	}
	e.notifyUpdated(id)
	e.changed()
	return nil
}

// Cancel abandons whatever is in progress: pending points are discarded, a
// dragged vertex returns to where it started and the editor goes Idle.
func (e *Editor) Cancel() {
	e.logger.Debug("cancel", "mode", e.mode)
	e.reset()
	e.changed()
}

func (e *Editor) reset() {
	e.abandonDrag()
	e.pending = nil
	e.hovered = -1
	e.deselect()
}

// abandonDrag restores the dragged vertex without notifying.
func (e *Editor) abandonDrag() {
	if e.dragging < 0 {
		return
	}
	if e.dragMoved {
		if err := e.store.MovePoint(e.selected, e.dragging, e.dragOrigin); err != nil {
			e.logger.Warn("failed to restore dragged vertex", "zone", e.selected, "error", err)
		}
	}
	e.dragging = -1
	e.dragMoved = false
}

func (e *Editor) selectZone(id string) {
	e.dragging = -1
	e.hovered = -1
	e.mode = ModeEditing
	if e.selected == id {
		return
	}
	e.selected = id
	e.logger.Debug("zone selected", "zone", id)
	e.emit(Event{Type: EventZoneSelected, ZoneID: id})
}

func (e *Editor) deselect() {
	e.mode = ModeIdle
	e.hovered = -1
	if e.selected == "" {
		return
	}
	e.selected = ""
	e.logger.Debug("zone deselected")
	e.emit(Event{Type: EventZoneSelected})
}
