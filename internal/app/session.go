// Package app ties the editor to its surroundings: reference frame loading,
// zone files, configuration and the event bus the UI listens on.
package app

import (
	"context"
	"fmt"
	goimage "image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"zone-editor/internal/config"
	"zone-editor/internal/editor"
	"zone-editor/internal/frame"
	"zone-editor/internal/raster"
	"zone-editor/internal/render"
	"zone-editor/internal/zone"
	"zone-editor/pkg/geometry"
)

// EventType identifies session-level events.
type EventType int

const (
	EventFrameLoaded      EventType = iota // data: geometry.Size
	EventFrameFailed                       // data: error
	EventZonesChanged                      // data: editor.Event
	EventSelectionChanged                  // data: string zone id, "" for none
	EventConfigReloaded                    // data: *config.Config
	EventModified                          // data: bool
	EventRedraw                            // data: nil
)

func (t EventType) String() string {
	switch t {
	case EventFrameLoaded:
		return "frame_loaded"
	case EventFrameFailed:
		return "frame_failed"
	case EventZonesChanged:
		return "zones_changed"
	case EventSelectionChanged:
		return "selection_changed"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventModified:
		return "modified"
	case EventRedraw:
		return "redraw"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

type queued struct {
	event EventType
	data  interface{}
}

// Session owns one editor and everything around it. It is safe for
// concurrent use; listeners run after the session lock is released, so they
// may call back into the session.
type Session struct {
	mu     sync.Mutex
	cfg    *config.Config
	style  render.Style
	editor *editor.Editor
	raster *raster.Rasterizer
	logger *slog.Logger

	frame     *frame.Frame
	zonesPath string
	modified  bool

	listenerMu sync.RWMutex
	listeners  map[EventType][]EventListener
	queue      []queued
}

// NewSession creates a session from configuration. A nil logger discards output.
func NewSession(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ec, err := cfg.EditorConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid editor config: %w", err)
	}
	ed, err := editor.New(ec, logger.With("component", "editor"))
	if err != nil {
		return nil, err
	}
	rs, err := raster.New(raster.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		style:     cfg.RenderStyle(),
		editor:    ed,
		raster:    rs,
		logger:    logger,
		listeners: make(map[EventType][]EventListener),
	}
	s.forward()
	return s, nil
}

// forward translates editor notifications into queued session events.
func (s *Session) forward() {
	zoneChange := func(ev editor.Event) {
		s.enqueue(EventZonesChanged, ev)
		s.setModified(true)
	}
	s.editor.On(editor.EventZoneCreated, zoneChange)
	s.editor.On(editor.EventZoneUpdated, zoneChange)
	s.editor.On(editor.EventZoneDeleted, zoneChange)
	s.editor.On(editor.EventZonesLoaded, func(ev editor.Event) {
		s.enqueue(EventZonesChanged, ev)
	})
	s.editor.On(editor.EventZoneSelected, func(ev editor.Event) {
		s.enqueue(EventSelectionChanged, ev.ZoneID)
	})
	s.editor.On(editor.EventFrameLoaded, func(ev editor.Event) {
		s.enqueue(EventFrameLoaded, geometry.NewSize(ev.Width, ev.Height))
	})
	s.editor.On(editor.EventChanged, func(editor.Event) {
		// Collapse consecutive redraw requests.
		if n := len(s.queue); n > 0 && s.queue[n-1].event == EventRedraw {
			return
		}
		s.enqueue(EventRedraw, nil)
	})
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.listenerMu.RLock()
	listeners := s.listeners[event]
	s.listenerMu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *Session) enqueue(event EventType, data interface{}) {
	s.queue = append(s.queue, queued{event: event, data: data})
}

// unlock releases the session lock and delivers events queued while it was held.
func (s *Session) unlock() {
	pending := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, q := range pending {
		s.Emit(q.event, q.data)
	}
}

// LoadFrame loads the reference frame. On failure the editor is left without
// a source size and EventFrameFailed is emitted; the error is returned.
func (s *Session) LoadFrame(ctx context.Context, path string) error {
	f, err := frame.Load(ctx, path)

	s.mu.Lock()
	defer s.unlock()
	if err != nil {
		s.logger.Error("failed to load frame", "path", path, "error", err)
		s.frame = nil
		s.raster.SetBackground(nil)
		s.editor.ClearSource()
		s.enqueue(EventFrameFailed, err)
		return err
	}
	s.frame = f
	s.raster.SetBackground(f.Image)
	return s.editor.SetSourceSize(float64(f.Width()), float64(f.Height()))
}

// FramePath returns the path of the loaded frame, or "".
func (s *Session) FramePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return ""
	}
	return s.frame.Path
}

// LoadZones replaces the zones with those stored in a JSON file.
func (s *Session) LoadZones(path string) error {
	zones, err := zone.LoadFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.unlock()
	if err := s.editor.LoadZones(zones); err != nil {
		return fmt.Errorf("failed to load zones from %s: %w", path, err)
	}
	s.zonesPath = path
	s.setModified(false)
	return nil
}

// SaveZones writes all zones to a JSON file. An empty path reuses the last
// loaded or saved one.
func (s *Session) SaveZones(path string) error {
	s.mu.Lock()
	defer s.unlock()
	if path == "" {
		path = s.zonesPath
	}
	if path == "" {
		return fmt.Errorf("no zones file selected")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create zones file: %w", err)
	}
	defer f.Close()
	if err := zone.Encode(f, s.editor.Zones()); err != nil {
		return fmt.Errorf("failed to write zones: %w", err)
	}
	s.zonesPath = path
	s.setModified(false)
	s.logger.Info("zones saved", "path", path, "count", len(s.editor.Zones()))
	return nil
}

// ZonesPath returns the current zones file, or "".
func (s *Session) ZonesPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zonesPath
}

// Modified reports whether zones changed since the last load or save.
func (s *Session) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}

func (s *Session) setModified(modified bool) {
	if s.modified == modified {
		return
	}
	s.modified = modified
	s.enqueue(EventModified, modified)
}

// Config returns the active configuration.
func (s *Session) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// ApplyConfig switches to new settings without touching the zones.
func (s *Session) ApplyConfig(cfg *config.Config) error {
	ec, err := cfg.EditorConfig()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.unlock()
	if err := s.editor.SetConfig(ec); err != nil {
		return err
	}
	s.cfg = cfg
	s.style = cfg.RenderStyle()
	s.logger.Info("config applied", "kind", cfg.Editor.Kind, "completion", cfg.Editor.Completion, "fit", cfg.Display.Fit)
	s.enqueue(EventConfigReloaded, cfg)
	s.enqueue(EventRedraw, nil)
	return nil
}

// SetKind switches between drawing polygons and lines.
func (s *Session) SetKind(kind zone.Kind) error {
	s.mu.Lock()
	defer s.unlock()
	if err := s.editor.SetKind(kind); err != nil {
		return err
	}
	s.cfg.Editor.Kind = kind.String()
	return nil
}

// Kind returns the current drawing kind.
func (s *Session) Kind() zone.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Config().Kind
}

// SetDisplaySize records the surface size after layout or resize.
func (s *Session) SetDisplaySize(width, height float64) {
	s.mu.Lock()
	defer s.unlock()
	s.editor.SetDisplaySize(width, height)
}

// PointerDown forwards a button press to the editor.
func (s *Session) PointerDown(ev editor.PointerEvent) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.PointerDown(ev)
}

// PointerMove forwards pointer motion to the editor.
func (s *Session) PointerMove(ev editor.PointerEvent) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.PointerMove(ev)
}

// PointerUp forwards a button release to the editor.
func (s *Session) PointerUp(ev editor.PointerEvent) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.PointerUp(ev)
}

// PointerLeave tells the editor the pointer left the surface.
func (s *Session) PointerLeave() {
	s.mu.Lock()
	defer s.unlock()
	s.editor.PointerLeave()
}

// Cancel abandons the drawing or drag in progress.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.unlock()
	s.editor.Cancel()
}

// Select selects a zone by id, "" for none.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.Select(id)
}

// DeleteSelected removes the selected zone, if any.
func (s *Session) DeleteSelected() error {
	s.mu.Lock()
	defer s.unlock()
	id := s.editor.Selected()
	if id == "" {
		return nil
	}
	return s.editor.DeleteZone(id)
}

// SetLabel renames a zone.
func (s *Session) SetLabel(id, label string) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.SetLabel(id, label)
}

// SetClassTags assigns detection-class filters to a zone.
func (s *Session) SetClassTags(id string, tags []string) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.SetClassTags(id, tags)
}

// SetZoneMeta renames a zone and assigns its class tags as one change.
func (s *Session) SetZoneMeta(id, label string, tags []string) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.SetZoneMeta(id, label, tags)
}

// UpdatePoints replaces a zone's geometry.
func (s *Session) UpdatePoints(id string, points []geometry.Point) error {
	s.mu.Lock()
	defer s.unlock()
	return s.editor.UpdatePoints(id, points)
}

// Zones returns copies of all zones.
func (s *Session) Zones() []zone.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Zones()
}

// Selected returns the selected zone id, or "".
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Selected()
}

// Mode returns the editor mode.
func (s *Session) Mode() editor.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Mode()
}

// Cursor returns the pointer shape hint.
func (s *Session) Cursor() editor.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Cursor()
}

// Commands returns the drawing commands for the current state.
func (s *Session) Commands() []render.Command {
	s.mu.Lock()
	sc := render.Scene{
		State:      s.editor.Snapshot(),
		Background: s.raster.HasBackground(),
		Style:      s.style,
	}
	s.mu.Unlock()
	return render.Render(sc)
}

// Image renders the current state into a width x height image.
func (s *Session) Image(width, height int) *goimage.RGBA {
	return s.raster.Draw(s.Commands(), width, height)
}
