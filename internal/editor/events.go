package editor

import (
	"encoding/json"

	"zone-editor/internal/zone"
	"zone-editor/pkg/geometry"
)

// EventType identifies a notification emitted to collaborators.
type EventType int

const (
	EventZoneCreated  EventType = iota // ZoneID, Kind, Points
	EventZoneSelected                  // ZoneID, empty when deselected
	EventZoneUpdated                   // ZoneID, Points
	EventZoneDeleted                   // ZoneID
	EventFrameLoaded                   // Width, Height
	EventChanged                       // state changed; redraw
	EventZonesLoaded                   // the whole collection was replaced
)

func (t EventType) String() string {
	switch t {
	case EventZoneCreated:
		return "zone_created"
	case EventZoneSelected:
		return "zone_selected"
	case EventZoneUpdated:
		return "zone_updated"
	case EventZoneDeleted:
		return "zone_deleted"
	case EventFrameLoaded:
		return "frame_loaded"
	case EventChanged:
		return "changed"
	case EventZonesLoaded:
		return "zones_loaded"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a notification payload. Points is always a private copy.
type Event struct {
	Type   EventType        `json:"type"`
	ZoneID string           `json:"zone_id,omitempty"`
	Kind   zone.Kind        `json:"kind"`
	Points []geometry.Point `json:"points,omitempty"`
	Width  float64          `json:"width,omitempty"`
	Height float64          `json:"height,omitempty"`
}

// MarshalJSON writes the kind only for events that carry a zone's geometry.
func (ev Event) MarshalJSON() ([]byte, error) {
	type plain Event
	out := struct {
		plain
		Kind *zone.Kind `json:"kind,omitempty"`
	}{plain: plain(ev)}
	if ev.Type == EventZoneCreated || ev.Type == EventZoneUpdated {
		out.Kind = &ev.Kind
	}
	return json.Marshal(out)
}

// Listener is called synchronously when an event occurs.
type Listener func(Event)

// On registers a listener for the specified event type.
func (e *Editor) On(t EventType, l Listener) {
	e.listeners[t] = append(e.listeners[t], l)
}

func (e *Editor) emit(ev Event) {
	for _, l := range e.listeners[ev.Type] {
		l(ev)
	}
}

func (e *Editor) changed() {
	e.emit(Event{Type: EventChanged})
}
