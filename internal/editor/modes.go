package editor

import "fmt"

// Mode is the editor's single active interaction mode.
type Mode int

const (
	ModeIdle    Mode = iota // nothing selected, nothing being drawn
	ModeDrawing             // collecting points for a new zone
	ModeEditing             // a zone is selected; a vertex may be dragged
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeDrawing:
		return "DRAWING"
	case ModeEditing:
		return "EDITING"
	default:
		return "UNKNOWN"
	}
}

// Completion decides when an in-progress polygon becomes a zone.
type Completion int

const (
	// CompleteOnClosure finishes a polygon when the user clicks near its first point.
	CompleteOnClosure Completion = iota
	// CompleteAtMaxPoints finishes a polygon as soon as it has MaxPoints points.
	CompleteAtMaxPoints
)

func (c Completion) String() string {
	switch c {
	case CompleteOnClosure:
		return "closure"
	case CompleteAtMaxPoints:
		return "max-points"
	default:
		return "unknown"
	}
}

// ParseCompletion parses "closure" or "max-points".
func ParseCompletion(s string) (Completion, error) {
	switch s {
	case "closure", "":
		return CompleteOnClosure, nil
	case "max-points":
		return CompleteAtMaxPoints, nil
	}
	return CompleteOnClosure, fmt.Errorf("unknown completion policy %q", s)
}

// Button identifies which pointer button produced an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// PointerEvent is a pointer position in display pixels.
type PointerEvent struct {
	X, Y   float64
	Button Button
}

// Cursor is the pointer shape the surface should show.
type Cursor int

const (
	CursorCrosshair Cursor = iota
	CursorDefault
	CursorGrab
	CursorGrabbing
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorDefault:
		return "default"
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	default:
		return "unknown"
	}
}
