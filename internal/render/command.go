package render

import (
	"image/color"

	"zone-editor/pkg/geometry"
)

// Op identifies the kind of a drawing command.
type Op int

const (
	OpImage  Op = iota // background image stretched into Rect
	OpPath             // polyline through Points, closed if Closed
	OpCircle           // circle at Center with Radius
	OpText             // Text anchored at Center (baseline left)
)

func (o Op) String() string {
	switch o {
	case OpImage:
		return "image"
	case OpPath:
		return "path"
	case OpCircle:
		return "circle"
	case OpText:
		return "text"
	default:
		return "unknown"
	}
}

// Command is one display-space drawing instruction. A zero Fill or Stroke
// alpha means that part is not painted.
type Command struct {
	Op     Op
	Rect   geometry.Rect
	Points []geometry.Point
	Closed bool
	Center geometry.Point
	Radius float64
	Text   string

	Fill   color.NRGBA
	Stroke color.NRGBA
	Width  float64
	Dash   []float64

	ZoneID string // owning zone, empty for previews and background
}
