package render

import (
	"image/color"

	"zone-editor/pkg/colorutil"
)

// Style controls how zones and the drawing preview are painted. Sizes are
// in display pixels.
type Style struct {
	LineWidth          float64
	HandleSize         float64 // vertex handle diameter
	HoverScale         float64 // handle enlargement when hovered or dragged
	SelectedWidthScale float64
	ShowLabels         bool
	ShowVertexIndices  bool

	StrokeAlpha        float64 // unselected zones
	FillAlpha          float64
	SelectedFillAlpha  float64
	PendingColor       color.NRGBA
	HandleFill         color.NRGBA
	PreviewDash        []float64
	IncompleteZoneDash []float64
}

// DefaultStyle returns the standard overlay look.
func DefaultStyle() Style {
	return Style{
		LineWidth:          2.5,
		HandleSize:         8,
		HoverScale:         1.5,
		SelectedWidthScale: 1.2,
		ShowLabels:         true,

		StrokeAlpha:        0.6,
		FillAlpha:          0.1,
		SelectedFillAlpha:  0.2,
		PendingColor:       colorutil.Amber,
		HandleFill:         colorutil.White,
		PreviewDash:        []float64{6, 4},
		IncompleteZoneDash: []float64{4, 4},
	}
}
