// Package render turns an editor snapshot into a display-space command list.
// Render is a pure function: the same scene always yields the same commands.
package render

import (
	"strconv"

	"zone-editor/internal/coords"
	"zone-editor/internal/editor"
	"zone-editor/internal/zone"
	"zone-editor/pkg/colorutil"
	"zone-editor/pkg/geometry"
)

// labelOffset places zone labels up and to the right of the first vertex.
var labelOffset = geometry.Pt(6, -6)

// Scene is everything a frame is derived from.
type Scene struct {
	State      editor.Snapshot
	Background bool // a reference frame is available to draw
	Style      Style
}

// Render produces the drawing commands for one frame: background, committed
// zones, the in-progress preview, then pending vertex markers. Nothing is
// drawn until the source size is known.
func Render(sc Scene) []Command {
	m := sc.State.Mapper
	surface, err := m.Surface()
	if err != nil {
		return nil
	}

	var cmds []Command
	if sc.Background {
		cmds = append(cmds, Command{Op: OpImage, Rect: surface})
	}

	var selected *zone.Zone
	for i := range sc.State.Zones {
		z := &sc.State.Zones[i]
		if z.ID == sc.State.Selected {
			selected = z
			continue
		}
		cmds = append(cmds, zoneCommands(m, z, false, sc.Style)...)
	}
	// The selected zone is drawn last so its handles are never covered.
	if selected != nil {
		cmds = append(cmds, zoneCommands(m, selected, true, sc.Style)...)
		cmds = append(cmds, handleCommands(m, selected, sc.State.Hovered, sc.State.Dragging, sc.Style)...)
	}

	cmds = append(cmds, previewCommands(sc.State, sc.Style)...)
	return cmds
}

func zoneCommands(m coords.Mapper, z *zone.Zone, selected bool, st Style) []Command {
	if len(z.Points) == 0 {
		return nil
	}
	pts := toDisplay(m, z.Points)
	base := colorutil.ForZone(z.Color, z.ClassTags)

	stroke := colorutil.WithAlpha(base, st.StrokeAlpha)
	fill := colorutil.WithAlpha(base, st.FillAlpha)
	width := st.LineWidth
	if selected {
		stroke = base
		fill = colorutil.WithAlpha(base, st.SelectedFillAlpha)
		width *= st.SelectedWidthScale
	}

	var cmds []Command
	switch {
	case !z.Complete():
		cmds = append(cmds, Command{Op: OpPath, Points: pts, Stroke: stroke, Width: width, Dash: st.IncompleteZoneDash, ZoneID: z.ID})
	case z.Kind == zone.Polygon:
		cmds = append(cmds, Command{Op: OpPath, Points: pts, Closed: true, Fill: fill, Stroke: stroke, Width: width, ZoneID: z.ID})
	default:
		cmds = append(cmds, Command{Op: OpPath, Points: pts, Stroke: stroke, Width: width, ZoneID: z.ID})
		// Direction marker at the line's start.
		cmds = append(cmds, Command{Op: OpCircle, Center: pts[0], Radius: width * 1.5, Fill: stroke, ZoneID: z.ID})
	}

	if st.ShowLabels && z.Label != "" {
		cmds = append(cmds, Command{Op: OpText, Center: pts[0].Add(labelOffset), Text: z.Label, Fill: stroke, ZoneID: z.ID})
	}
	return cmds
}

func handleCommands(m coords.Mapper, z *zone.Zone, hovered, dragging int, st Style) []Command {
	base := colorutil.ForZone(z.Color, z.ClassTags)
	pts := toDisplay(m, z.Points)
	cmds := make([]Command, 0, len(pts))
	for i, p := range pts {
		r := st.HandleSize / 2
		if i == hovered || i == dragging {
			r *= st.HoverScale
		}
		cmds = append(cmds, Command{Op: OpCircle, Center: p, Radius: r, Fill: st.HandleFill, Stroke: base, Width: st.LineWidth / 2, ZoneID: z.ID})
		if st.ShowVertexIndices {
			cmds = append(cmds, Command{Op: OpText, Center: p.Add(geometry.Pt(r+2, r+10)), Text: strconv.Itoa(i + 1), Fill: base, ZoneID: z.ID})
		}
	}
	return cmds
}

func previewCommands(s editor.Snapshot, st Style) []Command {
	if s.Mode != editor.ModeDrawing || len(s.Pending) == 0 {
		return nil
	}
	m := s.Mapper
	pts := toDisplay(m, s.Pending)
	col := st.PendingColor

	var cmds []Command
	if len(pts) > 1 {
		cmds = append(cmds, Command{Op: OpPath, Points: pts, Stroke: col, Width: st.LineWidth})
	}

	if s.Pointer != nil {
		end, _ := m.ToDisplay(*s.Pointer)
		if snapsToFirst(s) {
			end = pts[0]
			cmds = append(cmds, Command{Op: OpCircle, Center: pts[0], Radius: s.ClosureRadius, Stroke: colorutil.WithAlpha(col, 0.5), Width: 1})
		}
		last := pts[len(pts)-1]
		cmds = append(cmds, Command{Op: OpPath, Points: []geometry.Point{last, end}, Stroke: col, Width: st.LineWidth, Dash: st.PreviewDash})
	}

	for i, p := range pts {
		c := Command{Op: OpCircle, Center: p, Radius: st.HandleSize / 2, Fill: col}
		if i == 0 {
			c.Stroke = st.HandleFill
			c.Width = 1.5
		}
		cmds = append(cmds, c)
	}
	return cmds
}

// snapsToFirst reports whether the elastic segment should end on the first
// pending point, using the same test the editor applies for closure.
func snapsToFirst(s editor.Snapshot) bool {
	if s.Kind != zone.Polygon || s.Completion != editor.CompleteOnClosure || s.Pointer == nil {
		return false
	}
	if len(s.Pending) < zone.Polygon.MinPoints() {
		return false
	}
	r, err := s.Mapper.ToSourceLength(s.ClosureRadius)
	if err != nil {
		return false
	}
	return geometry.Distance(*s.Pointer, s.Pending[0]) <= r
}

func toDisplay(m coords.Mapper, pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i], _ = m.ToDisplay(p)
	}
	return out
}
