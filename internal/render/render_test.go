package render

import (
	"testing"

	"zone-editor/internal/editor"
	"zone-editor/internal/zone"
	"zone-editor/pkg/colorutil"
	"zone-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T) *editor.Editor {
	t.Helper()
	e, err := editor.New(editor.DefaultConfig(), nil)
	require.NoError(t, err)
	e.SetDisplaySize(200, 200)
	require.NoError(t, e.SetSourceSize(400, 400))
	return e
}

func down(t *testing.T, e *editor.Editor, x, y float64) {
	t.Helper()
	require.NoError(t, e.PointerDown(editor.PointerEvent{X: x, Y: y}))
	require.NoError(t, e.PointerUp(editor.PointerEvent{X: x, Y: y}))
}

func scene(e *editor.Editor) Scene {
	return Scene{State: e.Snapshot(), Background: true, Style: DefaultStyle()}
}

func ops(cmds []Command) []Op {
	out := make([]Op, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

func TestNothingBeforeFrame(t *testing.T) {
	e, err := editor.New(editor.DefaultConfig(), nil)
	require.NoError(t, err)
	e.SetDisplaySize(200, 200)
	assert.Empty(t, Render(scene(e)))
}

func TestBackgroundFirst(t *testing.T) {
	e := newEditor(t)
	cmds := Render(scene(e))
	require.Len(t, cmds, 1)
	assert.Equal(t, OpImage, cmds[0].Op)
	assert.Equal(t, geometry.Rect{Width: 200, Height: 200}, cmds[0].Rect)

	sc := scene(e)
	sc.Background = false
	assert.Empty(t, Render(sc))
}

func TestIdempotent(t *testing.T) {
	e := newEditor(t)
	_, err := e.CreateZone([]geometry.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 200}}, zone.Polygon, "a", []string{"car"})
	require.NoError(t, err)
	down(t, e, 20, 150)
	down(t, e, 150, 20)
	down(t, e, 180, 180)
	require.NoError(t, e.PointerMove(editor.PointerEvent{X: 120, Y: 150}))

	sc := scene(e)
	first := Render(sc)
	second := Render(sc)
	assert.Equal(t, first, second)
	assert.Equal(t, first, Render(scene(e)))
}

func TestZonesInDisplaySpace(t *testing.T) {
	e := newEditor(t)
	z, err := e.CreateZone([]geometry.Point{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 200}}, zone.Polygon, "entry", nil)
	require.NoError(t, err)

	cmds := Render(scene(e))
	require.Equal(t, []Op{OpImage, OpPath, OpText}, ops(cmds))

	path := cmds[1]
	assert.True(t, path.Closed)
	assert.Equal(t, z.ID, path.ZoneID)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}, path.Points)
	assert.Equal(t, colorutil.WithAlpha(colorutil.Amber, 0.6), path.Stroke)
	assert.Equal(t, "entry", cmds[2].Text)
}

func TestSelectedZoneEmphasisAndHandles(t *testing.T) {
	e := newEditor(t)
	a, err := e.CreateZone([]geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}, zone.Polygon, "", nil)
	require.NoError(t, err)
	_, err = e.CreateZone([]geometry.Point{{X: 200, Y: 200}, {X: 300, Y: 200}, {X: 300, Y: 300}}, zone.Polygon, "", nil)
	require.NoError(t, err)
	require.NoError(t, e.Select(a.ID))
	// Hover vertex 1, at display (50,0).
	require.NoError(t, e.PointerMove(editor.PointerEvent{X: 49, Y: 2}))

	st := DefaultStyle()
	cmds := Render(scene(e))
	require.Equal(t, []Op{OpImage, OpPath, OpPath, OpCircle, OpCircle, OpCircle}, ops(cmds))

	sel := cmds[2]
	assert.Equal(t, a.ID, sel.ZoneID)
	assert.Equal(t, colorutil.Amber, sel.Stroke)
	assert.InDelta(t, st.LineWidth*st.SelectedWidthScale, sel.Width, 1e-9)
	assert.Greater(t, sel.Fill.A, cmds[1].Fill.A)

	assert.InDelta(t, st.HandleSize/2, cmds[3].Radius, 1e-9)
	assert.InDelta(t, st.HandleSize/2*st.HoverScale, cmds[4].Radius, 1e-9)
	assert.InDelta(t, st.HandleSize/2, cmds[5].Radius, 1e-9)
}

func TestDegenerateZoneNotClosed(t *testing.T) {
	e := newEditor(t)
	z, err := e.CreateZone([]geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}, zone.Polygon, "", nil)
	require.NoError(t, err)
	require.NoError(t, e.Select(z.ID))
	require.NoError(t, e.PointerDown(editor.PointerEvent{X: 150, Y: 150, Button: editor.ButtonSecondary}))

	cmds := Render(scene(e))
	require.Equal(t, OpPath, cmds[1].Op)
	assert.False(t, cmds[1].Closed)
	assert.Zero(t, cmds[1].Fill.A)
	assert.NotEmpty(t, cmds[1].Dash)
}

func TestLinePreviewAndMarkers(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.SetKind(zone.Line))
	down(t, e, 10, 10)
	require.NoError(t, e.PointerMove(editor.PointerEvent{X: 60, Y: 40}))

	cmds := Render(scene(e))
	require.Equal(t, []Op{OpImage, OpPath, OpCircle}, ops(cmds))
	assert.Equal(t, []geometry.Point{{X: 10, Y: 10}, {X: 60, Y: 40}}, cmds[1].Points)
	assert.NotEmpty(t, cmds[1].Dash)
	assert.Equal(t, geometry.Pt(10, 10), cmds[2].Center)
}

func TestPreviewSnapsToFirstPoint(t *testing.T) {
	e := newEditor(t)
	down(t, e, 10, 10)
	down(t, e, 100, 10)
	down(t, e, 100, 100)

	require.NoError(t, e.PointerMove(editor.PointerEvent{X: 50, Y: 80}))
	cmds := Render(scene(e))
	elastic := findDashed(t, cmds)
	assert.Equal(t, []geometry.Point{{X: 100, Y: 100}, {X: 50, Y: 80}}, elastic.Points)

	require.NoError(t, e.PointerMove(editor.PointerEvent{X: 14, Y: 12}))
	cmds = Render(scene(e))
	elastic = findDashed(t, cmds)
	assert.Equal(t, []geometry.Point{{X: 100, Y: 100}, {X: 10, Y: 10}}, elastic.Points)

	// Pending path, closure ring, elastic segment, three markers.
	assert.Equal(t, []Op{OpImage, OpPath, OpCircle, OpPath, OpCircle, OpCircle, OpCircle}, ops(cmds))
}

func TestPreviewWithoutPointer(t *testing.T) {
	e := newEditor(t)
	down(t, e, 10, 10)
	down(t, e, 100, 10)
	e.PointerLeave()

	cmds := Render(scene(e))
	assert.Equal(t, []Op{OpImage, OpPath, OpCircle, OpCircle}, ops(cmds))
}

func TestVertexIndices(t *testing.T) {
	e := newEditor(t)
	z, err := e.CreateZone([]geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, zone.Line, "", nil)
	require.NoError(t, err)
	require.NoError(t, e.Select(z.ID))

	sc := scene(e)
	sc.Style.ShowVertexIndices = true
	var labels []string
	for _, c := range Render(sc) {
		if c.Op == OpText {
			labels = append(labels, c.Text)
		}
	}
	assert.Equal(t, []string{"1", "2"}, labels)
}

func findDashed(t *testing.T, cmds []Command) Command {
	t.Helper()
	for _, c := range cmds {
		if c.Op == OpPath && len(c.Dash) > 0 {
			return c
		}
	}
	require.FailNow(t, "no elastic segment")
	return Command{}
}
