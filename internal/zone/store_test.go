package zone

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"zone-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}

// newSeqStore returns a store with predictable ids.
func newSeqStore() *Store {
	n := 0
	return &Store{newID: func() string {
		n++
		return fmt.Sprintf("z%d", n)
	}}
}

func TestCreateValidates(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		points []geometry.Point
		ok     bool
	}{
		{"line with two points", Line, square[:2], true},
		{"line with three points", Line, square[:3], false},
		{"line with one point", Line, square[:1], false},
		{"polygon with three points", Polygon, square[:3], true},
		{"polygon with two points", Polygon, square[:2], false},
		{"empty polygon", Polygon, nil, false},
		{"nan point", Polygon, []geometry.Point{{X: math.NaN()}, {X: 1}, {Y: 1}}, false},
		{"unknown kind", Kind(9), square, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			z, err := s.Create(tt.points, tt.kind, "zone", nil)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidGeometry)
				assert.Equal(t, 0, s.Len(), "store must be unchanged")
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, z.ID)
			assert.Equal(t, tt.points, z.Points)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		z, err := s.Create(square, Polygon, "", nil)
		require.NoError(t, err)
		assert.False(t, seen[z.ID], "duplicate id %s", z.ID)
		seen[z.ID] = true
	}
}

func TestFreshIDSkipsCollisions(t *testing.T) {
	ids := []string{"a", "a", "b"}
	s := &Store{newID: func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}}
	a, err := s.Create(square, Polygon, "", nil)
	require.NoError(t, err)
	b, err := s.Create(square, Polygon, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, "b", b.ID)
}

func TestCopiesAreIsolated(t *testing.T) {
	s := newSeqStore()
	pts := geometry.Clone(square)
	z, err := s.Create(pts, Polygon, "lobby", []string{"person"})
	require.NoError(t, err)

	pts[0] = geometry.Pt(-1, -1)
	z.Points[1] = geometry.Pt(-2, -2)
	z.ClassTags[0] = "car"

	got, ok := s.Get(z.ID)
	require.True(t, ok)
	assert.Equal(t, square, got.Points)
	assert.Equal(t, []string{"person"}, got.ClassTags)

	all := s.All()
	all[0].Points[2] = geometry.Pt(-3, -3)
	got, _ = s.Get(z.ID)
	assert.Equal(t, square, got.Points)
}

func TestUnknownIDIsNoOp(t *testing.T) {
	s := newSeqStore()
	_, err := s.Create(square, Polygon, "", nil)
	require.NoError(t, err)
	before := s.All()

	assert.ErrorIs(t, s.UpdatePoints("nope", square[:3]), ErrUnknownZone)
	assert.ErrorIs(t, s.MovePoint("nope", 0, geometry.Pt(1, 1)), ErrUnknownZone)
	assert.ErrorIs(t, s.AppendPoint("nope", geometry.Pt(1, 1)), ErrUnknownZone)
	assert.ErrorIs(t, s.Remove("nope"), ErrUnknownZone)
	assert.ErrorIs(t, s.SetLabel("nope", "x"), ErrUnknownZone)
	assert.ErrorIs(t, s.SetClassTags("nope", nil), ErrUnknownZone)
	assert.ErrorIs(t, s.SetColor("nope", "#fff"), ErrUnknownZone)
	_, err = s.RemoveLastPoint("nope")
	assert.ErrorIs(t, err, ErrUnknownZone)
	_, ok := s.Get("nope")
	assert.False(t, ok)

	assert.Equal(t, before, s.All())
}

func TestMovePointKeepsOrder(t *testing.T) {
	s := newSeqStore()
	z, err := s.Create(square, Polygon, "", nil)
	require.NoError(t, err)

	require.NoError(t, s.MovePoint(z.ID, 1, geometry.Pt(120, 5)))
	got, _ := s.Get(z.ID)
	assert.Equal(t, []geometry.Point{{X: 0, Y: 0}, {X: 120, Y: 5}, {X: 100, Y: 100}, {X: 0, Y: 100}}, got.Points)
	assert.Equal(t, z.ID, got.ID)

	assert.ErrorIs(t, s.MovePoint(z.ID, 4, geometry.Pt(0, 0)), ErrInvalidGeometry)
	assert.ErrorIs(t, s.MovePoint(z.ID, -1, geometry.Pt(0, 0)), ErrInvalidGeometry)
}

func TestEditingBelowMinimum(t *testing.T) {
	s := newSeqStore()
	line, err := s.Create(square[:2], Line, "door", nil)
	require.NoError(t, err)

	removed, err := s.RemoveLastPoint(line.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	got, _ := s.Get(line.ID)
	assert.False(t, got.Complete())

	require.NoError(t, s.AppendPoint(line.ID, geometry.Pt(7, 7)))
	got, _ = s.Get(line.ID)
	assert.True(t, got.Complete())

	assert.ErrorIs(t, s.AppendPoint(line.ID, geometry.Pt(8, 8)), ErrInvalidGeometry, "line never exceeds 2 points")
	assert.ErrorIs(t, s.UpdatePoints(line.ID, square[:3]), ErrInvalidGeometry)

	require.NoError(t, s.UpdatePoints(line.ID, nil))
	removed, err = s.RemoveLastPoint(line.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTopmostPrefersLaterZones(t *testing.T) {
	s := newSeqStore()
	a, _ := s.Create(square, Polygon, "a", nil)
	b, _ := s.Create(square, Polygon, "b", nil)

	inside := func(z Zone) bool { return geometry.PointInPolygon(geometry.Pt(50, 50), z.Points) }
	got, ok := s.Topmost(inside)
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)

	require.NoError(t, s.Remove(b.ID))
	got, ok = s.Topmost(inside)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	_, ok = s.Topmost(func(Zone) bool { return false })
	assert.False(t, ok)
}

func TestReplaceIsAtomic(t *testing.T) {
	s := newSeqStore()
	_, _ = s.Create(square, Polygon, "keep", nil)
	before := s.All()

	err := s.Replace([]Zone{
		{ID: "x", Kind: Polygon, Points: square},
		{ID: "x", Kind: Line, Points: square[:2]},
	})
	assert.ErrorIs(t, err, ErrDuplicateZone)
	assert.Equal(t, before, s.All())

	err = s.Replace([]Zone{{Kind: Line, Points: square[:3]}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Equal(t, before, s.All())

	require.NoError(t, s.Replace([]Zone{
		{ID: "x", Kind: Polygon, Points: square, ClassTags: []string{" car", "car", "bus"}},
		{Kind: Line, Points: square[:2]},
	}))
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "x", all[0].ID)
	assert.Equal(t, []string{"bus", "car"}, all[0].ClassTags)
	assert.NotEmpty(t, all[1].ID)
}

func TestSetters(t *testing.T) {
	s := newSeqStore()
	z, _ := s.Create(square, Polygon, "old", nil)
	require.NoError(t, s.SetLabel(z.ID, "new"))
	require.NoError(t, s.SetClassTags(z.ID, []string{"truck", "", "car"}))
	require.NoError(t, s.SetColor(z.ID, "#00ff00"))
	got, _ := s.Get(z.ID)
	assert.Equal(t, "new", got.Label)
	assert.Equal(t, []string{"car", "truck"}, got.ClassTags)
	assert.Equal(t, "#00ff00", got.Color)
}

func TestCodec(t *testing.T) {
	input := `[{"id":"gate","type":"line","points":[{"x":1,"y":2},{"x":3,"y":4}],"name":"Gate","classes":["car"]},
	            {"type":"polygon","points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10}],"name":"Lot","classes":[],"color":"#ff0000"}]`
	zones, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, Line, zones[0].Kind)
	assert.Equal(t, "Gate", zones[0].Label)
	assert.Equal(t, Polygon, zones[1].Kind)
	assert.Equal(t, "#ff0000", zones[1].Color)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, zones[:1]))
	assert.Contains(t, buf.String(), `"type": "line"`)

	_, err = Decode(strings.NewReader(`[{"type":"circle","points":[]}]`))
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	assert.Equal(t, 2, Line.MinPoints())
	assert.Equal(t, 3, Polygon.MinPoints())
	k, err := ParseKind(" Line ")
	require.NoError(t, err)
	assert.Equal(t, Line, k)
	_, err = Kind(7).MarshalText()
	assert.Error(t, err)
}
