// Package zone defines zone geometries and the store that owns them.
package zone

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"zone-editor/pkg/geometry"
)

var (
	// ErrInvalidGeometry reports a point list that breaks the kind's invariants.
	ErrInvalidGeometry = errors.New("invalid zone geometry")
	// ErrUnknownZone reports an id that is not in the store.
	ErrUnknownZone = errors.New("unknown zone id")
	// ErrDuplicateZone reports an id that is already in the store.
	ErrDuplicateZone = errors.New("duplicate zone id")
)

// Kind is the geometry type of a zone.
type Kind int

const (
	Polygon Kind = iota // closed region, closure implied
	Line                // directed two-point boundary
)

func (k Kind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// ParseKind parses "polygon" or "line".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "polygon":
		return Polygon, nil
	case "line":
		return Line, nil
	}
	return Polygon, fmt.Errorf("unknown zone kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != Polygon && k != Line {
		return nil, fmt.Errorf("unknown zone kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MinPoints is the point count a committed zone of this kind needs.
func (k Kind) MinPoints() int {
	if k == Line {
		return 2
	}
	return 3
}

// Zone is a named polygon or line in source-frame coordinates.
// Polygons never repeat their first point at the end.
type Zone struct {
	ID        string           `json:"id"`
	Kind      Kind             `json:"type"`
	Points    []geometry.Point `json:"points"`
	Label     string           `json:"name"`
	ClassTags []string         `json:"classes"`
	Color     string           `json:"color,omitempty"`
}

// Complete reports whether the zone currently meets its kind's minimum point
// count. Incomplete zones exist only transiently while being edited and are
// skipped by hit-testing and by fill/closure rendering.
func (z Zone) Complete() bool {
	if z.Kind == Line {
		return len(z.Points) == 2
	}
	return len(z.Points) >= 3
}

// Clone returns a deep copy.
func (z Zone) Clone() Zone {
	z.Points = geometry.Clone(z.Points)
	z.ClassTags = slices.Clone(z.ClassTags)
	return z
}

// ValidatePoints checks a point list for committing a zone of the given kind.
func ValidatePoints(kind Kind, points []geometry.Point) error {
	if kind != Polygon && kind != Line {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidGeometry, int(kind))
	}
	if err := checkFinite(points); err != nil {
		return err
	}
	switch {
	case kind == Line && len(points) != 2:
		return fmt.Errorf("%w: line needs exactly 2 points, got %d", ErrInvalidGeometry, len(points))
	case kind == Polygon && len(points) < 3:
		return fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrInvalidGeometry, len(points))
	}
	return nil
}

// validateEdit checks a point list produced by editing an existing zone.
// Dropping below the minimum is allowed; exceeding a line's two points is not.
func validateEdit(kind Kind, points []geometry.Point) error {
	if err := checkFinite(points); err != nil {
		return err
	}
	if kind == Line && len(points) > 2 {
		return fmt.Errorf("%w: line cannot have %d points", ErrInvalidGeometry, len(points))
	}
	return nil
}

func checkFinite(points []geometry.Point) error {
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d is not finite", ErrInvalidGeometry, i)
		}
	}
	return nil
}

// NormalizeTags trims, de-duplicates and sorts class tags. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
