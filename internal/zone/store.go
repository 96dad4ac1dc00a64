package zone

import (
	"fmt"
	"slices"

	"zone-editor/pkg/geometry"

	"github.com/google/uuid"
)

// Store is the authoritative, ordered collection of zones for one editing
// session. Insertion order is hit-test priority: later zones are on top.
// Callers only ever receive copies. A Store is not safe for concurrent use.
type Store struct {
	zones []*Zone
	newID func() string
}

// NewStore creates an empty store that assigns random UUIDs.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// Len returns the number of zones.
func (s *Store) Len() int {
	return len(s.zones)
}

func (s *Store) find(id string) (int, *Zone) {
	for i, z := range s.zones {
		if z.ID == id {
			return i, z
		}
	}
	return -1, nil
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if _, z := s.find(id); z == nil {
			return id
		}
	}
}

// Create validates a new zone, assigns it a fresh id and appends it on top.
func (s *Store) Create(points []geometry.Point, kind Kind, label string, classTags []string) (Zone, error) {
	if err := ValidatePoints(kind, points); err != nil {
		return Zone{}, err
	}
	z := &Zone{
		ID:        s.freshID(),
		Kind:      kind,
		Points:    geometry.Clone(points),
		Label:     label,
		ClassTags: NormalizeTags(classTags),
	}
	s.zones = append(s.zones, z)
	return z.Clone(), nil
}

// Insert appends an existing zone, keeping its id when set. Zones without an
// id get a fresh one.
func (s *Store) Insert(z Zone) (Zone, error) {
	if err := ValidatePoints(z.Kind, z.Points); err != nil {
		return Zone{}, err
	}
	if z.ID == "" {
		z.ID = s.freshID()
	} else if _, existing := s.find(z.ID); existing != nil {
		return Zone{}, fmt.Errorf("%w: %s", ErrDuplicateZone, z.ID)
	}
	c := z.Clone()
	c.ClassTags = NormalizeTags(c.ClassTags)
	s.zones = append(s.zones, &c)
	return c.Clone(), nil
}

// Replace swaps the whole collection. Nothing changes unless every zone is valid.
func (s *Store) Replace(zones []Zone) error {
	next := &Store{newID: s.newID}
	for i, z := range zones {
		if _, err := next.Insert(z); err != nil {
			return fmt.Errorf("zone %d: %w", i, err)
		}
	}
	s.zones = next.zones
	return nil
}

// Get returns a copy of the zone with the given id.
func (s *Store) Get(id string) (Zone, bool) {
	if _, z := s.find(id); z != nil {
		return z.Clone(), true
	}
	return Zone{}, false
}

// All returns copies of every zone in stored order.
func (s *Store) All() []Zone {
	out := make([]Zone, len(s.zones))
	for i, z := range s.zones {
		out[i] = z.Clone()
	}
	return out
}

// Topmost returns the last-inserted zone for which match is true. match
// receives a read-only view; it must not retain or modify the slices.
func (s *Store) Topmost(match func(Zone) bool) (Zone, bool) {
	for i := len(s.zones) - 1; i >= 0; i-- {
		if match(*s.zones[i]) {
			return s.zones[i].Clone(), true
		}
	}
	return Zone{}, false
}

// Remove deletes the zone with the given id.
func (s *Store) Remove(id string) error {
	i, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	s.zones = slices.Delete(s.zones, i, i+1)
	return nil
}

// UpdatePoints replaces a zone's points. The result may be below the kind's
// minimum while editing; a line may never exceed two points.
func (s *Store) UpdatePoints(id string, points []geometry.Point) error {
	_, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	if err := validateEdit(z.Kind, points); err != nil {
		return err
	}
	z.Points = geometry.Clone(points)
	return nil
}

// MovePoint replaces the vertex at index in place, keeping point order.
func (s *Store) MovePoint(id string, index int, p geometry.Point) error {
	_, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	if index < 0 || index >= len(z.Points) {
		return fmt.Errorf("%w: vertex %d out of range", ErrInvalidGeometry, index)
	}
	if err := checkFinite([]geometry.Point{p}); err != nil {
		return err
	}
	z.Points[index] = p
	return nil
}

// AppendPoint adds a vertex after the last one.
func (s *Store) AppendPoint(id string, p geometry.Point) error {
	_, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	next := append(geometry.Clone(z.Points), p)
	if err := validateEdit(z.Kind, next); err != nil {
		return err
	}
	z.Points = next
	return nil
}

// RemoveLastPoint drops the final vertex. It reports false when the zone has
// no points left to remove.
func (s *Store) RemoveLastPoint(id string) (bool, error) {
	_, z := s.find(id)
	if z == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	if len(z.Points) == 0 {
		return false, nil
	}
	z.Points = z.Points[:len(z.Points)-1]
	return true, nil
}

// SetLabel renames a zone.
func (s *Store) SetLabel(id, label string) error {
	_, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	z.Label = label
	return nil
}

// SetClassTags replaces a zone's detection-class filters.
func (s *Store) SetClassTags(id string, tags []string) error {
	_, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	z.ClassTags = NormalizeTags(tags)
	return nil
}

// SetColor sets a zone's display colour ("#rrggbb", empty for the palette default).
func (s *Store) SetColor(id, color string) error {
	_, z := s.find(id)
	if z == nil {
		return fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	z.Color = color
	return nil
}
