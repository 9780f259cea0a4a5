package shape

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/blobgeom/pkg/errors"
)

// ID is a stable shape handle.
type ID uint32

// Shape is a circle positioned by the user.
type Shape struct {
	ID     ID      `json:"id" toml:"id"`
	Center r2.Vec  `json:"center" toml:"-"`
	Radius float64 `json:"radius" toml:"radius"`
}

// Validate reports invalid centers and non-positive radii.
func (s Shape) Validate() error {
	return errors.ValidateShape(uint32(s.ID), s.Center.X, s.Center.Y, s.Radius)
}

func (s Shape) String() string {
	return fmt.Sprintf("shape#%d(%.3g,%.3g r=%.3g)", s.ID, s.Center.X, s.Center.Y, s.Radius)
}

// Connection relates two shapes. DistanceRatio is the value that classified
// the pair: radiusExtend·(rA+rB)/distance.
type Connection struct {
	From          ID      `json:"from"`
	To            ID      `json:"to"`
	DistanceRatio float64 `json:"distance_ratio"`
	Merged        bool    `json:"merged"`
}

// Snapshot is an immutable copy of a shape set, compared by value.
type Snapshot []Shape

// Equal reports whether both snapshots hold identical shapes in the same order.
func (s Snapshot) Equal(o Snapshot) bool { return slices.Equal(s, o) }

// Clone returns the shapes as a fresh slice.
func (s Snapshot) Clone() []Shape { return slices.Clone(s) }

// Arena stores shapes by ID in insertion order.
type Arena struct {
	shapes []Shape
	index  map[ID]int
	next   ID
}

// NewArena creates an arena holding the given shapes. Shapes with a zero ID
// are assigned the next free ID.
func NewArena(shapes ...Shape) (*Arena, error) {
	a := &Arena{index: make(map[ID]int), next: 1}
	for _, s := range shapes {
		if _, err := a.Add(s); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Add inserts s and returns its ID. A zero ID is replaced with a fresh one.
func (a *Arena) Add(s Shape) (ID, error) {
	if a.index == nil {
		a.index = make(map[ID]int)
		a.next = max(a.next, 1)
	}
	if s.ID == 0 {
		s.ID = a.next
	}
	if _, dup := a.index[s.ID]; dup {
		return 0, errors.New(errors.ErrCodeInvalidShape, "duplicate shape id %d", s.ID)
	}
	if err := s.Validate(); err != nil {
		return 0, err
	}
	a.index[s.ID] = len(a.shapes)
	a.shapes = append(a.shapes, s)
	a.next = max(a.next, s.ID+1)
	return s.ID, nil
}

// Remove deletes the shape with the given ID, keeping the order of the rest.
func (a *Arena) Remove(id ID) error {
	i, ok := a.index[id]
	if !ok {
		return errors.New(errors.ErrCodeShapeNotFound, "shape %d not found", id)
	}
	a.shapes = slices.Delete(a.shapes, i, i+1)
	delete(a.index, id)
	for j := i; j < len(a.shapes); j++ {
		a.index[a.shapes[j].ID] = j
	}
	return nil
}

// Get returns the shape with the given ID.
func (a *Arena) Get(id ID) (Shape, bool) {
	i, ok := a.index[id]
	if !ok {
		return Shape{}, false
	}
	return a.shapes[i], true
}

// Move sets the center of a shape.
func (a *Arena) Move(id ID, center r2.Vec) error {
	return a.update(id, func(s *Shape) { s.Center = center })
}

// Resize sets the radius of a shape.
func (a *Arena) Resize(id ID, radius float64) error {
	return a.update(id, func(s *Shape) { s.Radius = radius })
}

func (a *Arena) update(id ID, fn func(*Shape)) error {
	i, ok := a.index[id]
	if !ok {
		return errors.New(errors.ErrCodeShapeNotFound, "shape %d not found", id)
	}
	s := a.shapes[i]
	fn(&s)
	if err := s.Validate(); err != nil {
		return err
	}
	a.shapes[i] = s
	return nil
}

// Len returns the number of shapes.
func (a *Arena) Len() int { return len(a.shapes) }

// Shapes returns the shapes in insertion order. The slice must not be modified.
func (a *Arena) Shapes() []Shape { return a.shapes }

// Snapshot returns an immutable copy of the current shape set.
func (a *Arena) Snapshot() Snapshot { return slices.Clone(a.shapes) }
