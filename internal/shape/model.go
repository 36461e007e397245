package shape

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrDuplicateShape reports two shapes with the same ID in one model.
var ErrDuplicateShape = errors.New("duplicate shape id")

// Model is an immutable shape graph.
type Model struct {
	shapes map[ShapeID]*Shape
	ids    []ShapeID // lexical order
}

// NewModel assembles a model from shapes in any order.
func NewModel(shapes ...*Shape) (*Model, error) {
	m := &Model{
		shapes: make(map[ShapeID]*Shape, len(shapes)),
		ids:    make([]ShapeID, 0, len(shapes)),
	}
	for _, s := range shapes {
		if s == nil {
			return nil, fmt.Errorf("nil shape in model")
		}
		if _, dup := m.shapes[s.id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateShape, s.id)
		}
		m.shapes[s.id] = s
		m.ids = append(m.ids, s.id)
	}
	slices.SortFunc(m.ids, ShapeID.Compare)
	return m, nil
}

// Len returns the number of shapes.
func (m *Model) Len() int { return len(m.ids) }

// Shape looks a shape up by ID.
func (m *Model) Shape(id ShapeID) (*Shape, bool) {
	s, ok := m.shapes[id]
	return s, ok
}

// IDs returns every shape ID in lexical order.
func (m *Model) IDs() []ShapeID { return slices.Clone(m.ids) }

// All iterates shapes in lexical ID order.
func (m *Model) All() iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		for _, id := range m.ids {
			if !yield(m.shapes[id]) {
				return
			}
		}
	}
}

// Select iterates the shapes matching sel in lexical ID order.
func (m *Model) Select(sel Selector) iter.Seq[*Shape] {
	return func(yield func(*Shape) bool) {
		for _, id := range m.ids {
			s := m.shapes[id]
			if sel.Matches(s.kind) && !yield(s) {
				return
			}
		}
	}
}
