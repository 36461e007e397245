package shape

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrBodyMismatch reports a body whose variant does not fit the shape kind.
	ErrBodyMismatch = errors.New("shape body does not match kind")
	// ErrDuplicateTrait reports two traits with the same name on one shape.
	ErrDuplicateTrait = errors.New("duplicate trait")
)

// Shape is an immutable node of a model.
type Shape struct {
	id     ShapeID
	kind   Kind
	body   Body
	traits map[string]Trait
	source SourceLocation
}

// New builds a shape. body must match the kind's category (nil for simple kinds);
// member IDs are only valid for member shapes and vice versa.
func New(id ShapeID, kind Kind, body Body, source SourceLocation, traits ...Trait) (*Shape, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("%w: empty shape id", ErrInvalidShapeID)
	}
	cat := kind.Category()
	if cat == CategoryInvalid {
		return nil, fmt.Errorf("%s: %w: invalid kind", id, ErrBodyMismatch)
	}
	if (cat == CategoryMember) != id.HasMember() {
		return nil, fmt.Errorf("%s: %w: member ids must be member shapes", id, ErrBodyMismatch)
	}
	switch {
	case cat == CategorySimple && body != nil:
		return nil, fmt.Errorf("%s: %w: %s takes no body", id, ErrBodyMismatch, kind)
	case cat != CategorySimple && body == nil:
		return nil, fmt.Errorf("%s: %w: %s requires a %s body", id, ErrBodyMismatch, kind, cat)
	case body != nil && body.category() != cat:
		return nil, fmt.Errorf("%s: %w: %s body on %s", id, ErrBodyMismatch, body.category(), kind)
	}

	byName := make(map[string]Trait, len(traits))
	for _, t := range traits {
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("%s: %w %s", id, ErrDuplicateTrait, t.Name())
		}
		byName[t.Name()] = t
	}
	return &Shape{id: id, kind: kind, body: body, traits: byName, source: source}, nil
}

// ID returns the shape ID.
func (s *Shape) ID() ShapeID { return s.id }

// Kind returns the shape kind.
func (s *Shape) Kind() Kind { return s.kind }

// Body returns the variant body (nil for simple kinds).
func (s *Shape) Body() Body { return s.body }

// Source returns where the shape was defined.
func (s *Shape) Source() SourceLocation { return s.source }

// Trait looks a trait up by absolute name.
func (s *Shape) Trait(name string) (Trait, bool) {
	t, ok := s.traits[name]
	return t, ok
}

// HasTrait reports whether the shape carries the named trait.
func (s *Shape) HasTrait(name string) bool {
	_, ok := s.traits[name]
	return ok
}

// Traits returns the traits ordered by name.
func (s *Shape) Traits() []Trait {
	out := make([]Trait, 0, len(s.traits))
	for _, t := range s.traits {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Trait) int { return strings.Compare(a.name, b.name) })
	return out
}

// Entity returns a copy of the entity body of a service or resource.
func (s *Shape) Entity() (EntityBody, bool) {
	b, ok := s.body.(EntityBody)
	return b, ok
}

// Operation returns a copy of the operation body.
func (s *Shape) Operation() (OperationBody, bool) {
	b, ok := s.body.(OperationBody)
	return b, ok
}

// Equal reports structural equality: kind, traits (name + value) and body.
// IDs are not compared; source locations are ignored.
func (s *Shape) Equal(other *Shape) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.kind != other.kind || len(s.traits) != len(other.traits) {
		return false
	}
	for name, t := range s.traits {
		o, ok := other.traits[name]
		if !ok || !t.Equal(o) {
			return false
		}
	}
	return bodiesEqual(s.body, other.body)
}

func (s *Shape) String() string {
	return fmt.Sprintf("(%s: `%s`)", s.kind, s.id)
}
