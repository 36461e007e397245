package diff

import (
	"iter"

	"shapediff/internal/shape"
)

// ChangedShape is the before/after pair of one shape present in both models.
type ChangedShape struct {
	oldShape *shape.Shape
	newShape *shape.Shape
}

// TraitChange pairs the old and new value of a trait whose value changed.
type TraitChange struct {
	Old shape.Trait
	New shape.Trait
}

// Name returns the trait name.
func (c TraitChange) Name() string { return c.Old.Name() }

// ID returns the shared shape ID.
func (c ChangedShape) ID() shape.ShapeID { return c.newShape.ID() }

// OldShape returns the shape before the change.
func (c ChangedShape) OldShape() *shape.Shape { return c.oldShape }

// NewShape returns the shape after the change.
func (c ChangedShape) NewShape() *shape.Shape { return c.newShape }

// KindChanged reports whether the shape changed its kind.
func (c ChangedShape) KindChanged() bool {
	return c.oldShape.Kind() != c.newShape.Kind()
}

// AddedTraits returns traits of the new shape missing by name from the old one.
func (c ChangedShape) AddedTraits() []shape.Trait {
	return missingTraits(c.newShape, c.oldShape)
}

// RemovedTraits returns traits of the old shape missing by name from the new one.
func (c ChangedShape) RemovedTraits() []shape.Trait {
	return missingTraits(c.oldShape, c.newShape)
}

// ChangedTraits returns traits present in both shapes with different values.
func (c ChangedShape) ChangedTraits() []TraitChange {
	var out []TraitChange
	for _, oldTrait := range c.oldShape.Traits() {
		newTrait, ok := c.newShape.Trait(oldTrait.Name())
		if ok && !oldTrait.Equal(newTrait) {
			out = append(out, TraitChange{Old: oldTrait, New: newTrait})
		}
	}
	return out
}

// HasTraitChanges reports whether any trait was added, removed or changed.
func (c ChangedShape) HasTraitChanges() bool {
	return len(c.AddedTraits()) > 0 || len(c.RemovedTraits()) > 0 || len(c.ChangedTraits()) > 0
}

func missingTraits(from, other *shape.Shape) []shape.Trait {
	var out []shape.Trait
	for _, t := range from.Traits() {
		if !other.HasTrait(t.Name()) {
			out = append(out, t)
		}
	}
	return out
}

// TypedChange is a ChangedShape whose old and new bodies share the variant B.
type TypedChange[B shape.Body] struct {
	ChangedShape
	OldBody B
	NewBody B
}

// ChangesOf iterates changed shapes whose old and new bodies are both of variant B,
// e.g. ChangesOf[shape.EntityBody](d) for services and resources.
func ChangesOf[B shape.Body](d *Differences) iter.Seq[TypedChange[B]] {
	return func(yield func(TypedChange[B]) bool) {
		for _, c := range d.changed {
			oldBody, okOld := c.oldShape.Body().(B)
			newBody, okNew := c.newShape.Body().(B)
			if !okOld || !okNew {
				continue
			}
			if !yield(TypedChange[B]{ChangedShape: c, OldBody: oldBody, NewBody: newBody}) {
				return
			}
		}
	}
}
