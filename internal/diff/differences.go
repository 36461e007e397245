package diff

import (
	"errors"
	"iter"
	"slices"

	"shapediff/internal/shape"
)

// ErrNilModel reports a missing old or new model.
var ErrNilModel = errors.New("diff: nil model")

// Differences is the delta between an old and a new model.
type Differences struct {
	oldModel *shape.Model
	newModel *shape.Model
	added    []shape.ShapeID
	removed  []shape.ShapeID
	changed  []ChangedShape // ordered by ID
}

// New computes the differences between oldModel and newModel.
func New(oldModel, newModel *shape.Model) (*Differences, error) {
	if oldModel == nil || newModel == nil {
		return nil, ErrNilModel
	}
	d := &Differences{oldModel: oldModel, newModel: newModel}

	oldIDs, newIDs := oldModel.IDs(), newModel.IDs()
	i, j := 0, 0
	for i < len(oldIDs) || j < len(newIDs) {
		switch {
		case j >= len(newIDs):
			d.removed = append(d.removed, oldIDs[i])
			i++
		case i >= len(oldIDs):
			d.added = append(d.added, newIDs[j])
			j++
		default:
			switch c := oldIDs[i].Compare(newIDs[j]); {
			case c < 0:
				d.removed = append(d.removed, oldIDs[i])
				i++
			case c > 0:
				d.added = append(d.added, newIDs[j])
				j++
			default:
				oldShape, _ := oldModel.Shape(oldIDs[i])
				newShape, _ := newModel.Shape(newIDs[j])
				if !oldShape.Equal(newShape) {
					d.changed = append(d.changed, ChangedShape{oldShape: oldShape, newShape: newShape})
				}
				i++
				j++
			}
		}
	}
	return d, nil
}

// OldModel returns the model before the change.
func (d *Differences) OldModel() *shape.Model { return d.oldModel }

// NewModel returns the model after the change.
func (d *Differences) NewModel() *shape.Model { return d.newModel }

// IsEmpty reports whether nothing was added, removed or changed.
func (d *Differences) IsEmpty() bool {
	return len(d.added) == 0 && len(d.removed) == 0 && len(d.changed) == 0
}

// AddedIDs returns the IDs present only in the new model.
func (d *Differences) AddedIDs() []shape.ShapeID { return slices.Clone(d.added) }

// RemovedIDs returns the IDs present only in the old model.
func (d *Differences) RemovedIDs() []shape.ShapeID { return slices.Clone(d.removed) }

// ChangedIDs returns the IDs present in both models whose shapes differ.
func (d *Differences) ChangedIDs() []shape.ShapeID {
	out := make([]shape.ShapeID, len(d.changed))
	for i, c := range d.changed {
		out[i] = c.ID()
	}
	return out
}

// AddedShapes iterates the shapes that exist only in the new model.
func (d *Differences) AddedShapes() iter.Seq[*shape.Shape] {
	return shapesOf(d.newModel, d.added)
}

// RemovedShapes iterates the shapes that exist only in the old model.
func (d *Differences) RemovedShapes() iter.Seq[*shape.Shape] {
	return shapesOf(d.oldModel, d.removed)
}

func shapesOf(m *shape.Model, ids []shape.ShapeID) iter.Seq[*shape.Shape] {
	return func(yield func(*shape.Shape) bool) {
		for _, id := range ids {
			s, _ := m.Shape(id)
			if !yield(s) {
				return
			}
		}
	}
}

// ChangedShapes iterates changed pairs whose new shape matches sel.
func (d *Differences) ChangedShapes(sel shape.Selector) iter.Seq[ChangedShape] {
	return func(yield func(ChangedShape) bool) {
		for _, c := range d.changed {
			if sel.Matches(c.newShape.Kind()) && !yield(c) {
				return
			}
		}
	}
}

// Changed returns the changed pair for id, if any.
func (d *Differences) Changed(id shape.ShapeID) (ChangedShape, bool) {
	i, ok := slices.BinarySearchFunc(d.changed, id, func(c ChangedShape, target shape.ShapeID) int {
		return c.ID().Compare(target)
	})
	if !ok {
		return ChangedShape{}, false
	}
	return d.changed[i], true
}

// AddedIDs returns the IDs of newSet missing from oldSet.
func AddedIDs(oldSet, newSet shape.IDSet) shape.IDSet {
	return newSet.Minus(oldSet)
}

// RemovedIDs returns the IDs of oldSet missing from newSet.
func RemovedIDs(oldSet, newSet shape.IDSet) shape.IDSet {
	return oldSet.Minus(newSet)
}
