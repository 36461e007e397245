package rules

import (
	"fmt"

	"shapediff/internal/diag"
	"shapediff/internal/diff"
	"shapediff/internal/shape"
)

// Direction selects which side of a collection delta a rule reports.
type Direction uint8

const (
	// Added reports IDs present in the new collection only.
	Added Direction = iota
	// Removed reports IDs present in the old collection only.
	Removed
)

func (d Direction) verb() string {
	if d == Removed {
		return "removed from"
	}
	return "added to"
}

func (d Direction) delta(oldSet, newSet shape.IDSet) shape.IDSet {
	if d == Removed {
		return diff.RemovedIDs(oldSet, newSet)
	}
	return diff.AddedIDs(oldSet, newSet)
}

// Collection names one binding collection of an entity body.
type Collection struct {
	EventID    string
	Descriptor string // "Operation", "Resource"
	Select     func(shape.EntityBody) shape.IDSet
}

// Operations selects the operation bindings of an entity.
func Operations(b shape.EntityBody) shape.IDSet { return b.Operations }

// Resources selects the resource bindings of an entity.
func Resources(b shape.EntityBody) shape.IDSet { return b.Resources }

// BindingRule reports each child ID that entered (or left) a binding collection of
// a changed service or resource. One event per child, attached to the entity.
type BindingRule struct {
	Direction   Direction
	Severity    diag.Severity
	Collections []Collection
}

// Evaluate implements evaluator.Evaluator.
func (r BindingRule) Evaluate(d *diff.Differences) []diag.Event {
	var events []diag.Event
	for change := range diff.ChangesOf[shape.EntityBody](d) {
		entity := change.NewShape()
		for _, col := range r.Collections {
			delta := r.Direction.delta(col.Select(change.OldBody), col.Select(change.NewBody))
			for child := range delta.All() {
				events = append(events, r.event(col, entity, child))
			}
		}
	}
	return events
}

// EventIDs lists the event IDs the rule can emit.
func (r BindingRule) EventIDs() []string {
	ids := make([]string, len(r.Collections))
	for i, col := range r.Collections {
		ids[i] = col.EventID
	}
	return ids
}

func (r BindingRule) event(col Collection, entity *shape.Shape, child shape.ShapeID) diag.Event {
	msg := fmt.Sprintf("%s binding of `%s` was %s the %s shape, `%s`",
		col.Descriptor, child, r.Direction.verb(), entity.Kind(), entity.ID())
	return diag.ForShape(col.EventID, r.Severity, entity, msg)
}
