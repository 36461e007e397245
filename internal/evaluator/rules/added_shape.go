package rules

import (
	"fmt"

	"shapediff/internal/diag"
	"shapediff/internal/diff"
	"shapediff/internal/evaluator"
	"shapediff/internal/shape"
)

const AddedShapeID = "AddedShape"

// NewAddedShape emits a NOTE for every shape that exists only in the new model.
// Members are reported through their containers and skipped.
func NewAddedShape() evaluator.Evaluator {
	return evaluator.Func(evaluateAddedShape)
}

func evaluateAddedShape(d *diff.Differences) []diag.Event {
	var events []diag.Event
	for s := range d.AddedShapes() {
		if s.Kind() == shape.KindMember {
			continue
		}
		events = append(events, diag.ForShape(AddedShapeID, diag.SevNote, s,
			fmt.Sprintf("Added %s `%s`", s.Kind(), s.ID())))
	}
	return events
}
