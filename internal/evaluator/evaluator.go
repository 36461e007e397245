// Package evaluator defines the rule capability run over a diff and the explicit
// registry that assembles rule sets by name.
package evaluator

import (
	"shapediff/internal/diag"
	"shapediff/internal/diff"
)

// Evaluator is a pure rule over a Differences snapshot. Implementations must not
// mutate d and must return identical output (order included) for identical input.
type Evaluator interface {
	Evaluate(d *diff.Differences) []diag.Event
}

// Func adapts a plain function to Evaluator.
type Func func(d *diff.Differences) []diag.Event

// Evaluate calls f(d).
func (f Func) Evaluate(d *diff.Differences) []diag.Event { return f(d) }

// Named pairs an evaluator with the name used to report its failures.
type Named struct {
	Name string
	Evaluator
}
