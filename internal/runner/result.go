package runner

import (
	"fmt"

	"shapediff/internal/diag"
	"shapediff/internal/observ"
)

// FailureEventID identifies the synthetic event recorded for a failed evaluator.
const FailureEventID = "EvaluatorFailure"

// Failure records an evaluator that panicked or overran its timeout.
type Failure struct {
	Evaluator string
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("evaluator %s: %v", f.Evaluator, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Event converts the failure into the ERROR event kept in the result.
func (f Failure) Event() diag.Event {
	return diag.NewError(FailureEventID, zeroShape, fmt.Sprintf("Evaluator `%s` failed: %v", f.Evaluator, f.Err))
}

// Result is the outcome of a run.
type Result struct {
	// Events holds every event at or above Options.MinSeverity, sorted.
	Events []diag.Event
	// Failures lists failed evaluators in evaluator order.
	Failures []Failure
	Timings  observ.Report

	all []diag.Event
}

// AtLeast filters the full event list by min without re-running evaluators.
// It ignores Options.MinSeverity.
func (r Result) AtLeast(min diag.Severity) []diag.Event {
	out := make([]diag.Event, 0, len(r.all))
	for _, e := range r.all {
		if e.Severity >= min {
			out = append(out, e)
		}
	}
	return out
}

// Breaking reports whether any event is breaking under p.
func (r Result) Breaking(p diag.Policy) bool {
	return p.AnyBreaking(r.all)
}

// Bag wraps Events into a bag capped at max (0 = unlimited).
func (r Result) Bag(max int) *diag.Bag {
	b := diag.NewBag(max)
	b.AddAll(r.Events)
	return b
}
