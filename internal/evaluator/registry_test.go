package evaluator

import (
	"errors"
	"slices"
	"testing"

	"shapediff/internal/diag"
	"shapediff/internal/diff"
)

func noop() Evaluator {
	return Func(func(*diff.Differences) []diag.Event { return nil })
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Registration{Name: "A", EventIDs: []string{"X"}, Factory: noop})

	if err := r.Register(Registration{Name: "A", Factory: noop}); !errors.Is(err, ErrDuplicateEvaluator) {
		t.Fatalf("error = %v, want ErrDuplicateEvaluator", err)
	}
	if err := r.Register(Registration{Name: "B", EventIDs: []string{"X"}, Factory: noop}); !errors.Is(err, ErrEventIDTaken) {
		t.Fatalf("error = %v, want ErrEventIDTaken", err)
	}
	if err := r.Register(Registration{Name: "C"}); err == nil {
		t.Fatal("nil factory must be rejected")
	}
	if owner, ok := r.Owner("X"); !ok || owner != "A" {
		t.Fatalf("Owner(X) = %q, %v", owner, ok)
	}
}

func TestRegistryInstantiate(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"C", "A", "B"} {
		r.MustRegister(Registration{Name: name, Factory: noop})
	}

	names := func(ns []Named) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = n.Name
		}
		return out
	}

	all, err := r.Instantiate(Selection{})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if got := names(all); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("all = %v", got)
	}

	picked, err := r.Instantiate(Selection{Enable: []string{"C", "A"}, Disable: []string{"A"}})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if got := names(picked); !slices.Equal(got, []string{"C"}) {
		t.Fatalf("picked = %v", got)
	}

	if _, err := r.Instantiate(Selection{Disable: []string{"Nope"}}); !errors.Is(err, ErrUnknownEvaluator) {
		t.Fatalf("error = %v, want ErrUnknownEvaluator", err)
	}
}
