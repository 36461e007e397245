package evaluator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateEvaluator reports a second registration under the same name.
	ErrDuplicateEvaluator = errors.New("evaluator already registered")
	// ErrEventIDTaken reports an event ID already owned by another evaluator.
	ErrEventIDTaken = errors.New("event id owned by another evaluator")
	// ErrUnknownEvaluator reports a selection naming no registered evaluator.
	ErrUnknownEvaluator = errors.New("unknown evaluator")
)

// Factory creates a fresh evaluator instance.
type Factory func() Evaluator

// Registration describes one evaluator known to a Registry.
type Registration struct {
	Name     string
	Summary  string
	EventIDs []string
	Factory  Factory
}

// Registry maps evaluator names to factories. It is populated explicitly, either by
// a static list (see rules.Register) or by any other provider; the diff engine only
// sees the resulting []Named.
type Registry struct {
	byName  map[string]Registration
	eventTo map[string]string // event id -> owning evaluator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Registration),
		eventTo: make(map[string]string),
	}
}

// Register adds reg. Names and event IDs must be unique across the registry.
func (r *Registry) Register(reg Registration) error {
	name := strings.TrimSpace(reg.Name)
	if name == "" {
		return fmt.Errorf("evaluator name is empty")
	}
	if reg.Factory == nil {
		return fmt.Errorf("evaluator %s: nil factory", name)
	}
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateEvaluator, name)
	}
	for _, id := range reg.EventIDs {
		if owner, taken := r.eventTo[id]; taken {
			return fmt.Errorf("%w: %s already belongs to %s", ErrEventIDTaken, id, owner)
		}
	}
	reg.Name = name
	reg.EventIDs = slices.Clone(reg.EventIDs)
	r.byName[name] = reg
	for _, id := range reg.EventIDs {
		r.eventTo[id] = name
	}
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// Len returns the number of registrations.
func (r *Registry) Len() int { return len(r.byName) }

// Names returns registered names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Registrations returns every registration ordered by name.
func (r *Registry) Registrations() []Registration {
	out := make([]Registration, 0, len(r.byName))
	for _, name := range r.Names() {
		out = append(out, r.byName[name])
	}
	return out
}

// Owner returns the evaluator that owns eventID.
func (r *Registry) Owner(eventID string) (string, bool) {
	name, ok := r.eventTo[eventID]
	return name, ok
}

// Selection picks evaluators out of a registry. An empty Enable list selects all.
type Selection struct {
	Enable  []string
	Disable []string
}

// Instantiate creates the selected evaluators ordered by name.
func (r *Registry) Instantiate(sel Selection) ([]Named, error) {
	for _, name := range slices.Concat(sel.Enable, sel.Disable) {
		if _, ok := r.byName[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvaluator, name)
		}
	}
	names := r.Names()
	if len(sel.Enable) > 0 {
		names = slices.DeleteFunc(names, func(n string) bool { return !slices.Contains(sel.Enable, n) })
	}
	names = slices.DeleteFunc(names, func(n string) bool { return slices.Contains(sel.Disable, n) })

	out := make([]Named, 0, len(names))
	for _, name := range names {
		out = append(out, Named{Name: name, Evaluator: r.byName[name].Factory()})
	}
	return out, nil
}
