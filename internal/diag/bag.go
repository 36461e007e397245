package diag

import (
	"fmt"
	"slices"
)

// Bag collects events. A zero limit means unlimited.
type Bag struct {
	items []Event
	max   int
}

// NewBag creates a bag holding at most max events (0 = unlimited).
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Event, 0, min(max, 64)),
		max:   max,
	}
}

// Add appends e unless the limit is reached. Returns false when e was dropped.
func (b *Bag) Add(e Event) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, e)
	return true
}

// AddAll appends events until the limit is reached and returns how many were dropped.
func (b *Bag) AddAll(events []Event) (dropped int) {
	for _, e := range events {
		if !b.Add(e) {
			dropped++
		}
	}
	return dropped
}

// Cap returns the configured limit.
func (b *Bag) Cap() int {
	return b.max
}

// Len returns the number of events.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the events. The slice aliases the bag; do not modify it.
func (b *Bag) Items() []Event {
	return b.items
}

// Events returns a copy of the events.
func (b *Bag) Events() []Event {
	return slices.Clone(b.items)
}

// Merge appends every event of other, growing the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort orders events by shape ID, severity (desc), event ID and message.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, Compare)
}

// Dedup drops exact repeats (same ID, severity, shape and message).
func (b *Bag) Dedup() {
	seen := make(map[string]struct{}, len(b.items))
	out := b.items[:0]
	for _, e := range b.items {
		key := fmt.Sprintf("%s\x00%d\x00%s\x00%s", e.ID, e.Severity, e.Shape, e.Message)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	b.items = out
}

// AtLeast returns a new bag with the events whose severity is >= min.
func (b *Bag) AtLeast(min Severity) *Bag {
	out := &Bag{max: b.max}
	for _, e := range b.items {
		if e.Severity >= min {
			out.items = append(out.items, e)
		}
	}
	return out
}

// HasBreaking reports whether any event is breaking under p.
func (b *Bag) HasBreaking(p Policy) bool {
	return p.AnyBreaking(b.items)
}

// CountBySeverity returns the number of events per severity.
func (b *Bag) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, e := range b.items {
		counts[e.Severity]++
	}
	return counts
}

// GroupBySeverity returns events per severity, highest severity first. Empty
// groups are omitted; order inside a group follows the bag.
func (b *Bag) GroupBySeverity() []Group {
	var groups []Group
	for i := len(Severities) - 1; i >= 0; i-- {
		sev := Severities[i]
		var events []Event
		for _, e := range b.items {
			if e.Severity == sev {
				events = append(events, e)
			}
		}
		if len(events) > 0 {
			groups = append(groups, Group{Severity: sev, Events: events})
		}
	}
	return groups
}

// Group is a run of events sharing one severity.
type Group struct {
	Severity Severity
	Events   []Event
}
