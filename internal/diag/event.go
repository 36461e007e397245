package diag

import (
	"fmt"

	"shapediff/internal/shape"
)

// Event is one classified finding. Events are values; nothing mutates them after
// an evaluator returns them.
type Event struct {
	ID       string
	Severity Severity
	Shape    shape.ShapeID // zero for events not tied to a shape
	Message  string
	Source   shape.SourceLocation
}

// New builds an event.
func New(id string, sev Severity, shapeID shape.ShapeID, msg string) Event {
	return Event{
		ID:       id,
		Severity: sev,
		Shape:    shapeID,
		Message:  msg,
	}
}

// NewNote is a shortcut for SevNote events.
func NewNote(id string, shapeID shape.ShapeID, msg string) Event {
	return New(id, SevNote, shapeID, msg)
}

// NewWarning is a shortcut for SevWarning events.
func NewWarning(id string, shapeID shape.ShapeID, msg string) Event {
	return New(id, SevWarning, shapeID, msg)
}

// NewDanger is a shortcut for SevDanger events.
func NewDanger(id string, shapeID shape.ShapeID, msg string) Event {
	return New(id, SevDanger, shapeID, msg)
}

// NewError is a shortcut for SevError events.
func NewError(id string, shapeID shape.ShapeID, msg string) Event {
	return New(id, SevError, shapeID, msg)
}

// ForShape builds an event attached to s, inheriting its source location.
func ForShape(id string, sev Severity, s *shape.Shape, msg string) Event {
	e := New(id, sev, s.ID(), msg)
	e.Source = s.Source()
	return e
}

// WithSource returns a copy of e pointing at loc.
func (e Event) WithSource(loc shape.SourceLocation) Event {
	e.Source = loc
	return e
}

func (e Event) String() string {
	if e.Shape.IsZero() {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.ID, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s | %s", e.Severity, e.Shape, e.Message, e.ID)
}

// Compare implements the canonical event order: shape ID, severity descending,
// event ID, message.
func Compare(a, b Event) int {
	if c := a.Shape.Compare(b.Shape); c != 0 {
		return c
	}
	if a.Severity != b.Severity {
		if a.Severity > b.Severity {
			return -1
		}
		return 1
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	switch {
	case a.Message < b.Message:
		return -1
	case a.Message > b.Message:
		return 1
	}
	return 0
}
