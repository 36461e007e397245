package diag

import (
	"testing"

	"shapediff/internal/shape"
)

func TestFormatShortEvents(t *testing.T) {
	svc := shape.MustParseShapeID("ns.foo#Svc")
	events := []Event{
		NewNote("AddedShape", svc, "Added service `ns.foo#Svc`"),
		NewError("EvaluatorFailure", shape.ShapeID{}, "first line\nsecond"),
	}

	expected := "error EvaluatorFailure - first line second\n" +
		"note AddedShape ns.foo#Svc Added service `ns.foo#Svc`"

	if got := FormatShortEvents(events); got != expected {
		t.Fatalf("unexpected short events:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if FormatShortEvents(nil) != "" {
		t.Fatal("no events must render empty")
	}
}
