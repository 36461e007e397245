package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"shapediff/internal/runner"
)

func TestProgressModelTracksEvaluators(t *testing.T) {
	events := make(chan runner.Progress)
	m := NewProgressModel("diff", []string{"AddedShape", "AddedEntityBinding"}, events).(*progressModel)

	m.Update(progressMsg{Evaluator: "AddedShape", Status: runner.StatusWorking})
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction = %v, want 0.25", got)
	}
	m.Update(progressMsg{Evaluator: "AddedShape", Status: runner.StatusDone, Elapsed: 3 * time.Millisecond})
	m.Update(progressMsg{Evaluator: "AddedEntityBinding", Status: runner.StatusError})
	m.Update(progressMsg{Evaluator: "Unknown", Status: runner.StatusDone})
	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction = %v, want 1", got)
	}

	view := m.View()
	for _, want := range []string{"(1 failed)", "AddedShape", "3ms", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !strings.Contains(m.View(), "done: diff") {
		t.Fatalf("view after done:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"AddedShape", 20, "AddedShape"},
		{"AddedEntityBinding", 10, "AddedEn..."},
		{"AddedShape", 3, "Add"},
		{"AddedShape", 4, "A..."},
		{"日本語テキスト", 7, "日本..."},
		{"AddedShape", 0, "AddedShape"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is %d columns wide", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}
