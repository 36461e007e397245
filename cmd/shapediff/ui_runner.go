package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"shapediff/internal/runner"
	"shapediff/internal/ui"
)

type runOutcome struct {
	result runner.Result
	err    error
}

// runWithProgressUI runs work in the background while the progress UI renders
// whatever work sends to events. work must only send, never close.
func runWithProgressUI(title string, evaluators []string, events chan runner.Progress, work func() (runner.Result, error)) (runner.Result, error) {
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		res, err := work()
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, evaluators, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the UI may quit early (ctrl+c); drain so work can finish
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
