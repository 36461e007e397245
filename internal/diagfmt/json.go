package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"shapediff/internal/diag"
	"shapediff/internal/observ"
)

// LocationJSON is where the reported shape was declared.
type LocationJSON struct {
	File   string `json:"file"`
	Line   uint32 `json:"line,omitempty"`
	Column uint32 `json:"column,omitempty"`
}

// EventJSON is one event in JSON output.
type EventJSON struct {
	ID       string        `json:"id"`
	Severity string        `json:"severity"`
	Shape    string        `json:"shape,omitempty"`
	Message  string        `json:"message"`
	Breaking bool          `json:"breaking"`
	Location *LocationJSON `json:"location,omitempty"`
}

// ReportJSON is the root of JSON output.
type ReportJSON struct {
	RunID    string         `json:"run_id"`
	Events   []EventJSON    `json:"events"`
	Count    int            `json:"count"`
	Omitted  int            `json:"omitted,omitempty"`
	Breaking bool           `json:"breaking"`
	Timings  *observ.Report `json:"timings,omitempty"`
}

// BuildReport assembles the JSON report without serializing it. Count and
// Breaking describe every event, including the ones cut by opts.Max.
func BuildReport(events []diag.Event, opts Options) ReportJSON {
	policy := opts.policy()
	shown, omitted := limit(events, opts.Max)
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	out := ReportJSON{
		RunID:    runID,
		Events:   make([]EventJSON, 0, len(shown)),
		Count:    len(events),
		Omitted:  omitted,
		Breaking: policy.AnyBreaking(events),
		Timings:  opts.Timings,
	}
	for _, e := range shown {
		ej := EventJSON{
			ID:       e.ID,
			Severity: e.Severity.String(),
			Shape:    e.Shape.String(),
			Message:  e.Message,
			Breaking: policy.IsBreaking(e.Severity),
		}
		if e.Source.Filename != "" {
			ej.Location = &LocationJSON{File: e.Source.Filename, Line: e.Source.Line, Column: e.Source.Column}
		}
		out.Events = append(out.Events, ej)
	}
	return out
}

// JSON writes BuildReport as indented JSON.
func JSON(w io.Writer, events []diag.Event, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(events, opts))
}
