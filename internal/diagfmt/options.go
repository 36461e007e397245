package diagfmt

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"shapediff/internal/diag"
	"shapediff/internal/observ"
)

// Format selects a renderer.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort
	FormatJSON
	FormatSARIF
)

var formatNames = [...]string{
	FormatPretty: "pretty",
	FormatShort:  "short",
	FormatJSON:   "json",
	FormatSARIF:  "sarif",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat maps "pretty", "short", "json" or "sarif" to a Format.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(f), nil
		}
	}
	return FormatPretty, fmt.Errorf("unknown output format %q (expected: pretty|short|json|sarif)", s)
}

// Options configures every renderer; each one reads the fields it needs.
type Options struct {
	Color  bool
	Width  int // pretty: column budget for shape IDs, 0 = no limit
	Max    int // events printed, 0 = all
	Policy *diag.Policy // nil means diag.DefaultPolicy

	RunID   string         // json: generated when empty
	Timings *observ.Report // json: included when set

	Tool SarifRunMeta
}

// SarifRunMeta describes the tool in SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
	// Rules maps event IDs to a short description.
	Rules map[string]string
}

func (o Options) policy() diag.Policy {
	if o.Policy == nil {
		return diag.DefaultPolicy
	}
	return *o.Policy
}

// limit splits events into the printed subset and the omitted count. The most
// severe events are kept first; the subset keeps the input order.
func limit(events []diag.Event, max int) ([]diag.Event, int) {
	if max <= 0 || len(events) <= max {
		return events, 0
	}
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(events[b].Severity, events[a].Severity)
	})
	keep := order[:max]
	slices.Sort(keep)
	shown := make([]diag.Event, 0, max)
	for _, i := range keep {
		shown = append(shown, events[i])
	}
	return shown, len(events) - max
}
