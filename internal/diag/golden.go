package diag

import (
	"fmt"
	"slices"
	"strings"
)

// FormatShortEvents renders events into a stable, single-line-per-entry form
// suitable for golden files and the CLI short output. Events are sorted first.
func FormatShortEvents(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, Compare)

	var b strings.Builder
	for i, e := range sorted {
		shapeID := e.Shape.String()
		if shapeID == "" {
			shapeID = "-"
		}
		fmt.Fprintf(&b, "%s %s %s %s", severityLabel(e.Severity), e.ID, shapeID, sanitizeMessage(e.Message))
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	return strings.ToLower(sev.String())
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
