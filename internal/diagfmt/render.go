package diagfmt

import (
	"fmt"
	"io"

	"shapediff/internal/diag"
)

// Render writes events in format. events are expected in canonical order.
func Render(w io.Writer, format Format, events []diag.Event, opts Options) error {
	switch format {
	case FormatPretty:
		return Pretty(w, events, opts)
	case FormatShort:
		return Short(w, events, opts)
	case FormatJSON:
		return JSON(w, events, opts)
	case FormatSARIF:
		return Sarif(w, events, opts)
	default:
		return fmt.Errorf("unknown output format %v", format)
	}
}

// Short writes one line per event: "<severity> <id> <shape> <message>".
func Short(w io.Writer, events []diag.Event, opts Options) error {
	shown, omitted := limit(events, opts.Max)
	out := diag.FormatShortEvents(shown)
	if out != "" {
		out += "\n"
	}
	if omitted > 0 {
		out += fmt.Sprintf("... %d more\n", omitted)
	}
	_, err := io.WriteString(w, out)
	return err
}
