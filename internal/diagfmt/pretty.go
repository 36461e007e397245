package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"shapediff/internal/diag"
)

// Pretty печатает события, сгруппированные по severity (сначала самые серьёзные):
//
//	DANGER (1)
//	  ns#S      RemovedOperation  Operation binding of `ns#Op` was removed ...
//	            at model.json:12:5
//
// и итоговую строку. Цвет включается опцией.
func Pretty(w io.Writer, events []diag.Event, opts Options) error {
	shown, omitted := limit(events, opts.Max)
	p := prettyPrinter{w: w, opts: opts}

	bag := diag.NewBag(0)
	bag.AddAll(shown)
	groups := bag.GroupBySeverity()

	idWidth, shapeWidth := 0, 0
	for _, e := range shown {
		idWidth = max(idWidth, runewidth.StringWidth(e.ID))
		shapeWidth = max(shapeWidth, runewidth.StringWidth(shapeLabel(e)))
	}
	if opts.Width > 0 {
		shapeWidth = min(shapeWidth, opts.Width)
	}

	for i, g := range groups {
		if i > 0 {
			p.line("")
		}
		p.line(p.severity(g.Severity).Sprintf("%s (%d)", g.Severity, len(g.Events)))
		for _, e := range g.Events {
			shapeCol := runewidth.FillRight(runewidth.Truncate(shapeLabel(e), shapeWidth, "…"), shapeWidth)
			idCol := runewidth.FillRight(e.ID, idWidth)
			p.line(fmt.Sprintf("  %s  %s  %s", p.bold().Sprint(shapeCol), p.faint().Sprint(idCol), oneLine(e.Message)))
			if !e.Source.IsZero() {
				p.line(fmt.Sprintf("  %s  at %s", strings.Repeat(" ", shapeWidth), e.Source))
			}
		}
	}
	if omitted > 0 {
		p.line("")
		p.line(fmt.Sprintf("... %d more events not shown", omitted))
	}
	if len(groups) > 0 {
		p.line("")
	}
	p.line(p.summary(events))
	return p.err
}

type prettyPrinter struct {
	w    io.Writer
	opts Options
	err  error
}

func (p *prettyPrinter) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *prettyPrinter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p *prettyPrinter) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.paint(color.FgRed, color.Bold)
	case diag.SevDanger:
		return p.paint(color.FgRed)
	case diag.SevWarning:
		return p.paint(color.FgYellow)
	default:
		return p.paint(color.FgCyan)
	}
}

func (p *prettyPrinter) bold() *color.Color  { return p.paint(color.Bold) }
func (p *prettyPrinter) faint() *color.Color { return p.paint(color.Faint) }

// summary renders "3 events: 1 DANGER, 2 NOTE (breaking)".
func (p *prettyPrinter) summary(events []diag.Event) string {
	if len(events) == 0 {
		return p.paint(color.FgGreen).Sprint("no differences reported")
	}
	bag := diag.NewBag(0)
	bag.AddAll(events)
	counts := bag.CountBySeverity()
	var parts []string
	for i := len(diag.Severities) - 1; i >= 0; i-- {
		sev := diag.Severities[i]
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	noun := "events"
	if len(events) == 1 {
		noun = "event"
	}
	out := fmt.Sprintf("%d %s: %s", len(events), noun, strings.Join(parts, ", "))
	if p.opts.policy().AnyBreaking(events) {
		return out + " " + p.paint(color.FgRed, color.Bold).Sprint("(breaking)")
	}
	return out
}

func shapeLabel(e diag.Event) string {
	if e.Shape.IsZero() {
		return "-"
	}
	return e.Shape.String()
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
