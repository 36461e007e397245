package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"shapediff/internal/runner"
)

type progressModel struct {
	title   string
	events  <-chan runner.Progress
	spinner spinner.Model
	prog    progress.Model
	items   []evaluatorItem
	index   map[string]int
	failed  int
	width   int
	done    bool
}

type evaluatorItem struct {
	name    string
	status  runner.Status
	elapsed string
}

type progressMsg runner.Progress
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model rendering evaluator progress read
// from events. The model quits when events is closed.
func NewProgressModel(title string, evaluators []string, events <-chan runner.Progress) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]evaluatorItem, 0, len(evaluators))
	index := make(map[string]int, len(evaluators))
	for i, name := range evaluators {
		items = append(items, evaluatorItem{name: name, status: runner.StatusQueued})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		cmd := m.apply(runner.Progress(msg))
		return m, tea.Batch(cmd, m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.failed > 0 {
		header = fmt.Sprintf("%s (%d failed)", header, m.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth, timeWidth = 9, 10
	nameWidth := max(m.width-statusWidth-timeWidth-6, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		fmt.Fprintf(&b, "  %s %s %s\n", status, pad(truncate(item.name, nameWidth), nameWidth), item.elapsed)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return progressMsg(p)
	}
}

func (m *progressModel) apply(p runner.Progress) tea.Cmd {
	idx, ok := m.index[p.Evaluator]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = p.Status
	if p.Elapsed > 0 {
		item.elapsed = p.Elapsed.Round(100 * time.Microsecond).String()
	}
	if p.Status == runner.StatusError {
		m.failed++
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction counts finished evaluators as 1 and running ones as half.
func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case runner.StatusDone, runner.StatusError:
			total += 1
		case runner.StatusWorking:
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status runner.Status) lipgloss.Style {
	switch status {
	case runner.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case runner.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case runner.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

func pad(value string, width int) string {
	return runewidth.FillRight(value, width)
}
