package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const barWidth = 40

type eventMsg Event

// model is the bubbletea model behind TUIReporter.
type model struct {
	last  Event
	lines []string
	done  bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		e := Event(msg)
		m.last = e
		if e.Message != "" {
			m.lines = append(m.lines, e.Message)
			if len(m.lines) > 5 {
				m.lines = m.lines[len(m.lines)-5:]
			}
		}
		if e.Stage == StageDone || e.Stage == StageFailed {
			m.done = true
			return m, tea.Quit
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scene2video  %s\n\n", m.last.Scene)
	fmt.Fprintf(&b, "%s %3.0f%%  %d/%d  [%s]\n\n", bar(m.last.Fraction()), m.last.Fraction()*100,
		m.last.Done, m.last.Total, m.last.Stage)
	for _, l := range m.lines {
		b.WriteString("  " + l + "\n")
	}
	if m.done {
		b.WriteString("\n")
	}
	return b.String()
}

func bar(f float64) string {
	n := int(f * barWidth)
	if n > barWidth {
		n = barWidth
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", barWidth-n) + "]"
}

// TUIReporter shows a live progress bar in the terminal.
type TUIReporter struct {
	program *tea.Program
	wg      sync.WaitGroup
	err     error
}

// NewTUIReporter starts the program on out. It does not read stdin; the
// render is stopped with the usual interrupt signal.
func NewTUIReporter(out io.Writer) *TUIReporter {
	r := &TUIReporter{
		program: tea.NewProgram(model{}, tea.WithOutput(out), tea.WithInput(nil)),
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, r.err = r.program.Run()
	}()
	return r
}

func (r *TUIReporter) Report(e Event) {
	r.program.Send(eventMsg(e))
}

// Close waits for the program to exit after a final event, or stops it.
func (r *TUIReporter) Close() error {
	r.program.Quit()
	r.wg.Wait()
	return r.err
}
