package sim

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"clocksync-sim/internal/fault"
	"clocksync-sim/internal/protocol"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// runMsg carries a finished run summary.
type runMsg struct{ RunRow }

// nodesMsg carries the per-node states of a run.
type nodesMsg struct{ rows []NodeRow }

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	explainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// TUIWriter renders run results in a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements ResultWriter.
func (w *TUIWriter) Write(row RunRow) error {
	w.program.Send(runMsg{row})
	return nil
}

// WriteNode implements NodeWriter.
func (w *TUIWriter) WriteNode(row NodeRow) error {
	return w.WriteNodes([]NodeRow{row})
}

// WriteNodes replaces the node table contents.
func (w *TUIWriter) WriteNodes(rows []NodeRow) error {
	w.program.Send(nodesMsg{rows})
	return nil
}

// Wait blocks until the user quits the TUI. The quit is consumed here, so no
// interrupt is forwarded to the process.
func (w *TUIWriter) Wait() {
	w.sendSignal.Store(false)
	<-w.done
}

// Close shuts the TUI down without signalling the process.
func (w *TUIWriter) Close() {
	w.sendSignal.Store(false)
	if p, ok := w.program.(*tea.Program); ok {
		p.Quit()
	}
	<-w.done
}

type tuiModel struct {
	nodes table.Model
	run   *RunRow
	width int
}

func newTUIModel() tuiModel {
	cols := []table.Column{
		{Title: "Node", Width: 5},
		{Title: "Drift", Width: 8},
		{Title: "Offset", Width: 10},
		{Title: "Byz", Width: 4},
		{Title: "Excl", Width: 5},
		{Title: "Before", Width: 11},
		{Title: "After", Width: 11},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return tuiModel{nodes: t, width: 80}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case runMsg:
		row := msg.RunRow
		m.run = &row
	case nodesMsg:
		rows := make([]table.Row, len(msg.rows))
		for i, n := range msg.rows {
			rows[i] = table.Row{
				fmt.Sprintf("%d", n.NodeID),
				fmt.Sprintf("%.4f", n.Drift),
				fmt.Sprintf("%+.3f", n.Offset),
				yesNo(n.Byzantine),
				yesNo(n.Excluded),
				fmt.Sprintf("%.4f", n.Before),
				fmt.Sprintf("%.4f", n.After),
			}
		}
		m.nodes.SetRows(rows)
	}
	var cmd tea.Cmd
	m.nodes, cmd = m.nodes.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	s := titleStyle.Render("Clock Synchronization") + "\n\n"
	if m.run == nil {
		return s + dimStyle.Render("waiting for first run...") + "\n"
	}
	r := m.run
	verdict := badStyle.Render(fmt.Sprintf("UNSYNCHRONIZED  skew %.4f s", r.SkewAfter))
	if r.Synchronized {
		verdict = okStyle.Render(fmt.Sprintf("SYNCHRONIZED  skew %.4f s", r.SkewAfter))
	}
	s += fmt.Sprintf("%s  %s  fault=%s  robust=%t\n", dimStyle.Render(r.Scenario), r.Algorithm, r.FaultType, r.Robust)
	s += verdict + "\n"
	s += fmt.Sprintf("skew before %.4f s   skew after %.4f s\n\n", r.SkewBefore, r.SkewAfter)
	s += m.nodes.View() + "\n\n"
	s += explainStyle.Render(wordwrap.String(explain(*r), m.width-2)) + "\n"
	s += dimStyle.Render("q to quit") + "\n"
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// explain mirrors the qualitative notes shown next to the chart: what the
// configured fault does to each algorithm.
func explain(r RunRow) string {
	switch fault.Type(r.FaultType) {
	case fault.Byzantine:
		switch {
		case protocol.Algorithm(r.Algorithm) == protocol.Cristian:
			return "Node 0 misreports its clock by +30 s. Cristian clients all converge to the server's lie: inter-node skew looks clean while every clock is wrong against true time."
		case r.Robust:
			return "Node 0 misreports its clock by +30 s. Median estimation keeps the outlier away from the central value, so honest nodes stay on their own time."
		default:
			return "Node 0 misreports its clock by +30 s. With mean estimation the outlier drags every honest node upward by bias/n."
		}
	case fault.Crash:
		return "Node 1 is excluded from the sync round and keeps its old clock, so residual skew equals its distance from the converged group."
	default:
		return "All nodes report honestly; one synchronization pass drives skew toward zero."
	}
}
