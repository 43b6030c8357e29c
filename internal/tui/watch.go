// Package tui provides the live terminal view for a running orchestration.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hiveflow/hiveflow/internal/orchestrator"
)

// EventMsg wraps an orchestrator event for the watch view.
type EventMsg struct {
	Event orchestrator.Event
}

// DoneMsg signals that the orchestration has returned.
type DoneMsg struct {
	Success bool
	Err     error
}

// workerRow is one worker's display state.
type workerRow struct {
	workerID string
	role     string
	turn     int
	state    string // "running", "done", "failed", "interrupted"
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Watch is the bubbletea model for `hiveflow run --watch`.
type Watch struct {
	objective string
	spinner   spinner.Model
	workers   []workerRow
	events    <-chan orchestrator.Event
	lastLine  string
	done      bool
	success   bool
	err       error
}

// NewWatch creates a watch view over the given event channel.
func NewWatch(objective string, events <-chan orchestrator.Event) *Watch {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Watch{
		objective: objective,
		spinner:   sp,
		events:    events,
	}
}

// Init starts the spinner and the event pump.
func (w *Watch) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, w.nextEvent())
}

// nextEvent blocks on the orchestrator's event channel.
func (w *Watch) nextEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-w.events
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// Update handles messages.
func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return w, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	case EventMsg:
		w.apply(msg.Event)
		return w, w.nextEvent()
	case DoneMsg:
		w.done = true
		w.success = msg.Success
		w.err = msg.Err
		return w, tea.Quit
	}
	return w, nil
}

// apply folds one orchestrator event into the display state.
func (w *Watch) apply(event orchestrator.Event) {
	switch event.Type {
	case orchestrator.EventWorkerSpawning:
		w.workers = append(w.workers, workerRow{
			workerID: event.WorkerID,
			role:     event.Role,
			state:    "running",
		})
	case orchestrator.EventWorkerStep:
		for i := range w.workers {
			if w.workers[i].workerID == event.WorkerID {
				w.workers[i].turn = event.Turn
			}
		}
	case orchestrator.EventWorkerCompleted:
		w.setState(event.WorkerID, "done")
	case orchestrator.EventWorkerFailed:
		w.setState(event.WorkerID, "failed")
	case orchestrator.EventWorkerInterrupted:
		w.setState(event.WorkerID, "interrupted")
	case orchestrator.EventOrchestrationCompleted, orchestrator.EventOrchestrationFailed:
		w.lastLine = event.Message
	}
}

func (w *Watch) setState(workerID, state string) {
	for i := range w.workers {
		if w.workers[i].workerID == workerID {
			w.workers[i].state = state
		}
	}
}

// View renders the watch display.
func (w *Watch) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hiveflow") + " " + w.objective + "\n\n")

	for _, row := range w.workers {
		var marker string
		switch row.state {
		case "done":
			marker = okStyle.Render("✓")
		case "failed":
			marker = failStyle.Render("✗")
		case "interrupted":
			marker = dimStyle.Render("⊘")
		default:
			marker = w.spinner.View()
		}
		turn := ""
		if row.turn > 0 && row.state == "running" {
			turn = dimStyle.Render(fmt.Sprintf(" turn %d", row.turn))
		}
		fmt.Fprintf(&b, "  %s %s%s\n", marker, activeStyle.Render(row.role), turn)
	}

	if w.lastLine != "" {
		b.WriteString("\n" + dimStyle.Render(w.lastLine) + "\n")
	}
	if !w.done {
		b.WriteString("\n" + dimStyle.Render("q to detach") + "\n")
	}
	return b.String()
}

var _ tea.Model = (*Watch)(nil)
