// Package tui renders a live job monitor in the terminal.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/autochroma/autochroma/internal/model"
)

const pollInterval = time.Second

// JobSource provides job snapshots and cancellation; the engine satisfies
// it directly.
type JobSource interface {
	Jobs() []model.JobSnapshot
	CancelJob(jobID string) (model.JobSnapshot, error)
}

// Monitor is the bubbletea model for the job monitor.
type Monitor struct {
	source JobSource
	jobs   []model.JobSnapshot
	bar    progress.Model
	cursor int
	err    error

	width  int
	height int
}

// NewMonitor creates a Monitor over the given job source.
func NewMonitor(source JobSource) *Monitor {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	return &Monitor{source: source, bar: bar}
}

type jobsMsg []model.JobSnapshot

type tickMsg time.Time

func (m *Monitor) poll() tea.Msg {
	return jobsMsg(m.source.Jobs())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.poll, tick())
}

// Update implements tea.Model
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.jobs)-1 {
				m.cursor++
			}
		case "c":
			if m.cursor < len(m.jobs) {
				_, m.err = m.source.CancelJob(m.jobs[m.cursor].ID)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(40, msg.Width/3)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.poll, tick())

	case jobsMsg:
		m.jobs = msg
		if m.cursor >= len(m.jobs) && len(m.jobs) > 0 {
			m.cursor = len(m.jobs) - 1
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model
func (m *Monitor) View() string {
	s := titleStyle.Render("AutoChroma Jobs") + "\n"

	if len(m.jobs) == 0 {
		s += mutedItemStyle.Render("no jobs yet") + "\n"
	}

	for i, job := range m.jobs {
		style := normalItemStyle
		prefix := "  "
		if i == m.cursor {
			style = selectedItemStyle
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s %-8s %s  %s",
			prefix,
			statusIcon(string(job.Status)),
			job.Status,
			shortID(job.ID),
			m.bar.ViewAs(job.Progress),
		)
		s += style.Render(line) + "\n"

		if i == m.cursor && job.Message != "" {
			s += mutedItemStyle.Render("    "+job.Message) + "\n"
		}
	}

	if m.err != nil {
		s += errStyle.Render("error: "+m.err.Error()) + "\n"
	}

	s += helpStyle.Render("↑/↓: navigate • c: cancel • q: quit")
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the monitor and blocks until the user quits.
func Run(source JobSource) error {
	program := tea.NewProgram(NewMonitor(source), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
