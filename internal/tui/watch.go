// Package tui implements the live attachment view: a terminal dashboard that
// polls the daemon and shows every window's pairing state as it changes.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/framebind/internal/ipc"
)

const pollInterval = time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	stateStyles = map[string]lipgloss.Style{
		"attached": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"waiting":  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"closed":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

type tickMsg time.Time

type refreshMsg struct {
	status  *ipc.StatusData
	windows []ipc.WindowInfo
	err     error
}

// model is the root bubbletea model for the watch view.
type model struct {
	client  *ipc.Client
	status  *ipc.StatusData
	windows []ipc.WindowInfo
	err     error
	width   int
	height  int
}

func newModel(client *ipc.Client) model {
	return model{client: client}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh queries the daemon for status and the current window snapshot.
func (m model) refresh() tea.Msg {
	status, err := m.client.GetStatus()
	if err != nil {
		return refreshMsg{err: err}
	}
	data, err := m.client.ListWindows()
	if err != nil {
		return refreshMsg{err: err}
	}
	return refreshMsg{status: status, windows: data.Windows}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refresh
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.refresh, tick())

	case refreshMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.windows = msg.windows
		}
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("framebind"))
	if m.status != nil {
		b.WriteString(fmt.Sprintf("  %d windows / %d frames, up %s",
			m.status.WindowCount, m.status.ConsumerCount,
			(time.Duration(m.status.UptimeSeconds) * time.Second).String()))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-24s %-10s %-12s %s",
		"ID", "TITLE", "STATE", "FRAME", "GEOMETRY")))
	b.WriteString("\n")

	if len(m.windows) == 0 {
		b.WriteString(helpStyle.Render("no windows registered"))
		b.WriteString("\n")
	}

	for _, w := range m.windows {
		state := w.State
		if w.Iconified {
			state += " (icon)"
		}
		style, ok := stateStyles[w.State]
		if !ok {
			style = lipgloss.NewStyle()
		}

		frame := "-"
		if w.FrameID != 0 {
			frame = fmt.Sprintf("0x%x", w.FrameID)
		}

		title := truncate(w.Title, 24)

		b.WriteString(fmt.Sprintf("%-6d %-24s %s %-12s %dx%d+%d+%d\n",
			w.ID, title,
			style.Render(fmt.Sprintf("%-10s", state)),
			frame, w.Width, w.Height, w.X, w.Y))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit · r refresh"))
	b.WriteString("\n")

	return b.String()
}

// truncate shortens s to at most max characters, ellipsizing on rune
// boundaries so multibyte titles are never cut mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// Run starts the watch view. It requires an interactive terminal and a
// running daemon.
func Run(client *ipc.Client) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch requires an interactive terminal (stdout must be a TTY)")
	}
	// Fail fast before taking over the screen.
	if err := client.Ping(); err != nil {
		return err
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch view failed: %w", err)
	}
	return nil
}
