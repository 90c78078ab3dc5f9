// Package progress shows a spinner while long scans run on a TTY.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Run executes fn while a spinner animates on stderr. On a non-TTY, or
// when disabled, fn runs without any decoration.
func Run(message string, disabled bool, fn func() error) error {
	if disabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	m := newModel(message)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	go func() {
		if _, err := p.Run(); err != nil {
			// A broken spinner must not break the scan
			_ = err
		}
	}()

	err := <-done

	p.Send(doneMsg{err: err})
	// Give the final frame time to render
	time.Sleep(50 * time.Millisecond)
	p.Quit()

	return err
}

type doneMsg struct {
	err error
}

type model struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

func newModel(message string) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &model{
		spinner: s,
		message: message,
	}
}

func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("✗ %s\n", m.message)
		}
		return fmt.Sprintf("✓ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
