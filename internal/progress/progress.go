// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tfctl/awsutil/internal/log"
)

// Enabled reports whether stderr is a terminal that can host the spinner.
func Enabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Run calls fn while a spinner titled title is drawn on stderr. Ctrl-C
// cancels the context handed to fn and Run still waits for fn to return.
// When enabled is false fn is simply called.
func Run(ctx context.Context, title string, enabled bool, fn func(context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, cancel), tea.WithOutput(os.Stderr))

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(doneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		log.Debugf("progress ended early: err=%v", err)
		cancel()
	}

	return <-result
}

type doneMsg struct{ err error }

type model struct {
	spinner  spinner.Model
	title    string
	start    time.Time
	cancel   context.CancelFunc
	canceled bool
	done     bool
}

func newModel(title string, cancel context.CancelFunc) model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
	)
	return model{
		spinner: s,
		title:   title,
		start:   time.Now(),
		cancel:  cancel,
	}
}

func (m model) Init() tea.Cmd { return m.spinner.Tick }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			if !m.canceled {
				m.canceled = true
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}
	title := m.title
	if m.canceled {
		title += " (canceling)"
	}
	elapsed := time.Since(m.start).Round(time.Second)
	return fmt.Sprintf("%s %s %s\n", m.spinner.View(), title, elapsed)
}
