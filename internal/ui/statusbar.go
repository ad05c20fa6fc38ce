package ui

import (
	"fmt"

	"panedeck/internal/api"
	"panedeck/internal/manifest"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText))
	statusConnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	statusErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger))
	statusRetryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
)

// StatusBar renders one line: connection state, agent counts, and the most
// recent error or info message.
type StatusBar struct {
	State    api.ConnectionState
	Manifest *manifest.Manifest
	Message  string
	IsError  bool
}

// SetError records an error for display, clearing any info message.
func (s *StatusBar) SetError(err error) {
	if err == nil {
		return
	}
	s.Message = err.Error()
	s.IsError = true
}

// SetInfo records a transient info message.
func (s *StatusBar) SetInfo(text string) {
	s.Message = text
	s.IsError = false
}

// View renders the bar.
func (s *StatusBar) View() string {
	connStyle := statusConnStyle
	switch s.State {
	case api.StateReconnecting, api.StateConnecting:
		connStyle = statusRetryStyle
	case api.StateDisconnected, api.StateError:
		connStyle = statusErrStyle
	}
	out := connStyle.Render("[" + s.State.String() + "]")

	if s.Manifest != nil {
		running := s.Manifest.CountAgentsByStatus(manifest.AgentRunning)
		idle := s.Manifest.CountAgentsByStatus(manifest.AgentIdle)
		out += statusBarStyle.Render(fmt.Sprintf("  %s  %d running / %d idle",
			s.Manifest.SessionName, running, idle))
	}
	if s.Message != "" {
		if s.IsError {
			out += "  " + statusErrStyle.Render(s.Message)
		} else {
			out += "  " + statusBarStyle.Render(s.Message)
		}
	}
	return out
}
