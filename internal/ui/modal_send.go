package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SendAgentTextMsg asks the app to deliver text to an agent's terminal.
type SendAgentTextMsg struct {
	AgentID string
	Text    string
}

// SendTextModal is a modal for typing a line of text to send to an agent.
type SendTextModal struct {
	agentID   string
	agentName string
	input     textinput.Model
}

var _ View = (*SendTextModal)(nil)

// NewSendTextModal creates a send-text modal targeting the given agent.
func NewSendTextModal(agentID, agentName string) *SendTextModal {
	ti := textinput.New()
	ti.Placeholder = "text to send"
	ti.Width = 50
	ti.Focus()
	return &SendTextModal{agentID: agentID, agentName: agentName, input: ti}
}

// Init implements View.
func (m *SendTextModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *SendTextModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			text := m.input.Value()
			if text != "" {
				return m, func() tea.Msg {
					return SendAgentTextMsg{AgentID: m.agentID, Text: text}
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *SendTextModal) View() string {
	content := ModalStyles.Title.Render("Send to "+m.agentName) + "\n\n"
	content += m.input.View() + "\n\n"
	content += ModalStyles.Help.Render("Enter: send  Esc: cancel")
	return ModalStyles.BoxDefault.Render(content)
}
