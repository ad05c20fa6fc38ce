package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SpawnMsg asks the app to spawn a new agent in a fresh worktree.
type SpawnMsg struct {
	Name   string
	Prompt string
}

// SpawnModal collects the worktree name and the initial prompt for a new
// agent. Tab switches fields, Enter submits.
type SpawnModal struct {
	name   textinput.Model
	prompt textinput.Model
	focus  int
}

var _ View = (*SpawnModal)(nil)

// NewSpawnModal creates a spawn modal.
func NewSpawnModal() *SpawnModal {
	name := textinput.New()
	name.Placeholder = "worktree-name"
	name.Width = 40
	name.Focus()

	prompt := textinput.New()
	prompt.Placeholder = "initial prompt (optional)"
	prompt.Width = 40

	return &SpawnModal{name: name, prompt: prompt}
}

// Init implements View.
func (m *SpawnModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *SpawnModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "tab", "shift+tab":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.name.Focus()
				m.prompt.Blur()
			} else {
				m.name.Blur()
				m.prompt.Focus()
			}
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.name.Value())
			if name == "" {
				return m, nil
			}
			prompt := strings.TrimSpace(m.prompt.Value())
			return m, func() tea.Msg { return SpawnMsg{Name: name, Prompt: prompt} }
		}
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// View implements View.
func (m *SpawnModal) View() string {
	content := ModalStyles.Title.Render("Spawn agent") + "\n\n"
	content += Styles.Section.Render("Worktree") + "\n" + m.name.View() + "\n\n"
	content += Styles.Section.Render("Prompt") + "\n" + m.prompt.View() + "\n\n"
	content += ModalStyles.Help.Render("Tab: switch field  Enter: spawn  Esc: cancel")
	return ModalStyles.BoxDefault.Render(content)
}
