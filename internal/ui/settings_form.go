package ui

import (
	"strings"

	"panedeck/internal/settings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SaveSettingsMsg asks the app to persist edited settings.
type SaveSettingsMsg struct {
	Settings settings.Settings
}

// field indexes in the settings form, in display order.
const (
	fieldServerURL = iota
	fieldBearerToken
	fieldShellCommand
	fieldTraceEndpoint
	fieldAppearance
	fieldCount
)

// SettingsForm edits the persisted client settings. Tab cycles fields, the
// appearance row cycles with left/right, ctrl+s saves.
type SettingsForm struct {
	inputs     []textinput.Model
	appearance settings.Appearance
	focus      int
}

var _ View = (*SettingsForm)(nil)

// NewSettingsForm creates a form pre-filled from the current settings.
func NewSettingsForm(s settings.Settings) *SettingsForm {
	labels := []struct {
		placeholder string
		value       string
		secret      bool
	}{
		{"http://localhost:3000", s.ServerURL, false},
		{"bearer token", s.BearerToken, true},
		{"shell command (default $SHELL)", s.ShellCommand, false},
		{"OTLP trace endpoint", s.TraceEndpoint, false},
	}
	inputs := make([]textinput.Model, len(labels))
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l.placeholder
		ti.SetValue(l.value)
		ti.Width = 48
		if l.secret {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[0].Focus()
	return &SettingsForm{
		inputs:     inputs,
		appearance: s.Appearance,
	}
}

// Settings returns the edited values.
func (f *SettingsForm) Settings() settings.Settings {
	return settings.Settings{
		ServerURL:     strings.TrimSpace(f.inputs[fieldServerURL].Value()),
		BearerToken:   strings.TrimSpace(f.inputs[fieldBearerToken].Value()),
		ShellCommand:  strings.TrimSpace(f.inputs[fieldShellCommand].Value()),
		TraceEndpoint: strings.TrimSpace(f.inputs[fieldTraceEndpoint].Value()),
		Appearance:    f.appearance,
	}
}

// Init implements View.
func (f *SettingsForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (f *SettingsForm) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, f.updateFocused(msg)
	}

	switch key.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return f, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return f, nil
	case "ctrl+s":
		s := f.Settings()
		return f, func() tea.Msg { return SaveSettingsMsg{Settings: s} }
	case "left", "right":
		if f.focus == fieldAppearance {
			f.cycleAppearance(key.String() == "right")
			return f, nil
		}
	case "enter":
		if f.focus == fieldAppearance {
			f.cycleAppearance(true)
			return f, nil
		}
		s := f.Settings()
		return f, func() tea.Msg { return SaveSettingsMsg{Settings: s} }
	}
	return f, f.updateFocused(msg)
}

func (f *SettingsForm) updateFocused(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *SettingsForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *SettingsForm) cycleAppearance(forward bool) {
	all := settings.Appearances()
	cur := 0
	for i, a := range all {
		if a == f.appearance {
			cur = i
			break
		}
	}
	if forward {
		cur = (cur + 1) % len(all)
	} else {
		cur = (cur + len(all) - 1) % len(all)
	}
	f.appearance = all[cur]
}

// View implements View.
func (f *SettingsForm) View() string {
	rows := []struct {
		label string
		body  string
	}{
		{"Server URL", f.inputs[fieldServerURL].View()},
		{"Bearer token", f.inputs[fieldBearerToken].View()},
		{"Shell command", f.inputs[fieldShellCommand].View()},
		{"Trace endpoint", f.inputs[fieldTraceEndpoint].View()},
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("Settings") + "\n\n")
	for _, r := range rows {
		b.WriteString(Styles.Section.Render(r.label) + "\n")
		b.WriteString(r.body + "\n\n")
	}

	appRow := Styles.Section.Render("Appearance") + "\n"
	label := f.appearance.Label()
	if f.focus == fieldAppearance {
		appRow += Styles.Selected.Render("< " + label + " >")
	} else {
		appRow += Styles.Normal.Render(label)
	}
	b.WriteString(appRow + "\n\n")
	b.WriteString(Styles.Hint.Render("Tab: next field  ctrl+s: save  Esc: back"))
	return b.String()
}
