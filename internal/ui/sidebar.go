package ui

import (
	"fmt"
	"sort"

	"panedeck/internal/manifest"
	"panedeck/internal/splittree"
	"panedeck/internal/ui/textutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sidebarRow is one line in the tree: a worktree header or an agent beneath it.
type sidebarRow struct {
	worktree manifest.WorktreeEntry
	agent    *manifest.AgentEntry
}

// SidebarView shows the worktree/agent tree for the current session.
// Enter on an agent fills the focused grid pane with it.
type SidebarView struct {
	rows    []sidebarRow
	cursor  int
	width   int
	height  int
	Focused bool
}

var _ View = (*SidebarView)(nil)

// NewSidebarView creates an empty sidebar; rows arrive with the manifest.
func NewSidebarView() *SidebarView {
	return &SidebarView{width: 28}
}

// SetManifest rebuilds the tree rows. The cursor is clamped, not reset, so
// status updates don't yank the selection around.
func (s *SidebarView) SetManifest(m *manifest.Manifest) {
	s.rows = s.rows[:0]
	if m == nil {
		s.cursor = 0
		return
	}
	for _, wt := range m.SortedWorktrees() {
		s.rows = append(s.rows, sidebarRow{worktree: wt})
		agents := make([]manifest.AgentEntry, 0, len(wt.Agents))
		for _, a := range wt.Agents {
			agents = append(agents, a)
		}
		sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
		for i := range agents {
			s.rows = append(s.rows, sidebarRow{worktree: wt, agent: &agents[i]})
		}
	}
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SelectedAgent returns the agent under the cursor, if any.
func (s *SidebarView) SelectedAgent() (manifest.AgentEntry, bool) {
	if s.cursor < len(s.rows) && s.rows[s.cursor].agent != nil {
		return *s.rows[s.cursor].agent, true
	}
	return manifest.AgentEntry{}, false
}

// SelectedWorktree returns the worktree under the cursor. Agent rows resolve
// to their parent worktree.
func (s *SidebarView) SelectedWorktree() (manifest.WorktreeEntry, bool) {
	if s.cursor < len(s.rows) {
		return s.rows[s.cursor].worktree, true
	}
	return manifest.WorktreeEntry{}, false
}

// SetSize updates the sidebar dimensions.
func (s *SidebarView) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Init implements View.
func (s *SidebarView) Init() tea.Cmd { return nil }

// Update implements View.
func (s *SidebarView) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.Focused {
		return s, nil
	}
	switch key.String() {
	case "j", "down":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
		}
	case "enter":
		if a, ok := s.SelectedAgent(); ok {
			entry := splittree.EntryRef{ID: a.ID, Kind: splittree.EntryAgent}
			return s, func() tea.Msg { return FillPaneMsg{Entry: entry} }
		}
	}
	return s, nil
}

// View implements View.
func (s *SidebarView) View() string {
	if len(s.rows) == 0 {
		return Styles.Empty.Render("no worktrees yet")
	}
	var lines []string
	for i, row := range s.rows {
		var line string
		if row.agent == nil {
			line = Styles.Section.Render(textutil.Truncate(row.worktree.Name, s.width)) +
				" " + Styles.Muted.Render(row.worktree.Status.Label())
		} else {
			name := textutil.Truncate(row.agent.Name, s.width-4)
			if i == s.cursor {
				line = Styles.Selected.Render(fmt.Sprintf("  %s %s", row.agent.Status.Glyph(), name))
			} else {
				glyph := AgentStatusStyle(row.agent.Status).Render(row.agent.Status.Glyph())
				line = "  " + glyph + " " + Styles.Normal.Render(name)
			}
		}
		if i == s.cursor && row.agent == nil {
			line = Styles.Selected.Render(textutil.Truncate(row.worktree.Name, s.width))
		}
		lines = append(lines, line)
	}
	if s.height > 0 && len(lines) > s.height {
		// Keep the cursor visible.
		start := s.cursor - s.height/2
		if start < 0 {
			start = 0
		}
		if start+s.height > len(lines) {
			start = len(lines) - s.height
		}
		lines = lines[start : start+s.height]
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
