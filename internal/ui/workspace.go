package ui

import (
	"panedeck/internal/grid"
	"panedeck/internal/manifest"
	"panedeck/internal/splittree"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Panel ids for workspace focus rotation.
const (
	panelSidebar = "sidebar"
	panelGrid    = "grid"
)

const sidebarWidth = 28

// WorkspaceView composes the sidebar and the pane grid for one project.
// Tab rotates focus between the two panels; the grid panel routes movement
// keys to spatial pane navigation.
type WorkspaceView struct {
	ProjectName string
	Controller  *grid.Controller
	Grid        *GridView
	Sidebar     *SidebarView

	focus    FocusManager
	manifest *manifest.Manifest
	width    int
	height   int
}

var _ View = (*WorkspaceView)(nil)

// NewWorkspaceView wires a workspace around an existing grid controller.
// The controller's renderer must already be the returned view's GridView.
func NewWorkspaceView(projectName string, ctrl *grid.Controller, gv *GridView) *WorkspaceView {
	w := &WorkspaceView{
		ProjectName: projectName,
		Controller:  ctrl,
		Grid:        gv,
		Sidebar:     NewSidebarView(),
	}
	w.focus = FocusManager{
		Current: panelSidebar,
		Order:   []string{panelSidebar, panelGrid},
		OnChange: func(_, to string) {
			w.Sidebar.Focused = to == panelSidebar
		},
	}
	w.Sidebar.Focused = true
	return w
}

// SetManifest refreshes the sidebar tree and the labels on bound grid cells.
func (w *WorkspaceView) SetManifest(m *manifest.Manifest) {
	w.manifest = m
	w.Sidebar.SetManifest(m)
}

// Manifest returns the last manifest seen, or nil.
func (w *WorkspaceView) Manifest() *manifest.Manifest { return w.manifest }

// LabelEntry resolves an entry to its display title for grid cells.
func (w *WorkspaceView) LabelEntry(entry splittree.EntryRef) string {
	if entry.Kind == splittree.EntryTerminal {
		return "terminal"
	}
	if w.manifest != nil {
		if a, ok := w.manifest.FindAgent(entry.ID); ok {
			return a.Status.Glyph() + " " + a.Name
		}
	}
	return entry.ID
}

// FocusedPanel returns the id of the focused panel.
func (w *WorkspaceView) FocusedPanel() string { return w.focus.Current }

// SetSize distributes the window area between sidebar and grid.
func (w *WorkspaceView) SetSize(width, height int) {
	w.width = width
	w.height = height
	w.Sidebar.SetSize(sidebarWidth, height)
	gw := width - sidebarWidth - 1
	if gw < 20 {
		gw = 20
	}
	w.Grid.SetSize(gw, height)
}

// Init implements View.
func (w *WorkspaceView) Init() tea.Cmd { return nil }

// Update implements View.
func (w *WorkspaceView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.SetSize(msg.Width, msg.Height-2)
		return w, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			w.focus.Next()
			return w, nil
		}
		if w.focus.Current == panelGrid {
			if dir, ok := navKey(msg.String()); ok {
				w.Controller.NavigateFocus(dir)
				return w, nil
			}
			return w, nil
		}
		v, cmd := w.Sidebar.Update(msg)
		if sb, ok := v.(*SidebarView); ok {
			w.Sidebar = sb
		}
		return w, cmd
	}
	return w, nil
}

// navKey maps vim-style movement keys to spatial directions.
func navKey(s string) (splittree.NavDirection, bool) {
	switch s {
	case "h", "left":
		return splittree.NavLeft, true
	case "l", "right":
		return splittree.NavRight, true
	case "k", "up":
		return splittree.NavUp, true
	case "j", "down":
		return splittree.NavDown, true
	}
	return 0, false
}

// View implements View.
func (w *WorkspaceView) View() string {
	sidebarStyle := lipgloss.NewStyle().Width(sidebarWidth)
	if w.focus.Current == panelSidebar {
		sidebarStyle = sidebarStyle.BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(ColorHighlight))
	} else {
		sidebarStyle = sidebarStyle.BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(ColorMuted))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(w.Sidebar.View()),
		w.Grid.View(),
	)
}
