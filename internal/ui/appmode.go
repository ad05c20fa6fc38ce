package ui

// AppMode represents the top-level application mode.
type AppMode int

const (
	// ModeDashboard shows the project list, calendar, and connection status.
	ModeDashboard AppMode = iota
	// ModeWorkspace shows the sidebar and the pane grid for one project.
	ModeWorkspace
	// ModeSettings shows the settings form.
	ModeSettings
)

func (m AppMode) String() string {
	switch m {
	case ModeDashboard:
		return "Dashboard"
	case ModeWorkspace:
		return "Workspace"
	case ModeSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}
