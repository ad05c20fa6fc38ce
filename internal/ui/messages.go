package ui

import (
	"panedeck/internal/api"
	"panedeck/internal/manifest"
	"panedeck/internal/splittree"
)

// SelectProjectMsg is sent when the user opens a project from the dashboard.
type SelectProjectMsg struct {
	Name string
}

// ProjectsLoadedMsg carries the project list read from disk.
type ProjectsLoadedMsg struct {
	Projects []ProjectSummary
}

// ProjectCreatedMsg is sent after a project is created on disk.
type ProjectCreatedMsg struct {
	Name string
}

// DeleteProjectMsg asks the app to delete a project.
type DeleteProjectMsg struct {
	Name string
}

// StreamEventMsg wraps one status-stream event for the update loop.
type StreamEventMsg struct {
	Event api.Event
}

// ManifestMsg carries a freshly fetched manifest.
type ManifestMsg struct {
	Manifest *manifest.Manifest
}

// FillPaneMsg asks the grid to bind an entry to the focused pane.
type FillPaneMsg struct {
	Entry splittree.EntryRef
}

// SplitPaneMsg asks the grid to split the focused pane.
type SplitPaneMsg struct {
	Dir splittree.Direction
}

// ClosePaneMsg asks the grid to close the focused pane.
type ClosePaneMsg struct{}

// NavigatePaneMsg asks the grid to move focus spatially.
type NavigatePaneMsg struct {
	Dir splittree.NavDirection
}

// OpenTerminalMsg opens a local terminal in the focused pane.
type OpenTerminalMsg struct{}

// OpenSettingsMsg switches to the settings form.
type OpenSettingsMsg struct{}

// SettingsSavedMsg is sent after the settings form is saved.
type SettingsSavedMsg struct{}

// DismissModalMsg closes the top overlay.
type DismissModalMsg struct{}

// ErrMsg surfaces an operation error in the status bar.
type ErrMsg struct {
	Err error
}

// StatusMsg surfaces a transient info line in the status bar.
type StatusMsg struct {
	Text string
}
