package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"panedeck/internal/api"
	"panedeck/internal/grid"
	"panedeck/internal/layoutstore"
	"panedeck/internal/manifest"
	"panedeck/internal/project"
	"panedeck/internal/pty"
	"panedeck/internal/session"
	"panedeck/internal/settings"
	"panedeck/internal/splittree"
	"panedeck/internal/trace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
)

// Deps carries the host services the UI drives. Everything is injected so
// tests can substitute fakes.
type Deps struct {
	Projects  *project.Manager
	Settings  settings.Settings
	Client    *api.Client
	Stream    *api.Stream
	Layouts   *layoutstore.Store
	Registry  *session.Registry
	Provider  grid.ContentProvider
	PTYRunner pty.Runner
	Tracer    *trace.Tracer

	// PaneInput delivers keystrokes straight to a local tmux pane. When the
	// target agent is already joined into the grid this skips the server
	// round trip; nil means always go through the API.
	PaneInput func(paneID, keys string) error
}

// Requests emitted by keybindings; they carry no state so bindings can be
// registered once at startup and resolved against current state on dispatch.
type (
	openCreateProjectMsg struct{}
	openDeleteProjectMsg struct{}
	openSpawnMsg         struct{}
	backToDashboardMsg   struct{}
	killAgentMsg         struct{}
	restartAgentMsg      struct{}
	openSendTextMsg      struct{}
	mergeWorktreeMsg     struct{}
	killWorktreeMsg      struct{}
	focusSidebarMsg      struct{}
)

// projectDeletedMsg confirms a project deletion so the list can reload.
type projectDeletedMsg struct {
	name string
}

// agentLogsMsg backfills a pane's output buffer with recent server-side logs.
type agentLogsMsg struct {
	agentID string
	lines   []string
}

// AppModel is the root model: dashboard, workspace, and settings modes plus
// a modal overlay stack and the status bar.
type AppModel struct {
	Mode       AppMode
	Dashboard  *DashboardView
	Workspace  *WorkspaceView
	Settings   *SettingsForm
	KeyHandler *KeyHandler
	Overlays   OverlayStack
	Status     StatusBar

	deps          Deps
	projectCfg    project.Config
	pendingLayout *splittree.LayoutNode
	streamURL     string
	width         int
	height        int
}

// NewAppModel creates the root application model and registers keybindings.
func NewAppModel(deps Deps) *AppModel {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	reg.BindWithDescForMode("SPC p c", msgCmd(openCreateProjectMsg{}), "Create project", []AppMode{ModeDashboard})
	reg.BindWithDescForMode("SPC p d", msgCmd(openDeleteProjectMsg{}), "Delete project", []AppMode{ModeDashboard})
	reg.BindWithDescForMode("SPC p l", msgCmd(backToDashboardMsg{}), "Project list", []AppMode{ModeWorkspace})
	reg.BindWithDesc("SPC s", msgCmd(OpenSettingsMsg{}), "Settings")

	wsOnly := []AppMode{ModeWorkspace}
	reg.BindWithDescForMode("SPC g v", msgCmd(SplitPaneMsg{Dir: splittree.Vertical}), "Split right", wsOnly)
	reg.BindWithDescForMode("SPC g h", msgCmd(SplitPaneMsg{Dir: splittree.Horizontal}), "Split below", wsOnly)
	reg.BindWithDescForMode("SPC g x", msgCmd(ClosePaneMsg{}), "Close pane", wsOnly)
	reg.BindWithDescForMode("SPC g t", msgCmd(OpenTerminalMsg{}), "Open terminal", wsOnly)
	reg.BindWithDescForMode("SPC g s", msgCmd(focusSidebarMsg{}), "Focus sidebar", wsOnly)

	reg.BindWithDescForMode("SPC a k", msgCmd(killAgentMsg{}), "Kill agent", wsOnly)
	reg.BindWithDescForMode("SPC a r", msgCmd(restartAgentMsg{}), "Restart agent", wsOnly)
	reg.BindWithDescForMode("SPC a s", msgCmd(openSendTextMsg{}), "Send text", wsOnly)
	reg.BindWithDescForMode("SPC w n", msgCmd(openSpawnMsg{}), "New worktree", wsOnly)
	reg.BindWithDescForMode("SPC w m", msgCmd(mergeWorktreeMsg{}), "Merge worktree", wsOnly)
	reg.BindWithDescForMode("SPC w k", msgCmd(killWorktreeMsg{}), "Kill worktree", wsOnly)

	// Spatial pane navigation, available without the leader.
	reg.Bind("ctrl+h", msgCmd(NavigatePaneMsg{Dir: splittree.NavLeft}))
	reg.Bind("ctrl+l", msgCmd(NavigatePaneMsg{Dir: splittree.NavRight}))
	reg.Bind("ctrl+k", msgCmd(NavigatePaneMsg{Dir: splittree.NavUp}))
	reg.Bind("ctrl+j", msgCmd(NavigatePaneMsg{Dir: splittree.NavDown}))

	return &AppModel{
		Mode:       ModeDashboard,
		Dashboard:  NewDashboardView(),
		KeyHandler: NewKeyHandler(reg),
		deps:       deps,
	}
}

// msgCmd wraps a message as a command for keybinding registration.
func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

var _ tea.Model = (*appModelAdapter)(nil)

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	a.streamURL = a.deps.Settings.ServerURL
	cmds := []tea.Cmd{a.Dashboard.Init(), a.loadProjects()}
	if a.deps.Stream != nil {
		a.deps.Stream.Start()
		cmds = append(cmds, a.waitForStream())
	}
	if a.deps.Client != nil {
		cmds = append(cmds, a.fetchStatus())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.Workspace != nil {
			a.Workspace.SetSize(msg.Width, msg.Height-2)
		}
		v, _ := a.Dashboard.Update(msg)
		if d, ok := v.(*DashboardView); ok {
			a.Dashboard = d
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case StreamEventMsg:
		cmd := a.applyStreamEvent(msg.Event)
		return a, tea.Batch(cmd, a.waitForStream())

	case ManifestMsg:
		a.applyManifest(msg.Manifest)
		return a, nil

	case ProjectsLoadedMsg:
		a.Dashboard.SetProjects(msg.Projects)
		return a, a.Dashboard.SetLoading(false)

	case SelectProjectMsg:
		return a, a.openWorkspace(msg.Name)

	case backToDashboardMsg:
		return a, tea.Batch(a.closeWorkspace(), a.loadProjects())

	case openCreateProjectMsg:
		a.Overlays.Push(Overlay{View: NewCreateProjectModal(), Dismiss: "esc"})
		return a, nil

	case openDeleteProjectMsg:
		if p, ok := a.Dashboard.Selected(); ok {
			a.Overlays.Push(Overlay{View: NewDeleteProjectConfirmModal(p.Name), Dismiss: "esc"})
		}
		return a, nil

	case openSpawnMsg:
		a.Overlays.Push(Overlay{View: NewSpawnModal(), Dismiss: "esc"})
		return a, nil

	case CreateProjectMsg:
		a.Overlays.Pop()
		return a, a.createProject(msg.Name)

	case ProjectCreatedMsg:
		a.Status.SetInfo("created project " + msg.Name)
		return a, a.loadProjects()

	case DeleteProjectMsg:
		a.Overlays.Pop()
		return a, a.deleteProject(msg.Name)

	case projectDeletedMsg:
		a.Status.SetInfo("deleted project " + msg.name)
		return a, a.loadProjects()

	case SpawnMsg:
		a.Overlays.Pop()
		return a, a.spawn(msg)

	case FillPaneMsg:
		return a, a.fillPane(msg.Entry)

	case SplitPaneMsg:
		if a.Workspace != nil {
			_, end := a.deps.Tracer.Span(context.Background(), "grid.split")
			ok := a.Workspace.Controller.SplitFocusedPane(msg.Dir)
			end(nil)
			if !ok {
				a.Status.SetInfo("grid is full")
				return a, nil
			}
			a.saveLayout()
		}
		return a, nil

	case ClosePaneMsg:
		a.closePane()
		return a, nil

	case NavigatePaneMsg:
		if a.Workspace != nil {
			a.Workspace.Controller.NavigateFocus(msg.Dir)
		}
		return a, nil

	case OpenTerminalMsg:
		return a, a.openTerminal()

	case focusSidebarMsg:
		if a.Workspace != nil {
			a.Workspace.focus.SetFocus(panelSidebar)
		}
		return a, nil

	case killAgentMsg:
		return a, a.agentOp("kill")
	case restartAgentMsg:
		return a, a.agentOp("restart")

	case openSendTextMsg:
		if a.Workspace != nil {
			if agent, ok := a.Workspace.Sidebar.SelectedAgent(); ok {
				a.Overlays.Push(Overlay{View: NewSendTextModal(agent.ID, agent.Name), Dismiss: "esc"})
			} else {
				a.Status.SetInfo("no agent selected")
			}
		}
		return a, nil

	case SendAgentTextMsg:
		a.Overlays.Pop()
		return a, a.sendAgentText(msg.AgentID, msg.Text)

	case agentLogsMsg:
		if a.Workspace != nil {
			for _, line := range msg.lines {
				a.Workspace.Grid.AppendOutput(msg.agentID, line)
			}
		}
		return a, nil
	case mergeWorktreeMsg:
		return a, a.worktreeOp("merge")
	case killWorktreeMsg:
		return a, a.worktreeOp("kill")

	case OpenSettingsMsg:
		a.Mode = ModeSettings
		a.Settings = NewSettingsForm(a.deps.Settings)
		return a, a.Settings.Init()

	case SaveSettingsMsg:
		a.deps.Settings = msg.Settings
		if a.deps.Client != nil {
			a.deps.Client.SetConnection(msg.Settings.ServerURL, msg.Settings.BearerToken)
		}
		return a, a.saveSettings(msg.Settings)

	case SettingsSavedMsg:
		a.Mode = ModeDashboard
		a.Settings = nil
		a.Status.SetInfo("settings saved")
		return a, nil

	case DismissModalMsg:
		a.dismissTopOverlay()
		return a, nil

	case ErrMsg:
		a.Status.SetError(msg.Err)
		return a, nil

	case StatusMsg:
		a.Status.SetInfo(msg.Text)
		return a, nil
	}

	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// updateKey routes key presses: overlays first, then the settings form, then
// the leader-key system, then the current view.
func (a *appModelAdapter) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.dismissTopOverlay()
			return a, nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}

	if a.Mode == ModeSettings {
		if msg.String() == "esc" {
			a.Mode = ModeDashboard
			a.Settings = nil
			return a, nil
		}
		v, cmd := a.Settings.Update(msg)
		if f, ok := v.(*SettingsForm); ok {
			a.Settings = f
		}
		return a, cmd
	}

	if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
		return a, keyCmd
	}

	if a.Mode == ModeWorkspace && msg.String() == "esc" {
		return a, tea.Batch(a.closeWorkspace(), a.loadProjects())
	}

	if a.forwardToAgentPane(msg) {
		return a, nil
	}

	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// forwardToAgentPane sends keystrokes over the stream when the focused grid
// pane shows an agent without a local tmux pane (the streamed-output
// fallback outside tmux). Movement and focus keys stay with the workspace.
func (a *appModelAdapter) forwardToAgentPane(msg tea.KeyMsg) bool {
	if a.Mode != ModeWorkspace || a.Workspace == nil || a.deps.Stream == nil {
		return false
	}
	if a.Workspace.FocusedPanel() != panelGrid {
		return false
	}
	s := msg.String()
	if s == "tab" {
		return false
	}
	if _, ok := navKey(s); ok {
		return false
	}
	ctrl := a.Workspace.Controller
	entry := splittree.EntryFor(ctrl.Root(), ctrl.FocusedLeaf())
	if entry == nil || entry.Kind != splittree.EntryAgent {
		return false
	}
	if a.deps.Registry != nil {
		if _, ok := a.deps.Registry.PaneFor(entry.ID); ok {
			return false
		}
	}
	b := keyToPTYBytes(msg)
	if len(b) == 0 {
		return false
	}
	_ = a.deps.Stream.SendTerminalInput(entry.ID, string(b))
	return true
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var base string
	if top, ok := a.Overlays.Peek(); ok {
		base = top.View.View()
	} else {
		base = a.currentView().View()
	}
	out := base + "\n" + a.Status.View()
	if a.KeyHandler.LeaderWaiting {
		out += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return out
}

func (a *appModelAdapter) currentView() View {
	switch a.Mode {
	case ModeWorkspace:
		if a.Workspace != nil {
			return a.Workspace
		}
	case ModeSettings:
		if a.Settings != nil {
			return a.Settings
		}
	}
	return a.Dashboard
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch a.Mode {
	case ModeDashboard:
		if d, ok := v.(*DashboardView); ok {
			a.Dashboard = d
		}
	case ModeWorkspace:
		if w, ok := v.(*WorkspaceView); ok {
			a.Workspace = w
		}
	case ModeSettings:
		if f, ok := v.(*SettingsForm); ok {
			a.Settings = f
		}
	}
}

func (a *appModelAdapter) dismissTopOverlay() {
	if top, ok := a.Overlays.Pop(); ok {
		if c, ok := top.View.(*TerminalView); ok {
			_ = c.Close()
		}
	}
}

// openWorkspace builds the grid for a project and restores its saved layout
// once the manifest arrives.
func (a *appModelAdapter) openWorkspace(name string) tea.Cmd {
	ids := splittree.NewIDSource()
	var ws *WorkspaceView
	gv := NewGridView(nil, func(e splittree.EntryRef) string {
		if ws != nil {
			return ws.LabelEntry(e)
		}
		return e.ID
	})
	ctrl := grid.New(a.deps.Provider, gv, ids)
	gv.SetController(ctrl)
	ws = NewWorkspaceView(name, ctrl, gv)
	if a.width > 0 {
		ws.SetSize(a.width, a.height-2)
	}

	a.Workspace = ws
	a.Mode = ModeWorkspace
	a.pendingLayout = nil
	if a.deps.Layouts != nil {
		if layout, ok := a.deps.Layouts.Load(name, "grid"); ok {
			a.pendingLayout = layout
		}
	}

	a.projectCfg = project.Config{}
	if a.deps.Projects != nil {
		if cfg, err := a.deps.Projects.LoadConfig(name); err == nil {
			a.projectCfg = cfg
		}
	}
	serverCmd := a.applyProjectServer(a.projectCfg.ServerURL)

	// A cached manifest from another server would mislead layout restore.
	if serverCmd == nil && a.Status.Manifest != nil {
		a.applyManifest(a.Status.Manifest)
	} else if serverCmd != nil {
		a.Status.Manifest = nil
	}
	return tea.Batch(ws.Init(), serverCmd)
}

// applyProjectServer points the client and stream at the project's server
// override, or back at the global settings server when serverURL is empty.
// Returns commands that refetch status and resume the stream read loop.
func (a *appModelAdapter) applyProjectServer(serverURL string) tea.Cmd {
	target := serverURL
	if target == "" {
		target = a.deps.Settings.ServerURL
	}
	var cmds []tea.Cmd
	if a.deps.Client != nil && a.deps.Client.BaseURL() != target {
		a.deps.Client.SetConnection(target, a.deps.Settings.BearerToken)
		cmds = append(cmds, a.fetchStatus())
	}
	if a.deps.Stream != nil && a.streamURL != target {
		a.deps.Stream.Close()
		a.deps.Stream = api.NewStream(target, a.deps.Settings.BearerToken)
		a.deps.Stream.Start()
		a.streamURL = target
		cmds = append(cmds, a.waitForStream())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// closeWorkspace tears down grid content, drops any project server override,
// and returns to the dashboard.
func (a *appModelAdapter) closeWorkspace() tea.Cmd {
	if a.Workspace != nil {
		a.saveLayout()
		a.Workspace.Controller.TerminateAllExcept(-1)
		if a.deps.Registry != nil {
			a.deps.Registry.Clear()
		}
	}
	a.Workspace = nil
	a.Mode = ModeDashboard
	a.projectCfg = project.Config{}
	return a.applyProjectServer("")
}

// applyManifest distributes a new manifest to the status bar and workspace,
// restoring a pending saved layout on first arrival.
func (a *appModelAdapter) applyManifest(m *manifest.Manifest) {
	a.Status.Manifest = m
	if a.deps.Registry != nil {
		if pruned, err := a.deps.Registry.Prune(); err == nil && len(pruned) > 0 {
			a.Status.SetInfo(fmt.Sprintf("%d pane(s) disappeared", len(pruned)))
		}
	}
	if a.Workspace == nil {
		return
	}
	a.Workspace.SetManifest(m)
	if a.pendingLayout != nil {
		layout := a.pendingLayout
		a.pendingLayout = nil
		owner := splittree.EntryRef{ID: a.Workspace.ProjectName, Kind: splittree.EntryGroup}
		var known []splittree.EntryRef
		for _, wa := range m.AllAgents() {
			known = append(known, splittree.EntryRef{ID: wa.Agent.ID, Kind: splittree.EntryAgent})
		}
		a.Workspace.Controller.RestoreLayout(layout, owner, known)
	}
}

// applyStreamEvent folds one stream event into the model. Returns a follow-up
// command when the event needs one.
func (a *appModelAdapter) applyStreamEvent(e api.Event) tea.Cmd {
	switch e.Kind {
	case api.EventState:
		a.Status.State = e.State
		if e.Err != "" {
			a.Status.SetError(errors.New(e.Err))
		}
		// A reconnect may have missed manifest updates.
		if e.State == api.StateConnected && a.deps.Client != nil {
			return a.fetchStatus()
		}
	case api.EventManifest:
		a.applyManifest(e.Manifest)
	case api.EventAgentStatus:
		a.applyAgentStatus(e)
	case api.EventTerminalOutput:
		if a.Workspace != nil {
			a.Workspace.Grid.AppendOutput(e.AgentID, e.Data)
		}
	case api.EventError:
		a.Status.SetError(errors.New(e.Err))
	}
	return nil
}

// applyAgentStatus patches the cached manifest in place so the sidebar and
// grid labels track without waiting for the next full manifest.
func (a *appModelAdapter) applyAgentStatus(e api.Event) {
	m := a.Status.Manifest
	if m == nil {
		return
	}
	wt, ok := m.Worktrees[e.WorktreeID]
	if !ok {
		return
	}
	for id, agent := range wt.Agents {
		if agent.ID == e.AgentID {
			agent.Status = e.AgentStatus
			wt.Agents[id] = agent
		}
	}
	if e.WorktreeStatus != "" {
		wt.Status = e.WorktreeStatus
	}
	m.Worktrees[e.WorktreeID] = wt
	a.applyManifest(m)
}

// fillPane binds an entry to the focused pane, tracks the resulting tmux
// pane, and subscribes to agent output.
func (a *appModelAdapter) fillPane(entry splittree.EntryRef) tea.Cmd {
	if a.Workspace == nil {
		return nil
	}
	ctrl := a.Workspace.Controller
	_, end := a.deps.Tracer.Span(context.Background(), "grid.fill",
		trace.Attr("entry", entry.ID))
	err := ctrl.FillFocusedPane(entry)
	end(err)
	if err != nil {
		a.Status.SetError(err)
		return nil
	}
	if h := ctrl.Handle(ctrl.FocusedLeaf()); h != nil {
		if ph, ok := h.(interface{ PaneID() string }); ok && a.deps.Registry != nil {
			a.deps.Registry.Register(entry, ph.PaneID())
		}
	}
	a.saveLayout()
	if entry.Kind == splittree.EntryAgent && a.deps.Stream != nil {
		agentID := entry.ID
		client := a.deps.Client
		return func() tea.Msg {
			if err := a.deps.Stream.SubscribeTerminal(agentID); err != nil {
				return ErrMsg{Err: err}
			}
			if client != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if logs, err := client.AgentLogs(ctx, agentID, outputRingSize); err == nil && len(logs.Lines) > 0 {
					return agentLogsMsg{agentID: agentID, lines: logs.Lines}
				}
			}
			return nil
		}
	}
	return nil
}

// closePane tears down the focused pane's content and collapses the split.
func (a *appModelAdapter) closePane() {
	if a.Workspace == nil {
		return
	}
	ctrl := a.Workspace.Controller
	if entry := splittree.EntryFor(ctrl.Root(), ctrl.FocusedLeaf()); entry != nil {
		if a.deps.Registry != nil {
			a.deps.Registry.Unregister(entry.ID)
		}
		if entry.Kind == splittree.EntryAgent && a.deps.Stream != nil {
			_ = a.deps.Stream.UnsubscribeTerminal(entry.ID)
		}
	}
	_, end := a.deps.Tracer.Span(context.Background(), "grid.close")
	ok := ctrl.CloseFocusedPane()
	end(nil)
	if !ok {
		a.Status.SetInfo("cannot close the last pane")
		return
	}
	a.saveLayout()
}

// openTerminal fills the focused pane with a fresh shell. Inside tmux the
// provider spawns a real pane; outside, a PTY overlay stands in.
func (a *appModelAdapter) openTerminal() tea.Cmd {
	if os.Getenv("TMUX") == "" || a.Workspace == nil {
		args, err := shellquote.Split(a.deps.Settings.ShellCommand)
		if err != nil {
			a.Status.SetError(fmt.Errorf("parse shell command: %w", err))
			return nil
		}
		tv := NewTerminalView(a.deps.PTYRunner, args, "")
		a.Overlays.Push(Overlay{View: tv, Dismiss: ""})
		return tv.Init()
	}
	entry := splittree.EntryRef{ID: "term-" + uuid.NewString(), Kind: splittree.EntryTerminal}
	return a.fillPane(entry)
}

func (a *appModelAdapter) saveLayout() {
	if a.Workspace == nil || a.deps.Layouts == nil {
		return
	}
	layout := a.Workspace.Controller.Layout()
	if err := a.deps.Layouts.Save(a.Workspace.ProjectName, "grid", layout); err != nil {
		a.Status.SetError(err)
	}
}

// loadProjects reads the project list and each project's config off the
// update loop.
func (a *appModelAdapter) loadProjects() tea.Cmd {
	mgr := a.deps.Projects
	if mgr == nil {
		return nil
	}
	loading := a.Dashboard.SetLoading(true)
	return tea.Batch(loading, func() tea.Msg {
		infos, err := mgr.List()
		if err != nil {
			return ErrMsg{Err: err}
		}
		summaries := make([]ProjectSummary, 0, len(infos))
		for _, info := range infos {
			cfg, err := mgr.LoadConfig(info.Name)
			if err != nil {
				return ErrMsg{Err: err}
			}
			summaries = append(summaries, ProjectSummary{
				Name:      info.Name,
				ServerURL: cfg.ServerURL,
				Schedules: cfg.Schedules,
			})
		}
		return ProjectsLoadedMsg{Projects: summaries}
	})
}

func (a *appModelAdapter) createProject(name string) tea.Cmd {
	mgr := a.deps.Projects
	serverURL := a.deps.Settings.ServerURL
	return func() tea.Msg {
		if _, err := mgr.Create(project.Normalize(name), project.Config{ServerURL: serverURL}); err != nil {
			return ErrMsg{Err: err}
		}
		return ProjectCreatedMsg{Name: name}
	}
}

func (a *appModelAdapter) deleteProject(name string) tea.Cmd {
	mgr := a.deps.Projects
	layouts := a.deps.Layouts
	return func() tea.Msg {
		if err := mgr.Delete(name); err != nil {
			return ErrMsg{Err: err}
		}
		if layouts != nil {
			_ = layouts.Delete(name, "grid")
		}
		return projectDeletedMsg{name: name}
	}
}

// spawn creates agents in a new worktree, defaulting the agent type to the
// open project's configured one.
func (a *appModelAdapter) spawn(msg SpawnMsg) tea.Cmd {
	client := a.deps.Client
	agentType := a.projectCfg.DefaultAgent
	return func() tea.Msg {
		req := api.SpawnRequest{Name: msg.Name, Agent: agentType, Prompt: msg.Prompt, Count: 1}
		resp, err := client.Spawn(context.Background(), req)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: fmt.Sprintf("spawned %d agent(s) in %s", len(resp.Agents), msg.Name)}
	}
}

// agentOp runs kill or restart against the agent selected in the sidebar.
func (a *appModelAdapter) agentOp(op string) tea.Cmd {
	if a.Workspace == nil {
		return nil
	}
	agent, ok := a.Workspace.Sidebar.SelectedAgent()
	if !ok {
		a.Status.SetInfo("no agent selected")
		return nil
	}
	client := a.deps.Client
	return func() tea.Msg {
		var err error
		switch op {
		case "kill":
			err = client.KillAgent(context.Background(), agent.ID)
		case "restart":
			err = client.RestartAgent(context.Background(), agent.ID, api.RestartRequest{})
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: op + " " + agent.Name}
	}
}

// sendAgentText delivers one line of text to an agent terminal, with Enter.
// Agents whose pane is joined into the local grid get the keys over tmux
// directly; everything else goes through the server.
func (a *appModelAdapter) sendAgentText(agentID, text string) tea.Cmd {
	if a.deps.PaneInput != nil && a.deps.Registry != nil {
		if p, ok := a.deps.Registry.PaneFor(agentID); ok {
			input := a.deps.PaneInput
			return func() tea.Msg {
				if err := input(p.PaneID, text+"\n"); err != nil {
					return ErrMsg{Err: err}
				}
				return StatusMsg{Text: "sent to " + agentID}
			}
		}
	}
	client := a.deps.Client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		req := api.SendKeysRequest{Text: text, Mode: api.SendWithEnter}
		if err := client.SendKeys(context.Background(), agentID, req); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: "sent to " + agentID}
	}
}

// worktreeOp runs merge or kill against the worktree selected in the sidebar.
func (a *appModelAdapter) worktreeOp(op string) tea.Cmd {
	if a.Workspace == nil {
		return nil
	}
	wt, ok := a.Workspace.Sidebar.SelectedWorktree()
	if !ok {
		a.Status.SetInfo("no worktree selected")
		return nil
	}
	client := a.deps.Client
	return func() tea.Msg {
		var err error
		switch op {
		case "merge":
			err = client.MergeWorktree(context.Background(), wt.ID, api.MergeRequest{})
		case "kill":
			err = client.KillWorktree(context.Background(), wt.ID)
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: op + " " + wt.Name}
	}
}

func (a *appModelAdapter) saveSettings(s settings.Settings) tea.Cmd {
	return func() tea.Msg {
		if err := settings.Save(s); err != nil {
			return ErrMsg{Err: err}
		}
		return SettingsSavedMsg{}
	}
}

func (a *appModelAdapter) fetchStatus() tea.Cmd {
	client := a.deps.Client
	return func() tea.Msg {
		m, err := client.Status(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ManifestMsg{Manifest: m}
	}
}

func (a *appModelAdapter) waitForStream() tea.Cmd {
	events := a.deps.Stream.Events()
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return StreamEventMsg{Event: e}
	}
}
