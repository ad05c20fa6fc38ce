package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"panedeck/internal/api"
	"panedeck/internal/grid"
	"panedeck/internal/layoutstore"
	"panedeck/internal/manifest"
	"panedeck/internal/project"
	"panedeck/internal/session"
	"panedeck/internal/settings"
	"panedeck/internal/splittree"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// uiFakeHandle is a content handle with a fake pane id.
type uiFakeHandle struct {
	entry splittree.EntryRef
	pane  string
}

func (h *uiFakeHandle) Entry() splittree.EntryRef { return h.entry }
func (h *uiFakeHandle) PaneID() string            { return h.pane }

// uiFakeProvider records provide/terminate calls.
type uiFakeProvider struct {
	provided   []string
	terminated []string
}

func (p *uiFakeProvider) Provide(e splittree.EntryRef) (grid.ContentHandle, error) {
	p.provided = append(p.provided, e.ID)
	return &uiFakeHandle{entry: e, pane: fmt.Sprintf("%%%d", len(p.provided))}, nil
}

func (p *uiFakeProvider) Terminate(h grid.ContentHandle) {
	p.terminated = append(p.terminated, h.Entry().ID)
}

func newTestApp(t *testing.T) (*appModelAdapter, *uiFakeProvider) {
	t.Helper()
	prov := &uiFakeProvider{}
	deps := Deps{
		Projects: project.NewManager(t.TempDir()),
		Settings: settings.Default(),
		Layouts:  layoutstore.NewStore(t.TempDir()),
		Registry: session.New(nil),
		Provider: prov,
	}
	return NewAppModel(deps).AsTeaModel().(*appModelAdapter), prov
}

// deliver runs a command and feeds every resulting message back into the
// model, following batches, until the command chain is exhausted.
func deliver(t *testing.T, a *appModelAdapter, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			deliver(t, a, c)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}
	// Spinner ticks re-arm themselves forever; tests don't animate.
	if _, ok := msg.(spinner.TickMsg); ok {
		return
	}
	_, next := a.Update(msg)
	deliver(t, a, next)
}

func send(t *testing.T, a *appModelAdapter, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	deliver(t, a, cmd)
}

func agentStatusEvent(worktreeID, agentID string, status manifest.AgentStatus) api.Event {
	return api.Event{
		Kind:        api.EventAgentStatus,
		WorktreeID:  worktreeID,
		AgentID:     agentID,
		AgentStatus: status,
	}
}

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Version:     1,
		SessionName: "demo",
		Worktrees: map[string]manifest.WorktreeEntry{
			"wt1": {
				ID:     "wt1",
				Name:   "feature-x",
				Status: manifest.WorktreeActive,
				Agents: map[string]manifest.AgentEntry{
					"a1": {ID: "a1", Name: "claude-1", Status: manifest.AgentRunning},
				},
			},
		},
	}
}

func TestSelectProjectOpensWorkspace(t *testing.T) {
	a, _ := newTestApp(t)

	send(t, a, SelectProjectMsg{Name: "demo"})

	if a.Mode != ModeWorkspace {
		t.Fatalf("mode = %v, want workspace", a.Mode)
	}
	if a.Workspace == nil || a.Workspace.ProjectName != "demo" {
		t.Fatal("workspace not created for demo")
	}
	if got := splittree.LeafCount(a.Workspace.Controller.Root()); got != 1 {
		t.Errorf("fresh workspace has %d panes, want 1", got)
	}
}

func TestSplitSavesLayout(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	send(t, a, SplitPaneMsg{Dir: splittree.Vertical})

	if got := splittree.LeafCount(a.Workspace.Controller.Root()); got != 2 {
		t.Fatalf("pane count = %d, want 2", got)
	}
	if _, ok := a.deps.Layouts.Load("demo", "grid"); !ok {
		t.Error("layout was not persisted after split")
	}
}

func TestFillPaneProvidesAndRegisters(t *testing.T) {
	a, prov := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	entry := splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent}
	send(t, a, FillPaneMsg{Entry: entry})

	if len(prov.provided) != 1 || prov.provided[0] != "a1" {
		t.Fatalf("provided = %v, want [a1]", prov.provided)
	}
	if _, ok := a.deps.Registry.PaneFor("a1"); !ok {
		t.Error("pane not registered for a1")
	}
}

func TestCloseLastPaneRefused(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	send(t, a, ClosePaneMsg{})

	if got := splittree.LeafCount(a.Workspace.Controller.Root()); got != 1 {
		t.Fatalf("pane count = %d, want 1", got)
	}
	if !strings.Contains(a.Status.Message, "cannot close") {
		t.Errorf("status = %q, want last-pane message", a.Status.Message)
	}
}

func TestLeaderSplitBinding(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	send(t, a, keyMsg(" "))
	if !a.KeyHandler.LeaderWaiting {
		t.Fatal("expected leader waiting after SPC")
	}
	send(t, a, keyMsg("g"))
	send(t, a, keyMsg("v"))

	if got := splittree.LeafCount(a.Workspace.Controller.Root()); got != 2 {
		t.Errorf("pane count = %d, want 2 after SPC g v", got)
	}
}

func TestManifestFlowsToWorkspace(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	m := testManifest()
	send(t, a, ManifestMsg{Manifest: m})

	if a.Status.Manifest != m {
		t.Error("status bar did not receive manifest")
	}
	if a.Workspace.Manifest() != m {
		t.Error("workspace did not receive manifest")
	}
	if _, ok := a.Workspace.Sidebar.SelectedWorktree(); !ok {
		t.Error("sidebar has no rows after manifest")
	}
}

func TestLayoutRestoredOnReopen(t *testing.T) {
	a, prov := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, SplitPaneMsg{Dir: splittree.Vertical})
	send(t, a, FillPaneMsg{Entry: splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent}})

	// Leave and reopen: shape and binding come back once the manifest names a1.
	send(t, a, backToDashboardMsg{})
	if a.Mode != ModeDashboard {
		t.Fatalf("mode = %v, want dashboard", a.Mode)
	}
	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, ManifestMsg{Manifest: testManifest()})

	if got := splittree.LeafCount(a.Workspace.Controller.Root()); got != 2 {
		t.Fatalf("restored pane count = %d, want 2", got)
	}
	if !a.Workspace.Controller.ContainsEntry("a1") {
		t.Error("a1 binding not restored")
	}
	// Provided once in the first session, once on restore.
	if len(prov.provided) != 2 {
		t.Errorf("provide calls = %d, want 2", len(prov.provided))
	}
}

func TestAgentStatusPatchesManifest(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, ManifestMsg{Manifest: testManifest()})

	cmd := a.applyStreamEvent(agentStatusEvent("wt1", "a1", manifest.AgentExited))
	deliver(t, a, cmd)

	got, ok := a.Status.Manifest.FindAgent("a1")
	if !ok || got.Status != manifest.AgentExited {
		t.Errorf("agent status = %v, want exited", got.Status)
	}
}

func TestCreateProjectOverlayFlow(t *testing.T) {
	a, _ := newTestApp(t)

	send(t, a, openCreateProjectMsg{})
	if a.Overlays.Len() != 1 {
		t.Fatalf("overlay count = %d, want 1", a.Overlays.Len())
	}

	send(t, a, keyMsg("esc"))
	if a.Overlays.Len() != 0 {
		t.Error("esc did not dismiss the modal")
	}

	send(t, a, CreateProjectMsg{Name: "My Project"})
	infos, err := a.deps.Projects.List()
	if err != nil || len(infos) != 1 {
		t.Fatalf("projects = %v (err %v), want one entry", infos, err)
	}
	if infos[0].Name != "my-project" {
		t.Errorf("project name = %q, want normalized my-project", infos[0].Name)
	}
}

func TestSendTextModalTargetsSelectedAgent(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, ManifestMsg{Manifest: testManifest()})
	send(t, a, keyMsg("j")) // move from the worktree row to its agent

	send(t, a, openSendTextMsg{})
	if a.Overlays.Len() != 1 {
		t.Fatalf("overlay count = %d, want 1", a.Overlays.Len())
	}
	top, _ := a.Overlays.Peek()
	modal, ok := top.View.(*SendTextModal)
	if !ok {
		t.Fatalf("overlay is %T, want *SendTextModal", top.View)
	}
	if modal.agentID != "a1" {
		t.Errorf("modal agent = %q, want a1", modal.agentID)
	}

	// Sending pops the modal even when no client is wired.
	send(t, a, SendAgentTextMsg{AgentID: "a1", Text: "hello"})
	if a.Overlays.Len() != 0 {
		t.Error("modal not dismissed after send")
	}
}

func TestSendTextRefusedWithoutSelection(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	send(t, a, openSendTextMsg{})

	if a.Overlays.Len() != 0 {
		t.Fatal("modal opened with no agent selected")
	}
	if !strings.Contains(a.Status.Message, "no agent selected") {
		t.Errorf("status = %q, want no-agent message", a.Status.Message)
	}
}

func TestAgentLogsBackfillOutput(t *testing.T) {
	a, _ := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})

	send(t, a, agentLogsMsg{agentID: "a1", lines: []string{"$ make", "ok"}})

	got := a.Workspace.Grid.outputs["a1"]
	if len(got) != 2 || got[1] != "ok" {
		t.Errorf("backfilled output = %v, want [$ make, ok]", got)
	}
}

func TestProjectServerOverrideRepointsClient(t *testing.T) {
	a, _ := newTestApp(t)
	a.deps.Settings.ServerURL = "http://global.test"
	a.deps.Client = api.NewClient("http://global.test", "tok")
	if _, err := a.deps.Projects.Create("demo", project.Config{ServerURL: "http://project.test"}); err != nil {
		t.Fatal(err)
	}

	// Update directly: the returned command would hit the network.
	_, _ = a.Update(SelectProjectMsg{Name: "demo"})
	if got := a.deps.Client.BaseURL(); got != "http://project.test" {
		t.Fatalf("client base URL = %q, want project override", got)
	}

	// Leaving the workspace drops the override.
	_, _ = a.Update(backToDashboardMsg{})
	if got := a.deps.Client.BaseURL(); got != "http://global.test" {
		t.Errorf("client base URL = %q, want global server restored", got)
	}
}

func TestSpawnUsesProjectDefaultAgent(t *testing.T) {
	var spawned api.SpawnRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/spawn" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&spawned); err != nil {
			t.Errorf("decode spawn body: %v", err)
		}
		fmt.Fprint(w, `{"worktreeId":"wt9","agents":[]}`)
	}))
	defer srv.Close()

	a, _ := newTestApp(t)
	a.deps.Settings.ServerURL = srv.URL
	a.deps.Client = api.NewClient(srv.URL, "")
	if _, err := a.deps.Projects.Create("demo", project.Config{DefaultAgent: "claude"}); err != nil {
		t.Fatal(err)
	}

	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, SpawnMsg{Name: "wt", Prompt: "do things"})

	if spawned.Agent != "claude" {
		t.Errorf("spawn agent = %q, want project default claude", spawned.Agent)
	}
	if spawned.Name != "wt" {
		t.Errorf("spawn name = %q, want wt", spawned.Name)
	}
}

func TestSendTextUsesLocalPaneWhenJoined(t *testing.T) {
	a, _ := newTestApp(t)
	var gotPane, gotKeys string
	a.deps.PaneInput = func(paneID, keys string) error {
		gotPane, gotKeys = paneID, keys
		return nil
	}
	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, FillPaneMsg{Entry: splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent}})

	send(t, a, SendAgentTextMsg{AgentID: "a1", Text: "make test"})

	if gotPane != "%1" {
		t.Errorf("pane = %q, want %%1 from the registry", gotPane)
	}
	if gotKeys != "make test\n" {
		t.Errorf("keys = %q, want text with trailing newline", gotKeys)
	}
}

func TestCloseWorkspaceTerminatesContent(t *testing.T) {
	a, prov := newTestApp(t)
	send(t, a, SelectProjectMsg{Name: "demo"})
	send(t, a, FillPaneMsg{Entry: splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent}})

	send(t, a, backToDashboardMsg{})

	if len(prov.terminated) != 1 || prov.terminated[0] != "a1" {
		t.Errorf("terminated = %v, want [a1]", prov.terminated)
	}
	if a.deps.Registry.Count() != 0 {
		t.Error("registry not cleared on workspace close")
	}
}
