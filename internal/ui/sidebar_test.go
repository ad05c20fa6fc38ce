package ui

import (
	"strings"
	"testing"

	"panedeck/internal/splittree"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSidebarBuildsRowsFromManifest(t *testing.T) {
	s := NewSidebarView()
	s.SetManifest(testManifest())

	if len(s.rows) != 2 {
		t.Fatalf("rows = %d, want worktree + agent", len(s.rows))
	}
	out := s.View()
	if !strings.Contains(out, "feature-x") || !strings.Contains(out, "claude-1") {
		t.Errorf("sidebar missing names:\n%s", out)
	}
}

func TestSidebarEnterFillsPaneWithAgent(t *testing.T) {
	s := NewSidebarView()
	s.Focused = true
	s.SetManifest(testManifest())

	// Move from the worktree header to the agent row.
	v, _ := s.Update(keyMsg("j"))
	s = v.(*SidebarView)
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on agent produced no command")
	}
	msg, ok := cmd().(FillPaneMsg)
	if !ok {
		t.Fatalf("got %T, want FillPaneMsg", cmd())
	}
	if msg.Entry.ID != "a1" || msg.Entry.Kind != splittree.EntryAgent {
		t.Errorf("entry = %+v", msg.Entry)
	}
}

func TestSidebarIgnoresKeysWhenBlurred(t *testing.T) {
	s := NewSidebarView()
	s.SetManifest(testManifest())

	v, _ := s.Update(keyMsg("j"))
	s = v.(*SidebarView)
	if s.cursor != 0 {
		t.Errorf("cursor moved while blurred: %d", s.cursor)
	}
}

func TestSidebarCursorClampedOnShrink(t *testing.T) {
	s := NewSidebarView()
	s.Focused = true
	s.SetManifest(testManifest())
	v, _ := s.Update(keyMsg("j"))
	s = v.(*SidebarView)

	s.SetManifest(nil)
	if s.cursor != 0 {
		t.Errorf("cursor = %d after manifest cleared, want 0", s.cursor)
	}
	if _, ok := s.SelectedAgent(); ok {
		t.Error("selected agent reported on empty sidebar")
	}
}
