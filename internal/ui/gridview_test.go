package ui

import (
	"fmt"
	"strings"
	"testing"

	"panedeck/internal/grid"
	"panedeck/internal/splittree"
)

func newTestGrid(t *testing.T) (*grid.Controller, *GridView) {
	t.Helper()
	prov := &uiFakeProvider{}
	var gv *GridView
	gv = NewGridView(nil, func(e splittree.EntryRef) string { return "agent " + e.ID })
	ctrl := grid.New(prov, gv, splittree.NewIDSource())
	gv.SetController(ctrl)
	gv.SetSize(80, 20)
	return ctrl, gv
}

func TestGridViewRendersEmptyHint(t *testing.T) {
	_, gv := newTestGrid(t)

	out := gv.View()
	if !strings.Contains(out, "empty") {
		t.Errorf("empty pane hint missing from:\n%s", out)
	}
}

func TestGridViewRendersBoundCell(t *testing.T) {
	ctrl, gv := newTestGrid(t)
	if err := ctrl.FillFocusedPane(splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent}); err != nil {
		t.Fatal(err)
	}
	gv.AppendOutput("a1", "compiling...\nall tests passed")

	out := gv.View()
	if !strings.Contains(out, "agent a1") {
		t.Errorf("cell title missing from:\n%s", out)
	}
	if !strings.Contains(out, "all tests passed") {
		t.Errorf("output line missing from:\n%s", out)
	}
}

func TestGridViewSplitShowsBothCells(t *testing.T) {
	ctrl, gv := newTestGrid(t)
	ctrl.FillFocusedPane(splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent})
	if !ctrl.SplitFocusedPane(splittree.Vertical) {
		t.Fatal("split refused")
	}

	out := gv.View()
	if !strings.Contains(out, "agent a1") || !strings.Contains(out, "empty") {
		t.Errorf("expected one bound and one empty cell in:\n%s", out)
	}
}

func TestAppendOutputRing(t *testing.T) {
	_, gv := newTestGrid(t)
	for i := 0; i < outputRingSize+50; i++ {
		gv.AppendOutput("a1", fmt.Sprintf("line %d", i))
	}

	lines := gv.outputs["a1"]
	if len(lines) != outputRingSize {
		t.Fatalf("ring size = %d, want %d", len(lines), outputRingSize)
	}
	if lines[len(lines)-1] != fmt.Sprintf("line %d", outputRingSize+49) {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestRebuildAllDropsStaleBuffers(t *testing.T) {
	ctrl, gv := newTestGrid(t)
	ctrl.FillFocusedPane(splittree.EntryRef{ID: "a1", Kind: splittree.EntryAgent})
	gv.AppendOutput("a1", "hello")
	gv.AppendOutput("gone", "orphan")

	gv.RebuildAll(ctrl.Root())

	if _, ok := gv.outputs["a1"]; !ok {
		t.Error("bound entry buffer dropped")
	}
	if _, ok := gv.outputs["gone"]; ok {
		t.Error("stale buffer kept")
	}
}
