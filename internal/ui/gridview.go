package ui

import (
	"strings"

	"panedeck/internal/grid"
	"panedeck/internal/splittree"
	"panedeck/internal/ui/textutil"

	"github.com/charmbracelet/lipgloss"
)

// outputRingSize is how many recent terminal lines a cell keeps per entry.
const outputRingSize = 200

// EntryLabeler maps an entry to its display title (agent name, status glyph).
// Injected so the grid view doesn't depend on where entries come from.
type EntryLabeler func(entry splittree.EntryRef) string

// GridView renders the pane grid: one bordered cell per leaf, sized by the
// tree's split ratios, with recent output lines inside agent cells. It also
// implements grid.Renderer so the controller can tell it what changed.
type GridView struct {
	ctrl    *grid.Controller
	label   EntryLabeler
	width   int
	height  int
	focused splittree.LeafID
	outputs map[string][]string // entry id -> recent lines
}

var _ grid.Renderer = (*GridView)(nil)

// NewGridView creates a grid view over a controller. The controller's
// renderer must be set to the returned view for focus highlights to track.
func NewGridView(ctrl *grid.Controller, label EntryLabeler) *GridView {
	return &GridView{
		ctrl:    ctrl,
		label:   label,
		outputs: make(map[string][]string),
	}
}

// SetController swaps the controller (project switch). Output buffers reset.
func (g *GridView) SetController(ctrl *grid.Controller) {
	g.ctrl = ctrl
	g.focused = ctrl.FocusedLeaf()
	g.outputs = make(map[string][]string)
}

// SetSize updates the terminal area available to the grid.
func (g *GridView) SetSize(width, height int) {
	g.width = width
	g.height = height
}

// RebuildAll implements grid.Renderer. Rendering is stateless per frame, so a
// full rebuild only needs to drop output buffers for entries no longer bound.
func (g *GridView) RebuildAll(root splittree.Node) {
	bound := make(map[string]bool)
	for _, e := range splittree.Entries(root) {
		if e != nil {
			bound[e.ID] = true
		}
	}
	for id := range g.outputs {
		if !bound[id] {
			delete(g.outputs, id)
		}
	}
}

// RebuildSubtree implements grid.Renderer. Splits never unbind entries, so
// there is nothing to drop; the next View call picks up the new shape.
func (g *GridView) RebuildSubtree(root splittree.Node, at splittree.LeafID) {}

// FocusChanged implements grid.Renderer.
func (g *GridView) FocusChanged(id splittree.LeafID) {
	g.focused = id
}

// AppendOutput feeds terminal output for an entry into its cell buffer.
func (g *GridView) AppendOutput(entryID, data string) {
	lines := g.outputs[entryID]
	for _, line := range strings.Split(strings.TrimRight(data, "\n"), "\n") {
		lines = append(lines, line)
	}
	if len(lines) > outputRingSize {
		lines = lines[len(lines)-outputRingSize:]
	}
	g.outputs[entryID] = lines
}

// View renders the whole grid.
func (g *GridView) View() string {
	w, h := g.width, g.height
	if w < 20 {
		w = 80
	}
	if h < 6 {
		h = 20
	}
	return g.renderNode(g.ctrl.Root(), w, h)
}

// renderNode recursively renders a subtree into a w x h cell block.
// Vertical splits place children side by side; horizontal splits stack them.
func (g *GridView) renderNode(n splittree.Node, w, h int) string {
	switch t := n.(type) {
	case splittree.Leaf:
		return g.renderCell(t, w, h)
	case splittree.Split:
		if t.Dir == splittree.Vertical {
			firstW := int(float64(w) * t.Ratio)
			if firstW < 4 {
				firstW = 4
			}
			if firstW > w-4 {
				firstW = w - 4
			}
			return lipgloss.JoinHorizontal(lipgloss.Top,
				g.renderNode(t.First, firstW, h),
				g.renderNode(t.Second, w-firstW, h),
			)
		}
		firstH := int(float64(h) * t.Ratio)
		if firstH < 3 {
			firstH = 3
		}
		if firstH > h-3 {
			firstH = h - 3
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			g.renderNode(t.First, w, firstH),
			g.renderNode(t.Second, w, h-firstH),
		)
	}
	return ""
}

func (g *GridView) renderCell(leaf splittree.Leaf, w, h int) string {
	border := Styles.CellBorder
	if leaf.ID == g.focused {
		border = Styles.CellBorderFocused
	}
	innerW := w - 2
	innerH := h - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	var lines []string
	if leaf.Entry == nil {
		lines = append(lines, Styles.CellEmpty.Render(textutil.Truncate("empty: pick from sidebar or SPC g t", innerW)))
	} else {
		title := leaf.Entry.ID
		if g.label != nil {
			title = g.label(*leaf.Entry)
		}
		lines = append(lines, Styles.CellTitle.Render(textutil.Truncate(title, innerW)))
		out := g.outputs[leaf.Entry.ID]
		avail := innerH - 1
		if len(out) > avail && avail > 0 {
			out = out[len(out)-avail:]
		}
		for _, l := range out {
			lines = append(lines, Styles.CellBody.Render(textutil.Truncate(l, innerW)))
		}
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	content := strings.Join(lines, "\n")
	return border.Width(innerW).Height(innerH).Render(content)
}
