// Package grid owns one split tree and orchestrates the side effects around
// it: binding and unbinding content through injected provider/terminator
// capabilities, tracking the focused pane, and keeping an external renderer
// in sync. All methods run on a single control thread (the UI update loop);
// every mutation swaps the root atomically, so a failed operation leaves no
// observable change.
package grid

import (
	"panedeck/internal/splittree"
)

// ContentHandle is whatever the provider returns for a bound entry. The
// controller never interprets it beyond handing it back for termination and
// optional focus notification.
type ContentHandle interface {
	Entry() splittree.EntryRef
}

// FocusAware handles are told when their pane gains or loses focus, for
// input routing. Optional: handles that don't care simply don't implement it.
type FocusAware interface {
	SetFocused(bool)
}

// ContentProvider supplies and tears down the content behind panes.
// Implementations can be swapped (tmux-backed panes, PTY views, or fakes
// for tests).
type ContentProvider interface {
	Provide(entry splittree.EntryRef) (ContentHandle, error)
	Terminate(handle ContentHandle)
}

// Renderer receives structural-change notifications so the host can rebuild
// only what moved. The first-ever split rebuilds everything; later splits
// rebuild the split subtree only, leaving other panes' live resources alone.
type Renderer interface {
	RebuildAll(root splittree.Node)
	RebuildSubtree(root splittree.Node, at splittree.LeafID)
	FocusChanged(id splittree.LeafID)
}

// NopRenderer satisfies Renderer with no-ops, for headless use and tests.
type NopRenderer struct{}

func (NopRenderer) RebuildAll(splittree.Node)                       {}
func (NopRenderer) RebuildSubtree(splittree.Node, splittree.LeafID) {}
func (NopRenderer) FocusChanged(splittree.LeafID)                   {}

// Controller is the stateful orchestrator for one pane grid.
type Controller struct {
	root     splittree.Node
	focused  splittree.LeafID
	ids      *splittree.IDSource
	provider ContentProvider
	renderer Renderer
	handles  map[splittree.LeafID]ContentHandle
}

// New creates a controller with a single unbound leaf. The id source is
// owned by the caller's context so independent grids never collide.
func New(provider ContentProvider, renderer Renderer, ids *splittree.IDSource) *Controller {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	first := ids.Next()
	return &Controller{
		root:     splittree.Leaf{ID: first},
		focused:  first,
		ids:      ids,
		provider: provider,
		renderer: renderer,
		handles:  make(map[splittree.LeafID]ContentHandle),
	}
}

// Root returns the current tree.
func (c *Controller) Root() splittree.Node { return c.root }

// FocusedLeaf returns the id of the focused pane.
func (c *Controller) FocusedLeaf() splittree.LeafID { return c.focused }

// Handle returns the content handle bound to a pane, or nil.
func (c *Controller) Handle(id splittree.LeafID) ContentHandle { return c.handles[id] }

// SetFocus moves focus to the given pane. No-op if the id is absent.
// Bound content on both sides is notified for input routing.
func (c *Controller) SetFocus(id splittree.LeafID) {
	if !splittree.Contains(c.root, id) || id == c.focused {
		return
	}
	if h, ok := c.handles[c.focused].(FocusAware); ok && h != nil {
		h.SetFocused(false)
	}
	c.focused = id
	if h, ok := c.handles[id].(FocusAware); ok && h != nil {
		h.SetFocused(true)
	}
	c.renderer.FocusChanged(id)
}

// NavigateFocus moves focus spatially. Returns false when no pane lies in
// that direction; focus is unchanged.
func (c *Controller) NavigateFocus(dir splittree.NavDirection) bool {
	id, ok := splittree.Navigate(c.root, c.focused, dir)
	if !ok {
		return false
	}
	c.SetFocus(id)
	return true
}

// FillFocusedPane binds an entry to the focused pane and provides its
// content. Dedup rule: if the entry is already bound somewhere in the tree,
// focus jumps there instead of creating a duplicate binding. Replacing a
// pane's existing entry terminates the old content first, so no resource is
// ever orphaned.
func (c *Controller) FillFocusedPane(entry splittree.EntryRef) error {
	if existing, ok := splittree.LeafWithEntry(c.root, entry.ID); ok {
		c.SetFocus(existing)
		return nil
	}
	handle, err := c.provider.Provide(entry)
	if err != nil {
		return err
	}
	if old := c.handles[c.focused]; old != nil {
		c.provider.Terminate(old)
	}
	e := entry
	c.root = splittree.WithEntry(c.root, c.focused, &e)
	c.handles[c.focused] = handle
	if h, ok := handle.(FocusAware); ok {
		h.SetFocused(true)
	}
	c.renderer.RebuildSubtree(c.root, c.focused)
	return nil
}

// SplitFocusedPane divides the focused pane in the given direction and
// focuses the new empty half. Returns false, with no mutation, when the
// shape constraint or leaf budget forbids it. Only the split subtree is
// rebuilt unless this is the tree's first split, so live panes keep their
// underlying resources.
func (c *Controller) SplitFocusedPane(dir splittree.Direction) bool {
	if !splittree.CanSplit(c.root, c.focused, dir) {
		return false
	}
	target := c.focused
	wasSingle := splittree.LeafCount(c.root) == 1
	newID := c.ids.Next()
	next, ok := splittree.SplitLeaf(c.root, target, dir, newID)
	if !ok {
		return false
	}
	c.root = next
	if wasSingle {
		c.renderer.RebuildAll(c.root)
	} else {
		c.renderer.RebuildSubtree(c.root, target)
	}
	c.SetFocus(newID)
	return true
}

// CloseFocusedPane terminates the focused pane's content and collapses the
// pane away, refocusing the first pane in document order. Returns false when
// the tree has a single leaf; the last pane cannot close.
func (c *Controller) CloseFocusedPane() bool {
	if splittree.LeafCount(c.root) <= 1 {
		return false
	}
	target := c.focused
	// Terminate before structural removal so no leaf ever points at content
	// that no longer exists.
	if h := c.handles[target]; h != nil {
		c.provider.Terminate(h)
		delete(c.handles, target)
	}
	next, ok := splittree.RemoveLeaf(c.root, target)
	if !ok {
		// Unreachable with more than one leaf; keep the tree intact.
		return false
	}
	c.root = next
	c.focused = 0
	c.renderer.RebuildAll(c.root)
	c.SetFocus(splittree.LeafIDs(c.root)[0])
	return true
}

// ReplaceRoot swaps in a new tree wholesale. Used by restore; focus resets
// to the first pane in document order. Existing handles are kept only for
// leaf ids still present in the new tree.
func (c *Controller) ReplaceRoot(root splittree.Node) {
	for id, h := range c.handles {
		if !splittree.Contains(root, id) {
			c.provider.Terminate(h)
			delete(c.handles, id)
		}
	}
	c.root = root
	c.focused = 0
	c.renderer.RebuildAll(root)
	c.SetFocus(splittree.LeafIDs(root)[0])
}

// RestoreLayout rebuilds the grid from a saved layout, rebinding entries
// against the owner and the known set, and provides content for every bound
// pane. Malformed layouts degrade inside splittree.Restore; this never fails
// the whole grid over a stale layout.
func (c *Controller) RestoreLayout(layout *splittree.LayoutNode, owner splittree.EntryRef, known []splittree.EntryRef) {
	root := splittree.Restore(layout, owner, known, c.ids)
	c.ReplaceRoot(root)
	for _, id := range splittree.LeafIDs(c.root) {
		e := splittree.EntryFor(c.root, id)
		if e == nil {
			continue
		}
		handle, err := c.provider.Provide(*e)
		if err != nil {
			// Leave the pane empty rather than failing the restore.
			c.root = splittree.WithEntry(c.root, id, nil)
			continue
		}
		c.handles[id] = handle
	}
}

// Layout serializes the current tree for persistence.
func (c *Controller) Layout() *splittree.LayoutNode {
	return splittree.Encode(c.root)
}

// ContainsEntry reports whether an entry is bound to any pane.
func (c *Controller) ContainsEntry(entryID string) bool {
	_, ok := splittree.LeafWithEntry(c.root, entryID)
	return ok
}

// UpdateEntry rebinds an entry whose mutable state changed (e.g. status)
// without altering tree shape or touching the pane's content handle.
func (c *Controller) UpdateEntry(entry splittree.EntryRef) {
	id, ok := splittree.LeafWithEntry(c.root, entry.ID)
	if !ok {
		return
	}
	e := entry
	c.root = splittree.WithEntry(c.root, id, &e)
}

// TerminateAllExcept tears down content in every pane but the given one.
// Used when collapsing back to single-pane mode or destroying the grid
// (pass an absent id to terminate everything).
func (c *Controller) TerminateAllExcept(keep splittree.LeafID) {
	for id, h := range c.handles {
		if id == keep {
			continue
		}
		c.provider.Terminate(h)
		delete(c.handles, id)
	}
}
