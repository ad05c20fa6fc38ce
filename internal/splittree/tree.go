// Package splittree implements the recursive split-tree model behind the
// pane workspace: a rectangular area subdivided into up to six cells, each
// optionally bound to a content entry (an agent or terminal session).
// The tree is an immutable value; every mutation is a pure function that
// returns a new tree and leaves the input untouched, so callers can swap
// the root atomically and diff old against new.
package splittree

// MaxLeaves caps the number of panes in one tree (a 2x3 grid).
const MaxLeaves = 6

// DefaultRatio is the size ratio assigned to a fresh split.
const DefaultRatio = 0.5

// LeafID identifies one leaf within a tree. IDs come from an IDSource and
// are unique within the tree for its whole lifetime.
type LeafID int

// EntryKind tags what a bound entry refers to. The tree never interprets
// entries beyond identity comparison.
type EntryKind string

const (
	EntryAgent    EntryKind = "agent"
	EntryTerminal EntryKind = "terminal"
	EntryGroup    EntryKind = "group"
)

// EntryRef is an opaque reference to a content item bound to a leaf.
type EntryRef struct {
	ID   string
	Kind EntryKind
}

// Direction is the axis of a split. Horizontal stacks children top/bottom
// (forming rows); Vertical stacks them left/right (columns within a row).
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// ParseDirection maps the persisted direction string back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "horizontal":
		return Horizontal, true
	case "vertical":
		return Vertical, true
	default:
		return Horizontal, false
	}
}

// Node is either a Leaf or a Split. A nil Node only appears transiently as
// the "subtree disappeared" signal from RemoveLeaf; a stored tree always has
// at least one leaf.
type Node interface {
	node()
}

// Leaf is one rectangular cell, optionally bound to an entry.
type Leaf struct {
	ID    LeafID
	Entry *EntryRef
}

// Split divides space into two children along a direction. Ratio is the
// share given to First, strictly between 0 and 1.
type Split struct {
	Dir    Direction
	First  Node
	Second Node
	Ratio  float64
}

func (Leaf) node()  {}
func (Split) node() {}

// IDSource hands out fresh leaf ids. It is owned by whatever context creates
// a grid (one per controller), so independent grids never collide and stay
// independently testable.
type IDSource struct {
	next int
}

// NewIDSource returns a source starting at 1.
func NewIDSource() *IDSource {
	return &IDSource{}
}

// Next returns a leaf id never returned before by this source.
func (s *IDSource) Next() LeafID {
	s.next++
	return LeafID(s.next)
}

// LeafCount returns the number of leaves under n.
func LeafCount(n Node) int {
	switch t := n.(type) {
	case Leaf:
		return 1
	case Split:
		return LeafCount(t.First) + LeafCount(t.Second)
	default:
		return 0
	}
}

// LeafIDs returns all leaf ids in document order: depth-first, first child
// before second. This ordering is canonical: serialization, restoration
// pairing, and refocus-after-close all use it.
func LeafIDs(n Node) []LeafID {
	out := make([]LeafID, 0, MaxLeaves)
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case Leaf:
			out = append(out, t.ID)
		case Split:
			walk(t.First)
			walk(t.Second)
		}
	}
	walk(n)
	return out
}

// FindLeaf returns the leaf with the given id. Absence is a normal result.
func FindLeaf(n Node, id LeafID) (Leaf, bool) {
	switch t := n.(type) {
	case Leaf:
		if t.ID == id {
			return t, true
		}
	case Split:
		if l, ok := FindLeaf(t.First, id); ok {
			return l, true
		}
		return FindLeaf(t.Second, id)
	}
	return Leaf{}, false
}

// Contains reports whether the tree has a leaf with the given id.
func Contains(n Node, id LeafID) bool {
	_, ok := FindLeaf(n, id)
	return ok
}

// EntryFor returns the entry bound to the given leaf, or nil if the leaf is
// unbound or absent.
func EntryFor(n Node, id LeafID) *EntryRef {
	l, ok := FindLeaf(n, id)
	if !ok {
		return nil
	}
	return l.Entry
}

// LeafWithEntry returns the id of the leaf bound to the entry with the given
// entry id, searching in document order.
func LeafWithEntry(n Node, entryID string) (LeafID, bool) {
	switch t := n.(type) {
	case Leaf:
		if t.Entry != nil && t.Entry.ID == entryID {
			return t.ID, true
		}
	case Split:
		if id, ok := LeafWithEntry(t.First, entryID); ok {
			return id, true
		}
		return LeafWithEntry(t.Second, entryID)
	}
	return 0, false
}

// WithEntry returns a tree identical in shape with one leaf's bound entry
// replaced. If the id is absent the input is returned unchanged.
func WithEntry(n Node, id LeafID, entry *EntryRef) Node {
	switch t := n.(type) {
	case Leaf:
		if t.ID == id {
			return Leaf{ID: t.ID, Entry: entry}
		}
		return t
	case Split:
		if Contains(t.First, id) {
			return Split{Dir: t.Dir, First: WithEntry(t.First, id, entry), Second: t.Second, Ratio: t.Ratio}
		}
		if Contains(t.Second, id) {
			return Split{Dir: t.Dir, First: t.First, Second: WithEntry(t.Second, id, entry), Ratio: t.Ratio}
		}
		return t
	default:
		return n
	}
}

// Entries returns the bound entries in document order, with nil for unbound
// leaves. Paired positionally with LeafIDs.
func Entries(n Node) []*EntryRef {
	out := make([]*EntryRef, 0, MaxLeaves)
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case Leaf:
			out = append(out, t.Entry)
		case Split:
			walk(t.First)
			walk(t.Second)
		}
	}
	walk(n)
	return out
}
