package splittree

// LayoutNode is the persisted form of a tree: exactly one of Leaf or Split
// is set. The JSON shape is {"leaf":{"entryId":...}} for leaves and
// {"split":{"direction":...,"ratio":...,"first":...,"second":...}} for
// splits. Leaf ids are not persisted; restoration mints fresh ones.
type LayoutNode struct {
	Leaf  *LayoutLeaf  `json:"leaf,omitempty"`
	Split *LayoutSplit `json:"split,omitempty"`
}

// LayoutLeaf carries the bound entry id, or null for an empty pane.
type LayoutLeaf struct {
	EntryID *string `json:"entryId"`
}

// LayoutSplit carries a split's direction, ratio, and children.
type LayoutSplit struct {
	Direction string      `json:"direction"`
	Ratio     float64     `json:"ratio"`
	First     *LayoutNode `json:"first"`
	Second    *LayoutNode `json:"second"`
}

// Encode serializes a tree depth-first into its persisted form.
func Encode(n Node) *LayoutNode {
	switch t := n.(type) {
	case Leaf:
		var id *string
		if t.Entry != nil {
			s := t.Entry.ID
			id = &s
		}
		return &LayoutNode{Leaf: &LayoutLeaf{EntryID: id}}
	case Split:
		return &LayoutNode{Split: &LayoutSplit{
			Direction: t.Dir.String(),
			Ratio:     t.Ratio,
			First:     Encode(t.First),
			Second:    Encode(t.Second),
		}}
	default:
		return nil
	}
}

// Decode rebuilds the tree shape from its persisted form with brand-new leaf
// ids from the supplied source and no entries bound. Entries are re-paired
// separately (see Restore). Returns false for a malformed layout: nil nodes,
// a node that is neither leaf nor split, a split missing a child, an unknown
// direction, a ratio outside (0,1), or more than MaxLeaves leaves.
func Decode(l *LayoutNode, ids *IDSource) (Node, bool) {
	n, ok := decodeNode(l, ids)
	if !ok {
		return nil, false
	}
	if c := LeafCount(n); c < 1 || c > MaxLeaves {
		return nil, false
	}
	return n, true
}

func decodeNode(l *LayoutNode, ids *IDSource) (Node, bool) {
	if l == nil {
		return nil, false
	}
	if l.Leaf != nil {
		return Leaf{ID: ids.Next()}, true
	}
	if l.Split == nil {
		return nil, false
	}
	dir, ok := ParseDirection(l.Split.Direction)
	if !ok {
		return nil, false
	}
	if l.Split.Ratio <= 0 || l.Split.Ratio >= 1 {
		return nil, false
	}
	first, ok := decodeNode(l.Split.First, ids)
	if !ok {
		return nil, false
	}
	second, ok := decodeNode(l.Split.Second, ids)
	if !ok {
		return nil, false
	}
	return Split{Dir: dir, First: first, Second: second, Ratio: l.Split.Ratio}, true
}

// PersistedEntryIDs collects the saved entry ids depth-first, with "" for
// empty leaves. Positionally paired with the document-order leaf ids of the
// decoded tree.
func PersistedEntryIDs(l *LayoutNode) []string {
	var out []string
	var walk func(*LayoutNode)
	walk = func(l *LayoutNode) {
		if l == nil {
			return
		}
		if l.Leaf != nil {
			if l.Leaf.EntryID != nil {
				out = append(out, *l.Leaf.EntryID)
			} else {
				out = append(out, "")
			}
			return
		}
		if l.Split != nil {
			walk(l.Split.First)
			walk(l.Split.Second)
		}
	}
	walk(l)
	return out
}

// Restore rebuilds a tree from a saved layout and rebinds entries. The
// persisted entry ids are paired positionally with the fresh tree's
// document-order leaves: the owner entry (whose session created the grid)
// binds directly, other ids resolve against the known set, unresolved ids
// leave the leaf empty. A malformed layout is not fatal: restoration
// degrades to a plain chain of vertical splits filling the resolvable
// entries in order, preferring correct display over reproducing a stale
// layout.
func Restore(l *LayoutNode, owner EntryRef, known []EntryRef, ids *IDSource) Node {
	knownByID := make(map[string]EntryRef, len(known))
	for _, e := range known {
		knownByID[e.ID] = e
	}
	resolve := func(id string) *EntryRef {
		if id == "" {
			return nil
		}
		if id == owner.ID {
			e := owner
			return &e
		}
		if e, ok := knownByID[id]; ok {
			e := e
			return &e
		}
		return nil
	}

	saved := PersistedEntryIDs(l)
	n, ok := Decode(l, ids)
	if ok {
		leaves := LeafIDs(n)
		if len(leaves) == len(saved) {
			for i, leafID := range leaves {
				if e := resolve(saved[i]); e != nil {
					n = WithEntry(n, leafID, e)
				}
			}
			return n
		}
	}

	// Degraded path: bind whatever still resolves, in saved order.
	var entries []*EntryRef
	for _, id := range saved {
		if e := resolve(id); e != nil {
			entries = append(entries, e)
		}
	}
	return chainOf(entries, ids)
}

// chainOf builds a left-to-right chain of vertical splits with one entry per
// leaf, capped at MaxLeaves. With no entries it is a single empty leaf.
func chainOf(entries []*EntryRef, ids *IDSource) Node {
	if len(entries) > MaxLeaves {
		entries = entries[:MaxLeaves]
	}
	if len(entries) == 0 {
		return Leaf{ID: ids.Next()}
	}
	n := Node(Leaf{ID: ids.Next(), Entry: entries[0]})
	for _, e := range entries[1:] {
		n = Split{Dir: Vertical, First: n, Second: Leaf{ID: ids.Next(), Entry: e}, Ratio: DefaultRatio}
	}
	return n
}
