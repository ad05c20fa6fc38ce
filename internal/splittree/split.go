package splittree

// SplitLeaf replaces the target leaf with a split holding the target (same
// entry) as first child and a fresh empty leaf as second, at DefaultRatio.
// It fails, returning the input unchanged and false, when the tree is
// already at MaxLeaves or the target is absent. The grid shape constraint is
// a caller precondition: check CanSplit first, it is not re-validated here.
func SplitLeaf(n Node, target LeafID, dir Direction, newID LeafID) (Node, bool) {
	if LeafCount(n) >= MaxLeaves {
		return n, false
	}
	if !Contains(n, target) {
		return n, false
	}
	return splitAt(n, target, dir, newID), true
}

func splitAt(n Node, target LeafID, dir Direction, newID LeafID) Node {
	switch t := n.(type) {
	case Leaf:
		if t.ID != target {
			return t
		}
		return Split{
			Dir:    dir,
			First:  Leaf{ID: t.ID, Entry: t.Entry},
			Second: Leaf{ID: newID},
			Ratio:  DefaultRatio,
		}
	case Split:
		if Contains(t.First, target) {
			return Split{Dir: t.Dir, First: splitAt(t.First, target, dir, newID), Second: t.Second, Ratio: t.Ratio}
		}
		return Split{Dir: t.Dir, First: t.First, Second: splitAt(t.Second, target, dir, newID), Ratio: t.Ratio}
	default:
		return n
	}
}

// RemoveLeaf removes the target leaf. The second result is false when the
// whole subtree disappears (the tree was exactly that leaf). A split losing
// one child collapses into the surviving child (a split never keeps a
// single child) and the collapse chains upward when removals cascade.
// Subtrees not containing the target are returned identically, so a no-op
// removal yields a tree equal to its input.
func RemoveLeaf(n Node, target LeafID) (Node, bool) {
	switch t := n.(type) {
	case Leaf:
		if t.ID == target {
			return nil, false
		}
		return t, true
	case Split:
		if Contains(t.First, target) {
			first, ok := RemoveLeaf(t.First, target)
			if !ok {
				return t.Second, true
			}
			return Split{Dir: t.Dir, First: first, Second: t.Second, Ratio: t.Ratio}, true
		}
		if Contains(t.Second, target) {
			second, ok := RemoveLeaf(t.Second, target)
			if !ok {
				return t.First, true
			}
			return Split{Dir: t.Dir, First: t.First, Second: second, Ratio: t.Ratio}, true
		}
		return t, true
	default:
		return n, true
	}
}

// RowCount is 2 only when the top-level node is a horizontal split (each
// side is one row); otherwise the whole tree is a single row.
func RowCount(n Node) int {
	if s, ok := n.(Split); ok && s.Dir == Horizontal {
		return 2
	}
	return 1
}

// RowFor returns the row subtree containing the given leaf.
func RowFor(n Node, id LeafID) (Node, bool) {
	if s, ok := n.(Split); ok && s.Dir == Horizontal {
		if Contains(s.First, id) {
			return s.First, true
		}
		if Contains(s.Second, id) {
			return s.Second, true
		}
		return nil, false
	}
	if !Contains(n, id) {
		return nil, false
	}
	return n, true
}

// ColumnsInRow is the number of leaves in a row subtree.
func ColumnsInRow(row Node) int {
	return LeafCount(row)
}

// CanSplit reports whether the shape constraint permits splitting the given
// leaf in the given direction: horizontal splits only while the tree has a
// single row, vertical splits only while the leaf's row has fewer than three
// columns. Together with MaxLeaves this bounds the grid at 2x3.
//
// A horizontal split of a leaf nested inside a vertical run stays within the
// current row, so it is additionally gated on the row having capacity; this
// keeps every row at three leaves or fewer no matter where the split lands.
func CanSplit(n Node, id LeafID, dir Direction) bool {
	if LeafCount(n) >= MaxLeaves {
		return false
	}
	row, ok := RowFor(n, id)
	if !ok {
		return false
	}
	switch dir {
	case Horizontal:
		return RowCount(n) < 2 && ColumnsInRow(row) < 3
	case Vertical:
		return ColumnsInRow(row) < 3
	default:
		return false
	}
}
