package splittree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func entry(id string) *EntryRef {
	return &EntryRef{ID: id, Kind: EntryAgent}
}

// sixPaneTree builds the full 2x3 grid: two rows of three columns each.
// Leaf ids 1..6 in document order.
func sixPaneTree() Node {
	row := func(a, b, c LeafID) Node {
		return Split{
			Dir:    Vertical,
			First:  Split{Dir: Vertical, First: Leaf{ID: a}, Second: Leaf{ID: b}, Ratio: 0.5},
			Second: Leaf{ID: c},
			Ratio:  0.5,
		}
	}
	return Split{Dir: Horizontal, First: row(1, 2, 3), Second: row(4, 5, 6), Ratio: 0.5}
}

func TestLeafIDsDocumentOrder(t *testing.T) {
	tree := sixPaneTree()
	require.Equal(t, []LeafID{1, 2, 3, 4, 5, 6}, LeafIDs(tree))
	require.Equal(t, 6, LeafCount(tree))
}

func TestIDSourceNeverRepeats(t *testing.T) {
	ids := NewIDSource()
	seen := make(map[LeafID]bool)
	for i := 0; i < 100; i++ {
		id := ids.Next()
		require.False(t, seen[id], "id %d repeated", id)
		seen[id] = true
	}
}

func TestFindLeafAbsenceIsNormal(t *testing.T) {
	tree := Node(Leaf{ID: 1, Entry: entry("a")})
	_, ok := FindLeaf(tree, 99)
	require.False(t, ok)
	require.Nil(t, EntryFor(tree, 99))

	l, ok := FindLeaf(tree, 1)
	require.True(t, ok)
	require.Equal(t, "a", l.Entry.ID)
}

func TestWithEntryReplacesOneLeaf(t *testing.T) {
	tree := Node(Split{Dir: Vertical, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5})
	bound := WithEntry(tree, 2, entry("x"))

	require.Nil(t, EntryFor(bound, 1))
	require.Equal(t, "x", EntryFor(bound, 2).ID)
	// Input tree is untouched.
	require.Nil(t, EntryFor(tree, 2))
}

func TestWithEntryAbsentIDIsNoop(t *testing.T) {
	tree := Node(Split{Dir: Vertical, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5})
	require.Equal(t, tree, WithEntry(tree, 42, entry("x")))
}

func TestSplitLeafReplacesTargetWithSplit(t *testing.T) {
	tree := Node(Leaf{ID: 1, Entry: entry("a")})
	split, ok := SplitLeaf(tree, 1, Vertical, 2)
	require.True(t, ok)

	s, isSplit := split.(Split)
	require.True(t, isSplit)
	require.Equal(t, Vertical, s.Dir)
	require.Equal(t, DefaultRatio, s.Ratio)
	// Target keeps its id and entry; new leaf is empty.
	require.Equal(t, Leaf{ID: 1, Entry: entry("a")}, s.First)
	require.Equal(t, Leaf{ID: 2}, s.Second)
}

func TestSplitLeafFailsAtMaxLeaves(t *testing.T) {
	tree := sixPaneTree()
	out, ok := SplitLeaf(tree, 1, Vertical, 7)
	require.False(t, ok)
	require.Equal(t, tree, out)
}

func TestSplitLeafFailsOnMissingTarget(t *testing.T) {
	tree := Node(Leaf{ID: 1})
	out, ok := SplitLeaf(tree, 9, Vertical, 2)
	require.False(t, ok)
	require.Equal(t, tree, out)
}

func TestRemoveLeafCollapsesParent(t *testing.T) {
	tree := Node(Split{Dir: Vertical, First: Leaf{ID: 1, Entry: entry("a")}, Second: Leaf{ID: 2}, Ratio: 0.5})
	out, ok := RemoveLeaf(tree, 2)
	require.True(t, ok)
	require.Equal(t, Node(Leaf{ID: 1, Entry: entry("a")}), out)
}

func TestRemoveLeafSignalsDisappearance(t *testing.T) {
	out, ok := RemoveLeaf(Leaf{ID: 1}, 1)
	require.False(t, ok)
	require.Nil(t, out)
}

func TestRemoveLeafCollapseChainsUpward(t *testing.T) {
	// Vertical(Horizontal(1, 2), 3): removing 2 collapses the inner split,
	// removing 3 afterwards collapses the outer one.
	tree := Node(Split{
		Dir:    Vertical,
		First:  Split{Dir: Horizontal, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5},
		Second: Leaf{ID: 3},
		Ratio:  0.5,
	})
	out, ok := RemoveLeaf(tree, 2)
	require.True(t, ok)
	require.Equal(t, Node(Split{Dir: Vertical, First: Leaf{ID: 1}, Second: Leaf{ID: 3}, Ratio: 0.5}), out)

	out, ok = RemoveLeaf(out, 3)
	require.True(t, ok)
	require.Equal(t, Node(Leaf{ID: 1}), out)
}

func TestRemoveLeafAbsentReturnsIdenticalTree(t *testing.T) {
	tree := sixPaneTree()
	out, ok := RemoveLeaf(tree, 99)
	require.True(t, ok)
	// Untouched subtrees come back identical, not just equal.
	require.Equal(t, tree, out)
}

func TestShapeAnalysis(t *testing.T) {
	single := Node(Leaf{ID: 1})
	require.Equal(t, 1, RowCount(single))

	vertical := Node(Split{Dir: Vertical, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5})
	require.Equal(t, 1, RowCount(vertical))

	horizontal := Node(Split{Dir: Horizontal, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5})
	require.Equal(t, 2, RowCount(horizontal))

	row, ok := RowFor(horizontal, 2)
	require.True(t, ok)
	require.Equal(t, Node(Leaf{ID: 2}), row)
	require.Equal(t, 1, ColumnsInRow(row))

	row, ok = RowFor(vertical, 2)
	require.True(t, ok)
	require.Equal(t, vertical, row)
	require.Equal(t, 2, ColumnsInRow(row))
}

func TestCanSplitShapeConstraint(t *testing.T) {
	// A fresh leaf can split either way.
	single := Node(Leaf{ID: 1})
	require.True(t, CanSplit(single, 1, Horizontal))
	require.True(t, CanSplit(single, 1, Vertical))

	// A row of two columns still has capacity in both directions.
	twoCols := Node(Split{Dir: Vertical, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5})
	require.True(t, CanSplit(twoCols, 1, Horizontal))
	require.True(t, CanSplit(twoCols, 1, Vertical))

	// At three columns the row is full: neither direction may add to it.
	threeCols := Node(Split{
		Dir:    Vertical,
		First:  Split{Dir: Vertical, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5},
		Second: Leaf{ID: 3},
		Ratio:  0.5,
	})
	for _, id := range []LeafID{1, 2, 3} {
		require.False(t, CanSplit(threeCols, id, Vertical), "leaf %d", id)
		require.False(t, CanSplit(threeCols, id, Horizontal), "leaf %d", id)
	}

	// Two rows: horizontal is exhausted everywhere, vertical fills the rows.
	twoRows := Node(Split{Dir: Horizontal, First: Leaf{ID: 1}, Second: Leaf{ID: 2}, Ratio: 0.5})
	require.False(t, CanSplit(twoRows, 1, Horizontal))
	require.True(t, CanSplit(twoRows, 1, Vertical))

	// An absent leaf can never split.
	require.False(t, CanSplit(twoRows, 42, Vertical))
}

// In the full 2x3 grid no leaf can split in either direction.
func TestCanSplitFullGrid(t *testing.T) {
	tree := sixPaneTree()
	for _, id := range LeafIDs(tree) {
		require.False(t, CanSplit(tree, id, Horizontal), "leaf %d horizontal", id)
		require.False(t, CanSplit(tree, id, Vertical), "leaf %d vertical", id)
	}
}

// Growing a tree through every allowed split keeps the invariants: between
// one and six unique leaves, at most two rows, at most three columns per row.
func TestInvariantsHoldUnderExhaustiveGrowth(t *testing.T) {
	ids := NewIDSource()
	var grow func(t *testing.T, n Node, depth int)
	grow = func(t *testing.T, n Node, depth int) {
		checkInvariants(t, n)
		if depth == 0 {
			return
		}
		for _, id := range LeafIDs(n) {
			for _, dir := range []Direction{Horizontal, Vertical} {
				if !CanSplit(n, id, dir) {
					continue
				}
				next, ok := SplitLeaf(n, id, dir, ids.Next())
				require.True(t, ok)
				grow(t, next, depth-1)
			}
		}
	}
	grow(t, Leaf{ID: ids.Next()}, 3)
}

func checkInvariants(t *testing.T, n Node) {
	t.Helper()
	count := LeafCount(n)
	require.GreaterOrEqual(t, count, 1)
	require.LessOrEqual(t, count, MaxLeaves)

	seen := make(map[LeafID]bool)
	for _, id := range LeafIDs(n) {
		require.False(t, seen[id], "duplicate leaf id %d", id)
		seen[id] = true
	}

	require.LessOrEqual(t, RowCount(n), 2)
	if s, ok := n.(Split); ok && s.Dir == Horizontal {
		require.LessOrEqual(t, ColumnsInRow(s.First), 3)
		require.LessOrEqual(t, ColumnsInRow(s.Second), 3)
	} else {
		require.LessOrEqual(t, ColumnsInRow(n), 3)
	}
	checkRatios(t, n)
}

func checkRatios(t *testing.T, n Node) {
	t.Helper()
	if s, ok := n.(Split); ok {
		require.Greater(t, s.Ratio, 0.0)
		require.Less(t, s.Ratio, 1.0)
		checkRatios(t, s.First)
		checkRatios(t, s.Second)
	}
}
