package splittree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// threeLeafTree is a horizontal split whose second child is a vertical
// split of two leaves, bound to entries A, B, C in document order.
func threeLeafTree() Node {
	return Split{
		Dir:   Horizontal,
		First: Leaf{ID: 1, Entry: entry("A")},
		Second: Split{
			Dir:    Vertical,
			First:  Leaf{ID: 2, Entry: entry("B")},
			Second: Leaf{ID: 3, Entry: entry("C")},
			Ratio:  0.3,
		},
		Ratio: 0.6,
	}
}

func TestEncodeWireFormat(t *testing.T) {
	tree := Node(Split{
		Dir:    Vertical,
		First:  Leaf{ID: 1, Entry: entry("A")},
		Second: Leaf{ID: 2},
		Ratio:  0.5,
	})
	data, err := json.Marshal(Encode(tree))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"split": {
			"direction": "vertical",
			"ratio": 0.5,
			"first": {"leaf": {"entryId": "A"}},
			"second": {"leaf": {"entryId": null}}
		}
	}`, string(data))
}

func TestDecodeRoundTripPreservesShape(t *testing.T) {
	tree := threeLeafTree()
	ids := NewIDSource()
	// Burn a few ids so restored ids provably differ from the originals.
	ids.Next()
	ids.Next()
	ids.Next()

	decoded, ok := Decode(Encode(tree), ids)
	require.True(t, ok)

	// Same shape, directions, and ratios; fresh ids; no entries yet.
	require.Equal(t, shapeOf(tree), shapeOf(decoded))
	for _, id := range LeafIDs(decoded) {
		require.Greater(t, int(id), 3)
		require.Nil(t, EntryFor(decoded, id))
	}
}

// shapeOf reduces a tree to its structure, ignoring leaf ids and entries.
func shapeOf(n Node) string {
	switch t := n.(type) {
	case Leaf:
		return "L"
	case Split:
		return "(" + t.Dir.String() + " " + shapeOf(t.First) + " " + shapeOf(t.Second) + ")"
	default:
		return "?"
	}
}

func TestPersistedEntryIDsDocumentOrder(t *testing.T) {
	layout := Encode(Split{
		Dir:    Vertical,
		First:  Leaf{ID: 1, Entry: entry("A")},
		Second: Leaf{ID: 2},
		Ratio:  0.5,
	})
	require.Equal(t, []string{"A", ""}, PersistedEntryIDs(layout))
}

// Serialize a 3-leaf tree holding [A, B, C], restore with fresh ids and
// rebind by entry id; shape, directions, ratios, and the entry order all
// survive.
func TestRestoreRebindsByEntryID(t *testing.T) {
	tree := threeLeafTree()
	layout := Encode(tree)

	owner := EntryRef{ID: "A", Kind: EntryAgent}
	known := []EntryRef{{ID: "B", Kind: EntryAgent}, {ID: "C", Kind: EntryTerminal}}
	restored := Restore(layout, owner, known, NewIDSource())

	require.Equal(t, shapeOf(tree), shapeOf(restored))

	var got []string
	for _, id := range LeafIDs(restored) {
		e := EntryFor(restored, id)
		require.NotNil(t, e)
		got = append(got, e.ID)
	}
	require.Equal(t, []string{"A", "B", "C"}, got)
}

func TestRestoreLeavesUnknownEntriesEmpty(t *testing.T) {
	tree := threeLeafTree()
	owner := EntryRef{ID: "A", Kind: EntryAgent}
	// B is gone; C is still known.
	restored := Restore(Encode(tree), owner, []EntryRef{{ID: "C", Kind: EntryAgent}}, NewIDSource())

	require.Equal(t, shapeOf(tree), shapeOf(restored))
	leaves := LeafIDs(restored)
	require.Len(t, leaves, 3)
	require.Equal(t, "A", EntryFor(restored, leaves[0]).ID)
	require.Nil(t, EntryFor(restored, leaves[1]))
	require.Equal(t, "C", EntryFor(restored, leaves[2]).ID)
}

func TestRestoreMalformedLayoutFallsBackToChain(t *testing.T) {
	// A split with a missing child cannot decode; restoration degrades to a
	// vertical chain of the entries that still resolve.
	bad := &LayoutNode{Split: &LayoutSplit{
		Direction: "vertical",
		Ratio:     0.5,
		First:     &LayoutNode{Leaf: &LayoutLeaf{EntryID: strptr("A")}},
		Second:    nil,
	}}
	owner := EntryRef{ID: "A", Kind: EntryAgent}
	restored := Restore(bad, owner, nil, NewIDSource())

	require.Equal(t, 1, LeafCount(restored))
	leaves := LeafIDs(restored)
	require.Equal(t, "A", EntryFor(restored, leaves[0]).ID)
}

func TestRestoreNilLayoutYieldsSingleEmptyLeaf(t *testing.T) {
	restored := Restore(nil, EntryRef{ID: "A"}, nil, NewIDSource())
	require.Equal(t, 1, LeafCount(restored))
	require.Nil(t, EntryFor(restored, LeafIDs(restored)[0]))
}

func TestRestoreChainBindsInOrder(t *testing.T) {
	// Three resolvable entries in a broken layout come back as a chain of
	// vertical splits filled in saved order.
	bad := &LayoutNode{Split: &LayoutSplit{
		Direction: "diagonal", // unknown direction forces the degraded path
		Ratio:     0.5,
		First:     &LayoutNode{Leaf: &LayoutLeaf{EntryID: strptr("A")}},
		Second: &LayoutNode{Split: &LayoutSplit{
			Direction: "vertical",
			Ratio:     0.5,
			First:     &LayoutNode{Leaf: &LayoutLeaf{EntryID: strptr("B")}},
			Second:    &LayoutNode{Leaf: &LayoutLeaf{EntryID: strptr("C")}},
		}},
	}}
	owner := EntryRef{ID: "A", Kind: EntryAgent}
	known := []EntryRef{{ID: "B"}, {ID: "C"}}
	restored := Restore(bad, owner, known, NewIDSource())

	require.Equal(t, 3, LeafCount(restored))
	var got []string
	for _, id := range LeafIDs(restored) {
		got = append(got, EntryFor(restored, id).ID)
	}
	require.Equal(t, []string{"A", "B", "C"}, got)
	// Every split in the chain is vertical.
	requireAllVertical(t, restored)
}

func requireAllVertical(t *testing.T, n Node) {
	t.Helper()
	if s, ok := n.(Split); ok {
		require.Equal(t, Vertical, s.Dir)
		requireAllVertical(t, s.First)
		requireAllVertical(t, s.Second)
	}
}

func TestDecodeRejectsBadRatio(t *testing.T) {
	bad := &LayoutNode{Split: &LayoutSplit{
		Direction: "vertical",
		Ratio:     1.5,
		First:     &LayoutNode{Leaf: &LayoutLeaf{}},
		Second:    &LayoutNode{Leaf: &LayoutLeaf{}},
	}}
	_, ok := Decode(bad, NewIDSource())
	require.False(t, ok)
}

func TestDecodeRejectsOversizedTree(t *testing.T) {
	// Seven leaves exceed MaxLeaves.
	leaf := func() *LayoutNode { return &LayoutNode{Leaf: &LayoutLeaf{}} }
	chain := leaf()
	for i := 0; i < 6; i++ {
		chain = &LayoutNode{Split: &LayoutSplit{Direction: "vertical", Ratio: 0.5, First: chain, Second: leaf()}}
	}
	_, ok := Decode(chain, NewIDSource())
	require.False(t, ok)
}

func strptr(s string) *string { return &s }
