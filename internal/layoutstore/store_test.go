package layoutstore

import (
	"os"
	"path/filepath"
	"testing"

	"panedeck/internal/splittree"

	"github.com/stretchr/testify/require"
)

func sampleLayout() *splittree.LayoutNode {
	return splittree.Encode(splittree.Split{
		Dir:    splittree.Vertical,
		First:  splittree.Leaf{ID: 1, Entry: &splittree.EntryRef{ID: "ag-1", Kind: splittree.EntryAgent}},
		Second: splittree.Leaf{ID: 2},
		Ratio:  0.5,
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	want := sampleLayout()

	require.NoError(t, s.Save("proj", "ag-1", want))
	got, ok := s.Load("proj", "ag-1")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestLoadMissingLayout(t *testing.T) {
	s := NewStore(t.TempDir())
	_, ok := s.Load("proj", "never-saved")
	require.False(t, ok)
}

func TestLoadCorruptLayout(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)
	require.NoError(t, s.Save("proj", "ag-1", sampleLayout()))

	path := filepath.Join(base, "proj", "layouts", "ag-1.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, ok := s.Load("proj", "ag-1")
	require.False(t, ok)
}

func TestOwnerIDSanitization(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save("proj", "wt/agent:1", sampleLayout()))

	// Same raw id resolves to the same file.
	_, ok := s.Load("proj", "wt/agent:1")
	require.True(t, ok)
}

func TestDelete(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save("proj", "ag-1", sampleLayout()))
	require.NoError(t, s.Delete("proj", "ag-1"))
	_, ok := s.Load("proj", "ag-1")
	require.False(t, ok)

	require.NoError(t, s.Delete("proj", "ag-1"), "deleting a missing layout is fine")
}
