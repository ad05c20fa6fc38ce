// Package layoutstore persists pane layouts per owner entry.
// Layout: <projects base>/<project>/layouts/<owner-id>.json
package layoutstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"panedeck/internal/jsonutil"
	"panedeck/internal/splittree"
)

// Store reads and writes saved layouts inside project directories.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at the projects base directory.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// path returns the layout file for an owner entry within a project.
// Owner ids can contain characters unfit for file names; they are sanitized
// the same way every time so lookups stay stable.
func (s *Store) path(project, ownerID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, ownerID)
	return filepath.Join(s.baseDir, project, "layouts", safe+".json")
}

// Save writes the layout for an owner entry, creating directories as needed.
func (s *Store) Save(project, ownerID string, layout *splittree.LayoutNode) error {
	path := s.path(project, ownerID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create layouts dir: %w", err)
	}
	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// Load reads the saved layout for an owner entry. Returns nil with ok=false
// when no layout was saved or the file cannot be parsed; restoration treats
// both the same way (start from a single pane).
func (s *Store) Load(project, ownerID string) (*splittree.LayoutNode, bool) {
	data, err := os.ReadFile(s.path(project, ownerID))
	if err != nil {
		return nil, false
	}
	var layout splittree.LayoutNode
	if !jsonutil.UnmarshalSafe(data, &layout) {
		return nil, false
	}
	return &layout, true
}

// Delete removes the saved layout for an owner entry. Missing files are fine.
func (s *Store) Delete(project, ownerID string) error {
	err := os.Remove(s.path(project, ownerID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
