// Package session tracks the tmux panes bound into the grid. The Registry
// maps entry ids to live panes, supports liveness pruning via tmux
// list-panes, and lives on AppModel so it survives project switches.
package session

import (
	"sync"
	"time"

	"panedeck/internal/splittree"
)

// BoundPane holds metadata about one pane currently bound to a grid cell.
type BoundPane struct {
	EntryID   string             // entry the pane displays
	Kind      splittree.EntryKind
	PaneID    string             // tmux pane ID (e.g. "%42")
	CreatedAt time.Time          // when the pane was registered
}

// LivenessChecker returns the set of currently live tmux pane IDs.
// In production this calls tmux.ListPaneIDs(); tests can inject a stub.
type LivenessChecker func() (map[string]bool, error)

// Registry manages the mapping from entries to bound tmux panes.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	panes    map[string]BoundPane // entry id -> pane
	liveness LivenessChecker
}

// New creates a Registry with the given liveness checker.
// If liveness is nil, Prune becomes a no-op.
func New(liveness LivenessChecker) *Registry {
	return &Registry{
		panes:    make(map[string]BoundPane),
		liveness: liveness,
	}
}

// Register records a pane for the given entry, replacing any previous one.
func (r *Registry) Register(entry splittree.EntryRef, paneID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panes[entry.ID] = BoundPane{
		EntryID:   entry.ID,
		Kind:      entry.Kind,
		PaneID:    paneID,
		CreatedAt: time.Now(),
	}
}

// Unregister removes the pane for an entry.
// Returns true if the entry was tracked.
func (r *Registry) Unregister(entryID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.panes[entryID]
	delete(r.panes, entryID)
	return ok
}

// PaneFor returns the bound pane for an entry.
func (r *Registry) PaneFor(entryID string) (BoundPane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.panes[entryID]
	return p, ok
}

// All returns every bound pane.
func (r *Registry) All() []BoundPane {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BoundPane, 0, len(r.panes))
	for _, p := range r.panes {
		out = append(out, p)
	}
	return out
}

// Count returns the number of bound panes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.panes)
}

// CountByKind returns (terminals, agents) among bound panes.
func (r *Registry) CountByKind() (terminals, agents int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.panes {
		switch p.Kind {
		case splittree.EntryTerminal:
			terminals++
		case splittree.EntryAgent, splittree.EntryGroup:
			agents++
		}
	}
	return
}

// Prune removes entries whose panes no longer exist, checking liveness via
// tmux list-panes. Returns the pruned entry ids so the grid can unbind them.
func (r *Registry) Prune() ([]string, error) {
	if r.liveness == nil {
		return nil, nil
	}
	live, err := r.liveness()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var pruned []string
	for id, p := range r.panes {
		if !live[p.PaneID] {
			pruned = append(pruned, id)
			delete(r.panes, id)
		}
	}
	return pruned, nil
}

// Clear removes all bound panes. Returns the number removed.
func (r *Registry) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.panes)
	r.panes = make(map[string]BoundPane)
	return n
}
