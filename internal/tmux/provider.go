package tmux

import (
	"fmt"

	"panedeck/internal/grid"
	"panedeck/internal/splittree"

	"github.com/kballard/go-shellquote"
)

// PaneHandle is the content handle for a tmux-backed pane. Adopted panes were
// joined in from an existing tmux target (agents the server already runs) and
// are broken back out on terminate; spawned panes (local terminals) are killed.
type PaneHandle struct {
	entry   splittree.EntryRef
	paneID  string
	adopted bool
}

// Entry implements grid.ContentHandle.
func (h *PaneHandle) Entry() splittree.EntryRef { return h.entry }

// PaneID returns the tmux pane ID (e.g. "%42").
func (h *PaneHandle) PaneID() string { return h.paneID }

// SetFocused implements grid.FocusAware: focusing a cell selects its tmux
// pane so keystrokes land there. Losing focus needs no tmux action.
func (h *PaneHandle) SetFocused(focused bool) {
	if focused {
		_ = SelectPane(h.paneID)
	}
}

var _ grid.FocusAware = (*PaneHandle)(nil)

// TargetResolver maps an entry to its tmux target (session:window.pane).
// Returns ok=false when the entry has no live target.
type TargetResolver func(entry splittree.EntryRef) (target string, ok bool)

// Provider is the tmux-backed content provider for the pane grid. Agent and
// group entries resolve to existing server-managed panes and are joined into
// the current window; terminal entries spawn a fresh shell pane.
type Provider struct {
	resolve TargetResolver
	workDir string
	shell   string
}

var _ grid.ContentProvider = (*Provider)(nil)

// NewProvider creates a provider. shellCommand is the command for terminal
// entries; empty means the tmux default shell.
func NewProvider(resolve TargetResolver, workDir, shellCommand string) *Provider {
	return &Provider{resolve: resolve, workDir: workDir, shell: shellCommand}
}

// Provide implements grid.ContentProvider.
func (p *Provider) Provide(entry splittree.EntryRef) (grid.ContentHandle, error) {
	if entry.Kind == splittree.EntryTerminal {
		var command []string
		if p.shell != "" {
			args, err := shellquote.Split(p.shell)
			if err != nil {
				return nil, fmt.Errorf("parse shell command: %w", err)
			}
			command = args
		}
		paneID, err := SplitPane(p.workDir, command...)
		if err != nil {
			return nil, err
		}
		return &PaneHandle{entry: entry, paneID: paneID}, nil
	}

	target, ok := p.resolve(entry)
	if !ok {
		return nil, fmt.Errorf("entry %s has no tmux target", entry.ID)
	}
	paneID, err := PaneIDForTarget(target)
	if err != nil {
		return nil, err
	}
	if err := JoinPane(paneID); err != nil {
		return nil, err
	}
	return &PaneHandle{entry: entry, paneID: paneID, adopted: true}, nil
}

// Terminate implements grid.ContentProvider. Adopted panes go back to their
// own background window so the server keeps supervising them; spawned panes
// die with the grid cell.
func (p *Provider) Terminate(handle grid.ContentHandle) {
	h, ok := handle.(*PaneHandle)
	if !ok {
		return
	}
	if h.adopted {
		// Best effort: the pane may already be gone.
		_ = BreakPane(h.paneID)
		return
	}
	_ = KillPane(h.paneID)
}
