package tmux

import (
	"fmt"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// ListSessionNames returns the names of all running tmux sessions on the
// default server socket.
func ListSessionNames() ([]string, error) {
	tm, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("connect tmux: %w", err)
	}
	sessions, err := tm.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.Name)
	}
	return names, nil
}

// HasSession reports whether a session with the given name is running.
// Any server error reads as "no session": callers only use this to decide
// whether pane targets in that session can resolve.
func HasSession(name string) bool {
	tm, err := gotmux.DefaultTmux()
	if err != nil {
		return false
	}
	s, err := tm.GetSessionByName(name)
	return err == nil && s != nil
}
