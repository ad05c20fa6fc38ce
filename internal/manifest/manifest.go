// Package manifest holds the session-server data model: the manifest document
// served at /api/status and streamed over the status WebSocket. Field names
// mirror the server's camelCase wire format exactly.
package manifest

import (
	"sort"
)

// AgentStatus is the lifecycle state of one agent process.
type AgentStatus string

const (
	AgentRunning AgentStatus = "running"
	AgentIdle    AgentStatus = "idle"
	AgentExited  AgentStatus = "exited"
	AgentGone    AgentStatus = "gone"
)

// Label returns the human-readable form for UI display.
func (s AgentStatus) Label() string {
	switch s {
	case AgentRunning:
		return "Running"
	case AgentIdle:
		return "Idle"
	case AgentExited:
		return "Exited"
	case AgentGone:
		return "Gone"
	}
	return string(s)
}

// Glyph returns the one-character status marker used in the sidebar.
func (s AgentStatus) Glyph() string {
	switch s {
	case AgentRunning:
		return "●"
	case AgentIdle:
		return "◐"
	case AgentExited:
		return "○"
	case AgentGone:
		return "✗"
	}
	return "?"
}

// WorktreeStatus is the lifecycle state of one worktree.
type WorktreeStatus string

const (
	WorktreeActive  WorktreeStatus = "active"
	WorktreeMerging WorktreeStatus = "merging"
	WorktreeMerged  WorktreeStatus = "merged"
	WorktreeFailed  WorktreeStatus = "failed"
	WorktreeCleaned WorktreeStatus = "cleaned"
)

// Label returns the human-readable form for UI display.
func (s WorktreeStatus) Label() string {
	switch s {
	case WorktreeActive:
		return "Active"
	case WorktreeMerging:
		return "Merging"
	case WorktreeMerged:
		return "Merged"
	case WorktreeFailed:
		return "Failed"
	case WorktreeCleaned:
		return "Cleaned"
	}
	return string(s)
}

// AgentEntry describes one agent process the server supervises.
type AgentEntry struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	AgentType  string      `json:"agentType"`
	Status     AgentStatus `json:"status"`
	TmuxTarget string      `json:"tmuxTarget"`
	Prompt     string      `json:"prompt"`
	StartedAt  string      `json:"startedAt"`
	ExitCode   *int        `json:"exitCode"`
	SessionID  *string     `json:"sessionId"`
}

// WorktreeEntry describes one worktree and the agents running inside it.
type WorktreeEntry struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Path       string                `json:"path"`
	Branch     string                `json:"branch"`
	BaseBranch string                `json:"baseBranch"`
	Status     WorktreeStatus        `json:"status"`
	TmuxWindow string                `json:"tmuxWindow"`
	PRURL      *string               `json:"prUrl"`
	Agents     map[string]AgentEntry `json:"agents"`
	CreatedAt  string                `json:"createdAt"`
	MergedAt   *string               `json:"mergedAt"`
}

// Manifest is the full session state document.
type Manifest struct {
	Version     int                      `json:"version"`
	ProjectRoot string                   `json:"projectRoot"`
	SessionName string                   `json:"sessionName"`
	Worktrees   map[string]WorktreeEntry `json:"worktrees"`
	CreatedAt   string                   `json:"createdAt"`
	UpdatedAt   string                   `json:"updatedAt"`
}

// CountAgentsByStatus counts agents across all worktrees in the given state.
func (m *Manifest) CountAgentsByStatus(status AgentStatus) int {
	n := 0
	for _, wt := range m.Worktrees {
		for _, a := range wt.Agents {
			if a.Status == status {
				n++
			}
		}
	}
	return n
}

// WorktreeAgent pairs an agent with the id of the worktree it runs in.
type WorktreeAgent struct {
	WorktreeID string
	Agent      AgentEntry
}

// AllAgents returns every agent across all worktrees in a stable order
// (worktree id, then agent name) so list views don't jitter between updates.
func (m *Manifest) AllAgents() []WorktreeAgent {
	var out []WorktreeAgent
	for wtID, wt := range m.Worktrees {
		for _, a := range wt.Agents {
			out = append(out, WorktreeAgent{WorktreeID: wtID, Agent: a})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorktreeID != out[j].WorktreeID {
			return out[i].WorktreeID < out[j].WorktreeID
		}
		return out[i].Agent.Name < out[j].Agent.Name
	})
	return out
}

// SortedWorktrees returns worktree entries ordered by name for display.
func (m *Manifest) SortedWorktrees() []WorktreeEntry {
	out := make([]WorktreeEntry, 0, len(m.Worktrees))
	for _, wt := range m.Worktrees {
		out = append(out, wt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindAgent looks up an agent by id across all worktrees.
func (m *Manifest) FindAgent(agentID string) (AgentEntry, bool) {
	for _, wt := range m.Worktrees {
		if a, ok := wt.Agents[agentID]; ok {
			return a, true
		}
		for _, a := range wt.Agents {
			if a.ID == agentID {
				return a, true
			}
		}
	}
	return AgentEntry{}, false
}
