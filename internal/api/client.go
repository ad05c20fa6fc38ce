// Package api is the client for the session server: a REST surface for
// spawning and controlling agents plus a WebSocket status stream at
// /api/events. All request and response bodies use camelCase JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"panedeck/internal/manifest"
	"panedeck/internal/trace"
)

// Client is the REST client for the session server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	tracer     *trace.Tracer
}

// NewClient creates a client for the given base URL. token may be empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// SetConnection repoints the client at a different server.
func (c *Client) SetConnection(baseURL, token string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.token = token
}

// SetTracer enables spans around every request. A nil tracer is fine.
func (c *Client) SetTracer(t *trace.Tracer) {
	c.tracer = t
}

// BaseURL returns the server base URL currently in use.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the bearer token currently in use.
func (c *Client) Token() string { return c.token }

// SpawnRequest asks the server to create a worktree with agents.
type SpawnRequest struct {
	Name   string `json:"name"`
	Agent  string `json:"agent,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// SpawnedAgent is one agent created by a spawn.
type SpawnedAgent struct {
	ID         string  `json:"id"`
	TmuxTarget string  `json:"tmuxTarget"`
	SessionID  *string `json:"sessionId"`
}

// SpawnResponse describes the worktree and agents a spawn created.
type SpawnResponse struct {
	WorktreeID string         `json:"worktreeId"`
	Name       string         `json:"name"`
	Branch     string         `json:"branch"`
	Agents     []SpawnedAgent `json:"agents"`
}

// SendMode selects how text is delivered to an agent's terminal.
type SendMode string

const (
	SendRaw       SendMode = "raw"
	SendLiteral   SendMode = "literal"
	SendWithEnter SendMode = "with-enter"
)

// SendKeysRequest delivers text to an agent.
type SendKeysRequest struct {
	Text string   `json:"text"`
	Mode SendMode `json:"mode"`
}

// RestartRequest restarts an agent, optionally with a new prompt or type.
type RestartRequest struct {
	Prompt string `json:"prompt,omitempty"`
	Agent  string `json:"agent,omitempty"`
}

// MergeRequest merges a worktree back to its base branch.
type MergeRequest struct {
	Strategy string `json:"strategy,omitempty"`
	Cleanup  *bool  `json:"cleanup,omitempty"`
	Force    *bool  `json:"force,omitempty"`
}

// LogsResponse carries recent terminal lines for an agent.
type LogsResponse struct {
	AgentID string   `json:"agentId"`
	Lines   []string `json:"lines"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string `json:"status"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, end := c.tracer.Span(ctx, "api.request",
		trace.Attr("method", method), trace.Attr("path", path))
	defer func() { end(err) }()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Health checks the /health endpoint.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.get(ctx, "/health", &out)
	return out, err
}

// TestConnection reports whether the server answers with a healthy status.
func (c *Client) TestConnection(ctx context.Context) bool {
	h, err := c.Health(ctx)
	return err == nil && h.Status == "ok"
}

// Status fetches the full manifest.
func (c *Client) Status(ctx context.Context) (*manifest.Manifest, error) {
	var out manifest.Manifest
	if err := c.get(ctx, "/api/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Spawn creates a worktree with agents.
func (c *Client) Spawn(ctx context.Context, req SpawnRequest) (SpawnResponse, error) {
	var out SpawnResponse
	err := c.post(ctx, "/api/spawn", req, &out)
	return out, err
}

// AgentLogs fetches recent output for an agent. lines <= 0 uses the server
// default.
func (c *Client) AgentLogs(ctx context.Context, agentID string, lines int) (LogsResponse, error) {
	path := "/api/agents/" + url.PathEscape(agentID) + "/logs"
	if lines > 0 {
		path = fmt.Sprintf("%s?lines=%d", path, lines)
	}
	var out LogsResponse
	err := c.get(ctx, path, &out)
	return out, err
}

// SendKeys delivers text to an agent's terminal.
func (c *Client) SendKeys(ctx context.Context, agentID string, req SendKeysRequest) error {
	return c.post(ctx, "/api/agents/"+url.PathEscape(agentID)+"/send", req, nil)
}

// KillAgent stops an agent.
func (c *Client) KillAgent(ctx context.Context, agentID string) error {
	return c.post(ctx, "/api/agents/"+url.PathEscape(agentID)+"/kill", nil, nil)
}

// RestartAgent restarts an agent.
func (c *Client) RestartAgent(ctx context.Context, agentID string, req RestartRequest) error {
	return c.post(ctx, "/api/agents/"+url.PathEscape(agentID)+"/restart", req, nil)
}

// MergeWorktree merges a worktree back to its base branch.
func (c *Client) MergeWorktree(ctx context.Context, worktreeID string, req MergeRequest) error {
	return c.post(ctx, "/api/worktrees/"+url.PathEscape(worktreeID)+"/merge", req, nil)
}

// KillWorktree stops all agents in a worktree and removes it.
func (c *Client) KillWorktree(ctx context.Context, worktreeID string) error {
	return c.post(ctx, "/api/worktrees/"+url.PathEscape(worktreeID)+"/kill", nil, nil)
}
