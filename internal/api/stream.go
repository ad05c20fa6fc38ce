package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"panedeck/internal/jsonutil"
	"panedeck/internal/manifest"
)

// ConnectionState is the lifecycle of the status stream.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateError
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateError:
		return "error"
	}
	return "unknown"
}

// EventKind discriminates stream events.
type EventKind string

const (
	EventState          EventKind = "state"
	EventManifest       EventKind = "manifest"
	EventAgentStatus    EventKind = "agentStatus"
	EventTerminalOutput EventKind = "terminalOutput"
	EventError          EventKind = "error"
)

// Event is one stream notification, delivered to the UI as a message.
type Event struct {
	Kind           EventKind
	State          ConnectionState
	Manifest       *manifest.Manifest
	WorktreeID     string
	AgentID        string
	AgentStatus    manifest.AgentStatus
	WorktreeStatus manifest.WorktreeStatus
	Data           string
	Err            string
}

// serverEvent is the wire format: a type tag plus event-specific fields.
type serverEvent struct {
	Type           string                  `json:"type"`
	Manifest       *manifest.Manifest      `json:"manifest"`
	WorktreeID     string                  `json:"worktreeId"`
	AgentID        string                  `json:"agentId"`
	Status         manifest.AgentStatus    `json:"status"`
	WorktreeStatus manifest.WorktreeStatus `json:"worktreeStatus"`
	Data           string                  `json:"data"`
	Code           string                  `json:"code"`
	Message        string                  `json:"message"`
}

// parseServerEvent decodes one wire message. Pongs and unknown types yield
// ok=false: they carry nothing for the UI.
func parseServerEvent(data []byte) (Event, bool) {
	var se serverEvent
	if !jsonutil.UnmarshalSafe(data, &se) {
		return Event{}, false
	}
	switch se.Type {
	case "manifest:updated":
		if se.Manifest == nil {
			return Event{}, false
		}
		return Event{Kind: EventManifest, Manifest: se.Manifest}, true
	case "agent:status":
		return Event{
			Kind:           EventAgentStatus,
			WorktreeID:     se.WorktreeID,
			AgentID:        se.AgentID,
			AgentStatus:    se.Status,
			WorktreeStatus: se.WorktreeStatus,
		}, true
	case "terminal:output":
		return Event{Kind: EventTerminalOutput, AgentID: se.AgentID, Data: se.Data}, true
	case "error":
		return Event{Kind: EventError, Err: fmt.Sprintf("%s: %s", se.Code, se.Message)}, true
	}
	return Event{}, false
}

// WSURL converts a server base URL to the stream endpoint, with the token as
// a query parameter when set.
func WSURL(baseURL, token string) string {
	ws := strings.Replace(baseURL, "http://", "ws://", 1)
	ws = strings.Replace(ws, "https://", "wss://", 1)
	ws = strings.TrimRight(ws, "/") + "/api/events"
	if token != "" {
		ws += "?token=" + token
	}
	return ws
}

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Stream maintains the status WebSocket with auto-reconnect. Events are
// delivered on the Events channel; the UI turns them into messages.
type Stream struct {
	url    string
	events chan Event
	done   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewStream creates a stream for the given server. Call Start to connect.
func NewStream(baseURL, token string) *Stream {
	return &Stream{
		url:    WSURL(baseURL, token),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// Events returns the channel stream notifications arrive on. The channel is
// closed when the stream shuts down.
func (s *Stream) Events() <-chan Event { return s.events }

// Start runs the connect/read/reconnect loop in a goroutine.
func (s *Stream) Start() {
	go s.run()
}

// Close stops the stream. Safe to call more than once.
func (s *Stream) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()
	})
}

func (s *Stream) emit(e Event) bool {
	select {
	case s.events <- e:
		return true
	case <-s.done:
		return false
	}
}

func (s *Stream) run() {
	defer close(s.events)

	backoff := initialBackoff
	first := true
	for {
		select {
		case <-s.done:
			return
		default:
		}

		if first {
			s.emit(Event{Kind: EventState, State: StateConnecting})
		} else {
			s.emit(Event{Kind: EventState, State: StateReconnecting})
		}

		conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
		if err != nil {
			s.emit(Event{Kind: EventState, State: StateError, Err: err.Error()})
		} else {
			backoff = initialBackoff
			first = false
			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()
			s.emit(Event{Kind: EventState, State: StateConnected})

			s.readLoop(conn)

			s.mu.Lock()
			s.conn = nil
			s.mu.Unlock()
			s.emit(Event{Kind: EventState, State: StateDisconnected})
		}

		select {
		case <-s.done:
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (s *Stream) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if e, ok := parseServerEvent(data); ok {
			if !s.emit(e) {
				return
			}
		}
	}
}

// clientCommand is the outbound wire format.
type clientCommand struct {
	Type    string `json:"type"`
	AgentID string `json:"agentId,omitempty"`
	Data    string `json:"data,omitempty"`
}

func (s *Stream) send(cmd clientCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("stream not connected")
	}
	return s.conn.WriteJSON(cmd)
}

// SubscribeTerminal asks the server to stream an agent's terminal output.
func (s *Stream) SubscribeTerminal(agentID string) error {
	return s.send(clientCommand{Type: "terminal:subscribe", AgentID: agentID})
}

// UnsubscribeTerminal stops an agent's terminal stream.
func (s *Stream) UnsubscribeTerminal(agentID string) error {
	return s.send(clientCommand{Type: "terminal:unsubscribe", AgentID: agentID})
}

// SendTerminalInput forwards keystrokes to an agent's terminal.
func (s *Stream) SendTerminalInput(agentID, data string) error {
	return s.send(clientCommand{Type: "terminal:input", AgentID: agentID, Data: data})
}
