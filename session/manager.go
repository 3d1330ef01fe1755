// Package session manages the WebSocket conversation protocol: one research
// run per connection, authenticated by API key, streaming the run's events
// until the terminal event or until the client cancels or disconnects.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/logging"
)

// Run is the engine-side handle a session drives. Events must eventually
// end (terminal event or cancellation) and then close.
type Run interface {
	Events() <-chan core.Event
	Cancel()
}

// ResearcherFunc starts a research run. The context bounds the run's
// lifetime; cancelling it is equivalent to calling Cancel on the run.
type ResearcherFunc func(ctx context.Context, req core.ResearchRequest) Run

// Options holds configuration overrides passed to NewManager().
type Options struct {
	// APIKeys lists the accepted client keys. Empty disables auth.
	APIKeys []string
	// Logger receives session lifecycle records.
	Logger logging.Logger
}

// Manager handles WebSocket research sessions. Safe for concurrent use;
// each connection gets its own goroutines and shares nothing mutable.
type Manager struct {
	researcher ResearcherFunc
	apiKeys    map[string]bool
	logger     logging.Logger
}

// NewManager constructs a session manager over a researcher.
func NewManager(researcher ResearcherFunc, optFns ...func(o *Options)) *Manager {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	keys := make(map[string]bool, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		keys[k] = true
	}
	return &Manager{researcher: researcher, apiKeys: keys, logger: opts.Logger}
}

// clientMessage is the inbound protocol: a start message opens the run,
// a cancel message stops it.
type clientMessage struct {
	Type        string   `json:"type"`
	APIKey      string   `json:"api_key,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	Depth       string   `json:"depth,omitempty"`
	FocusAreas  []string `json:"focus_areas,omitempty"`
}

// protocolError is written for session-level failures that happen outside
// a run's event stream (auth, malformed protocol, busy session).
type protocolError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handle owns the connection for its lifetime and closes it before
// returning. One run per connection; a second start message is rejected
// without disturbing the active run.
func (m *Manager) Handle(conn *websocket.Conn) {
	defer conn.Close()

	var writeMu sync.Mutex
	writeJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	var start clientMessage
	if err := conn.ReadJSON(&start); err != nil {
		m.logger.Debug("session closed before start", "error", err)
		return
	}
	if start.Type != "start" {
		_ = writeJSON(protocolError{
			Type:    "error",
			Code:    "protocol",
			Message: "first message must be a start message",
		})
		return
	}
	if code, msg := m.authorize(start.APIKey); code != "" {
		m.logger.Warn("session rejected", "code", code)
		_ = writeJSON(protocolError{Type: "error", Code: code, Message: msg})
		return
	}

	req := core.ResearchRequest{
		Subject:    start.CompanyName,
		Depth:      core.Depth(start.Depth),
		FocusAreas: start.FocusAreas,
	}
	if strings.TrimSpace(start.Depth) == "" {
		req.Depth = core.DepthStandard
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	run := m.researcher(ctx, req)

	// Reader: watches for cancel messages and connection loss. Either one
	// cancels the run; the writer loop then drains and returns.
	go func() {
		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				// Connection loss is an implicit cancellation.
				m.logger.Debug("session transport closed",
					"code", string(core.CodeTransport), "error", err)
				run.Cancel()
				return
			}
			switch msg.Type {
			case "cancel":
				run.Cancel()
			case "start":
				busy := core.E(core.CodeSessionBusy, "a research run is already active on this session")
				_ = writeJSON(protocolError{
					Type:    "error",
					Code:    string(core.CodeSessionBusy),
					Message: busy.Message,
				})
			}
		}
	}()

	for ev := range run.Events() {
		if err := writeJSON(ev); err != nil {
			m.logger.Debug("session write failed", "error", err)
			run.Cancel()
			for range run.Events() {
				// drain so the engine can finish shutting down
			}
			return
		}
	}
}

// authorize checks the client key against the configured set. Returns a
// non-empty code on rejection.
func (m *Manager) authorize(key string) (code, message string) {
	if len(m.apiKeys) == 0 {
		return "", ""
	}
	if key == "" {
		return "unauthorized", "API key is required"
	}
	if !m.apiKeys[key] {
		return "forbidden", "invalid API key"
	}
	return "", ""
}
