package model

import (
	"context"
	"fmt"
)

// ToolCall is a function call request surfaced by a provider. Arguments is
// the raw JSON argument string exactly as the provider produced it; callers
// parse it themselves so malformed arguments can be reported back to the
// model instead of dropped.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSpec declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Message is one entry of a conversation transcript. Role is "user",
// "assistant" or "tool". Assistant messages may carry tool calls; tool
// messages carry the response to one call, identified by ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Text       string     `json:"text,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolName   string     `json:"tool_name,omitempty"`
}

// Request is one reasoning turn: system instructions, the transcript so
// far, and the tools the model may call.
type Request struct {
	Instructions string     `json:"instructions"`
	Messages     []Message  `json:"messages"`
	Tools        []ToolSpec `json:"tools,omitempty"`
}

// Response is the model's reply for one turn. Either or both of Text and
// ToolCalls may be set; a response with tool calls means the caller should
// execute them and reason again with the results appended.
type Response struct {
	Text      string     `json:"text,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Info contains metadata about a reasoner implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Reasoner is the minimal interface task runners use to drive a reasoning
// model. Implementations must be safe for concurrent use.
type Reasoner interface {
	Reason(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the reasoner implementation.
	Info() Info
}

// ScriptedReasoner replays a fixed sequence of responses, one per Reason
// call, regardless of input. Useful for tests and examples.
type ScriptedReasoner struct {
	responses []Response
	calls     []Request
	pos       int
}

// NewScriptedReasoner constructs a reasoner that returns the given
// responses in order.
func NewScriptedReasoner(responses ...Response) *ScriptedReasoner {
	return &ScriptedReasoner{responses: responses}
}

// Reason implements Reasoner; it records the request and returns the next
// scripted response, or an error when the script is exhausted.
func (s *ScriptedReasoner) Reason(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.calls = append(s.calls, req)
	if s.pos >= len(s.responses) {
		return nil, fmt.Errorf("scripted reasoner exhausted after %d calls", s.pos)
	}
	resp := s.responses[s.pos]
	s.pos++
	return &resp, nil
}

// Calls returns the requests recorded so far, in order.
func (s *ScriptedReasoner) Calls() []Request { return s.calls }

// Info implements Reasoner.
func (s *ScriptedReasoner) Info() Info {
	return Info{Name: "scripted", Provider: "test"}
}
