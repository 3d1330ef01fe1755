package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates the tagged union of run events. The values double
// as the wire-level "type" field delivered to clients.
type EventType string

const (
	// EventStarted marks the beginning of a run, after request validation.
	EventStarted EventType = "started"
	// EventPhaseEntered marks the first activity observed for a task.
	EventPhaseEntered EventType = "phase"
	// EventProgress carries a free-form narration line from a task.
	EventProgress EventType = "progress"
	// EventToolInvoked records a tool call issued by a task.
	EventToolInvoked EventType = "tool_call"
	// EventToolResult records the outcome of a previously issued tool call.
	EventToolResult EventType = "tool_result"
	// EventTaskCompleted marks a task reaching a terminal outcome.
	EventTaskCompleted EventType = "task_completed"
	// EventRunCompleted is the terminal event of a successful run and
	// carries the composed dossier.
	EventRunCompleted EventType = "result"
	// EventRunFailed is the terminal event of a run that aborted before any
	// task was launched.
	EventRunFailed EventType = "error"
)

// Event is one entry of a run's ordered output stream. After emission it
// must be treated as immutable. Seq is assigned at the single serialization
// point in the engine's forwarding loop, never by the producer, so sequence
// numbers are strictly increasing per run regardless of how many tasks
// produced events concurrently.
type Event struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Type      EventType `json:"type"`
	Task      string    `json:"task,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	Level     string    `json:"level,omitempty"`
	Message   string    `json:"message,omitempty"`
	Data      *Dossier  `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Emit is a one-way sink for events produced by a task runner. It must not
// block the caller indefinitely; the engine backs it with a fan-in channel
// that is drained for the lifetime of the run.
type Emit func(Event)

// NewEvent creates a bare event of the given type.
func NewEvent(t EventType) Event {
	return Event{
		ID:        NewID(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewStartedEvent announces that a validated run is underway.
func NewStartedEvent(subject string) Event {
	e := NewEvent(EventStarted)
	e.Message = "Starting research on " + subject
	return e
}

// NewPhaseEvent marks entry into a task's phase using its display label.
func NewPhaseEvent(task, label string) Event {
	e := NewEvent(EventPhaseEntered)
	e.Task = task
	e.Message = label
	return e
}

// NewProgressEvent carries a narration line attributed to a task.
func NewProgressEvent(task, message string) Event {
	e := NewEvent(EventProgress)
	e.Task = task
	e.Message = message
	return e
}

// NewErrorProgressEvent carries an error-tagged narration line for a task
// whose failure does not abort the run.
func NewErrorProgressEvent(task, message string) Event {
	e := NewProgressEvent(task, message)
	e.Level = "error"
	return e
}

// NewToolInvokedEvent records a tool call with a short argument summary.
func NewToolInvokedEvent(task, tool, argsSummary string) Event {
	e := NewEvent(EventToolInvoked)
	e.Task = task
	e.Tool = tool
	e.Message = argsSummary
	return e
}

// NewToolResultEvent records the outcome summary of a tool call. If err is
// non-nil the event is error-tagged and carries the error text instead.
func NewToolResultEvent(task, tool, summary string, err error) Event {
	e := NewEvent(EventToolResult)
	e.Task = task
	e.Tool = tool
	if err != nil {
		e.Level = "error"
		e.Message = err.Error()
		return e
	}
	e.Message = summary
	return e
}

// NewTaskCompletedEvent marks a task's terminal outcome. A non-nil err means
// the task failed; the run itself continues either way.
func NewTaskCompletedEvent(task string, err error) Event {
	e := NewEvent(EventTaskCompleted)
	e.Task = task
	if err != nil {
		e.Level = "error"
		e.Message = err.Error()
		return e
	}
	e.Message = "completed"
	return e
}

// NewRunCompletedEvent carries the final dossier. It is the last event of a
// normally completed run.
func NewRunCompletedEvent(d *Dossier) Event {
	e := NewEvent(EventRunCompleted)
	e.Data = d
	return e
}

// NewRunFailedEvent is the terminal event of an aborted run.
func NewRunFailedEvent(err error) Event {
	e := NewEvent(EventRunFailed)
	e.Level = "error"
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// IsTerminal reports whether this event ends a run's stream.
func (e Event) IsTerminal() bool {
	return e.Type == EventRunCompleted || e.Type == EventRunFailed
}

// NewID generates a unique identifier for events and runs.
func NewID() string { return uuid.NewString() }
