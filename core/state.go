package core

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// TaskStatus tracks a task's position in its lifecycle. Transitions only
// move forward: pending -> running -> succeeded|failed.
type TaskStatus string

const (
	// StatusPending means the task has been selected but not yet observed.
	StatusPending TaskStatus = "pending"
	// StatusRunning means at least one event from the task has arrived.
	StatusRunning TaskStatus = "running"
	// StatusSucceeded means the task produced a conforming partial result.
	StatusSucceeded TaskStatus = "succeeded"
	// StatusFailed means the task reached a terminal failure.
	StatusFailed TaskStatus = "failed"
)

// PartialResult is the raw, schema-conforming output of one succeeded task.
// Raw holds the canonical JSON encoding; Fields the decoded form used by the
// composer.
type PartialResult struct {
	Task   string
	Raw    json.RawMessage
	Fields map[string]any
}

// TaskOutcome pairs a status with its result or error.
type TaskOutcome struct {
	Status TaskStatus
	Result *PartialResult
	Err    error
}

// RunState is the per-run bookkeeping owned by a single engine goroutine.
// Only that goroutine writes; the mutex exists so external observers can
// take consistent snapshots while the run is live.
type RunState struct {
	mu        sync.RWMutex
	request   ResearchRequest
	startedAt time.Time
	outcomes  map[string]TaskOutcome
	order     []string
	cancelled bool
}

// NewRunState initializes state for a request. Tasks are registered later,
// once focus-area filtering has selected them.
func NewRunState(req ResearchRequest) *RunState {
	return &RunState{
		request:   req,
		startedAt: time.Now().UTC(),
		outcomes:  make(map[string]TaskOutcome),
	}
}

// Register adds a selected task in pending state. Each task identity may be
// registered at most once per run.
func (s *RunState) Register(task string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.outcomes[task]; exists {
		return fmt.Errorf("task %q already registered", task)
	}
	s.outcomes[task] = TaskOutcome{Status: StatusPending}
	s.order = append(s.order, task)
	return nil
}

// MarkRunning transitions a task from pending to running.
func (s *RunState) MarkRunning(task string) error {
	return s.transition(task, StatusRunning, nil, nil)
}

// MarkSucceeded transitions a task to succeeded with its partial result.
func (s *RunState) MarkSucceeded(task string, result *PartialResult) error {
	return s.transition(task, StatusSucceeded, result, nil)
}

// MarkFailed transitions a task to failed with its error.
func (s *RunState) MarkFailed(task string, err error) error {
	return s.transition(task, StatusFailed, nil, err)
}

func (s *RunState) transition(task string, to TaskStatus, result *PartialResult, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.outcomes[task]
	if !exists {
		return fmt.Errorf("task %q not registered", task)
	}
	if !validTransition(cur.Status, to) {
		return fmt.Errorf("task %q: illegal transition %s -> %s", task, cur.Status, to)
	}
	s.outcomes[task] = TaskOutcome{Status: to, Result: result, Err: err}
	return nil
}

func validTransition(from, to TaskStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusSucceeded || to == StatusFailed
	default:
		return false
	}
}

// MarkCancelled flags the run as cancelled. Idempotent.
func (s *RunState) MarkCancelled() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

// Cancelled reports whether cancellation has been observed.
func (s *RunState) Cancelled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cancelled
}

// SucceededResults returns the partial results of all succeeded tasks,
// keyed by task identity.
func (s *RunState) SucceededResults() map[string]*PartialResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(map[string]*PartialResult)
	for task, o := range s.outcomes {
		if o.Status == StatusSucceeded && o.Result != nil {
			results[task] = o.Result
		}
	}
	return results
}

// RunSnapshot is a consistent point-in-time view of a run for status
// queries. It shares no mutable state with the live run.
type RunSnapshot struct {
	Request   ResearchRequest
	StartedAt time.Time
	Cancelled bool
	Outcomes  map[string]TaskOutcome
}

// Snapshot copies the current state under the read lock.
func (s *RunState) Snapshot() RunSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outcomes := make(map[string]TaskOutcome, len(s.outcomes))
	for task, o := range s.outcomes {
		outcomes[task] = o
	}
	return RunSnapshot{
		Request:   s.request,
		StartedAt: s.startedAt,
		Cancelled: s.cancelled,
		Outcomes:  outcomes,
	}
}
