package engine

import (
	"context"

	"github.com/venturescope/venturescope/core"
)

// Run is a handle to one in-flight research run. Events delivers the
// ordered stream; the channel is closed after the terminal event, or
// without one if the run was cancelled.
type Run struct {
	id     string
	events chan core.Event
	state  *core.RunState
	cancel context.CancelFunc
}

// ID returns the run's unique identifier.
func (r *Run) ID() string { return r.id }

// Events returns the run's ordered event stream.
func (r *Run) Events() <-chan core.Event { return r.events }

// Cancel stops the run. In-flight tool and model calls are abandoned, no
// terminal event is produced, and the event channel is closed. Idempotent.
func (r *Run) Cancel() { r.cancel() }

// Snapshot returns a consistent point-in-time view of the run's task
// outcomes.
func (r *Run) Snapshot() core.RunSnapshot { return r.state.Snapshot() }
