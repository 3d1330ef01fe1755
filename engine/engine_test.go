package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/dossier"
	"github.com/venturescope/venturescope/task"
)

type taskBehavior func(ctx context.Context, emit core.Emit) (*core.PartialResult, error)

type stubRunner struct {
	behaviors map[string]taskBehavior
}

func (s *stubRunner) Run(
	ctx context.Context,
	subject string,
	def task.Definition,
	budget int,
	emit core.Emit,
) (*core.PartialResult, error) {
	if fn, ok := s.behaviors[def.Key]; ok {
		return fn(ctx, emit)
	}
	return succeedWith(def.Key, `{"stub": true}`)(ctx, emit)
}

func succeedWith(taskKey, raw string) taskBehavior {
	return func(ctx context.Context, emit core.Emit) (*core.PartialResult, error) {
		emit(core.NewProgressEvent(taskKey, "working"))
		var fields map[string]any
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, err
		}
		return &core.PartialResult{Task: taskKey, Raw: json.RawMessage(raw), Fields: fields}, nil
	}
}

func failWith(err error) taskBehavior {
	return func(ctx context.Context, emit core.Emit) (*core.PartialResult, error) {
		return nil, err
	}
}

func blockUntilCancelled() taskBehavior {
	return func(ctx context.Context, emit core.Emit) (*core.PartialResult, error) {
		emit(core.NewProgressEvent("", "working"))
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

type allCaps struct{}

func (allCaps) Has(core.Capability) bool { return true }

type noScrape struct{}

func (noScrape) Has(c core.Capability) bool { return c != core.CapabilityScrape }

func newTestEngine(runner TaskRunner, caps CapabilitySet, optFns ...func(o *Options)) *Engine {
	return New(runner, dossier.New(), caps, optFns...)
}

func drain(t *testing.T, run *Run) []core.Event {
	t.Helper()
	var events []core.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-run.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("run did not finish in time")
		}
	}
}

func validRequest() core.ResearchRequest {
	return core.ResearchRequest{Subject: "Acme Robotics", Depth: core.DepthStandard}
}

func TestResearch_HappyPath(t *testing.T) {
	e := newTestEngine(&stubRunner{}, allCaps{})
	run := e.Research(context.Background(), validRequest())
	events := drain(t, run)

	require.NotEmpty(t, events)
	assert.Equal(t, core.EventStarted, events[0].Type)

	terminal := events[len(events)-1]
	require.Equal(t, core.EventRunCompleted, terminal.Type)
	require.NotNil(t, terminal.Data)

	// One terminal event and nothing after it.
	for _, ev := range events[:len(events)-1] {
		assert.False(t, ev.IsTerminal())
	}

	// Sequence numbers are strictly increasing from 1.
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	// Per task: phase first, then activity, then completion.
	keys := task.Default().Keys()
	phaseSeen := map[string]bool{}
	completedSeen := map[string]bool{}
	for _, ev := range events {
		switch ev.Type {
		case core.EventPhaseEntered:
			assert.False(t, phaseSeen[ev.Task], "duplicate phase for %s", ev.Task)
			phaseSeen[ev.Task] = true
		case core.EventProgress, core.EventToolInvoked, core.EventToolResult:
			if ev.Task != "" {
				assert.True(t, phaseSeen[ev.Task], "activity before phase for %s", ev.Task)
				assert.False(t, completedSeen[ev.Task], "activity after completion for %s", ev.Task)
			}
		case core.EventTaskCompleted:
			assert.True(t, phaseSeen[ev.Task], "completion before phase for %s", ev.Task)
			completedSeen[ev.Task] = true
		}
	}
	for _, key := range keys {
		assert.True(t, phaseSeen[key], "no phase for %s", key)
		assert.True(t, completedSeen[key], "no completion for %s", key)
	}

	// All five panels, in catalog order.
	require.Len(t, terminal.Data.Components, 5)
	for i, key := range keys {
		assert.Equal(t, key, terminal.Data.Components[i].ID)
	}

	snap := run.Snapshot()
	for _, key := range keys {
		assert.Equal(t, core.StatusSucceeded, snap.Outcomes[key].Status)
	}
}

func TestResearch_InvalidDepth(t *testing.T) {
	e := newTestEngine(&stubRunner{}, allCaps{})
	run := e.Research(context.Background(), core.ResearchRequest{Subject: "Acme", Depth: "exhaustive"})
	events := drain(t, run)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventRunFailed, events[0].Type)
	assert.Equal(t, uint64(1), events[0].Seq)
	assert.Contains(t, events[0].Message, "depth")
}

func TestResearch_EmptySubject(t *testing.T) {
	e := newTestEngine(&stubRunner{}, allCaps{})
	run := e.Research(context.Background(), core.ResearchRequest{Subject: "   ", Depth: core.DepthStandard})
	events := drain(t, run)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventRunFailed, events[0].Type)
}

func TestResearch_UnknownFocusArea(t *testing.T) {
	e := newTestEngine(&stubRunner{}, allCaps{})
	req := validRequest()
	req.FocusAreas = []string{task.KeyKeyPeople, "astrology"}
	run := e.Research(context.Background(), req)
	events := drain(t, run)

	require.Len(t, events, 1)
	assert.Equal(t, core.EventRunFailed, events[0].Type)
	assert.Contains(t, events[0].Message, "astrology")
}

func TestResearch_FocusAreaSubset(t *testing.T) {
	e := newTestEngine(&stubRunner{}, allCaps{})
	req := validRequest()
	req.FocusAreas = []string{task.KeyGrowthMetrics, task.KeyMarketSizing}
	run := e.Research(context.Background(), req)
	events := drain(t, run)

	terminal := events[len(events)-1]
	require.Equal(t, core.EventRunCompleted, terminal.Type)
	require.Len(t, terminal.Data.Components, 2)
	assert.Equal(t, task.KeyMarketSizing, terminal.Data.Components[0].ID)
	assert.Equal(t, task.KeyGrowthMetrics, terminal.Data.Components[1].ID)
}

func TestResearch_TaskFailureDoesNotAbortRun(t *testing.T) {
	e := newTestEngine(&stubRunner{behaviors: map[string]taskBehavior{
		task.KeyMarketSizing: failWith(core.E(core.CodeUpstream, "search unavailable")),
	}}, allCaps{})
	run := e.Research(context.Background(), validRequest())
	events := drain(t, run)

	terminal := events[len(events)-1]
	require.Equal(t, core.EventRunCompleted, terminal.Type)
	require.Len(t, terminal.Data.Components, 4)
	for _, comp := range terminal.Data.Components {
		assert.NotEqual(t, task.KeyMarketSizing, comp.ID)
	}

	// The failure is narrated before the task's completion event.
	var sawErrProgress bool
	for _, ev := range events {
		if ev.Task != task.KeyMarketSizing {
			continue
		}
		if ev.Type == core.EventProgress && ev.Level == "error" {
			sawErrProgress = true
		}
		if ev.Type == core.EventTaskCompleted {
			assert.True(t, sawErrProgress)
			assert.Equal(t, "error", ev.Level)
		}
	}
	assert.True(t, sawErrProgress)

	snap := run.Snapshot()
	assert.Equal(t, core.StatusFailed, snap.Outcomes[task.KeyMarketSizing].Status)
}

func TestResearch_AllTasksFail(t *testing.T) {
	behaviors := map[string]taskBehavior{}
	for _, key := range task.Default().Keys() {
		behaviors[key] = failWith(core.E(core.CodeUpstream, "everything is down"))
	}
	e := newTestEngine(&stubRunner{behaviors: behaviors}, allCaps{})
	run := e.Research(context.Background(), validRequest())
	events := drain(t, run)

	// Still a normal completion, just an empty dossier.
	terminal := events[len(events)-1]
	require.Equal(t, core.EventRunCompleted, terminal.Type)
	require.NotNil(t, terminal.Data)
	assert.Empty(t, terminal.Data.Components)
	assert.Equal(t, "Acme Robotics", terminal.Data.Company.Name)
}

func TestResearch_MissingCapability(t *testing.T) {
	e := newTestEngine(&stubRunner{}, noScrape{})
	run := e.Research(context.Background(), validRequest())
	events := drain(t, run)

	terminal := events[len(events)-1]
	require.Equal(t, core.EventRunCompleted, terminal.Type)

	// Scrape-dependent tasks fail without launching; the rest succeed.
	snap := run.Snapshot()
	assert.Equal(t, core.StatusFailed, snap.Outcomes[task.KeyCompanyOverview].Status)
	assert.Equal(t, core.StatusFailed, snap.Outcomes[task.KeyKeyPeople].Status)
	assert.True(t, core.IsCode(snap.Outcomes[task.KeyKeyPeople].Err, core.CodeMisconfigured))
	assert.Equal(t, core.StatusSucceeded, snap.Outcomes[task.KeyMarketSizing].Status)
	require.Len(t, terminal.Data.Components, 3)
}

func TestResearch_Cancel(t *testing.T) {
	behaviors := map[string]taskBehavior{}
	for _, key := range task.Default().Keys() {
		behaviors[key] = blockUntilCancelled()
	}
	e := newTestEngine(&stubRunner{behaviors: behaviors}, allCaps{})
	run := e.Research(context.Background(), validRequest())

	// Let the run start streaming, then cancel it.
	ev, ok := <-run.Events()
	require.True(t, ok)
	assert.Equal(t, core.EventStarted, ev.Type)
	run.Cancel()

	events := drain(t, run)
	for _, e := range events {
		assert.False(t, e.IsTerminal(), "no terminal event after cancellation")
	}
	assert.True(t, run.Snapshot().Cancelled)
}

func TestResearch_DetailedDepthRaisesBudget(t *testing.T) {
	var seen []int
	runner := &runnerRecordingBudget{budgets: &seen}
	e := newTestEngine(runner, allCaps{}, func(o *Options) {
		o.StepBudget = 3
		o.DetailedStepBudget = 9
	})

	req := validRequest()
	req.FocusAreas = []string{task.KeyMarketSizing}
	drain(t, e.Research(context.Background(), req))

	req.Depth = core.DepthDetailed
	drain(t, e.Research(context.Background(), req))

	require.Len(t, seen, 2)
	assert.Equal(t, 3, seen[0])
	assert.Equal(t, 9, seen[1])
}

type runnerRecordingBudget struct {
	budgets *[]int
}

func (r *runnerRecordingBudget) Run(
	ctx context.Context,
	subject string,
	def task.Definition,
	budget int,
	emit core.Emit,
) (*core.PartialResult, error) {
	*r.budgets = append(*r.budgets, budget)
	return nil, errors.New("not researching")
}
