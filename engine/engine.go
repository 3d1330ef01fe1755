// Package engine orchestrates research runs: it validates the request,
// fans the selected tasks out to concurrent runners, serializes their
// events into one ordered stream, and composes the surviving partial
// results into the final dossier.
package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/logging"
	"github.com/venturescope/venturescope/task"
)

// TaskRunner executes one research task, narrating through emit. A nil
// result with a nil error is not allowed; failure is always an error.
type TaskRunner interface {
	Run(
		ctx context.Context,
		subject string,
		def task.Definition,
		budget int,
		emit core.Emit,
	) (*core.PartialResult, error)
}

// Composer turns the surviving partial results into a dossier. It must be
// deterministic: equal inputs compose to equal dossiers.
type Composer interface {
	Compose(
		subject string,
		record *core.CompanyRecord,
		defs []task.Definition,
		results map[string]*core.PartialResult,
	) *core.Dossier
}

// CapabilitySet reports which tool capabilities are available in this
// process. Tasks requiring an absent capability fail without launching.
type CapabilitySet interface {
	Has(c core.Capability) bool
}

// CompanyLookup resolves a company name to a curated record, if one exists.
type CompanyLookup func(name string) (*core.CompanyRecord, bool)

// Options holds configuration overrides passed to New().
type Options struct {
	// Registry is the task catalog. Defaults to task.Default().
	Registry *task.Registry
	// StepBudget bounds reasoning turns per task at standard depth.
	StepBudget int
	// DetailedStepBudget applies when the request asks for detailed depth.
	DetailedStepBudget int
	// EventBufferSize sets channel buffering for the run's event stream.
	EventBufferSize int
	// Lookup seeds the dossier's company summary. Defaults to a lookup
	// that never matches.
	Lookup CompanyLookup
	// Logger receives run lifecycle records.
	Logger logging.Logger
}

// Engine coordinates research runs. Safe for concurrent use; each call to
// Research owns its goroutines and channels and shares nothing mutable
// with other runs.
type Engine struct {
	runner   TaskRunner
	composer Composer
	caps     CapabilitySet

	registry        *task.Registry
	stepBudget      int
	detailedBudget  int
	eventBufferSize int
	lookup          CompanyLookup
	logger          logging.Logger
}

// New constructs an Engine with optional overrides.
func New(runner TaskRunner, composer Composer, caps CapabilitySet, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Registry:           task.Default(),
		StepBudget:         6,
		DetailedStepBudget: 10,
		EventBufferSize:    64,
		Lookup:             func(string) (*core.CompanyRecord, bool) { return nil, false },
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		runner:          runner,
		composer:        composer,
		caps:            caps,
		registry:        opts.Registry,
		stepBudget:      opts.StepBudget,
		detailedBudget:  opts.DetailedStepBudget,
		eventBufferSize: opts.EventBufferSize,
		lookup:          opts.Lookup,
		logger:          opts.Logger,
	}
}

// envelope is the fan-in unit between task goroutines and the forwarding
// loop. Either event is set, or done is true and task/result/err describe
// the task's terminal outcome.
type envelope struct {
	event  *core.Event
	done   bool
	task   string
	result *core.PartialResult
	err    error
}

// Research starts a run for the request and returns immediately. All run
// output, including validation failures, is delivered through the returned
// Run's event stream, which always ends (terminal event or cancellation)
// and is then closed.
func (e *Engine) Research(ctx context.Context, req core.ResearchRequest) *Run {
	run := &Run{
		id:     core.NewID(),
		events: make(chan core.Event, e.eventBufferSize),
		state:  core.NewRunState(req),
	}
	ctx, run.cancel = context.WithCancel(ctx)

	if err := e.validate(req); err != nil {
		e.logger.Info("run rejected", "run_id", run.id, "error", err)
		go func() {
			defer close(run.events)
			defer run.cancel()
			ev := core.NewRunFailedEvent(err)
			ev.Seq = 1
			select {
			case run.events <- ev:
			case <-ctx.Done():
			}
		}()
		return run
	}

	defs := e.registry.Filter(req.FocusAreas)
	for _, def := range defs {
		// Keys were validated against the registry; registration only
		// fails on duplicates, which Filter cannot produce.
		_ = run.state.Register(def.Key)
	}

	e.logger.Info("run started",
		"run_id", run.id,
		"subject", req.Subject,
		"depth", string(req.Depth),
		"tasks", len(defs),
	)
	go e.orchestrate(ctx, run, req, defs)
	return run
}

// validate checks the request shape plus focus-area membership, which
// needs the registry.
func (e *Engine) validate(req core.ResearchRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if unknown := e.registry.Unknown(req.FocusAreas); len(unknown) > 0 {
		return core.E(core.CodeRequestValidation,
			"unknown focus areas: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// orchestrate fans tasks out, serializes their events, and closes out the
// run. It is the single writer of the run's event stream; sequence numbers
// are assigned here and nowhere else.
func (e *Engine) orchestrate(ctx context.Context, run *Run, req core.ResearchRequest, defs []task.Definition) {
	defer close(run.events)
	defer run.cancel()

	subject := strings.TrimSpace(req.Subject)
	budget := e.stepBudget
	if req.Depth == core.DepthDetailed {
		budget = e.detailedBudget
	}

	fan := make(chan envelope, e.eventBufferSize)
	var wg sync.WaitGroup
	for _, def := range defs {
		def := def
		wg.Add(1)
		if missing := e.missingCapability(def); missing != "" {
			// Fails through the same fan-in path as a launched task so
			// ordering guarantees hold uniformly.
			go func() {
				defer wg.Done()
				err := core.E(core.CodeMisconfigured, "capability %q not available", missing)
				select {
				case fan <- envelope{done: true, task: def.Key, err: err}:
				case <-ctx.Done():
				}
			}()
			continue
		}
		go func() {
			defer wg.Done()
			emit := func(ev core.Event) {
				select {
				case fan <- envelope{event: &ev}:
				case <-ctx.Done():
				}
			}
			result, err := e.runner.Run(ctx, subject, def, budget, emit)
			select {
			case fan <- envelope{done: true, task: def.Key, result: result, err: err}:
			case <-ctx.Done():
			}
		}()
	}
	go func() {
		wg.Wait()
		close(fan)
	}()

	var seq uint64
	send := func(ev core.Event) bool {
		seq++
		ev.Seq = seq
		select {
		case run.events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send(core.NewStartedEvent(subject)) {
		run.state.MarkCancelled()
		return
	}

	entered := make(map[string]bool, len(defs))
	enter := func(taskKey string) bool {
		if entered[taskKey] {
			return true
		}
		entered[taskKey] = true
		_ = run.state.MarkRunning(taskKey)
		label := taskKey
		if def, ok := e.registry.Get(taskKey); ok {
			label = def.Label
		}
		return send(core.NewPhaseEvent(taskKey, label))
	}

	for env := range fan {
		if ctx.Err() != nil {
			run.state.MarkCancelled()
			return
		}

		if !env.done {
			ev := *env.event
			if ev.Task != "" && !enter(ev.Task) {
				run.state.MarkCancelled()
				return
			}
			if !send(ev) {
				run.state.MarkCancelled()
				return
			}
			continue
		}

		if env.err != nil && errors.Is(env.err, context.Canceled) {
			run.state.MarkCancelled()
			return
		}
		if !enter(env.task) {
			run.state.MarkCancelled()
			return
		}
		if env.err != nil {
			_ = run.state.MarkFailed(env.task, env.err)
			e.logger.Warn("task failed", "run_id", run.id, "task", env.task, "error", env.err)
			if !send(core.NewErrorProgressEvent(env.task, env.err.Error())) {
				run.state.MarkCancelled()
				return
			}
		} else {
			_ = run.state.MarkSucceeded(env.task, env.result)
		}
		if !send(core.NewTaskCompletedEvent(env.task, env.err)) {
			run.state.MarkCancelled()
			return
		}
	}

	if ctx.Err() != nil {
		run.state.MarkCancelled()
		return
	}

	var record *core.CompanyRecord
	if r, ok := e.lookup(subject); ok {
		record = r
	}
	dossier := e.composer.Compose(subject, record, defs, run.state.SucceededResults())
	e.logger.Info("run completed", "run_id", run.id, "components", len(dossier.Components))
	send(core.NewRunCompletedEvent(dossier))
}

// missingCapability returns the first required capability that has no
// backend, or "" when the task can launch.
func (e *Engine) missingCapability(def task.Definition) core.Capability {
	for _, c := range def.Requires {
		if !e.caps.Has(c) {
			return c
		}
	}
	return ""
}
