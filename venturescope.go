// Package venturescope provides a high-level façade over the research
// engine and its collaborators (reasoning model, tool gateway, task
// catalog, company data, logging). Most applications interact with this
// package by:
//  1. Creating a VentureScope via New() (choosing a provider and supplying
//     tool credentials)
//  2. Starting runs asynchronously (Research) or synchronously
//     (ResearchSync)
//  3. Optionally mounting the WebSocket/HTTP surface via Researcher() and
//     Data()
//
// The façade delegates orchestration to engine.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development; production
// deployments supply API keys and a structured logger.
package venturescope

import (
	"context"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/venturescope/venturescope/companydata"
	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/dossier"
	"github.com/venturescope/venturescope/engine"
	"github.com/venturescope/venturescope/logging"
	"github.com/venturescope/venturescope/model"
	"github.com/venturescope/venturescope/model/anthropic"
	"github.com/venturescope/venturescope/model/openai"
	"github.com/venturescope/venturescope/runner"
	"github.com/venturescope/venturescope/session"
	"github.com/venturescope/venturescope/task"
	"github.com/venturescope/venturescope/tool"
)

// Options configures the VentureScope instance.
type Options struct {
	// Provider selects the reasoning backend: "openai" (default) or
	// "anthropic". Ignored when Reasoner is set.
	Provider string
	// Model overrides the provider's default model id.
	Model string
	// Reasoner overrides the provider-built reasoner entirely. Useful for
	// tests and custom backends.
	Reasoner model.Reasoner

	// SerperAPIKey enables the web search backend. Without it,
	// search-dependent tasks fail as misconfigured.
	SerperAPIKey string
	// ToolTimeout bounds each tool call.
	ToolTimeout time.Duration
	// MaxConcurrentTools limits in-flight tool calls process-wide.
	MaxConcurrentTools int64

	// StepBudget bounds reasoning turns per task at standard depth;
	// DetailedStepBudget applies at detailed depth.
	StepBudget         int
	DetailedStepBudget int

	// Registry overrides the default task catalog.
	Registry *task.Registry

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// VentureScope is the high-level façade aggregating the engine and its
// collaborators.
type VentureScope struct {
	engine *engine.Engine
	data   *companydata.Store
}

// New creates a VentureScope instance with optional overrides.
func New(optFns ...func(o *Options)) *VentureScope {
	opts := Options{
		Provider:           "openai",
		ToolTimeout:        30 * time.Second,
		MaxConcurrentTools: 8,
		StepBudget:         6,
		DetailedStepBudget: 10,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var backends []tool.Backend
	if opts.SerperAPIKey != "" {
		backends = append(backends, tool.NewSerperSearch(opts.SerperAPIKey))
	}
	backends = append(backends, tool.NewPageScraper())

	gateway := tool.NewGateway(backends, func(o *tool.Options) {
		o.Timeout = opts.ToolTimeout
		o.MaxConcurrent = opts.MaxConcurrentTools
		o.Logger = opts.Logger
	})

	reasoner := opts.Reasoner
	if reasoner == nil {
		reasoner = buildReasoner(opts.Provider, opts.Model)
	}

	taskRunner := runner.New(reasoner, gateway, func(o *runner.Options) {
		o.Logger = opts.Logger
	})

	data := companydata.NewStore()
	eng := engine.New(taskRunner, dossier.New(), gateway, func(o *engine.Options) {
		if opts.Registry != nil {
			o.Registry = opts.Registry
		}
		o.StepBudget = opts.StepBudget
		o.DetailedStepBudget = opts.DetailedStepBudget
		o.Lookup = data.Lookup
		o.Logger = opts.Logger
	})

	return &VentureScope{engine: eng, data: data}
}

// buildReasoner constructs the provider adapter. Credentials come from the
// provider SDKs' environment conventions (OPENAI_API_KEY,
// ANTHROPIC_API_KEY).
func buildReasoner(provider, modelID string) model.Reasoner {
	switch provider {
	case "anthropic":
		return anthropic.NewReasoner(func(o *anthropic.Options) {
			if modelID != "" {
				o.Model = anthropicsdk.Model(modelID)
			}
		})
	default:
		return openai.NewReasoner(func(o *openai.Options) {
			if modelID != "" {
				o.Model = modelID
			}
		})
	}
}

// Research starts an asynchronous run and returns its handle.
func (v *VentureScope) Research(ctx context.Context, req core.ResearchRequest) *engine.Run {
	return v.engine.Research(ctx, req)
}

// ResearchSync is a synchronous helper that drains the run's event stream,
// accumulates events, and returns the composed dossier. A run that fails
// validation returns the terminal error; a cancelled context returns the
// events collected so far with ctx.Err().
func (v *VentureScope) ResearchSync(ctx context.Context, req core.ResearchRequest) ([]core.Event, *core.Dossier, error) {
	run := v.Research(ctx, req)

	var events []core.Event
	for {
		select {
		case <-ctx.Done():
			run.Cancel()
			return events, nil, ctx.Err()
		case ev, ok := <-run.Events():
			if !ok {
				return events, nil, nil
			}
			events = append(events, ev)
			switch ev.Type {
			case core.EventRunCompleted:
				return events, ev.Data, nil
			case core.EventRunFailed:
				return events, nil, core.E(core.CodeRequestValidation, "%s", ev.Message)
			}
		}
	}
}

// Researcher adapts the façade for the session manager.
func (v *VentureScope) Researcher() session.ResearcherFunc {
	return func(ctx context.Context, req core.ResearchRequest) session.Run {
		return v.engine.Research(ctx, req)
	}
}

// Data returns the company data store backing lookups and the data
// endpoint.
func (v *VentureScope) Data() *companydata.Store { return v.data }
