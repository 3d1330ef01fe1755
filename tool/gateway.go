// Package tool implements the gateway through which task runners reach
// external capabilities (web search, page scraping). The gateway is a pure
// request/response boundary: it bounds every call with a deadline and a
// process-wide concurrency limit, normalizes failures into typed errors,
// and emits no events itself.
package tool

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/logging"
)

// Backend is one concrete capability implementation behind the gateway.
//
// Backend implementations should:
//   - Respect context cancellation and deadlines on every network call
//   - Return plain text suitable for feeding back to a reasoning model
//   - Be safe for concurrent use; the gateway shares one instance across
//     all runners and sessions
type Backend interface {
	// Capability returns the capability class this backend serves.
	Capability() core.Capability

	// Invoke executes one call. The query is capability-specific: a search
	// phrase for search, a URL for scrape.
	Invoke(ctx context.Context, query string) (string, error)
}

// Options configures a Gateway.
type Options struct {
	// Timeout bounds each individual call.
	Timeout time.Duration
	// MaxConcurrent limits in-flight calls across all runners sharing this
	// gateway. Zero or negative means no limit.
	MaxConcurrent int64
	// Logger receives per-call debug records.
	Logger logging.Logger
}

// Gateway routes capability invocations to registered backends.
type Gateway struct {
	backends map[core.Capability]Backend
	timeout  time.Duration
	sem      *semaphore.Weighted
	logger   logging.Logger
}

// NewGateway constructs a gateway over the given backends.
func NewGateway(backends []Backend, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Timeout:       30 * time.Second,
		MaxConcurrent: 8,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := make(map[core.Capability]Backend, len(backends))
	for _, b := range backends {
		m[b.Capability()] = b
	}

	var sem *semaphore.Weighted
	if opts.MaxConcurrent > 0 {
		sem = semaphore.NewWeighted(opts.MaxConcurrent)
	}

	return &Gateway{
		backends: m,
		timeout:  opts.Timeout,
		sem:      sem,
		logger:   opts.Logger,
	}
}

// Has reports whether a backend is registered for the capability. The
// engine uses this to short-circuit tasks whose required capability is
// unavailable.
func (g *Gateway) Has(c core.Capability) bool {
	_, ok := g.backends[c]
	return ok
}

// Invoke executes one capability call with the gateway's deadline. Failures
// are normalized: deadline overruns carry core.CodeTimeout, backend errors
// core.CodeUpstream, and a missing backend core.CodeMisconfigured. A caller
// whose own context is cancelled gets that context error unchanged.
func (g *Gateway) Invoke(ctx context.Context, c core.Capability, query string) (string, error) {
	backend, ok := g.backends[c]
	if !ok {
		return "", core.E(core.CodeMisconfigured, "no backend registered for capability %q", c)
	}

	if g.sem != nil {
		if err := g.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer g.sem.Release(1)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	result, err := backend.Invoke(callCtx, query)
	g.logger.Debug("gateway.invoke",
		"capability", string(c),
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil,
	)
	if err != nil {
		if ctx.Err() != nil {
			// The caller went away; don't dress this up as a tool failure.
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", core.WrapErr(core.CodeTimeout, err, string(c)+" call exceeded deadline")
		}
		return "", core.WrapErr(core.CodeUpstream, err, string(c)+" call failed")
	}
	return result, nil
}
