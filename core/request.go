package core

import "strings"

// Depth selects how much work each task may do. Exactly two values are
// recognized; anything else is a request-validation failure, never silently
// defaulted.
type Depth string

const (
	// DepthStandard is the default research depth.
	DepthStandard Depth = "standard"
	// DepthDetailed raises the per-task step budget.
	DepthDetailed Depth = "detailed"
)

// Capability names an external tool class a task may require.
type Capability string

const (
	// CapabilitySearch is web search.
	CapabilitySearch Capability = "search"
	// CapabilityScrape is page fetching/extraction.
	CapabilityScrape Capability = "scrape"
)

// ResearchRequest is the single client input that starts a run. It is
// immutable once a run has started.
type ResearchRequest struct {
	Subject    string   `json:"company_name"`
	Depth      Depth    `json:"depth"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// Validate checks the request shape. Focus-area membership is checked
// against the task registry by the engine, which owns that knowledge.
func (r ResearchRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return E(CodeRequestValidation, "company name must not be empty")
	}
	switch r.Depth {
	case DepthStandard, DepthDetailed:
		return nil
	default:
		return E(CodeRequestValidation, "unrecognized depth %q (want %q or %q)", r.Depth, DepthStandard, DepthDetailed)
	}
}
