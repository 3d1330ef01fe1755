// Package runner executes one research task against a reasoning model: it
// drives the reason/act loop, dispatches tool calls through the gateway,
// narrates activity as events, and validates the model's final answer
// against the task's declared output shape.
package runner

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/logging"
	"github.com/venturescope/venturescope/model"
	"github.com/venturescope/venturescope/task"
	"github.com/venturescope/venturescope/tool"
)

// Tool names exposed to the model. These are part of the task instruction
// contract and must not change without updating the instructions.
const (
	toolSearch = "search_google"
	toolScrape = "scrape_website"
)

// summaryLimit caps the length of tool narration attached to events.
const summaryLimit = 160

// Options holds configuration overrides passed to New().
type Options struct {
	// Logger receives per-step debug records.
	Logger logging.Logger
}

// Runner drives research tasks to completion. Safe for concurrent use; one
// Runner instance serves all tasks of all runs.
type Runner struct {
	reasoner model.Reasoner
	gateway  *tool.Gateway
	logger   logging.Logger
}

// New constructs a Runner over a reasoner and a tool gateway.
func New(reasoner model.Reasoner, gateway *tool.Gateway, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{reasoner: reasoner, gateway: gateway, logger: opts.Logger}
}

// Run executes one task for the given subject. The budget bounds how many
// reasoning turns the model gets; each turn may issue several tool calls.
// Progress is narrated through emit; the returned result is only non-nil on
// success.
func (r *Runner) Run(
	ctx context.Context,
	subject string,
	def task.Definition,
	budget int,
	emit core.Emit,
) (*core.PartialResult, error) {
	specs := toolSpecs(def.Requires)
	messages := []model.Message{
		{Role: "user", Text: "Company name: " + subject},
	}

	var lastToolErr error
	for step := 0; step < budget; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := r.reasoner.Reason(ctx, model.Request{
			Instructions: def.Instructions,
			Messages:     messages,
			Tools:        specs,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, core.WrapErr(core.CodeUpstream, err, "model call failed")
		}
		r.logger.Debug("runner.step",
			"task", def.Key,
			"step", step,
			"tool_calls", len(resp.ToolCalls),
		)

		if len(resp.ToolCalls) == 0 {
			return r.finalize(def, resp.Text)
		}

		if text := strings.TrimSpace(resp.Text); text != "" {
			emit(core.NewProgressEvent(def.Key, truncate(text, summaryLimit)))
		}
		messages = append(messages, model.Message{
			Role:      "assistant",
			Text:      resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			result, err := r.dispatch(ctx, def.Key, call, emit)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				lastToolErr = err
				// Feed the failure back so the model can retry or route
				// around it; the task only fails if the budget runs out.
				result = "Tool call failed: " + err.Error()
			}
			messages = append(messages, model.Message{
				Role:       "tool",
				Text:       result,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	if lastToolErr != nil {
		return nil, lastToolErr
	}
	return nil, core.E(core.CodeIncomplete, "no final answer after %d reasoning turns", budget)
}

// dispatch executes one tool call, emitting invocation and result events.
func (r *Runner) dispatch(ctx context.Context, taskKey string, call model.ToolCall, emit core.Emit) (string, error) {
	capability, query, err := resolveCall(call)
	emit(core.NewToolInvokedEvent(taskKey, call.Name, truncate(query, summaryLimit)))
	if err != nil {
		emit(core.NewToolResultEvent(taskKey, call.Name, "", err))
		return "", err
	}

	result, err := r.gateway.Invoke(ctx, capability, query)
	if err != nil {
		emit(core.NewToolResultEvent(taskKey, call.Name, "", err))
		return "", err
	}
	emit(core.NewToolResultEvent(taskKey, call.Name, truncate(result, summaryLimit), nil))
	return result, nil
}

// resolveCall maps a tool call to its capability and extracts the query
// argument. Unknown tool names and malformed arguments are upstream errors;
// they go back to the model as failed tool results.
func resolveCall(call model.ToolCall) (core.Capability, string, error) {
	var args struct {
		Query string `json:"query"`
		URL   string `json:"url"`
	}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", "", core.E(core.CodeUpstream, "malformed arguments for %s: %v", call.Name, err)
		}
	}

	switch call.Name {
	case toolSearch:
		if args.Query == "" {
			return "", args.Query, core.E(core.CodeUpstream, "%s requires a query argument", call.Name)
		}
		return core.CapabilitySearch, args.Query, nil
	case toolScrape:
		if args.URL == "" {
			return "", args.URL, core.E(core.CodeUpstream, "%s requires a url argument", call.Name)
		}
		return core.CapabilityScrape, args.URL, nil
	default:
		return "", "", core.E(core.CodeUpstream, "unknown tool %q", call.Name)
	}
}

// finalize parses and validates the model's final answer. The answer must
// be a JSON object carrying every key the task declares as required; the
// stored raw form is re-marshaled so equal answers serialize identically.
func (r *Runner) finalize(def task.Definition, text string) (*core.PartialResult, error) {
	fields, err := parseAnswer(text)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, key := range def.RequiredKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, core.E(core.CodeSchemaViolation,
			"final answer missing required keys: %s", strings.Join(missing, ", "))
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, core.WrapErr(core.CodeSchemaViolation, err, "final answer not serializable")
	}
	return &core.PartialResult{Task: def.Key, Raw: raw, Fields: fields}, nil
}

// parseAnswer extracts the JSON object from a final answer, tolerating
// surrounding prose and minor syntax damage.
func parseAnswer(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, core.E(core.CodeSchemaViolation, "final answer contains no JSON object")
	}
	candidate := text[start : end+1]

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err == nil {
		return fields, nil
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, core.E(core.CodeSchemaViolation, "final answer is not valid JSON")
	}
	if err := json.Unmarshal([]byte(repaired), &fields); err != nil {
		return nil, core.E(core.CodeSchemaViolation, "final answer is not valid JSON")
	}
	return fields, nil
}

// toolSpecs builds the tool declarations offered to the model for the
// capabilities a task requires.
func toolSpecs(requires []core.Capability) []model.ToolSpec {
	var specs []model.ToolSpec
	for _, c := range requires {
		switch c {
		case core.CapabilitySearch:
			specs = append(specs, model.ToolSpec{
				Name:        toolSearch,
				Description: "Search Google for information. Returns titles, URLs and snippets of the top results.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "The search query",
						},
						"num_results": map[string]any{
							"type":        "integer",
							"description": "Number of results to return (default 10)",
						},
					},
					"required": []string{"query"},
				},
			})
		case core.CapabilityScrape:
			specs = append(specs, model.ToolSpec{
				Name:        toolScrape,
				Description: "Fetch a web page and return its title, description and main text content.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"url": map[string]any{
							"type":        "string",
							"description": "The URL to scrape",
						},
						"focus": map[string]any{
							"type":        "string",
							"description": "Optional hint on what to look for",
						},
					},
					"required": []string{"url"},
				},
			})
		}
	}
	return specs
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
