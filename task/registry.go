// Package task declares the catalog of research tasks the engine can run.
// The registry is read-only, initialized once at startup, and is the single
// source of truth for which phases a run consists of and how each task's
// output maps onto a dashboard panel.
package task

import (
	"github.com/venturescope/venturescope/core"
)

// Definition describes one research task: its identity, display label, the
// tool capabilities it requires, the panel shape its output composes into,
// the model instructions driving it, and the top-level JSON keys a final
// answer must carry to count as conforming.
type Definition struct {
	Key          string
	Label        string
	Requires     []core.Capability
	Shape        core.ComponentType
	Size         core.ComponentSize
	Instructions string
	RequiredKeys []string
}

// Registry is an ordered, immutable collection of task definitions.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// NewRegistry builds a registry from definitions, preserving their order.
func NewRegistry(defs ...Definition) *Registry {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.Key] = i
	}
	return &Registry{defs: defs, index: index}
}

// List returns all definitions in registry order.
func (r *Registry) List() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get returns the definition for a key.
func (r *Registry) Get(key string) (Definition, bool) {
	i, ok := r.index[key]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Keys returns all task identities in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.defs))
	for i, d := range r.defs {
		keys[i] = d.Key
	}
	return keys
}

// Filter returns the definitions whose keys appear in focus, preserving
// registry order. An empty focus set selects every task.
func (r *Registry) Filter(focus []string) []Definition {
	if len(focus) == 0 {
		return r.List()
	}
	want := make(map[string]bool, len(focus))
	for _, k := range focus {
		want[k] = true
	}
	var out []Definition
	for _, d := range r.defs {
		if want[d.Key] {
			out = append(out, d)
		}
	}
	return out
}

// Unknown returns the focus keys that name no registered task.
func (r *Registry) Unknown(focus []string) []string {
	var unknown []string
	for _, k := range focus {
		if _, ok := r.index[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}
