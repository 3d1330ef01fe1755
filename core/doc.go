// Package core defines the shared data model of the research engine: the
// research request, the typed event stream emitted during a run, the per-run
// task state machine, the error taxonomy, and the dossier artifact produced
// when a run completes. All other packages depend on core; core depends on
// nothing but the standard library and uuid.
package core
