// Package discovery orchestrates the end-to-end module discovery run.
//
// One run resolves every feature module, registers contracts, validates them,
// builds the dependency graph, composes declared state containers and
// produces a single cached Result. The orchestrator de-duplicates concurrent
// requests (critical, since resolution is not idempotent-cheap), memoizes the
// result for the process lifetime, and isolates per-module faults so one
// broken manifest never takes down the run.
package discovery
