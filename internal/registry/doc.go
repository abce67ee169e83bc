// Package registry provides the keyed store mapping module names to their
// capability contracts.
//
// The registry is deliberately dumb: all operations are total functions over
// its current state and none of them validate anything. It exists so that the
// validator and the dependency-graph builder always work from one complete,
// ordered snapshot of every module the discovery run has seen. Registries are
// plain instances created with New, never package-level globals, so tests and
// re-discovery get isolation for free.
package registry
