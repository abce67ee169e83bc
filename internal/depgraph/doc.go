// Package depgraph derives the module dependency graph from a contract
// registry and detects circular dependencies.
//
// The graph is shape-only: nodes are module names and an edge records that
// one module consumes a capability another provides. Cycle detection uses
// depth-first traversal with a visited set and a recursion-path set, and
// reports every cycle as an arrow-joined chain rather than stopping at the
// first. Cycles never abort discovery; they are surfaced as diagnostics.
package depgraph
