package depgraph

import (
	"context"
	"strings"

	"github.com/modfabric/modfabric/internal/ctxlog"
	"github.com/modfabric/modfabric/internal/registry"
	"github.com/modfabric/modfabric/internal/validate"
)

// Graph is the directed module-dependency graph derived from a contract
// registry. An edge A -> B exists when A consumes a capability that B
// provides. Graphs are built fresh on each validation pass, never stored.
type Graph struct {
	order []string
	edges map[string][]string
}

// Build constructs the dependency graph from the current registry snapshot.
// Every registered module becomes a node; edges follow registry iteration
// order and are de-duplicated per source node. Self-edges are excluded by
// construction.
func Build(ctx context.Context, reg *registry.Registry) *Graph {
	logger := ctxlog.FromContext(ctx)
	g := &Graph{
		order: reg.Names(),
		edges: make(map[string][]string, reg.Len()),
	}

	for _, name := range g.order {
		c, ok := reg.Get(name)
		if !ok {
			continue
		}
		consumes := c.Consumes()
		for _, svc := range consumes.Services {
			g.linkProviders(reg, name, validate.KindService, svc)
		}
		for _, binding := range consumes.Bindings {
			g.linkProviders(reg, name, validate.KindBinding, binding)
		}
	}

	logger.Debug("Dependency graph built.", "modules", len(g.order))
	return g
}

// linkProviders adds an edge from module to every other module providing the
// capability.
func (g *Graph) linkProviders(reg *registry.Registry, module, kind, capability string) {
	for _, other := range reg.Names() {
		if other == module {
			continue
		}
		c, ok := reg.Get(other)
		if !ok {
			continue
		}
		var provided bool
		switch kind {
		case validate.KindService:
			provided = c.ProvidesService(capability)
		case validate.KindBinding:
			provided = c.ProvidesBinding(capability)
		}
		if provided {
			g.addEdge(module, other)
		}
	}
}

func (g *Graph) addEdge(from, to string) {
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Modules returns the graph's nodes in registry order.
func (g *Graph) Modules() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// DependenciesOf returns the modules the named module depends on, in the
// order their edges were discovered.
func (g *Graph) DependenciesOf(name string) []string {
	deps := g.edges[name]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Cycles finds every dependency cycle in the graph and returns each one as a
// human-readable arrow-joined chain, e.g. "a -> b -> a". Traversal starts
// from every unvisited node in registry order, so the report is deterministic
// for a fixed registration sequence. Cycles are diagnostics, not failures:
// this never halts discovery.
func (g *Graph) Cycles() []string {
	var cycles []string
	visited := make(map[string]bool, len(g.order))
	onStack := make(map[string]bool, len(g.order))
	var path []string

	var visit func(name string)
	visit = func(name string) {
		visited[name] = true
		onStack[name] = true
		path = append(path, name)

		for _, dep := range g.edges[name] {
			if onStack[dep] {
				cycles = append(cycles, chain(path, dep))
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}

		path = path[:len(path)-1]
		onStack[name] = false
	}

	for _, name := range g.order {
		if !visited[name] {
			visit(name)
		}
	}
	return cycles
}

// chain renders the cycle slice of path from the first occurrence of start
// through the current node, closed back on start.
func chain(path []string, start string) string {
	for i, name := range path {
		if name == start {
			return strings.Join(append(append([]string{}, path[i:]...), start), " -> ")
		}
	}
	return start + " -> " + start
}
