package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/modfabric/modfabric/internal/contract"
	"github.com/modfabric/modfabric/internal/ctxlog"
	"github.com/modfabric/modfabric/internal/depgraph"
	"github.com/modfabric/modfabric/internal/manifest"
	"github.com/modfabric/modfabric/internal/persist"
	"github.com/modfabric/modfabric/internal/registry"
	"github.com/modfabric/modfabric/internal/route"
	"github.com/modfabric/modfabric/internal/state"
	"github.com/modfabric/modfabric/internal/validate"
)

// FeatureRecord is everything discovery knows about one resolved module.
type FeatureRecord struct {
	Contract   contract.Contract
	Routes     []route.Route
	Validation validate.Result
}

// Result is the externally visible aggregate of one discovery run. It is the
// sole interface between the core and the rendering/routing layers outside
// it.
type Result struct {
	Features   map[string]FeatureRecord
	Order      []string
	Routes     []route.Route
	Contracts  map[string]contract.Contract
	Cycles     []string
	NeedsState bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPlatformBindings overrides the platform-exempt binding allow-list
// handed to the validator.
func WithPlatformBindings(names ...string) Option {
	return func(o *Orchestrator) {
		o.platformBindings = names
	}
}

// WithPersist supplies the durable store backing "durable" template
// containers. Without it those containers still work, just without
// mirroring.
func WithPersist(store persist.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// Orchestrator resolves all feature modules, feeds their contracts through
// the registry, validator and graph builder, feeds their declared containers
// into the state engine, and memoizes one Result for the process lifetime.
//
// Concurrent callers during an in-flight run attach to the same resolution
// instead of starting a second one; on failure the in-flight marker clears so
// a later call can retry.
type Orchestrator struct {
	resolver         manifest.Resolver
	registry         *registry.Registry
	engine           *state.Engine
	store            persist.Store
	platformBindings []string

	group  singleflight.Group
	mu     sync.Mutex
	cached *Result
}

// New creates an orchestrator around the given module resolver.
func New(resolver manifest.Resolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:         resolver,
		registry:         registry.New(),
		engine:           state.NewEngine(),
		platformBindings: validate.DefaultPlatformBindings,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry exposes the contract registry. Primarily for tests and
// diagnostics.
func (o *Orchestrator) Registry() *registry.Registry {
	return o.registry
}

// Engine exposes the state engine so hosts can dispatch actions and register
// custom containers after discovery.
func (o *Orchestrator) Engine() *state.Engine {
	return o.engine
}

// Run performs discovery, or returns the memoized result of an earlier
// successful run. A discovery run always completes or fails as a unit;
// mid-run cancellation is not supported.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	o.mu.Lock()
	if o.cached != nil {
		cached := o.cached
		o.mu.Unlock()
		return cached, nil
	}
	o.mu.Unlock()

	v, err, _ := o.group.Do("discovery", func() (any, error) {
		res, err := o.resolve(ctx)
		if err != nil {
			return nil, err
		}
		o.mu.Lock()
		o.cached = res
		o.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// Invalidate discards the cached result and clears the registry and state
// engine so the next Run re-discovers from scratch.
func (o *Orchestrator) Invalidate() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cached = nil
	o.registry.Clear()
	o.engine.Reset()
}

func (o *Orchestrator) resolve(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovery run started.")

	sources, err := o.resolver.Enumerate(ctx)
	if err != nil {
		// A failing enumeration step is a whole-run fault.
		return nil, fmt.Errorf("module enumeration failed: %w", err)
	}

	// Per-module faults are isolated: a bad source is logged and skipped,
	// discovery continues with the rest.
	byName := make(map[string]*manifest.Feature)
	var order []string
	for _, src := range sources {
		features, err := o.resolver.Resolve(ctx, src)
		if err != nil {
			logger.Warn("Skipping module source, resolution failed.", "source", src, "error", err)
			continue
		}
		for _, f := range features {
			if _, seen := byName[f.Name]; !seen {
				order = append(order, f.Name)
			}
			byName[f.Name] = f
		}
	}

	// Contract registration happens strictly before validation and graph
	// building, so both always see a complete snapshot.
	var declaredKeys []string
	for _, name := range order {
		f := byName[name]
		o.registry.Register(ctx, name, f.Contract)
		for _, c := range f.Containers {
			declaredKeys = append(declaredKeys, c.Name)
		}
	}

	validator := validate.New(
		validate.WithPlatformBindings(o.platformBindings...),
		validate.WithKnownStateKeys(declaredKeys...),
	)
	results := validator.ValidateAll(ctx, o.registry)

	graph := depgraph.Build(ctx, o.registry)
	cycles := graph.Cycles()
	attachCycleWarnings(results, cycles)

	res := &Result{
		Features:  make(map[string]FeatureRecord, len(order)),
		Order:     order,
		Contracts: o.registry.List(),
		Cycles:    cycles,
	}

	var containers []state.Container
	for _, name := range order {
		f := byName[name]
		res.Features[name] = FeatureRecord{
			Contract:   f.Contract,
			Routes:     f.Routes,
			Validation: results[name],
		}
		res.Routes = append(res.Routes, f.Routes...)
		for _, decl := range f.Containers {
			if c, ok := o.buildContainer(ctx, decl); ok {
				containers = append(containers, c)
			}
		}
	}
	route.Sort(res.Routes)

	if len(containers) > 0 {
		o.engine.AddContainers(ctx, containers)
		res.NeedsState = true
	}

	logger.Info("Discovery run complete.",
		"modules", len(order), "routes", len(res.Routes),
		"containers", len(containers), "cycles", len(cycles))
	return res, nil
}

// attachCycleWarnings marks every module participating in a cycle with a
// warning carrying the full chain.
func attachCycleWarnings(results map[string]validate.Result, cycles []string) {
	for _, cycle := range cycles {
		seen := make(map[string]bool)
		for _, name := range strings.Split(cycle, " -> ") {
			if seen[name] {
				continue
			}
			seen[name] = true
			if res, ok := results[name]; ok {
				res.Warnings = append(res.Warnings, "Module participates in a dependency cycle: "+cycle)
				results[name] = res
			}
		}
	}
}
