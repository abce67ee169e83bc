package state

import (
	"context"

	"github.com/modfabric/modfabric/internal/ctxlog"
)

// Reducer is a pure state-transition function for one action within one
// container's subtree. It receives the container's current subtree state and
// the action payload and returns the next subtree state.
type Reducer func(state any, payload any) any

// Action is one dispatched state transition.
type Action struct {
	Type    string
	Payload any
}

// Container is a named subtree of composed state plus its transition
// functions. The declaring module owns its shape; the engine owns composition
// and lifetime.
type Container struct {
	Name     string
	Initial  any
	Reducers map[string]Reducer
}

// rootReducer is the combined transition function over the whole aggregate
// state. It is rebuilt from the current container set on every add/remove, so
// the container set and the combined function can never drift apart.
type rootReducer func(state map[string]any, action Action) map[string]any

// Engine is the lazily-created, runtime-recomposable state store. The store
// itself does not exist until the first container is added; once created it
// is never deallocated (removal of the last container reverts the combined
// function to identity so dispatch stays safe).
//
// No Engine operation returns an error or panics: misuse is auto-recovered
// and logged, and persistence faults in container reducers are the reducer's
// own problem to swallow.
//
// The engine is a single shared mutable resource for a cooperative,
// single-threaded host; all mutation goes through AddContainer,
// AddContainers, RemoveContainer and Dispatch.
type Engine struct {
	created    bool
	order      []string
	containers map[string]Container
	root       rootReducer
	state      map[string]any
}

// NewEngine returns an engine whose store does not exist yet.
func NewEngine() *Engine {
	return &Engine{}
}

// Exists reports whether the store has been created.
func (e *Engine) Exists() bool {
	return e.created
}

// AddContainer registers one container. The store is created lazily on the
// first add; on later adds the combined function is rebuilt and existing
// subtrees keep their state while the new subtree receives its initial state.
func (e *Engine) AddContainer(ctx context.Context, c Container) {
	e.ensureStore(ctx, false)
	e.register(ctx, c)
	e.recompose(ctx)
	e.seed(c)
}

// AddContainers registers a batch of containers, rebuilding the combined
// function exactly once after all of them are in place.
func (e *Engine) AddContainers(ctx context.Context, containers []Container) {
	if len(containers) == 0 {
		return
	}
	e.ensureStore(ctx, false)
	for _, c := range containers {
		e.register(ctx, c)
	}
	e.recompose(ctx)
	for _, c := range containers {
		e.seed(c)
	}
}

// RemoveContainer deletes the named container, drops its subtree and rebuilds
// the combined function. Removing the last container reverts the combined
// function to identity; the store itself stays alive.
func (e *Engine) RemoveContainer(ctx context.Context, name string) {
	logger := ctxlog.FromContext(ctx)
	if _, ok := e.containers[name]; !ok {
		logger.Debug("Remove requested for unknown container, ignoring.", "container", name)
		return
	}
	delete(e.containers, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	delete(e.state, name)
	e.recompose(ctx)
	logger.Debug("Container removed.", "container", name, "remaining", len(e.order))
}

// Dispatch applies one action through the current combined function. If the
// store does not exist yet it is auto-created first; that indicates a caller
// ordering bug, so it is logged as a warning.
func (e *Engine) Dispatch(ctx context.Context, a Action) {
	logger := ctxlog.FromContext(ctx)
	e.ensureStore(ctx, true)
	if len(e.order) == 0 {
		logger.Warn("Action dispatched with no registered containers, ignoring.", "action", a.Type)
		return
	}
	e.state = e.root(e.state, a)
}

// State returns a shallow copy of the aggregate state. Nil until the store
// exists.
func (e *Engine) State() map[string]any {
	if !e.created {
		return nil
	}
	out := make(map[string]any, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// Subtree returns the named container's current subtree state.
func (e *Engine) Subtree(name string) (any, bool) {
	if !e.created {
		return nil, false
	}
	v, ok := e.state[name]
	return v, ok
}

// Containers returns the registered container names in registration order.
func (e *Engine) Containers() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Reset destroys the store entirely. Used for test isolation; the next add or
// dispatch re-creates it from scratch.
func (e *Engine) Reset() {
	e.created = false
	e.order = nil
	e.containers = nil
	e.root = nil
	e.state = nil
}

func (e *Engine) ensureStore(ctx context.Context, fromDispatch bool) {
	if e.created {
		return
	}
	logger := ctxlog.FromContext(ctx)
	if fromDispatch {
		logger.Warn("Store accessed before any container was added; creating it now. This usually indicates a caller ordering bug.")
	} else {
		logger.Debug("Creating state store lazily on first container registration.")
	}
	e.created = true
	e.containers = make(map[string]Container)
	e.state = make(map[string]any)
	e.recompose(ctx)
}

func (e *Engine) register(ctx context.Context, c Container) {
	logger := ctxlog.FromContext(ctx)
	if _, exists := e.containers[c.Name]; exists {
		logger.Warn("Container re-registered, previous reducers overwritten.", "container", c.Name)
	} else {
		logger.Debug("Registering state container.", "container", c.Name)
		e.order = append(e.order, c.Name)
	}
	e.containers[c.Name] = c
}

// seed gives a newly added container's subtree its initial state. Subtrees
// that already hold state (a re-registered container) keep it.
func (e *Engine) seed(c Container) {
	if _, ok := e.state[c.Name]; !ok {
		e.state[c.Name] = c.Initial
	}
}

// recompose rebuilds the combined transition function from the current
// container set. The closure captures a snapshot, so a root reducer in flight
// is never affected by later set changes. Batch adds rebuild exactly once.
func (e *Engine) recompose(ctx context.Context) {
	ctxlog.FromContext(ctx).Debug("Combined transition function rebuilt.", "containers", len(e.order))
	if len(e.order) == 0 {
		e.root = func(state map[string]any, _ Action) map[string]any {
			return state
		}
		return
	}

	names := make([]string, len(e.order))
	copy(names, e.order)
	reducers := make(map[string]map[string]Reducer, len(names))
	for _, name := range names {
		reducers[name] = e.containers[name].Reducers
	}

	e.root = func(state map[string]any, a Action) map[string]any {
		next := make(map[string]any, len(state))
		for k, v := range state {
			next[k] = v
		}
		for _, name := range names {
			if reduce, ok := reducers[name][a.Type]; ok {
				next[name] = reduce(next[name], a.Payload)
			}
		}
		return next
	}
}
