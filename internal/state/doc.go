// Package state implements the dynamic state-container engine.
//
// The engine composes named state containers into one aggregate store. It is
// lazy (no store materializes until the first container arrives) and
// recomposable at runtime: containers can be added or removed after the store
// exists, and every change rebuilds the combined transition function from the
// full current set so the two can never be inconsistent.
//
// Containers are either custom (arbitrary reducers supplied by host code) or
// built from the parameterized templates in templates.go: counter, async
// loading, UI toggles, expiring cache and durable key-value. The durable
// template is the only one with a side effect: it mirrors mutations to a
// persist.Store, best-effort.
package state
