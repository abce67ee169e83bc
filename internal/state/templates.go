package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/modfabric/modfabric/internal/persist"
)

// Template action types are namespaced "<container>/<action>" so containers
// built from the same template never react to each other's actions.

// CounterActions creates actions for a Counter container.
type CounterActions struct {
	Increment   func() Action
	Decrement   func() Action
	IncrementBy func(n int) Action
	Reset       func() Action
}

// Counter builds a numeric counter container. Its subtree has a single
// "value" field; reset restores the starting value.
func Counter(name string, start int) (Container, CounterActions) {
	c := Container{
		Name:    name,
		Initial: map[string]any{"value": start},
		Reducers: map[string]Reducer{
			name + "/increment": func(state, _ any) any {
				return map[string]any{"value": counterValue(state) + 1}
			},
			name + "/decrement": func(state, _ any) any {
				return map[string]any{"value": counterValue(state) - 1}
			},
			name + "/incrementBy": func(state, payload any) any {
				return map[string]any{"value": counterValue(state) + asInt(payload)}
			},
			name + "/reset": func(_, _ any) any {
				return map[string]any{"value": start}
			},
		},
	}
	acts := CounterActions{
		Increment:   func() Action { return Action{Type: name + "/increment"} },
		Decrement:   func() Action { return Action{Type: name + "/decrement"} },
		IncrementBy: func(n int) Action { return Action{Type: name + "/incrementBy", Payload: n} },
		Reset:       func() Action { return Action{Type: name + "/reset"} },
	}
	return c, acts
}

// AsyncActions creates actions for an AsyncData container.
type AsyncActions struct {
	SetLoading func(loading bool) Action
	SetData    func(data any) Action
	SetError   func(message string) Action
	Reset      func() Action
}

// AsyncData builds the async-loading container shape with isLoading, error
// and data fields. Setting data clears both the loading flag and the error;
// setting an error clears the loading flag.
func AsyncData(name string) (Container, AsyncActions) {
	initial := map[string]any{"isLoading": false, "error": nil, "data": nil}
	c := Container{
		Name:    name,
		Initial: initial,
		Reducers: map[string]Reducer{
			name + "/setLoading": func(state, payload any) any {
				next := copySubtree(state)
				next["isLoading"] = payload == true
				return next
			},
			name + "/setData": func(state, payload any) any {
				next := copySubtree(state)
				next["data"] = payload
				next["isLoading"] = false
				next["error"] = nil
				return next
			},
			name + "/setError": func(state, payload any) any {
				next := copySubtree(state)
				next["error"] = payload
				next["isLoading"] = false
				return next
			},
			name + "/reset": func(_, _ any) any {
				return map[string]any{"isLoading": false, "error": nil, "data": nil}
			},
		},
	}
	acts := AsyncActions{
		SetLoading: func(loading bool) Action { return Action{Type: name + "/setLoading", Payload: loading} },
		SetData:    func(data any) Action { return Action{Type: name + "/setData", Payload: data} },
		SetError:   func(message string) Action { return Action{Type: name + "/setError", Payload: message} },
		Reset:      func() Action { return Action{Type: name + "/reset"} },
	}
	return c, acts
}

// UIActions creates actions for a UIToggles container.
type UIActions struct {
	OpenModal     func(modal string) Action
	CloseModal    func(modal string) Action
	ToggleSidebar func() Action
	SetTheme      func(theme string) Action
}

// UIToggles builds the UI-toggle container shape: a flag per named modal, a
// sidebar flag and a theme value.
func UIToggles(name string, modals ...string) (Container, UIActions) {
	modalFlags := make(map[string]any, len(modals))
	for _, m := range modals {
		modalFlags[m] = false
	}
	c := Container{
		Name:    name,
		Initial: map[string]any{"modals": modalFlags, "sidebarOpen": false, "theme": "light"},
		Reducers: map[string]Reducer{
			name + "/openModal":  setModal(true),
			name + "/closeModal": setModal(false),
			name + "/toggleSidebar": func(state, _ any) any {
				next := copySubtree(state)
				next["sidebarOpen"] = next["sidebarOpen"] != true
				return next
			},
			name + "/setTheme": func(state, payload any) any {
				next := copySubtree(state)
				if theme, ok := payload.(string); ok {
					next["theme"] = theme
				}
				return next
			},
		},
	}
	acts := UIActions{
		OpenModal:     func(modal string) Action { return Action{Type: name + "/openModal", Payload: modal} },
		CloseModal:    func(modal string) Action { return Action{Type: name + "/closeModal", Payload: modal} },
		ToggleSidebar: func() Action { return Action{Type: name + "/toggleSidebar"} },
		SetTheme:      func(theme string) Action { return Action{Type: name + "/setTheme", Payload: theme} },
	}
	return c, acts
}

func setModal(open bool) Reducer {
	return func(state, payload any) any {
		modal, ok := payload.(string)
		if !ok {
			return state
		}
		next := copySubtree(state)
		modals := copySubtree(next["modals"])
		modals[modal] = open
		next["modals"] = modals
		return next
	}
}

// CacheEntry is one entry in an ExpiringCache subtree.
type CacheEntry struct {
	Value     any
	StoredAt  time.Time
	ExpiresAt time.Time
}

// CacheSet is the payload for cache set actions. A zero At means "now"; a
// zero TTL means the container default.
type CacheSet struct {
	Key   string
	Value any
	At    time.Time
	TTL   time.Duration
}

// CacheActions creates actions for an ExpiringCache container.
type CacheActions struct {
	Set   func(key string, value any) Action
	Evict func(key string) Action
	Sweep func(now time.Time) Action
}

// ExpiringCache builds a time-bounded cache keyed by string. Each entry
// carries its insertion time and expiry; the sweep action drops every entry
// whose expiry is at or before the sweep time.
func ExpiringCache(name string, defaultTTL time.Duration) (Container, CacheActions) {
	c := Container{
		Name:    name,
		Initial: map[string]any{},
		Reducers: map[string]Reducer{
			name + "/set": func(state, payload any) any {
				set, ok := payload.(CacheSet)
				if !ok || set.Key == "" {
					return state
				}
				at := set.At
				if at.IsZero() {
					at = time.Now()
				}
				ttl := set.TTL
				if ttl == 0 {
					ttl = defaultTTL
				}
				next := copySubtree(state)
				next[set.Key] = CacheEntry{Value: set.Value, StoredAt: at, ExpiresAt: at.Add(ttl)}
				return next
			},
			name + "/evict": func(state, payload any) any {
				key, ok := payload.(string)
				if !ok {
					return state
				}
				next := copySubtree(state)
				delete(next, key)
				return next
			},
			name + "/sweep": func(state, payload any) any {
				now, ok := payload.(time.Time)
				if !ok || now.IsZero() {
					now = time.Now()
				}
				next := copySubtree(state)
				for key, raw := range next {
					if entry, ok := raw.(CacheEntry); ok && !entry.ExpiresAt.After(now) {
						delete(next, key)
					}
				}
				return next
			},
		},
	}
	acts := CacheActions{
		Set:   func(key string, value any) Action { return Action{Type: name + "/set", Payload: CacheSet{Key: key, Value: value}} },
		Evict: func(key string) Action { return Action{Type: name + "/evict", Payload: key} },
		Sweep: func(now time.Time) Action { return Action{Type: name + "/sweep", Payload: now} },
	}
	return c, acts
}

// KV is the payload for durable set actions.
type KV struct {
	Key   string
	Value any
}

// DurableActions creates actions for a Durable container.
type DurableActions struct {
	Set     func(key string, value any) Action
	Delete  func(key string) Action
	Hydrate func(values map[string]any) Action
}

// Durable builds a key-value container whose mutations are mirrored to the
// given persistent store. Mirroring is best-effort: a persistence failure is
// logged and swallowed, so a storage outage never breaks in-memory state.
// Keys are namespaced "<container>/<key>" in the store.
func Durable(name string, store persist.Store, logger *slog.Logger) (Container, DurableActions) {
	if logger == nil {
		logger = slog.Default()
	}
	mirror := func(op func() error, op2 string, key string) {
		if store == nil {
			return
		}
		if err := op(); err != nil {
			logger.Warn("State persistence failed, keeping in-memory value.",
				"container", name, "op", op2, "key", key, "error", err)
		}
	}
	c := Container{
		Name:    name,
		Initial: map[string]any{},
		Reducers: map[string]Reducer{
			name + "/set": func(state, payload any) any {
				kv, ok := payload.(KV)
				if !ok || kv.Key == "" {
					return state
				}
				next := copySubtree(state)
				next[kv.Key] = kv.Value
				mirror(func() error {
					return store.Put(context.Background(), name+"/"+kv.Key, kv.Value)
				}, "put", kv.Key)
				return next
			},
			name + "/delete": func(state, payload any) any {
				key, ok := payload.(string)
				if !ok {
					return state
				}
				next := copySubtree(state)
				delete(next, key)
				mirror(func() error {
					return store.Delete(context.Background(), name+"/"+key)
				}, "delete", key)
				return next
			},
			name + "/hydrate": func(state, payload any) any {
				values, ok := payload.(map[string]any)
				if !ok {
					return state
				}
				next := make(map[string]any, len(values))
				for k, v := range values {
					next[k] = v
				}
				return next
			},
		},
	}
	acts := DurableActions{
		Set:     func(key string, value any) Action { return Action{Type: name + "/set", Payload: KV{Key: key, Value: value}} },
		Delete:  func(key string) Action { return Action{Type: name + "/delete", Payload: key} },
		Hydrate: func(values map[string]any) Action { return Action{Type: name + "/hydrate", Payload: values} },
	}
	return c, acts
}

func copySubtree(state any) map[string]any {
	next := make(map[string]any)
	if m, ok := state.(map[string]any); ok {
		for k, v := range m {
			next[k] = v
		}
	}
	return next
}

func counterValue(state any) int {
	if m, ok := state.(map[string]any); ok {
		return asInt(m["value"])
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
