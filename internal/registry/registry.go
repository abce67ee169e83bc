package registry

import (
	"context"

	"github.com/modfabric/modfabric/internal/contract"
	"github.com/modfabric/modfabric/internal/ctxlog"
)

// Registry holds the capability contracts of every discovered feature module
// for a single application instance. Iteration order is registration order,
// which keeps validation and graph results deterministic for a fixed
// registration sequence.
type Registry struct {
	names     []string
	contracts map[string]contract.Contract
}

// New creates and initializes a new, empty Registry instance.
func New() *Registry {
	return &Registry{
		contracts: make(map[string]contract.Contract),
	}
}

// Register stores a module's contract under its name. Re-registering an
// existing name overwrites the previous contract wholesale; the module keeps
// its original position in iteration order.
func (r *Registry) Register(ctx context.Context, name string, c contract.Contract) {
	logger := ctxlog.FromContext(ctx)
	if _, exists := r.contracts[name]; exists {
		logger.Warn("Contract re-registered, previous entry overwritten.", "module", name)
	} else {
		logger.Debug("Registering module contract.", "module", name)
		r.names = append(r.names, name)
	}
	r.contracts[name] = c
}

// Get returns the contract registered under name, if any.
func (r *Registry) Get(name string) (contract.Contract, bool) {
	c, ok := r.contracts[name]
	return c, ok
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// List returns a defensive copy of the whole name-to-contract mapping.
func (r *Registry) List() map[string]contract.Contract {
	out := make(map[string]contract.Contract, len(r.contracts))
	for name, c := range r.contracts {
		out[name] = c
	}
	return out
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.names)
}

// Clear empties the registry. Used for test isolation and re-discovery.
func (r *Registry) Clear() {
	r.names = nil
	r.contracts = make(map[string]contract.Contract)
}
