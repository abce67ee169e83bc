package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/modfabric/modfabric/internal/ctxlog"
	"github.com/modfabric/modfabric/internal/registry"
)

// Capability kinds as they appear in diagnostics.
const (
	KindService  = "Service"
	KindBinding  = "Binding"
	KindStateKey = "State key"
)

// DefaultPlatformBindings are binding names the platform itself satisfies, so
// consuming them never requires a providing module in the registry.
var DefaultPlatformBindings = []string{
	"useSharedState",
	"useNavigation",
	"useModuleState",
}

// Result is the validation outcome for a single module. Valid is true exactly
// when Errors is empty; warnings never affect validity.
type Result struct {
	Valid               bool
	Errors              []string
	Warnings            []string
	MissingDependencies []string
}

// Validator checks every module's contract against the full registry. It is
// pure: the same registry always produces the same results, and validation
// never mutates anything.
type Validator struct {
	platformBindings map[string]struct{}
	knownStateKeys   map[string]struct{}
}

// Option configures a Validator.
type Option func(*Validator)

// WithPlatformBindings replaces the platform-exempt binding allow-list.
func WithPlatformBindings(names ...string) Option {
	return func(v *Validator) {
		v.platformBindings = toSet(names)
	}
}

// WithKnownStateKeys declares state keys that exist outside the contract
// system, such as containers registered straight into the state engine.
// Consumed state keys found here produce no diagnostic at all.
func WithKnownStateKeys(names ...string) Option {
	return func(v *Validator) {
		v.knownStateKeys = toSet(names)
	}
}

// New creates a Validator. Without options it exempts DefaultPlatformBindings
// and knows no external state keys.
func New(opts ...Option) *Validator {
	v := &Validator{
		platformBindings: toSet(DefaultPlatformBindings),
		knownStateKeys:   map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateAll validates every registered module against the registry and
// returns the per-module results keyed by module name.
func (v *Validator) ValidateAll(ctx context.Context, reg *registry.Registry) map[string]Result {
	results := make(map[string]Result, reg.Len())
	for _, name := range reg.Names() {
		results[name] = v.Validate(ctx, name, reg)
	}
	return results
}

// Validate checks one module's contract against the full registry. Modules
// absent from the registry come back valid and empty.
func (v *Validator) Validate(ctx context.Context, name string, reg *registry.Registry) Result {
	logger := ctxlog.FromContext(ctx)
	res := Result{}

	c, ok := reg.Get(name)
	if !ok {
		res.Valid = true
		return res
	}

	consumes := c.Consumes()
	for _, svc := range consumes.Services {
		if len(providersOf(reg, name, KindService, svc)) == 0 {
			res.Errors = append(res.Errors, missingMessage(KindService, svc))
			res.MissingDependencies = append(res.MissingDependencies, dependencyID(KindService, svc))
		}
	}
	for _, binding := range consumes.Bindings {
		if _, exempt := v.platformBindings[binding]; exempt {
			continue
		}
		if len(providersOf(reg, name, KindBinding, binding)) == 0 {
			res.Errors = append(res.Errors, missingMessage(KindBinding, binding))
			res.MissingDependencies = append(res.MissingDependencies, dependencyID(KindBinding, binding))
		}
	}

	// Consumed state keys are warning-only: containers may be registered
	// directly with the state engine without any contract declaring them.
	for _, key := range consumes.StateKeys {
		if _, known := v.knownStateKeys[key]; known {
			continue
		}
		res.Warnings = append(res.Warnings, missingMessage(KindStateKey, key))
	}

	provides := c.Provides()
	res.Warnings = append(res.Warnings, duplicateWarnings(reg, name, KindService, provides.Services)...)
	res.Warnings = append(res.Warnings, duplicateWarnings(reg, name, KindBinding, provides.Bindings)...)

	res.Valid = len(res.Errors) == 0
	if !res.Valid {
		logger.Debug("Module contract failed validation.", "module", name, "errors", len(res.Errors))
	}
	return res
}

// providersOf returns every module other than self whose contract provides
// the named capability of the given kind, in registry order.
func providersOf(reg *registry.Registry, self, kind, capability string) []string {
	var providers []string
	for _, other := range reg.Names() {
		if other == self {
			continue
		}
		c, ok := reg.Get(other)
		if !ok {
			continue
		}
		var provided bool
		switch kind {
		case KindService:
			provided = c.ProvidesService(capability)
		case KindBinding:
			provided = c.ProvidesBinding(capability)
		}
		if provided {
			providers = append(providers, other)
		}
	}
	return providers
}

// duplicateWarnings flags capabilities this module provides that another
// module also provides. Duplication is tolerated (last registration wins at
// runtime) but must be visible.
func duplicateWarnings(reg *registry.Registry, self, kind string, provided []string) []string {
	var warnings []string
	for _, capability := range provided {
		others := providersOf(reg, self, kind, capability)
		if len(others) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s '%s' is also provided by %s", kind, capability, strings.Join(others, ", ")))
		}
	}
	return warnings
}

func missingMessage(kind, capability string) string {
	return fmt.Sprintf("%s '%s' is consumed but not provided by any feature", kind, capability)
}

func dependencyID(kind, capability string) string {
	return strings.ToLower(strings.ReplaceAll(kind, " ", "-")) + ":" + capability
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
