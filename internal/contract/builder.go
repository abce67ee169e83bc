package contract

// Builder assembles a Contract through chainable declaration calls. The zero
// value is not usable; create one with NewBuilder. Duplicate names within a
// set collapse to the first occurrence, so declaration order is preserved.
type Builder struct {
	c Contract
}

// NewBuilder returns an empty contract builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ProvidesService declares one or more provided service names.
func (b *Builder) ProvidesService(names ...string) *Builder {
	b.c.provides.Services = appendUnique(b.c.provides.Services, names)
	return b
}

// ProvidesBinding declares one or more provided binding names.
func (b *Builder) ProvidesBinding(names ...string) *Builder {
	b.c.provides.Bindings = appendUnique(b.c.provides.Bindings, names)
	return b
}

// ProvidesRendering declares one or more provided rendering-capability names.
func (b *Builder) ProvidesRendering(names ...string) *Builder {
	b.c.provides.Rendering = appendUnique(b.c.provides.Rendering, names)
	return b
}

// ProvidesType declares one or more provided type names.
func (b *Builder) ProvidesType(names ...string) *Builder {
	b.c.provides.Types = appendUnique(b.c.provides.Types, names)
	return b
}

// ConsumesService declares one or more consumed service names.
func (b *Builder) ConsumesService(names ...string) *Builder {
	b.c.consumes.Services = appendUnique(b.c.consumes.Services, names)
	return b
}

// ConsumesBinding declares one or more consumed binding names.
func (b *Builder) ConsumesBinding(names ...string) *Builder {
	b.c.consumes.Bindings = appendUnique(b.c.consumes.Bindings, names)
	return b
}

// ConsumesStateKey declares one or more consumed state-key names.
func (b *Builder) ConsumesStateKey(names ...string) *Builder {
	b.c.consumes.StateKeys = appendUnique(b.c.consumes.StateKeys, names)
	return b
}

// Build returns an immutable snapshot of the declarations made so far. The
// builder remains usable afterwards; later calls do not affect contracts
// already built.
func (b *Builder) Build() Contract {
	return Contract{
		provides: Provides{
			Services:  copyNames(b.c.provides.Services),
			Bindings:  copyNames(b.c.provides.Bindings),
			Rendering: copyNames(b.c.provides.Rendering),
			Types:     copyNames(b.c.provides.Types),
		},
		consumes: Consumes{
			Services:  copyNames(b.c.consumes.Services),
			Bindings:  copyNames(b.c.consumes.Bindings),
			StateKeys: copyNames(b.c.consumes.StateKeys),
		},
	}
}

func appendUnique(dst []string, names []string) []string {
	for _, name := range names {
		if !contains(dst, name) {
			dst = append(dst, name)
		}
	}
	return dst
}
