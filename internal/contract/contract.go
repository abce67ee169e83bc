package contract

// Provides enumerates the capabilities a feature module offers to the rest of
// the system. Slices preserve declaration order and contain no duplicates.
type Provides struct {
	Services  []string
	Bindings  []string
	Rendering []string
	Types     []string
}

// Consumes enumerates the capabilities a feature module requires from the
// rest of the system.
type Consumes struct {
	Services  []string
	Bindings  []string
	StateKeys []string
}

// Contract is the immutable provides/consumes declaration for one feature
// module. It is a pure value: it carries capability names only, never
// behavior. Contracts are context-free; whether the declared capabilities
// line up with the rest of the system is the validator's job.
type Contract struct {
	provides Provides
	consumes Consumes
}

// Provides returns a defensive copy of the provided capability sets.
func (c Contract) Provides() Provides {
	return Provides{
		Services:  copyNames(c.provides.Services),
		Bindings:  copyNames(c.provides.Bindings),
		Rendering: copyNames(c.provides.Rendering),
		Types:     copyNames(c.provides.Types),
	}
}

// Consumes returns a defensive copy of the consumed capability sets.
func (c Contract) Consumes() Consumes {
	return Consumes{
		Services:  copyNames(c.consumes.Services),
		Bindings:  copyNames(c.consumes.Bindings),
		StateKeys: copyNames(c.consumes.StateKeys),
	}
}

// ProvidesService reports whether the contract declares the named service.
func (c Contract) ProvidesService(name string) bool {
	return contains(c.provides.Services, name)
}

// ProvidesBinding reports whether the contract declares the named binding.
func (c Contract) ProvidesBinding(name string) bool {
	return contains(c.provides.Bindings, name)
}

func copyNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
