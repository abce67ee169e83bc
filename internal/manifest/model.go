package manifest

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/modfabric/modfabric/internal/contract"
	"github.com/modfabric/modfabric/internal/route"
)

// Feature is the format-agnostic declaration exported by one feature module:
// its capability contract plus any routes and state containers it
// contributes.
type Feature struct {
	Name       string
	Contract   contract.Contract
	Routes     []route.Route
	Containers []ContainerDecl
}

// ContainerDecl is a declared state container: a template name plus its
// parameters. Params stays a cty value here; the discovery layer decides how
// to instantiate the template.
type ContainerDecl struct {
	Name     string
	Template string
	Params   cty.Value
}

// Resolver enumerates module sources and resolves each one into its exported
// feature declarations. Resolution is the discovery run's only suspension
// point, which is why both methods take a context. Implementations other
// than the HCL file Loader (network fetch, embedded modules) plug in here.
type Resolver interface {
	Enumerate(ctx context.Context) ([]string, error)
	Resolve(ctx context.Context, source string) ([]*Feature, error)
}
