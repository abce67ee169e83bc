package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/modfabric/modfabric/internal/contract"
	"github.com/modfabric/modfabric/internal/ctxlog"
	"github.com/modfabric/modfabric/internal/fsutil"
	"github.com/modfabric/modfabric/internal/route"
)

// Loader is the HCL-file implementation of the Resolver interface. It
// enumerates .hcl manifests under a root path and decodes one file per
// Resolve call, so a malformed manifest poisons only its own file.
type Loader struct {
	root string
}

// NewLoader creates a manifest loader rooted at the given modules path.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// fileRoot is a struct used to decode all top-level blocks from any manifest file.
type fileRoot struct {
	Features []*featureBlock `hcl:"feature,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type featureBlock struct {
	Name       string            `hcl:"name,label"`
	Provides   *providesBlock    `hcl:"provides,block"`
	Consumes   *consumesBlock    `hcl:"consumes,block"`
	Routes     []*routeBlock     `hcl:"route,block"`
	Containers []*containerBlock `hcl:"container,block"`
}

type providesBlock struct {
	Services  []string `hcl:"services,optional"`
	Bindings  []string `hcl:"bindings,optional"`
	Rendering []string `hcl:"rendering,optional"`
	Types     []string `hcl:"types,optional"`
}

type consumesBlock struct {
	Services  []string `hcl:"services,optional"`
	Bindings  []string `hcl:"bindings,optional"`
	StateKeys []string `hcl:"state_keys,optional"`
}

type routeBlock struct {
	Path      string `hcl:"path"`
	Rendering string `hcl:"rendering,optional"`
}

type containerBlock struct {
	Name     string    `hcl:"name,label"`
	Template string    `hcl:"template"`
	Initial  cty.Value `hcl:"initial,optional"`
}

// Enumerate returns the paths of all manifest files under the root, in a
// stable order.
func (l *Loader) Enumerate(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	if _, err := os.Stat(l.root); err != nil {
		return nil, fmt.Errorf("modules path %q: %w", l.root, err)
	}
	files, err := fsutil.FindFilesByExtension(l.root, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("enumerating manifests under %q: %w", l.root, err)
	}
	logger.Debug("Discovered manifest files.", "count", len(files))
	return files, nil
}

// Resolve parses one manifest file into its feature declarations.
func (l *Loader) Resolve(ctx context.Context, source string) ([]*Feature, error) {
	logger := ctxlog.FromContext(ctx)
	parser := hclparse.NewParser()

	hclFile, diags := parser.ParseHCLFile(source)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", source, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", source, diags)
	}

	features := make([]*Feature, 0, len(root.Features))
	for _, block := range root.Features {
		feature, err := translateFeature(block)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", source, err)
		}
		features = append(features, feature)
	}
	logger.Debug("Manifest resolved.", "source", source, "features", len(features))
	return features, nil
}

func translateFeature(block *featureBlock) (*Feature, error) {
	if block.Name == "" {
		return nil, fmt.Errorf("feature block is missing its name label")
	}

	b := contract.NewBuilder()
	if p := block.Provides; p != nil {
		b.ProvidesService(p.Services...).
			ProvidesBinding(p.Bindings...).
			ProvidesRendering(p.Rendering...).
			ProvidesType(p.Types...)
	}
	if c := block.Consumes; c != nil {
		b.ConsumesService(c.Services...).
			ConsumesBinding(c.Bindings...).
			ConsumesStateKey(c.StateKeys...)
	}

	feature := &Feature{
		Name:     block.Name,
		Contract: b.Build(),
	}

	for _, r := range block.Routes {
		if r.Path == "" {
			return nil, fmt.Errorf("feature %q: route block is missing a path", block.Name)
		}
		feature.Routes = append(feature.Routes, route.Route{
			Feature:   block.Name,
			Path:      r.Path,
			Rendering: r.Rendering,
		})
	}

	for _, c := range block.Containers {
		if c.Name == "" {
			return nil, fmt.Errorf("feature %q: container block is missing its name label", block.Name)
		}
		if c.Template == "" {
			return nil, fmt.Errorf("feature %q: container %q declares no template", block.Name, c.Name)
		}
		feature.Containers = append(feature.Containers, ContainerDecl{
			Name:     c.Name,
			Template: c.Template,
			Params:   c.Initial,
		})
	}

	return feature, nil
}
