package discovery

import (
	"context"
	"time"

	"github.com/modfabric/modfabric/internal/ctxlog"
	"github.com/modfabric/modfabric/internal/manifest"
	"github.com/modfabric/modfabric/internal/state"
)

// Container template names accepted in manifests.
const (
	templateCounter = "counter"
	templateAsync   = "async"
	templateUI      = "ui"
	templateCache   = "cache"
	templateDurable = "durable"
)

const defaultCacheTTL = 5 * time.Minute

// buildContainer instantiates a declared container from its template. An
// unknown template is a per-container defect: logged and skipped, never
// fatal.
func (o *Orchestrator) buildContainer(ctx context.Context, decl manifest.ContainerDecl) (state.Container, bool) {
	logger := ctxlog.FromContext(ctx)

	switch decl.Template {
	case templateCounter:
		start := 0
		if v, ok := manifest.Attr(decl.Params, "value"); ok {
			if n, ok := manifest.GoValue(v).(int); ok {
				start = n
			}
		}
		c, _ := state.Counter(decl.Name, start)
		return c, true

	case templateAsync:
		c, _ := state.AsyncData(decl.Name)
		return c, true

	case templateUI:
		var modals []string
		if v, ok := manifest.Attr(decl.Params, "modals"); ok {
			if items, ok := manifest.GoValue(v).([]any); ok {
				for _, item := range items {
					if s, ok := item.(string); ok {
						modals = append(modals, s)
					}
				}
			}
		}
		c, _ := state.UIToggles(decl.Name, modals...)
		return c, true

	case templateCache:
		ttl := defaultCacheTTL
		if v, ok := manifest.Attr(decl.Params, "ttl_seconds"); ok {
			if n, ok := manifest.GoValue(v).(int); ok && n > 0 {
				ttl = time.Duration(n) * time.Second
			}
		}
		c, _ := state.ExpiringCache(decl.Name, ttl)
		return c, true

	case templateDurable:
		c, _ := state.Durable(decl.Name, o.store, logger)
		return c, true

	default:
		logger.Warn("Unknown container template, skipping container.",
			"container", decl.Name, "template", decl.Template)
		return state.Container{}, false
	}
}
