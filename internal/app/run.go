package app

import (
	"context"
	"fmt"

	"github.com/modfabric/modfabric/internal/ctxlog"
	"github.com/modfabric/modfabric/internal/discovery"
)

// Run executes the main application logic: one discovery run followed by a
// printed report. It returns an error when discovery itself fails or when any
// module's contract is invalid, so the CLI exits non-zero on broken
// contracts.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "modules_path", a.config.ModulesPath)

	result, err := a.orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	a.printReport(result)

	invalid := 0
	for _, name := range result.Order {
		if !result.Features[name].Validation.Valid {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d modules failed contract validation", invalid, len(result.Order))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// printReport writes the human-readable discovery summary to the App's
// output writer.
func (a *App) printReport(result *discovery.Result) {
	fmt.Fprintf(a.outW, "Discovered %d feature module(s)\n\n", len(result.Order))

	for _, name := range result.Order {
		record := result.Features[name]
		status := "OK"
		if !record.Validation.Valid {
			status = "INVALID"
		}
		fmt.Fprintf(a.outW, "  %-20s %s\n", name, status)
		for _, msg := range record.Validation.Errors {
			fmt.Fprintf(a.outW, "    error:   %s\n", msg)
		}
		for _, msg := range record.Validation.Warnings {
			fmt.Fprintf(a.outW, "    warning: %s\n", msg)
		}
	}

	if len(result.Cycles) > 0 {
		fmt.Fprintf(a.outW, "\nCircular dependencies:\n")
		for _, cycle := range result.Cycles {
			fmt.Fprintf(a.outW, "  %s\n", cycle)
		}
	}

	if len(result.Routes) > 0 {
		fmt.Fprintf(a.outW, "\nRoutes (matching order):\n")
		for _, r := range result.Routes {
			fmt.Fprintf(a.outW, "  %-30s -> %s", r.Path, r.Feature)
			if r.Rendering != "" {
				fmt.Fprintf(a.outW, " (%s)", r.Rendering)
			}
			fmt.Fprintln(a.outW)
		}
	}

	if result.NeedsState {
		fmt.Fprintf(a.outW, "\nState containers: %d composed\n", len(a.orchestrator.Engine().Containers()))
	}
}
