package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/modfabric/modfabric/internal/discovery"
	"github.com/modfabric/modfabric/internal/manifest"
	"github.com/modfabric/modfabric/internal/persist"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	config       *Config
	store        persist.Store
	orchestrator *discovery.Orchestrator
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, persistence store
// and discovery orchestrator. The resolver defaults to the HCL manifest
// loader rooted at the configured modules path; tests may pass their own.
func NewApp(outW io.Writer, cfg *Config, resolver manifest.Resolver) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	var store persist.Store
	if cfg.StatePath != "" {
		sqlStore, err := persist.OpenSQLite(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		logger.Debug("Durable state store opened.", "path", cfg.StatePath)
		store = sqlStore
	} else {
		store = persist.NewMemory()
		logger.Debug("No state path configured, durable containers use an in-memory store.")
	}

	if resolver == nil {
		resolver = manifest.NewLoader(cfg.ModulesPath)
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		store:  store,
		orchestrator: discovery.New(resolver,
			discovery.WithPersist(store)),
	}, nil
}

// Orchestrator returns the application's discovery orchestrator. This is
// primarily for testing.
func (a *App) Orchestrator() *discovery.Orchestrator {
	return a.orchestrator
}

// Close releases the App's resources.
func (a *App) Close() error {
	return a.store.Close()
}
