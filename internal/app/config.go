package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all the necessary configuration for an App instance to run.
// Fields are seeded from MODFABRIC_* environment variables; the CLI layer
// overrides them with flags.
type Config struct {
	ModulesPath string `env:"MODFABRIC_MODULES_PATH"` // feature manifests, searched recursively
	StatePath   string `env:"MODFABRIC_STATE_PATH"`   // sqlite file for durable containers; empty keeps state in memory

	LogFormat string `env:"MODFABRIC_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"MODFABRIC_LOG_LEVEL" envDefault:"info"`
}

// ConfigFromEnv loads configuration defaults from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewConfig validates a configuration and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModulesPath == "" {
		return nil, errors.New("ModulesPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
