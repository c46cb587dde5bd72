// Package config reads docmapper settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreBolt   = "bolt"
	StoreSQLite = "sqlite"
)

// Config controls the CLI store, metadata and logging.
type Config struct {
	Store     string `env:"DOCMAPPER_STORE"      envDefault:"memory"`
	StorePath string `env:"DOCMAPPER_STORE_PATH" envDefault:"docmapper.db"`
	Metadata  string `env:"DOCMAPPER_METADATA"`
	LogLevel  string `env:"DOCMAPPER_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"DOCMAPPER_LOG_FORMAT" envDefault:"console"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case StoreMemory, StoreBolt, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q, expected %s, %s or %s", c.Store, StoreMemory, StoreBolt, StoreSQLite)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q, expected json or console", c.LogFormat)
	}

	return nil
}
