// Package config provides shared configuration types for modelproxy.
// It is decoupled from CLI concerns so other tools can load project
// configuration directly.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modelproxy/pkg/connector"
)

// DatasourceConfig holds backing-store configuration.
type DatasourceConfig struct {
	// Type selects the connector: memory, sqlite, postgres.
	Type string `koanf:"type"`

	// Path is the database file path for file-based stores (sqlite).
	Path string `koanf:"path"`

	// DSN is the connection string for network stores (postgres).
	DSN string `koanf:"dsn"`
}

// ToConnectorConfig converts the configuration into the connector package's
// config shape.
func (d *DatasourceConfig) ToConnectorConfig() connector.Config {
	return connector.Config{
		Type: d.Type,
		Path: d.Path,
		DSN:  d.DSN,
	}
}

// Validate checks if the datasource configuration is valid.
// It uses the connector registry to determine which types are available.
func (d *DatasourceConfig) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("datasource type is required")
	}

	// Use connector registry as single source of truth
	if !connector.IsRegistered(strings.ToLower(d.Type)) {
		return &connector.UnknownConnectorError{
			Type:      d.Type,
			Available: connector.ListConnectors(),
		}
	}

	if d.Type == "postgres" && d.DSN == "" {
		return fmt.Errorf("datasource dsn is required for postgres")
	}

	return nil
}

// Config holds the project configuration loaded from modelproxy.yaml.
type Config struct {
	// ModelsDir is the directory holding model definition files.
	ModelsDir string `koanf:"models_dir"`

	// Datasource configures the backing store shared by attached models.
	Datasource DatasourceConfig `koanf:"datasource"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Verbose enables extra diagnostics in the CLI.
	Verbose bool `koanf:"verbose"`
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.ModelsDir == "" {
		return fmt.Errorf("models_dir is required")
	}
	return c.Datasource.Validate()
}
