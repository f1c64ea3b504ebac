// Package connector provides backing-store implementations of
// model.DataSource, plus a factory registry keyed by connector type.
// Built-in connectors: memory, sqlite, postgres.
package connector

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

// Config holds connector configuration.
type Config struct {
	// Type selects the connector: memory, sqlite, postgres.
	Type string
	// Path is the database file path for file-based stores. Empty or
	// ":memory:" selects an in-memory sqlite database.
	Path string
	// DSN is the connection string for network stores.
	DSN string
}

// Factory builds a datasource from configuration. The datasource is not
// connected yet; callers invoke Connect themselves.
type Factory func(cfg Config, logger *slog.Logger) model.DataSource

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a connector factory to the registry.
// Called by connector implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a connector factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates a datasource based on config type.
// The logger parameter is passed to the connector (nil uses discard logger).
func New(cfg Config, logger *slog.Logger) (model.DataSource, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("connector type not specified")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownConnectorError{
			Type:      cfg.Type,
			Available: ListConnectors(),
		}
	}
	return factory(cfg, logger), nil
}

// ListConnectors returns all registered connector names (sorted).
func ListConnectors() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a connector type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownConnectorError is returned when an unknown connector type is requested.
type UnknownConnectorError struct {
	Type      string
	Available []string
}

func (e *UnknownConnectorError) Error() string {
	return fmt.Sprintf("unknown connector type %q\nAvailable connectors: %v\nHint: Check datasource.type in modelproxy.yaml", e.Type, e.Available)
}
