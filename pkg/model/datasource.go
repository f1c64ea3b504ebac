package model

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record with the requested identifier does
// not exist in the backing store.
var ErrNotFound = errors.New("record not found")

// DataSource is the backing-store capability a model needs for its built-in
// operations. Records are stored per model name and keyed by identifier;
// implementations own identifier generation on Create.
type DataSource interface {
	// Name identifies the connector type (memory, sqlite, postgres).
	Name() string

	// Connect opens the underlying store and prepares its schema.
	Connect(ctx context.Context) error

	// Close releases the underlying store.
	Close() error

	// Create stores a new record and returns its fields including the
	// generated identifier.
	Create(ctx context.Context, modelName string, fields map[string]any) (map[string]any, error)

	// FindByID returns the fields of the record with the given identifier,
	// or an error wrapping ErrNotFound.
	FindByID(ctx context.Context, modelName, id string) (map[string]any, error)

	// Find returns the fields of all records of the model, in stable
	// creation order.
	Find(ctx context.Context, modelName string) ([]map[string]any, error)

	// UpdateAttributes merges fields into the identified record and returns
	// the updated fields.
	UpdateAttributes(ctx context.Context, modelName, id string, fields map[string]any) (map[string]any, error)

	// Destroy removes the identified record. Destroying a missing record is
	// an error wrapping ErrNotFound.
	Destroy(ctx context.Context, modelName, id string) error

	// Count returns the number of stored records of the model.
	Count(ctx context.Context, modelName string) (int64, error)
}
