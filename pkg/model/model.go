// Package model provides the data-model surface that proxy bindings operate
// on: named models with type-level and record-level operation sets, type-tagged
// records, declared schemas, and a bootable namespace for name resolution.
package model

import (
	"context"
	"sync"
)

// Operation is a type-level (static) operation on a model, such as "create"
// or "findById". Args carry positional call arguments.
type Operation func(ctx context.Context, args []any) (any, error)

// RecordOperation is a record-level operation on a model. Record-level
// operations receive the record's identifier rather than an object reference;
// the operation acts on whichever stored record shares that identifier.
type RecordOperation func(ctx context.Context, id string, args []any) (any, error)

// Model is a named data-model type with two callable operation sets:
// type-level operations invoked on the model itself, and record-level
// operations invoked against an identified record of the model.
type Model struct {
	name   string
	schema *Schema
	ds     DataSource

	mu     sync.RWMutex
	static map[string]Operation
	record map[string]RecordOperation
}

// New creates a model with the given name and schema.
// A nil schema is replaced with an empty one.
func New(name string, schema *Schema) *Model {
	if schema == nil {
		schema = NewSchema(name, nil)
	}
	return &Model{
		name:   name,
		schema: schema,
		static: make(map[string]Operation),
		record: make(map[string]RecordOperation),
	}
}

// Name returns the model's type name.
func (m *Model) Name() string {
	return m.name
}

// Schema returns the model's declared schema.
func (m *Model) Schema() *Schema {
	return m.schema
}

// DataSource returns the attached datasource, or nil if the model is a pure
// facade with no backing store of its own.
func (m *Model) DataSource() DataSource {
	return m.ds
}

// SetOperation installs a type-level operation under name, shadowing or
// adding to any pre-existing operation of that name.
func (m *Model) SetOperation(name string, op Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.static[name] = op
}

// Operation returns the type-level operation registered under name.
func (m *Model) Operation(name string) (Operation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	op, ok := m.static[name]
	return op, ok
}

// SetRecordOperation installs a record-level operation under name, shadowing
// or adding to any pre-existing operation of that name.
func (m *Model) SetRecordOperation(name string, op RecordOperation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record[name] = op
}

// RecordOperation returns the record-level operation registered under name.
func (m *Model) RecordOperation(name string) (RecordOperation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	op, ok := m.record[name]
	return op, ok
}

// OperationNames returns the names of all type-level operations.
func (m *Model) OperationNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.static))
	for name := range m.static {
		names = append(names, name)
	}
	return names
}

// RecordOperationNames returns the names of all record-level operations.
func (m *Model) RecordOperationNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.record))
	for name := range m.record {
		names = append(names, name)
	}
	return names
}
