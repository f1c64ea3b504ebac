package connector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

func init() {
	Register("memory", func(_ Config, logger *slog.Logger) model.DataSource {
		return NewMemory(logger)
	})
}

// Memory is an in-process datasource. Records are held per model in
// insertion order. It is safe for concurrent use.
type Memory struct {
	logger *slog.Logger

	mu     sync.RWMutex
	data   map[string]map[string]map[string]any
	order  map[string][]string
	closed bool
}

// NewMemory creates an empty in-memory datasource.
func NewMemory(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Memory{
		logger: logger,
		data:   make(map[string]map[string]map[string]any),
		order:  make(map[string][]string),
	}
}

// Name returns "memory".
func (m *Memory) Name() string { return "memory" }

// Connect is a no-op for the in-memory store.
func (m *Memory) Connect(_ context.Context) error { return nil }

// Close drops all stored records.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string]map[string]any)
	m.order = make(map[string][]string)
	m.closed = true
	return nil
}

// Create stores a new record, generating an identifier when none is given.
func (m *Memory) Create(_ context.Context, modelName string, fields map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyFields(fields)
	id, _ := stored[model.IDField].(string)
	if id == "" {
		id = uuid.New().String()
		stored[model.IDField] = id
	}

	records := m.data[modelName]
	if records == nil {
		records = make(map[string]map[string]any)
		m.data[modelName] = records
	}
	if _, exists := records[id]; exists {
		return nil, fmt.Errorf("model %s: record %s already exists", modelName, id)
	}
	records[id] = stored
	m.order[modelName] = append(m.order[modelName], id)

	m.logger.Debug("created record", "model", modelName, "id", id)
	return copyFields(stored), nil
}

// FindByID returns the identified record's fields.
func (m *Memory) FindByID(_ context.Context, modelName, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.data[modelName][id]
	if !ok {
		return nil, fmt.Errorf("model %s, id %s: %w", modelName, id, model.ErrNotFound)
	}
	return copyFields(fields), nil
}

// Find returns all records of the model in creation order.
func (m *Memory) Find(_ context.Context, modelName string) ([]map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.order[modelName]
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		if fields, ok := m.data[modelName][id]; ok {
			out = append(out, copyFields(fields))
		}
	}
	return out, nil
}

// UpdateAttributes merges fields into the identified record.
func (m *Memory) UpdateAttributes(_ context.Context, modelName, id string, fields map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.data[modelName][id]
	if !ok {
		return nil, fmt.Errorf("model %s, id %s: %w", modelName, id, model.ErrNotFound)
	}
	for k, v := range fields {
		if k == model.IDField {
			// Identifiers are immutable.
			continue
		}
		stored[k] = v
	}
	m.logger.Debug("updated record", "model", modelName, "id", id)
	return copyFields(stored), nil
}

// Destroy removes the identified record.
func (m *Memory) Destroy(_ context.Context, modelName, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[modelName][id]; !ok {
		return fmt.Errorf("model %s, id %s: %w", modelName, id, model.ErrNotFound)
	}
	delete(m.data[modelName], id)
	ids := m.order[modelName]
	for i, other := range ids {
		if other == id {
			m.order[modelName] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	m.logger.Debug("destroyed record", "model", modelName, "id", id)
	return nil
}

// Count returns the number of records of the model.
func (m *Memory) Count(_ context.Context, modelName string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data[modelName])), nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
