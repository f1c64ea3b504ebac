package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal in-test DataSource with deterministic identifiers.
type fakeStore struct {
	next int
	data map[string]map[string]map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]map[string]map[string]any)}
}

func (s *fakeStore) Name() string                  { return "fake" }
func (s *fakeStore) Connect(context.Context) error { return nil }
func (s *fakeStore) Close() error                  { return nil }

func (s *fakeStore) Create(_ context.Context, modelName string, fields map[string]any) (map[string]any, error) {
	s.next++
	id := fmt.Sprintf("id-%d", s.next)
	stored := map[string]any{IDField: id}
	for k, v := range fields {
		stored[k] = v
	}
	if s.data[modelName] == nil {
		s.data[modelName] = make(map[string]map[string]any)
	}
	s.data[modelName][id] = stored
	return stored, nil
}

func (s *fakeStore) FindByID(_ context.Context, modelName, id string) (map[string]any, error) {
	fields, ok := s.data[modelName][id]
	if !ok {
		return nil, fmt.Errorf("model %s, id %s: %w", modelName, id, ErrNotFound)
	}
	return fields, nil
}

func (s *fakeStore) Find(_ context.Context, modelName string) ([]map[string]any, error) {
	var out []map[string]any
	for i := 1; i <= s.next; i++ {
		if fields, ok := s.data[modelName][fmt.Sprintf("id-%d", i)]; ok {
			out = append(out, fields)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateAttributes(_ context.Context, modelName, id string, fields map[string]any) (map[string]any, error) {
	stored, ok := s.data[modelName][id]
	if !ok {
		return nil, fmt.Errorf("model %s, id %s: %w", modelName, id, ErrNotFound)
	}
	for k, v := range fields {
		if k == IDField {
			continue
		}
		stored[k] = v
	}
	return stored, nil
}

func (s *fakeStore) Destroy(_ context.Context, modelName, id string) error {
	if _, ok := s.data[modelName][id]; !ok {
		return fmt.Errorf("model %s, id %s: %w", modelName, id, ErrNotFound)
	}
	delete(s.data[modelName], id)
	return nil
}

func (s *fakeStore) Count(_ context.Context, modelName string) (int64, error) {
	return int64(len(s.data[modelName])), nil
}

func attachedModel(t *testing.T) *Model {
	t.Helper()
	m := New("CoffeeShop", NewSchema("CoffeeShop", []string{"prop"}))
	m.Attach(newFakeStore())
	return m
}

func runOp(t *testing.T, m *Model, name string, args ...any) (any, error) {
	t.Helper()
	op, ok := m.Operation(name)
	require.True(t, ok, "built-in %s missing", name)
	return op(context.Background(), args)
}

func runRecordOp(t *testing.T, m *Model, name, id string, args ...any) (any, error) {
	t.Helper()
	op, ok := m.RecordOperation(name)
	require.True(t, ok, "built-in record op %s missing", name)
	return op(context.Background(), id, args)
}

func TestAttach_InstallsBuiltins(t *testing.T) {
	m := attachedModel(t)

	assert.NotNil(t, m.DataSource())
	for _, name := range []string{OpCreate, OpFindByID, OpFind, OpDestroyByID, OpCount} {
		_, ok := m.Operation(name)
		assert.True(t, ok, name)
	}
	for _, name := range []string{OpUpdateAttributes, OpReload, OpDestroy} {
		_, ok := m.RecordOperation(name)
		assert.True(t, ok, name)
	}
}

func TestBuiltin_CreateAndFindByID(t *testing.T) {
	m := attachedModel(t)

	created, err := runOp(t, m, OpCreate, map[string]any{"prop": "hello"})
	require.NoError(t, err)
	rec := created.(*Record)
	assert.Equal(t, "CoffeeShop", rec.TypeName())
	require.NotEmpty(t, rec.ID())

	found, err := runOp(t, m, OpFindByID, rec.ID())
	require.NoError(t, err)
	v, _ := found.(*Record).Get("prop")
	assert.Equal(t, "hello", v)
}

func TestBuiltin_FindReturnsTaggedRecords(t *testing.T) {
	m := attachedModel(t)
	for _, prop := range []string{"a", "b"} {
		_, err := runOp(t, m, OpCreate, map[string]any{"prop": prop})
		require.NoError(t, err)
	}

	got, err := runOp(t, m, OpFind)
	require.NoError(t, err)
	records := got.([]*Record)
	require.Len(t, records, 2)
	for i, want := range []string{"a", "b"} {
		assert.Equal(t, "CoffeeShop", records[i].TypeName())
		v, _ := records[i].Get("prop")
		assert.Equal(t, want, v)
	}
}

func TestBuiltin_UpdateAndReloadShareIdentifier(t *testing.T) {
	m := attachedModel(t)
	created, err := runOp(t, m, OpCreate, map[string]any{"prop": "hello"})
	require.NoError(t, err)
	id := created.(*Record).ID()

	updated, err := runRecordOp(t, m, OpUpdateAttributes, id, map[string]any{"prop": "goodbye"})
	require.NoError(t, err)
	v, _ := updated.(*Record).Get("prop")
	assert.Equal(t, "goodbye", v)

	reloaded, err := runRecordOp(t, m, OpReload, id)
	require.NoError(t, err)
	v, _ = reloaded.(*Record).Get("prop")
	assert.Equal(t, "goodbye", v)
	assert.Equal(t, id, reloaded.(*Record).ID())
}

func TestBuiltin_DestroyAndCount(t *testing.T) {
	m := attachedModel(t)
	created, err := runOp(t, m, OpCreate, map[string]any{"prop": "hello"})
	require.NoError(t, err)
	id := created.(*Record).ID()

	count, err := runOp(t, m, OpCount)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = runRecordOp(t, m, OpDestroy, id)
	require.NoError(t, err)

	count, err = runOp(t, m, OpCount)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = runOp(t, m, OpFindByID, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuiltin_ArgumentValidation(t *testing.T) {
	m := attachedModel(t)

	tests := []struct {
		name string
		call func() (any, error)
	}{
		{"create without fields", func() (any, error) { return runOp(t, m, OpCreate) }},
		{"create with wrong type", func() (any, error) { return runOp(t, m, OpCreate, 42) }},
		{"findById without id", func() (any, error) { return runOp(t, m, OpFindByID) }},
		{"findById with wrong type", func() (any, error) { return runOp(t, m, OpFindByID, 42) }},
		{"destroyById without id", func() (any, error) { return runOp(t, m, OpDestroyByID) }},
		{"updateAttributes without fields", func() (any, error) { return runRecordOp(t, m, OpUpdateAttributes, "id-1") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			assert.Error(t, err)
		})
	}
}

func TestBuiltin_CreateAcceptsRecordArgument(t *testing.T) {
	m := attachedModel(t)
	src := NewRecord("Anything", map[string]any{"prop": "from-record"})

	created, err := runOp(t, m, OpCreate, src)
	require.NoError(t, err)
	v, _ := created.(*Record).Get("prop")
	assert.Equal(t, "from-record", v)
}
