package connector

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

func connectedSQLite(t *testing.T) model.DataSource {
	t.Helper()
	ds := NewSQLite(":memory:", nil)
	require.NoError(t, ds.Connect(context.Background()))
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestSQLite_RoundTrip(t *testing.T) {
	ds := connectedSQLite(t)
	ctx := context.Background()

	created, err := ds.Create(ctx, "CoffeeShop", map[string]any{"prop": "hello"})
	require.NoError(t, err)
	id := created[model.IDField].(string)
	require.NotEmpty(t, id)

	found, err := ds.FindByID(ctx, "CoffeeShop", id)
	require.NoError(t, err)
	assert.Equal(t, "hello", found["prop"])

	updated, err := ds.UpdateAttributes(ctx, "CoffeeShop", id, map[string]any{
		"prop": "goodbye",
		"id":   "hijack",
	})
	require.NoError(t, err)
	assert.Equal(t, "goodbye", updated["prop"])
	assert.Equal(t, id, updated[model.IDField], "identifier must not change")

	count, err := ds.Count(ctx, "CoffeeShop")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, ds.Destroy(ctx, "CoffeeShop", id))
	_, err = ds.FindByID(ctx, "CoffeeShop", id)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSQLite_FindPreservesCreationOrder(t *testing.T) {
	ds := connectedSQLite(t)
	ctx := context.Background()

	for i, prop := range []string{"a", "b", "c"} {
		// Fixed identifiers keep the created_at tiebreak deterministic.
		_, err := ds.Create(ctx, "CoffeeShop", map[string]any{"id": string(rune('1' + i)), "prop": prop})
		require.NoError(t, err)
	}

	rows, err := ds.Find(ctx, "CoffeeShop")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, rows[i]["prop"])
	}
}

func TestSQLite_ModelsAreIsolated(t *testing.T) {
	ds := connectedSQLite(t)
	ctx := context.Background()

	_, err := ds.Create(ctx, "CoffeeShop", map[string]any{"prop": "a"})
	require.NoError(t, err)

	rows, err := ds.Find(ctx, "TeaHouse")
	require.NoError(t, err)
	assert.Empty(t, rows)

	count, err := ds.Count(ctx, "TeaHouse")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSQLite_NotFoundErrors(t *testing.T) {
	ds := connectedSQLite(t)
	ctx := context.Background()

	_, err := ds.FindByID(ctx, "CoffeeShop", "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = ds.UpdateAttributes(ctx, "CoffeeShop", "missing", map[string]any{"prop": "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, ds.Destroy(ctx, "CoffeeShop", "missing"), model.ErrNotFound)
}

func TestSQLStore_NotConnected(t *testing.T) {
	ds := NewSQLite(":memory:", nil)
	ctx := context.Background()

	_, err := ds.Create(ctx, "CoffeeShop", map[string]any{})
	assert.ErrorContains(t, err, "not connected")
	_, err = ds.FindByID(ctx, "CoffeeShop", "x")
	assert.ErrorContains(t, err, "not connected")
	_, err = ds.Find(ctx, "CoffeeShop")
	assert.ErrorContains(t, err, "not connected")
	assert.ErrorContains(t, ds.Destroy(ctx, "CoffeeShop", "x"), "not connected")
	_, err = ds.Count(ctx, "CoffeeShop")
	assert.ErrorContains(t, err, "not connected")
}

func TestSQLStore_Bind(t *testing.T) {
	sqlite := &sqlStore{}
	postgres := &sqlStore{numbered: true}

	query := "SELECT data FROM records WHERE model = ? AND id = ?"
	assert.Equal(t, query, sqlite.bind(query))
	assert.Equal(t, "SELECT data FROM records WHERE model = $1 AND id = $2", postgres.bind(query))
	assert.Equal(t, "SELECT 1", postgres.bind("SELECT 1"))
}

func TestSQLStore_DatabaseErrorsPropagate(t *testing.T) {
	dbErr := errors.New("connection reset")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		call      func(ds model.DataSource) error
	}{
		{
			name: "create",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO records").WillReturnError(dbErr)
			},
			call: func(ds model.DataSource) error {
				_, err := ds.Create(context.Background(), "CoffeeShop", map[string]any{"prop": "x"})
				return err
			},
		},
		{
			name: "findById",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT data FROM records").WillReturnError(dbErr)
			},
			call: func(ds model.DataSource) error {
				_, err := ds.FindByID(context.Background(), "CoffeeShop", "1")
				return err
			},
		},
		{
			name: "find",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT data FROM records").WillReturnError(dbErr)
			},
			call: func(ds model.DataSource) error {
				_, err := ds.Find(context.Background(), "CoffeeShop")
				return err
			},
		},
		{
			name: "destroy",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM records").WillReturnError(dbErr)
			},
			call: func(ds model.DataSource) error {
				return ds.Destroy(context.Background(), "CoffeeShop", "1")
			},
		},
		{
			name: "count",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM records`).WillReturnError(dbErr)
			},
			call: func(ds model.DataSource) error {
				_, err := ds.Count(context.Background(), "CoffeeShop")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			store := &sqlStore{name: "sqlite", logger: slog.New(slog.DiscardHandler)}
			store.SetDB(db)
			tt.setupMock(mock)

			assert.ErrorIs(t, tt.call(store), dbErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_MalformedStoredDataFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &sqlStore{name: "sqlite", logger: slog.New(slog.DiscardHandler)}
	store.SetDB(db)

	mock.ExpectQuery("SELECT data FROM records").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow("{not json"))

	_, err = store.FindByID(context.Background(), "CoffeeShop", "1")
	assert.ErrorContains(t, err, "failed to decode record")
	assert.NoError(t, mock.ExpectationsWereMet())
}
