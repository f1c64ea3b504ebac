package connector

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// sqlStore implements model.DataSource over a generic JSON-document table
// shared by the SQL connectors. Records live in a single "records" table
// keyed by (model, id) with their fields serialized into a data column.
type sqlStore struct {
	name         string
	driver       string
	dsn          string
	gooseDialect string
	numbered     bool // rewrite ? placeholders to $n (postgres)
	logger       *slog.Logger

	db *sql.DB
}

// Name returns the connector type name.
func (s *sqlStore) Name() string { return s.name }

// Connect opens the database, verifies connectivity, and runs pending
// migrations for the records table.
func (s *sqlStore) Connect(ctx context.Context) error {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", s.name, err)
	}
	if s.dsn == ":memory:" {
		// An in-memory sqlite database exists per connection; keep the pool
		// at a single connection so every statement sees the same database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s database: %w", s.name, err)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(s.gooseDialect); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = db
	s.logger.Debug("connected datasource", "connector", s.name)
	return nil
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SetDB injects an existing database handle, skipping Connect. Used by tests
// that drive the store against a mock connection.
func (s *sqlStore) SetDB(db *sql.DB) {
	s.db = db
}

// Create stores a new record, generating an identifier when none is given.
func (s *sqlStore) Create(ctx context.Context, modelName string, fields map[string]any) (map[string]any, error) {
	if s.db == nil {
		return nil, errNotConnected(s.name)
	}
	stored := copyFields(fields)
	id, _ := stored[model.IDField].(string)
	if id == "" {
		id = uuid.New().String()
		stored[model.IDField] = id
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("model %s: failed to encode record: %w", modelName, err)
	}
	_, err = s.db.ExecContext(ctx,
		s.bind("INSERT INTO records (model, id, data, created_at) VALUES (?, ?, ?, ?)"),
		modelName, id, string(data), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("model %s: failed to create record: %w", modelName, err)
	}
	return stored, nil
}

// FindByID returns the identified record's fields.
func (s *sqlStore) FindByID(ctx context.Context, modelName, id string) (map[string]any, error) {
	if s.db == nil {
		return nil, errNotConnected(s.name)
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		s.bind("SELECT data FROM records WHERE model = ? AND id = ?"),
		modelName, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("model %s, id %s: %w", modelName, id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("model %s: failed to load record: %w", modelName, err)
	}
	return decodeFields(modelName, data)
}

// Find returns all records of the model in creation order.
func (s *sqlStore) Find(ctx context.Context, modelName string) ([]map[string]any, error) {
	if s.db == nil {
		return nil, errNotConnected(s.name)
	}
	rows, err := s.db.QueryContext(ctx,
		s.bind("SELECT data FROM records WHERE model = ? ORDER BY created_at, id"),
		modelName)
	if err != nil {
		return nil, fmt.Errorf("model %s: failed to query records: %w", modelName, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("model %s: failed to scan record: %w", modelName, err)
		}
		fields, err := decodeFields(modelName, data)
		if err != nil {
			return nil, err
		}
		out = append(out, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("model %s: failed to iterate records: %w", modelName, err)
	}
	return out, nil
}

// UpdateAttributes merges fields into the identified record.
func (s *sqlStore) UpdateAttributes(ctx context.Context, modelName, id string, fields map[string]any) (map[string]any, error) {
	stored, err := s.FindByID(ctx, modelName, id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		if k == model.IDField {
			// Identifiers are immutable.
			continue
		}
		stored[k] = v
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("model %s: failed to encode record: %w", modelName, err)
	}
	res, err := s.db.ExecContext(ctx,
		s.bind("UPDATE records SET data = ? WHERE model = ? AND id = ?"),
		string(data), modelName, id)
	if err != nil {
		return nil, fmt.Errorf("model %s: failed to update record: %w", modelName, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("model %s, id %s: %w", modelName, id, model.ErrNotFound)
	}
	return stored, nil
}

// Destroy removes the identified record.
func (s *sqlStore) Destroy(ctx context.Context, modelName, id string) error {
	if s.db == nil {
		return errNotConnected(s.name)
	}
	res, err := s.db.ExecContext(ctx,
		s.bind("DELETE FROM records WHERE model = ? AND id = ?"),
		modelName, id)
	if err != nil {
		return fmt.Errorf("model %s: failed to destroy record: %w", modelName, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("model %s, id %s: %w", modelName, id, model.ErrNotFound)
	}
	return nil
}

// Count returns the number of records of the model.
func (s *sqlStore) Count(ctx context.Context, modelName string) (int64, error) {
	if s.db == nil {
		return 0, errNotConnected(s.name)
	}
	var n int64
	err := s.db.QueryRowContext(ctx,
		s.bind("SELECT COUNT(*) FROM records WHERE model = ?"),
		modelName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("model %s: failed to count records: %w", modelName, err)
	}
	return n, nil
}

// bind rewrites ? placeholders to $1..$n for drivers that need numbered
// placeholders.
func (s *sqlStore) bind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func decodeFields(modelName, data string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("model %s: failed to decode record: %w", modelName, err)
	}
	return fields, nil
}

func errNotConnected(name string) error {
	return fmt.Errorf("%s datasource not connected", name)
}
