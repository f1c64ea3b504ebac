package connector

import (
	"log/slog"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

func init() {
	Register("sqlite", func(cfg Config, logger *slog.Logger) model.DataSource {
		return NewSQLite(cfg.Path, logger)
	})
}

// NewSQLite creates a sqlite-backed datasource. Use ":memory:" (or an empty
// path) for an in-memory database.
func NewSQLite(path string, logger *slog.Logger) model.DataSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	return &sqlStore{
		name:         "sqlite",
		driver:       "sqlite",
		dsn:          dsn,
		gooseDialect: "sqlite",
		logger:       logger,
	}
}
