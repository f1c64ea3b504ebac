package connector

import (
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

func init() {
	Register("postgres", func(cfg Config, logger *slog.Logger) model.DataSource {
		return NewPostgres(cfg.DSN, logger)
	})
}

// NewPostgres creates a postgres-backed datasource from a pgx-compatible
// connection string.
func NewPostgres(dsn string, logger *slog.Logger) model.DataSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &sqlStore{
		name:         "postgres",
		driver:       "pgx",
		dsn:          dsn,
		gooseDialect: "postgres",
		numbered:     true,
		logger:       logger,
	}
}
