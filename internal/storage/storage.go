// Package storage opens the configured database, applies its migrations and
// returns the matching repository.Store.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	dbfs "github.com/garnizeh/feedback/db"
	"github.com/garnizeh/feedback/internal/config"
	"github.com/garnizeh/feedback/internal/db"
	pgdb "github.com/garnizeh/feedback/internal/db/postgres"
	pgrepo "github.com/garnizeh/feedback/internal/repository/postgres"
	sqliterepo "github.com/garnizeh/feedback/internal/repository/sqlite"
	"github.com/garnizeh/feedback/pkg/repository"
)

// Handle owns the open connection behind Store.
type Handle struct {
	Store repository.Store

	// SQLite is set for the sqlite driver, Pool for postgres.
	SQLite *db.DB
	Pool   *pgxpool.Pool
}

func (h *Handle) Close() error {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.SQLite != nil {
		return h.SQLite.Close()
	}
	return nil
}

// Open connects to the database described by cfg and migrates it to the latest schema.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*Handle, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err := db.New(ctx, db.DSN(cfg.Path), logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, conn, dbfs.SQLiteMigrations, "migrations/sqlite"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		logger.Info("sqlite store ready", slog.String("path", cfg.Path))
		return &Handle{Store: sqliterepo.New(conn, logger), SQLite: conn}, nil

	case config.DriverPostgres:
		pool, err := pgdb.Connect(ctx, &cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		migrations, err := fs.Sub(dbfs.PostgresMigrations, "migrations/postgres")
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		if err := pgdb.Migrate(ctx, pool, migrations, &cfg.Postgres, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("postgres store ready")
		return &Handle{Store: pgrepo.New(pool, logger), Pool: pool}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
