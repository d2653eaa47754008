package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
)

// Migrate applies the tern migrations found at the root of migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, cfg *Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, cfg.MigrationTimeout)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	migrator, err := migrate.NewMigrator(ctx, conn.Conn(), cfg.MigrationTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := migrator.LoadMigrations(migrations); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	current, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	latest := int32(len(migrator.Migrations))
	if current >= latest {
		logger.Info("database schema up to date", slog.Int("version", int(current)))
		return nil
	}

	logger.Info("applying database migrations",
		slog.Int("current_version", int(current)),
		slog.Int("target_version", int(latest)))

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("migrations completed",
		slog.Int("from_version", int(current)),
		slog.Int("to_version", int(latest)),
		slog.Duration("duration", time.Since(start)))

	return nil
}
