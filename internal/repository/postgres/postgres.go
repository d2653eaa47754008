package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garnizeh/feedback/pkg/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements the repository interfaces on top of a pgx pool.
type Repo struct {
	pool   *pgxpool.Pool
	q      querier
	inTx   bool
	logger *slog.Logger
}

var _ repository.Store = (*Repo)(nil)

func New(pool *pgxpool.Pool, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{pool: pool, q: pool, logger: logger.With("component", "repository/postgres")}
}

func (r *Repo) WithTx(ctx context.Context, fn func(q repository.Queries) error) error {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.Warn("rollback failed", "error", err)
		}
	}()

	if err := fn(&Repo{pool: r.pool, q: tx, inTx: true, logger: r.logger}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
