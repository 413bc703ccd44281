package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxTxAttempts bounds automatic retries of serialization failures.
// Deliberate conflicts (unique violations) are never retried.
const maxTxAttempts = 3

// DB is the subset of pgx the repositories need. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so the same repository code runs inside and
// outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store owns the connection pool and hands out repositories bound to it.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RunTx executes fn inside a transaction, serializable unless opts say
// otherwise. Serialization failures and deadlocks are retried up to
// maxTxAttempts, so fn must be safe to re-execute from scratch.
func (s *Store) RunTx(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx DB) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}
	if opts != nil {
		txOpts = *opts
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTxOnce(ctx, txOpts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("tx retries exhausted: %w", err)
}

func (s *Store) runTxOnce(
	ctx context.Context,
	opts pgx.TxOptions,
	fn func(ctx context.Context, tx DB) error,
) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Store) Catalog() *CatalogRepo  { return &CatalogRepo{pool: s.pool} }
func (s *Store) Journeys() *JourneyRepo { return &JourneyRepo{pool: s.pool} }
func (s *Store) Orders() *OrderRepo     { return &OrderRepo{pool: s.pool} }
func (s *Store) Audit() *AuditRepo      { return &AuditRepo{pool: s.pool} }
