package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is executed inside a transaction.
type TxFunc func(pgx.Tx) error

// WithTransaction runs fn inside a transaction. The transaction is rolled
// back if fn returns an error or panics, and committed otherwise.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithSavepoint runs fn inside a nested transaction (savepoint) on tx.
// A failed row-level statement poisons a Postgres transaction, so callers
// that want to keep going after an error must scope each unit of work to
// its own savepoint.
func WithSavepoint(ctx context.Context, tx pgx.Tx, fn TxFunc) error {
	nested, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(nested); err != nil {
		_ = nested.Rollback(ctx)
		return err
	}

	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}

	return nil
}
