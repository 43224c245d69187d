package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riascho/Budget-Project/internal/apperr"
)

// Connect builds the shared connection pool and verifies the store is
// reachable before the server starts taking requests.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// WithTx runs fn inside a single store transaction: begin, roll back on any
// error or rejection, commit only when fn returns nil. Every protocol that
// moves balance or budget goes through here, so no exit path can leave a
// partial write visible or leak a pooled connection.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Infrastructure("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Infrastructure("commit transaction", err)
	}
	return nil
}
