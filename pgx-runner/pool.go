package runner

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is a pgx connection pool.
type Pool struct {
	Pool *pgxpool.Pool
	*Queryable
}

// NewPool connects a pool from a DSN and verifies it with a ping.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, logger.Error("Could not create pool", "err", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, logger.Error("Could not ping database", "err", err)
	}
	return &Pool{Pool: pool, Queryable: &Queryable{q: pool}}, nil
}

// Close closes all connections in the pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// Tx is a pgx transaction.
type Tx struct {
	tx pgx.Tx
	*Queryable
}

// Begin starts a transaction.
func (p *Pool) Begin(ctx context.Context) (*Tx, error) {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return nil, logger.Error("begin.error", "err", err)
	}
	return &Tx{tx: tx, Queryable: &Queryable{q: tx}}, nil
}

// Begin starts a pseudo nested transaction backed by a savepoint.
func (tx *Tx) Begin(ctx context.Context) (*Tx, error) {
	nested, err := tx.tx.Begin(ctx)
	if err != nil {
		return nil, logger.Error("begin.nested.error", "err", err)
	}
	return &Tx{tx: nested, Queryable: &Queryable{q: nested}}, nil
}

// Commit commits the transaction, or releases the savepoint of a nested one.
func (tx *Tx) Commit(ctx context.Context) error {
	return tx.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back a committed transaction
// is a no-op, so Rollback may be deferred.
func (tx *Tx) Rollback(ctx context.Context) error {
	err := tx.tx.Rollback(ctx)
	if err == pgx.ErrTxClosed {
		return nil
	}
	return err
}
