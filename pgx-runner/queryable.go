package runner

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mgutz/pgchain"
)

// querier is implemented by *pgxpool.Pool, pgx.Tx and *pgx.Conn.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Queryable runs builders against a pool or transaction. Deadlines and
// cancellation come from ctx.
type Queryable struct {
	q querier
}

// Exec executes the builder's statement and returns the rows affected.
func (q *Queryable) Exec(ctx context.Context, b pgchain.Builder) (int64, error) {
	sql, args, err := b.Interpolate()
	if err != nil {
		return 0, err
	}
	defer logExecutionTime(time.Now(), sql, args)

	tag, err := q.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, logSQLError(err, "Exec", sql, args)
	}
	return tag.RowsAffected(), nil
}

// QueryScalar scans the first row into dest. Returns pgchain.ErrNotFound if
// there are no rows.
func (q *Queryable) QueryScalar(ctx context.Context, b pgchain.Builder, dest ...interface{}) error {
	sql, args, err := b.Interpolate()
	if err != nil {
		return err
	}
	defer logExecutionTime(time.Now(), sql, args)

	if err = q.q.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		return logSQLError(err, "QueryScalar", sql, args)
	}
	return nil
}

// QueryMaps returns every row as a map of column name to value.
func (q *Queryable) QueryMaps(ctx context.Context, b pgchain.Builder) ([]map[string]interface{}, error) {
	sql, args, err := b.Interpolate()
	if err != nil {
		return nil, err
	}
	defer logExecutionTime(time.Now(), sql, args)

	rows, err := q.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, logSQLError(err, "QueryMaps.query", sql, args)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, logSQLError(err, "QueryMaps.collect", sql, args)
	}
	return maps, nil
}

// logSQLError maps driver errors to pgchain errors and logs anything else.
func logSQLError(err error, msg string, sql string, args []interface{}) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return pgchain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pgchain.ErrTimedout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.QueryCanceled {
		return pgchain.ErrTimedout
	}

	logger.Error(msg, "err", err, "sql", sql, "args", args)
	return err
}

func logExecutionTime(start time.Time, sql string, args []interface{}) {
	elapsed := time.Since(start)
	if LogQueriesThreshold > 0 && elapsed > LogQueriesThreshold {
		logger.Warn("SLOW query", "elapsed", elapsed.String(), "sql", sql, "args", args)
		return
	}
	if logger.IsInfo() {
		logger.Info("Query time", "elapsed", elapsed.String(), "sql", sql)
	}
}
