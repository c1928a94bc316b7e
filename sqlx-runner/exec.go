package runner

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mgutz/pgchain"
	"github.com/mgutz/pgchain/kvs"
)

// database is the interface for sqlx's DB or Tx against which
// queries can be executed
type database interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Queryx(query string, args ...interface{}) (*sqlx.Rows, error)
	QueryRowx(query string, args ...interface{}) *sqlx.Row
	Select(dest interface{}, query string, args ...interface{}) error
	Get(dest interface{}, query string, args ...interface{}) error
}

// queryIDPrefix starts the comment which tags a query that may be cancelled.
const queryIDPrefix = "/*pgchain:"

func toOutputStr(args []interface{}) string {
	if args == nil {
		return "nil"
	}
	var buf bytes.Buffer
	for i, arg := range args {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("$")
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteString("=")
		switch t := arg.(type) {
		default:
			buf.WriteString(fmt.Sprintf("%v", t))
		case []byte:
			buf.WriteString("<binary>")
		}
	}
	return buf.String()
}

func logSQLError(err error, msg string, statement string, args []interface{}) error {
	// a query may finish between the local timeout expiring and
	// pg_cancel_backend executing on the server
	if pe, ok := err.(*pq.Error); ok {
		if pe.Code == pgerrcode.QueryCanceled && strings.HasPrefix(statement, queryIDPrefix) {
			// the runner cancelled it, so this is a timeout and not a failure
			return pgchain.ErrTimedout
		}
	} else if err == sql.ErrNoRows || err == pgchain.ErrNotFound {
		if !LogErrNoRows {
			return pgchain.ErrNotFound
		}
		if pgchain.Strict {
			logger.Warn(msg, "err", err, "sql", statement, "args", toOutputStr(args))
		} else if logger.IsDebug() {
			logger.Debug(msg, "err", err, "sql", statement, "args", toOutputStr(args))
		}
		return pgchain.ErrNotFound
	}

	logger.Error(msg, "err", err, "sql", statement, "args", toOutputStr(args))
	return err
}

func logExecutionTime(start time.Time, sql string, args []interface{}) {
	logged := false
	if logger.IsWarn() {
		elapsed := time.Since(start)
		if LogQueriesThreshold > 0 && elapsed.Nanoseconds() > LogQueriesThreshold.Nanoseconds() {
			if len(args) > 0 {
				logger.Warn("SLOW query", "elapsed", elapsed.String(), "sql", sql, "args", toOutputStr(args))
			} else {
				logger.Warn("SLOW query", "elapsed", elapsed.String(), "sql", sql)
			}
			logged = true
		}
	}

	if logger.IsInfo() && !logged {
		elapsed := time.Since(start)
		logger.Info("Query time", "elapsed", elapsed.String(), "sql", sql)
	}
}

// run calls fn, cancelling the query on the server if the timeout expires
// first. run always waits for fn to return. If the cancel request could not
// be sent, the result of fn is returned.
func (ex *Execer) run(fn func() error) error {
	if ex.timeout == 0 {
		return fn()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(ex.timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		cancelErr := ex.Cancel()
		// fn writes into the caller's destinations, wait for it before returning
		err := <-done
		if cancelErr == pgchain.ErrTimedout {
			return cancelErr
		}
		return err
	case err := <-done:
		return err
	}
}

// Cancel cancels the query started by an Execer with a Timeout. It returns
// pgchain.ErrTimedout once the cancel request was sent.
func (ex *Execer) Cancel() error {
	if ex.queryID == "" || ex.canceler == nil {
		return pgchain.ErrInvalidOperation
	}

	// pid filter keeps the cancel statement from matching itself
	q := "SELECT pg_cancel_backend(pid) FROM pg_stat_activity WHERE query LIKE $1 AND pid <> pg_backend_pid()"
	pattern := ex.tag("") + "%"
	if _, err := ex.canceler.Exec(q, pattern); err != nil {
		return logSQLError(err, "Cancel.10: could not cancel query", q, []interface{}{pattern})
	}
	logger.Warn("Query cancelled after timeout", "queryID", ex.queryID, "timeout", ex.timeout.String())
	return pgchain.ErrTimedout
}

// tag prefixes sql with the query ID comment when a timeout is set.
func (ex *Execer) tag(sql string) string {
	if ex.queryID == "" {
		return sql
	}
	return queryIDPrefix + ex.queryID + "*/" + sql
}

// Interpolate renders the builder, inlining params if the builder
// interpolates.
func (ex *Execer) Interpolate() (string, []interface{}, error) {
	return ex.builder.Interpolate()
}

// execFn executes the query built by builder. Use execFn when data is not
// to be returned.
func (ex *Execer) execFn() (sql.Result, error) {
	fullSQL, args, err := ex.Interpolate()
	if err != nil {
		logger.Error("execFn.10", "err", err)
		return nil, err
	}
	fullSQL = ex.tag(fullSQL)
	defer logExecutionTime(time.Now(), fullSQL, args)

	result, err := ex.database.Exec(fullSQL, args...)
	if err != nil {
		return nil, logSQLError(err, "execFn.30", fullSQL, args)
	}
	return result, nil
}

func (ex *Execer) queryFn() (*sqlx.Rows, error) {
	fullSQL, args, err := ex.Interpolate()
	if err != nil {
		return nil, err
	}

	defer logExecutionTime(time.Now(), fullSQL, args)
	rows, err := ex.database.Queryx(fullSQL, args...)
	if err != nil {
		return nil, logSQLError(err, "queryFn.30", fullSQL, args)
	}
	return rows, nil
}

// queryScalarFn executes the query in builder and loads the resulting data
// into one or more destinations.
//
// Returns ErrNotFound if no value was found, and it was therefore not set.
func (ex *Execer) queryScalarFn(destinations []interface{}) error {
	fullSQL, args, blob, err := ex.cacheOrSQL()
	if err != nil {
		return err
	}
	if blob != nil {
		err = json.Unmarshal(blob, &destinations)
		if err == nil {
			return nil
		}
		logger.Warn("queryScalarFn.10: Could not unmarshal cache data. Continuing with query")
	}

	fullSQL = ex.tag(fullSQL)
	defer logExecutionTime(time.Now(), fullSQL, args)
	rows, err := ex.database.Queryx(fullSQL, args...)
	if err != nil {
		return logSQLError(err, "queryScalarFn.12: querying database", fullSQL, args)
	}

	defer rows.Close()
	if rows.Next() {
		err = rows.Scan(destinations...)
		if err != nil {
			return logSQLError(err, "queryScalarFn.14: scanning to destination", fullSQL, args)
		}
		ex.setCache(destinations, dtStruct)
		return nil
	}
	if err := rows.Err(); err != nil {
		return logSQLError(err, "queryScalarFn.20: iterating through rows", fullSQL, args)
	}

	return pgchain.ErrNotFound
}

// querySliceFn loads a single column from every row into dest, which must be
// a pointer to a slice of scannable values.
func (ex *Execer) querySliceFn(dest interface{}) error {
	fullSQL, args, blob, err := ex.cacheOrSQL()
	if err != nil {
		return err
	}
	if blob != nil {
		err = json.Unmarshal(blob, dest)
		if err == nil {
			return nil
		}
		logger.Warn("querySliceFn.10: Could not unmarshal cache data. Continuing with query")
	}

	fullSQL = ex.tag(fullSQL)
	defer logExecutionTime(time.Now(), fullSQL, args)
	if err = ex.database.Select(dest, fullSQL, args...); err != nil {
		return logSQLError(err, "querySliceFn.20", fullSQL, args)
	}

	ex.setCache(dest, dtStruct)
	return nil
}

// queryStructFn executes the query in builder and loads the resulting data
// into a struct. dest must be a pointer to a struct.
//
// Returns ErrNotFound if nothing was found
func (ex *Execer) queryStructFn(dest interface{}) error {
	fullSQL, args, blob, err := ex.cacheOrSQL()
	if err != nil {
		return err
	}
	if blob != nil {
		err = json.Unmarshal(blob, dest)
		if err == nil {
			return nil
		}
		logger.Warn("queryStructFn.10: Could not unmarshal cache data. Continuing with query")
	}

	fullSQL = ex.tag(fullSQL)
	defer logExecutionTime(time.Now(), fullSQL, args)
	if err = ex.database.Get(dest, fullSQL, args...); err != nil {
		return logSQLError(err, "queryStructFn.20", fullSQL, args)
	}

	ex.setCache(dest, dtStruct)
	return nil
}

// queryStructsFn executes the query in builder and loads the resulting data
// into a slice of structs. dest must be a pointer to a slice of structs or
// pointers to structs.
func (ex *Execer) queryStructsFn(dest interface{}) error {
	fullSQL, args, blob, err := ex.cacheOrSQL()
	if err != nil {
		return err
	}
	if blob != nil {
		err = json.Unmarshal(blob, dest)
		if err == nil {
			return nil
		}
		logger.Warn("queryStructsFn.10: Could not unmarshal cache data. Continuing with query", "err", err)
	}

	fullSQL = ex.tag(fullSQL)
	defer logExecutionTime(time.Now(), fullSQL, args)
	if err = ex.database.Select(dest, fullSQL, args...); err != nil {
		return logSQLError(err, "queryStructsFn.20", fullSQL, args)
	}

	ex.setCache(dest, dtStruct)
	return nil
}

// queryJSONFn executes the query in builder as a JSON array of row objects.
//
// Returns ErrNotFound if nothing was found
func (ex *Execer) queryJSONFn() ([]byte, error) {
	fullSQL, args, blob, err := ex.cacheOrSQL()
	if err != nil {
		return nil, err
	}
	if blob != nil {
		return blob, nil
	}

	jsonSQL := ex.tag(fmt.Sprintf("SELECT TO_JSON(ARRAY_AGG(__pgq.*)) FROM (%s) AS __pgq", fullSQL))
	defer logExecutionTime(time.Now(), jsonSQL, args)

	if err = ex.database.Get(&blob, jsonSQL, args...); err != nil {
		return nil, logSQLError(err, "queryJSONFn.20", jsonSQL, args)
	}
	// ARRAY_AGG of no rows is NULL
	if blob == nil {
		return nil, pgchain.ErrNotFound
	}

	ex.setCache(blob, dtBytes)
	return blob, nil
}

// cacheOrSQL attempts to get a value from cache, otherwise it builds
// the SQL and args to be executed. Returns sql, args, value, err.
func (ex *Execer) cacheOrSQL() (string, []interface{}, []byte, error) {
	// if a cacheID exists, return the value ASAP
	if Cache != nil && ex.cacheTTL > 0 && ex.cacheID != "" && !ex.cacheInvalidate {
		v, err := Cache.Get(ex.cacheID)
		if err != nil && err != kvs.ErrNotFound {
			logger.Error("Unable to read cache key. Continuing with query", "key", ex.cacheID, "err", err)
		} else if v != "" {
			return "", nil, []byte(v), nil
		}
	}

	fullSQL, args, err := ex.Interpolate()
	if err != nil {
		return "", nil, nil, err
	}

	// without a cacheID the statement and its params are the key
	if Cache != nil && ex.cacheTTL > 0 && ex.cacheID == "" {
		key, err := kvs.CacheKey(fullSQL, args)
		if err != nil {
			logger.Warn("Could not derive cache key. Continuing without cache", "err", err)
			return fullSQL, args, nil, nil
		}
		// setCache uses the derived key
		ex.cacheID = key

		if !ex.cacheInvalidate {
			v, err := Cache.Get(ex.cacheID)
			if err == nil && v != "" {
				return "", nil, []byte(v), nil
			}
		}
	}

	return fullSQL, args, nil, nil
}

const (
	dtStruct = iota
	dtBytes
)

// setCache sets the cache value using the ex.cacheID key. Note that
// ex.cacheID is set as a side-effect of calling cacheOrSQL above if it was
// not set. data must be a []byte or a value that json.Marshal accepts.
func (ex *Execer) setCache(data interface{}, dataType int) {
	if Cache == nil || ex.cacheTTL < 1 || ex.cacheID == "" {
		return
	}

	var s string
	switch dataType {
	case dtStruct:
		b, err := json.Marshal(data)
		if err != nil {
			logger.Warn("Could not marshal data, clearing", "key", ex.cacheID, "err", err)
			if err = Cache.Del(ex.cacheID); err != nil {
				logger.Error("Could not delete cache key", "key", ex.cacheID, "err", err)
			}
			return
		}
		s = string(b)
	case dtBytes:
		s = string(data.([]byte))
	}

	if err := Cache.Set(ex.cacheID, s, ex.cacheTTL); err != nil {
		logger.Warn("Could not set cache. Query will proceed without caching", "err", err)
	}
}
