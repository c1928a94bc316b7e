package runner

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mgutz/pgchain"
	guid "github.com/satori/go.uuid"
)

// Result serves the same purpose as sql.Result. Defining
// it for the package avoids tight coupling with database/sql.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Execer executes a builder's query against a database.
type Execer struct {
	database
	canceler database
	builder  pgchain.Builder

	cacheID         string
	cacheTTL        time.Duration
	cacheInvalidate bool

	timeout time.Duration
	queryID string
}

// NewExecer creates a new instance of Execer. canceler runs cancellation of
// timed out queries and may be nil if Timeout is never used.
func NewExecer(database database, canceler database, builder pgchain.Builder) *Execer {
	return &Execer{
		database: database,
		canceler: canceler,
		builder:  builder,
	}
}

// Cache caches the results of queries. If id is empty, the key is derived
// from the rendered SQL and its params. invalidate forces the query to run
// and refresh the cached value.
func (ex *Execer) Cache(id string, ttl time.Duration, invalidate bool) *Execer {
	ex.cacheID = id
	ex.cacheTTL = ttl
	ex.cacheInvalidate = invalidate
	return ex
}

// Timeout cancels the query on the server if it runs longer than d and
// returns pgchain.ErrTimedout.
func (ex *Execer) Timeout(d time.Duration) *Execer {
	ex.timeout = d
	ex.queryID = guid.NewV4().String()
	return ex
}

// Exec executes a builder's query.
func (ex *Execer) Exec() (*Result, error) {
	var result *Result
	err := ex.run(func() error {
		res, err := ex.execFn()
		if err != nil {
			return err
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		result = &Result{RowsAffected: rowsAffected}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Queryx executes builder's query and returns rows. Timeout does not apply
// since the rows are read by the caller.
func (ex *Execer) Queryx() (*sqlx.Rows, error) {
	return ex.queryFn()
}

// QueryScalar executes builder's query and scans returned row into destinations.
func (ex *Execer) QueryScalar(destinations ...interface{}) error {
	return ex.run(func() error {
		return ex.queryScalarFn(destinations)
	})
}

// QuerySlice executes builder's query and builds a slice of values from each row, where
// each row only has one column.
func (ex *Execer) QuerySlice(dest interface{}) error {
	return ex.run(func() error {
		return ex.querySliceFn(dest)
	})
}

// QueryStruct executes builders' query and scans the result row into dest.
func (ex *Execer) QueryStruct(dest interface{}) error {
	return ex.run(func() error {
		return ex.queryStructFn(dest)
	})
}

// QueryStructs executes builders' query and scans each row as an item in a slice of structs.
func (ex *Execer) QueryStructs(dest interface{}) error {
	return ex.run(func() error {
		return ex.queryStructsFn(dest)
	})
}

// QueryJSON wraps the builder's query within a `to_json` then executes and returns
// the JSON []byte representation.
func (ex *Execer) QueryJSON() ([]byte, error) {
	var b []byte
	err := ex.run(func() error {
		var err error
		b, err = ex.queryJSONFn()
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// QueryObject wraps the builder's query within a `to_json` then executes and unmarshals
// the result into dest.
func (ex *Execer) QueryObject(dest interface{}) error {
	b, err := ex.QueryJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}
