package runner

import (
	"github.com/mgutz/pgchain"
)

// Queryable is an object that can be queried.
type Queryable struct {
	runner database
	// canceler runs pg_cancel_backend outside of runner, which is busy
	// with the query being cancelled
	canceler database
}

// Connection is a queryable connection and represents a DB or Tx.
type Connection interface {
	Begin() (*Tx, error)
	Exec(b pgchain.Builder) *Execer
	ExecMulti(builders ...pgchain.Builder) (int, error)
	SQL(sql string, args ...interface{}) *Execer
}

var _ Connection = (*DB)(nil)
var _ Connection = (*Tx)(nil)

// Exec binds a builder to this connection. Nothing runs until one of the
// Execer's methods is called.
//
//	var n int
//	err := db.Exec(pgchain.Select("count(*)").From("users")).QueryScalar(&n)
func (q *Queryable) Exec(b pgchain.Builder) *Execer {
	return NewExecer(q.runner, q.canceler, b)
}

// SQL binds a raw template to this connection.
func (q *Queryable) SQL(sql string, args ...interface{}) *Execer {
	return q.Exec(pgchain.SQL(sql, args...))
}

// ExecMulti executes each builder in order and stops at the first error. It
// returns the number of builders executed successfully.
func (q *Queryable) ExecMulti(builders ...pgchain.Builder) (int, error) {
	for i, b := range builders {
		if _, err := q.Exec(b).Exec(); err != nil {
			return i, err
		}
	}
	return len(builders), nil
}
