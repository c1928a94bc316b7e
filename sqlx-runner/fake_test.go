package runner

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

var errFakeUnsupported = errors.New("not supported by fakeDB")

// fakeDB records statements instead of running them.
type fakeDB struct {
	mu      sync.Mutex
	queries []string
	args    [][]interface{}

	delay    time.Duration
	getFn    func(dest interface{}) error
	selectFn func(dest interface{}) error
}

func (f *fakeDB) record(query string, args []interface{}) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeDB) calls() ([]string, [][]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...), append([][]interface{}(nil), f.args...)
}

func (f *fakeDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	f.record(query, args)
	if strings.Contains(query, "fail") {
		return nil, errors.New("exec failed")
	}
	return driver.RowsAffected(1), nil
}

func (f *fakeDB) Queryx(query string, args ...interface{}) (*sqlx.Rows, error) {
	f.record(query, args)
	return nil, errFakeUnsupported
}

func (f *fakeDB) QueryRowx(query string, args ...interface{}) *sqlx.Row {
	f.record(query, args)
	return nil
}

func (f *fakeDB) Select(dest interface{}, query string, args ...interface{}) error {
	f.record(query, args)
	if f.selectFn == nil {
		return errFakeUnsupported
	}
	return f.selectFn(dest)
}

func (f *fakeDB) Get(dest interface{}, query string, args ...interface{}) error {
	f.record(query, args)
	if f.getFn == nil {
		return errFakeUnsupported
	}
	return f.getFn(dest)
}
