package runner

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/mgutz/jo"
	"github.com/mgutz/pgchain"
	"github.com/mgutz/pgchain/kvs"
	"gopkg.in/stretchr/testify.v1/assert"
)

type person struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

func withCache(t *testing.T) func() {
	prev := Cache
	Cache = kvs.NewMemoryKeyValueStore(time.Minute)
	return func() { Cache = prev }
}

func TestToOutputStr(t *testing.T) {
	assert.Equal(t, "nil", toOutputStr(nil))
	assert.Equal(t, "", toOutputStr([]interface{}{}))
	assert.Equal(t, "$1=1 $2=bob $3=<binary>", toOutputStr([]interface{}{1, "bob", []byte{1, 2}}))
}

func TestLogSQLError(t *testing.T) {
	canceled := &pq.Error{Code: "57014"}

	err := logSQLError(canceled, "test", queryIDPrefix+"abc*/SELECT pg_sleep(1)", nil)
	assert.Equal(t, pgchain.ErrTimedout, err)

	// only statements tagged by a Timeout are coerced
	err = logSQLError(canceled, "test", "SELECT pg_sleep(1)", nil)
	assert.Equal(t, canceled, err)

	err = logSQLError(sql.ErrNoRows, "test", "SELECT 1", nil)
	assert.Equal(t, pgchain.ErrNotFound, err)

	other := errors.New("boom")
	assert.Equal(t, other, logSQLError(other, "test", "SELECT 1", []interface{}{1}))
}

func TestExec(t *testing.T) {
	db := &fakeDB{}
	q := &Queryable{runner: db}

	res, err := q.Exec(pgchain.Update("users").Set("name = ?", "bob").Where("id = ?", 1)).Exec()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, res.RowsAffected)

	queries, args := db.calls()
	assert.Equal(t, []string{"UPDATE users SET name = $1 WHERE id = $2"}, queries)
	assert.Equal(t, []interface{}{"bob", 1}, args[0])
}

func TestExecInterpolated(t *testing.T) {
	db := &fakeDB{}
	q := &Queryable{runner: db}

	chain := pgchain.DeleteFrom("users").Where("name = ?", "o'neil").SetIsInterpolated(true)
	_, err := q.Exec(chain).Exec()
	assert.NoError(t, err)

	queries, args := db.calls()
	assert.Equal(t, "DELETE FROM users WHERE name = 'o''neil'", queries[0])
	assert.Empty(t, args[0])
}

func TestExecBuilderError(t *testing.T) {
	db := &fakeDB{}
	q := &Queryable{runner: db}

	_, err := q.SQL("SELECT ?").Exec()
	assert.True(t, errors.Is(err, pgchain.ErrArgumentMismatch))

	queries, _ := db.calls()
	assert.Empty(t, queries)
}

func TestExecMulti(t *testing.T) {
	db := &fakeDB{}
	q := &Queryable{runner: db}

	n, err := q.ExecMulti(
		pgchain.SQL("CREATE TABLE a (id int)"),
		pgchain.SQL("fail"),
		pgchain.SQL("CREATE TABLE b (id int)"),
	)
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	queries, _ := db.calls()
	assert.Len(t, queries, 2)
}

func TestQueryStructNotFound(t *testing.T) {
	db := &fakeDB{getFn: func(dest interface{}) error { return sql.ErrNoRows }}
	q := &Queryable{runner: db}

	var p person
	err := q.SQL("SELECT * FROM people WHERE id = ?", 1).QueryStruct(&p)
	assert.Equal(t, pgchain.ErrNotFound, err)
}

func TestQueryJSONWrapsQuery(t *testing.T) {
	db := &fakeDB{getFn: func(dest interface{}) error {
		*dest.(*[]byte) = []byte(`[{"id":1,"name":"bob"}]`)
		return nil
	}}
	q := &Queryable{runner: db}

	var people []person
	err := q.Exec(pgchain.Select("id, name").From("people").Where("id = ?", 1)).QueryObject(&people)
	assert.NoError(t, err)
	assert.Equal(t, []person{{ID: 1, Name: "bob"}}, people)

	queries, args := db.calls()
	assert.Equal(t, "SELECT TO_JSON(ARRAY_AGG(__pgq.*)) FROM (SELECT id, name FROM people WHERE id = $1) AS __pgq", queries[0])
	assert.Equal(t, []interface{}{1}, args[0])
}

func TestQueryObjectDynamic(t *testing.T) {
	db := &fakeDB{getFn: func(dest interface{}) error {
		*dest.(*[]byte) = []byte(`[{"name":"john","age":10},{"name":"jane","age":11}]`)
		return nil
	}}
	q := &Queryable{runner: db}

	var people jo.Object
	err := q.SQL("SELECT name, age FROM people").QueryObject(&people)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(people.AsSlice(".")))
	assert.Equal(t, "john", people.AsString("[0].name"))
	assert.Equal(t, 11, people.AsInt("[1].age"))
}

func TestQueryJSONNoRows(t *testing.T) {
	db := &fakeDB{getFn: func(dest interface{}) error { return nil }}
	q := &Queryable{runner: db}

	b, err := q.SQL("SELECT 1 WHERE false").QueryJSON()
	assert.Equal(t, pgchain.ErrNotFound, err)
	assert.Nil(t, b)
}

func TestCacheByKey(t *testing.T) {
	defer withCache(t)()

	db := &fakeDB{getFn: func(dest interface{}) error {
		*dest.(*person) = person{ID: 1, Name: "bob"}
		return nil
	}}
	q := &Queryable{runner: db}

	for i := 0; i < 2; i++ {
		var p person
		err := q.SQL("SELECT * FROM people WHERE id = ?", 1).Cache("", time.Minute, false).QueryStruct(&p)
		assert.NoError(t, err)
		assert.Equal(t, "bob", p.Name)
	}
	queries, _ := db.calls()
	assert.Len(t, queries, 1)

	// different params are a different key
	var p person
	err := q.SQL("SELECT * FROM people WHERE id = ?", 2).Cache("", time.Minute, false).QueryStruct(&p)
	assert.NoError(t, err)
	queries, _ = db.calls()
	assert.Len(t, queries, 2)
}

func TestCacheByIDAndInvalidate(t *testing.T) {
	defer withCache(t)()

	calls := 0
	db := &fakeDB{selectFn: func(dest interface{}) error {
		calls++
		*dest.(*[]person) = []person{{ID: int64(calls), Name: "bob"}}
		return nil
	}}
	q := &Queryable{runner: db}

	var people []person
	err := q.SQL("SELECT * FROM people").Cache("people.all", time.Minute, false).QueryStructs(&people)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, people[0].ID)

	people = nil
	err = q.SQL("SELECT * FROM people").Cache("people.all", time.Minute, false).QueryStructs(&people)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, people[0].ID)
	assert.Equal(t, 1, calls)

	people = nil
	err = q.SQL("SELECT * FROM people").Cache("people.all", time.Minute, true).QueryStructs(&people)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, people[0].ID)
	assert.Equal(t, 2, calls)

	val, err := Cache.Get("people.all")
	assert.NoError(t, err)
	assert.Equal(t, `[{"id":2,"name":"bob"}]`, val)
}

func TestCacheJSON(t *testing.T) {
	defer withCache(t)()

	db := &fakeDB{getFn: func(dest interface{}) error {
		*dest.(*[]byte) = []byte(`[{"n":1}]`)
		return nil
	}}
	q := &Queryable{runner: db}

	for i := 0; i < 3; i++ {
		b, err := q.SQL("SELECT 1 AS n").Cache("n", time.Minute, false).QueryJSON()
		assert.NoError(t, err)
		assert.Equal(t, `[{"n":1}]`, string(b))
	}
	queries, _ := db.calls()
	assert.Len(t, queries, 1)
}

func TestTimeoutCancelsQuery(t *testing.T) {
	db := &fakeDB{
		delay: 300 * time.Millisecond,
		getFn: func(dest interface{}) error { return nil },
	}
	canceler := &fakeDB{}
	q := &Queryable{runner: db, canceler: canceler}

	var p person
	err := q.SQL("SELECT pg_sleep(1)").Timeout(20 * time.Millisecond).QueryStruct(&p)
	assert.Equal(t, pgchain.ErrTimedout, err)

	queries, _ := db.calls()
	assert.Len(t, queries, 1)
	assert.True(t, strings.HasPrefix(queries[0], queryIDPrefix))
	assert.True(t, strings.HasSuffix(queries[0], "*/SELECT pg_sleep(1)"))

	cancels, args := canceler.calls()
	assert.Len(t, cancels, 1)
	assert.Contains(t, cancels[0], "pg_cancel_backend")
	pattern := args[0][0].(string)
	assert.True(t, strings.HasSuffix(pattern, "*/%"))
	// the pattern matches the tagged statement
	assert.True(t, strings.HasPrefix(queries[0], strings.TrimSuffix(pattern, "%")))
}

func TestTimeoutNotReached(t *testing.T) {
	db := &fakeDB{getFn: func(dest interface{}) error {
		*dest.(*person) = person{ID: 7}
		return nil
	}}
	canceler := &fakeDB{}
	q := &Queryable{runner: db, canceler: canceler}

	var p person
	err := q.SQL("SELECT 7 AS id").Timeout(time.Second).QueryStruct(&p)
	assert.NoError(t, err)
	assert.EqualValues(t, 7, p.ID)

	cancels, _ := canceler.calls()
	assert.Empty(t, cancels)
}

func TestTimeoutWaitsForQuery(t *testing.T) {
	db := &fakeDB{delay: 20 * time.Millisecond}
	for i := 0; i < 20; i++ {
		ex := NewExecer(db, &fakeDB{}, pgchain.SQL("SELECT pg_sleep(1)"))
		res, err := ex.Timeout(20 * time.Millisecond).Exec()
		if err != nil {
			assert.Equal(t, pgchain.ErrTimedout, err)
			assert.Nil(t, res)
			continue
		}
		assert.EqualValues(t, 1, res.RowsAffected)
	}
}

func TestTimeoutWaitsBeforeReturningDest(t *testing.T) {
	db := &fakeDB{
		delay: 50 * time.Millisecond,
		getFn: func(dest interface{}) error {
			*dest.(*person) = person{ID: 9}
			return nil
		},
	}
	q := &Queryable{runner: db, canceler: &fakeDB{}}

	var p person
	err := q.SQL("SELECT pg_sleep(1)").Timeout(5 * time.Millisecond).QueryStruct(&p)
	assert.Equal(t, pgchain.ErrTimedout, err)
	// the query finished writing dest before QueryStruct returned
	assert.EqualValues(t, 9, p.ID)
}

func TestTimeoutWithoutCanceler(t *testing.T) {
	db := &fakeDB{
		delay: 30 * time.Millisecond,
		getFn: func(dest interface{}) error {
			*dest.(*person) = person{ID: 3}
			return nil
		},
	}
	q := &Queryable{runner: db}

	var p person
	err := q.SQL("SELECT 3 AS id").Timeout(5 * time.Millisecond).QueryStruct(&p)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, p.ID)
}

func TestNewDBUnsupportedDriver(t *testing.T) {
	_, err := NewDBFromString("mysql", "user:pass@/db")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestCancelWithoutTimeout(t *testing.T) {
	q := &Queryable{runner: &fakeDB{}, canceler: &fakeDB{}}
	assert.Equal(t, pgchain.ErrInvalidOperation, q.SQL("SELECT 1").Cancel())
}
