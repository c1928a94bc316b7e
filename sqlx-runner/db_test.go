package runner

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mgutz/jo"
	"github.com/mgutz/pgchain"
	"gopkg.in/stretchr/testify.v1/assert"
)

const createPeople = `
CREATE TEMP TABLE people (
	id serial PRIMARY KEY,
	name text NOT NULL,
	email text
)`

func beginTxWithPeople(t *testing.T) *Tx {
	requireDB(t)
	tx, err := testDB.Begin()
	assert.NoError(t, err)

	_, err = tx.SQL(createPeople).Exec()
	assert.NoError(t, err)
	_, err = tx.Exec(pgchain.InsertInto("people (name, email)").Values("Mario", "mario@acme.com")).Exec()
	assert.NoError(t, err)
	_, err = tx.Exec(pgchain.InsertInto("people (name, email)").Values("John", "john@acme.com")).Exec()
	assert.NoError(t, err)
	return tx
}

func TestQueryScalar(t *testing.T) {
	requireDB(t)

	var n int
	var s string
	err := testDB.Exec(pgchain.Select("? + 1, ?::text", 41, "x")).QueryScalar(&n, &s)
	assert.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, "x", s)

	err = testDB.SQL("SELECT 1 WHERE false").QueryScalar(&n)
	assert.Equal(t, pgchain.ErrNotFound, err)
}

func TestQuerySlice(t *testing.T) {
	requireDB(t)

	var nums []int
	err := testDB.SQL("SELECT * FROM generate_series(1, ?)", 3).QuerySlice(&nums)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, nums)
}

func TestQueryStructsInTx(t *testing.T) {
	tx := beginTxWithPeople(t)
	defer tx.AutoRollback()

	var people []person
	err := tx.Exec(pgchain.Select("id, name").From("people").OrderBy("id")).QueryStructs(&people)
	assert.NoError(t, err)
	assert.Len(t, people, 2)
	assert.Equal(t, "Mario", people[0].Name)

	var p person
	err = tx.Exec(
		pgchain.Select("id, name").
			From("people").
			Where("?", pgchain.Exists(pgchain.Select("1").From("people p2").Where("p2.id = people.id AND p2.name = ?", "John"))),
	).QueryStruct(&p)
	assert.NoError(t, err)
	assert.Equal(t, "John", p.Name)
}

func TestQueryJSONReal(t *testing.T) {
	tx := beginTxWithPeople(t)
	defer tx.AutoRollback()

	b, err := tx.Exec(pgchain.Select("name").From("people").OrderBy("id")).QueryJSON()
	assert.NoError(t, err)

	var rows []map[string]string
	assert.NoError(t, json.Unmarshal(b, &rows))
	assert.Equal(t, []map[string]string{{"name": "Mario"}, {"name": "John"}}, rows)
}

func TestNestedTransactionCommit(t *testing.T) {
	tx := beginTxWithPeople(t)
	defer tx.AutoRollback()

	nested, err := tx.Begin()
	assert.NoError(t, err)
	_, err = nested.Exec(pgchain.Update("people").Set("name = ?", "Luigi").Where("name = ?", "Mario")).Exec()
	assert.NoError(t, err)
	assert.NoError(t, nested.AutoCommit())

	var name string
	err = tx.SQL("SELECT name FROM people WHERE email = ?", "mario@acme.com").QueryScalar(&name)
	assert.NoError(t, err)
	assert.Equal(t, "Luigi", name)
}

func TestNestedTransactionRollback(t *testing.T) {
	tx := beginTxWithPeople(t)

	nested, err := tx.Begin()
	assert.NoError(t, err)
	assert.NoError(t, nested.Rollback())

	assert.True(t, tx.IsRollbacked)
	assert.Equal(t, ErrTxRollbacked, tx.Commit())
	_, err = tx.Begin()
	assert.Equal(t, ErrTxRollbacked, err)
}

func TestTimeoutReal(t *testing.T) {
	requireDB(t)

	_, err := testDB.SQL("SELECT pg_sleep(1)").Timeout(50 * time.Millisecond).Exec()
	assert.Equal(t, pgchain.ErrTimedout, err)

	res, err := testDB.SQL("SELECT 0").Timeout(3 * time.Second).Exec()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, res.RowsAffected)
}

func TestTimeoutObjectReal(t *testing.T) {
	requireDB(t)

	var person jo.Object
	err := testDB.SQL("SELECT pg_sleep(2) AS na, 'timeout' AS name").Timeout(10 * time.Millisecond).QueryObject(&person)
	assert.Equal(t, pgchain.ErrTimedout, err)

	err = testDB.SQL("SELECT 'john' AS name, 10 AS age").Timeout(time.Second).QueryObject(&person)
	assert.NoError(t, err)
	assert.Equal(t, "john", person.AsString("[0].name"))
	assert.Equal(t, 10, person.AsInt("[0].age"))
}
