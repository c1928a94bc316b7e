package runner

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mgutz/pgchain"
)

// DB represents an abstract database connection pool.
type DB struct {
	DB *sqlx.DB
	*Queryable
}

// pgMustNotAllowEscapeSequence checks if Postgres treats backslashes
// literally in strings when pgchain.EnableInterpolation == true. If escape
// sequences are allowed, then it is unsafe to use interpolation.
func pgMustNotAllowEscapeSequence(conn *DB) error {
	if !pgchain.EnableInterpolation {
		return nil
	}

	var standardConformingStrings string
	err := conn.
		SQL("SELECT setting FROM pg_settings WHERE name = 'standard_conforming_strings'").
		QueryScalar(&standardConformingStrings)
	if err != nil {
		return err
	}

	if standardConformingStrings != "on" {
		return logger.Error("Database allows escape sequences. Cannot be used with interpolation. "+
			"See http://www.postgresql.org/docs/9.3/interactive/sql-syntax-lexical.html#SQL-SYNTAX-STRINGS-ESCAPE",
			"standard_conforming_strings", standardConformingStrings)
	}
	return nil
}

// NewDB instantiates a DB for a given database/sql connection. Only the
// postgres driver is supported.
func NewDB(db *sql.DB, driverName string) (*DB, error) {
	if err := checkDriver(driverName); err != nil {
		return nil, err
	}
	return NewDBFromSqlx(sqlx.NewDb(db, driverName))
}

func checkDriver(driverName string) error {
	if driverName != "postgres" {
		return fmt.Errorf("unsupported driver: %s", driverName)
	}
	return nil
}

// NewDBFromString opens and pings a database from a driver and connection
// string.
func NewDBFromString(driver string, connectionString string) (*DB, error) {
	if err := checkDriver(driver); err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, connectionString)
	if err != nil {
		return nil, logger.Error("Database error", "err", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, logger.Error("Could not ping database", "err", err)
	}
	conn, err := NewDB(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return conn, nil
}

// NewDBFromSqlx creates a new DB from an existing sqlx.DB.
func NewDBFromSqlx(dbx *sqlx.DB) (*DB, error) {
	conn := &DB{DB: dbx, Queryable: &Queryable{runner: dbx, canceler: dbx}}
	if err := pgMustNotAllowEscapeSequence(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Ping verifies the connection to the database is alive.
func (db *DB) Ping() error {
	return db.DB.Ping()
}
