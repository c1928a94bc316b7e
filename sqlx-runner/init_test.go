package runner

import (
	"os"
	"testing"

	log "github.com/mgutz/logxi"
)

var testDB *DB

func init() {
	log.Suppress(true)

	dsn := os.Getenv("PGCHAIN_DSN")
	if dsn == "" {
		return
	}
	db, err := NewDBFromString("postgres", dsn)
	if err != nil {
		panic(err)
	}
	testDB = db
}

func requireDB(t *testing.T) {
	if testDB == nil {
		t.Skip("PGCHAIN_DSN not set")
	}
}
