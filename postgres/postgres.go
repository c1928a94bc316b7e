// Package postgres writes Postgres literals for interpolated SQL.
package postgres

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mgutz/pgchain/common"
)

// ErrNullChar is returned for strings containing U+0000, which Postgres text
// cannot store.
var ErrNullChar = errors.New("postgres does not support NULL char in text")

// dollarQuoteMinLen is the length above which strings are dollar quoted
// instead of having their apostrophes doubled.
const dollarQuoteMinLen = 64

const timeFormat = "2006-01-02 15:04:05.000000-07:00"

// Postgres is the PostgreSQL dialect.
type Postgres struct {
	mu  sync.Mutex
	tag string
}

// New returns a new Postgres dialect.
func New() *Postgres {
	pd := &Postgres{}
	pd.randomizeTag()
	return pd
}

func (pd *Postgres) randomizeTag() string {
	pd.mu.Lock()
	defer pd.mu.Unlock()
	pd.tag = "$" + common.RandomString(3) + "$"
	return pd.tag
}

// DollarTag returns the current dollar quoting tag, eg "$abc$".
func (pd *Postgres) DollarTag() string {
	pd.mu.Lock()
	defer pd.mu.Unlock()
	return pd.tag
}

// WriteStringLiteral writes an escaped string. No escape characters
// are allowed.
//
// Postgres 9.1+ does not allow any escape sequences by default. See
// http://www.postgresql.org/docs/9.3/interactive/sql-syntax-lexical.html#SQL-SYNTAX-STRINGS-ESCAPE
// In short, all backslashes are treated literally, not as escape sequences.
func (pd *Postgres) WriteStringLiteral(buf common.BufferWriter, val string) error {
	if val == "" {
		buf.WriteString("''")
		return nil
	}
	if strings.IndexByte(val, 0) >= 0 {
		return ErrNullChar
	}

	if len(val) > dollarQuoteMinLen {
		tag := pd.DollarTag()
		// try a fresh tag once if the value happens to contain the current one
		if !canDollarQuote(val, tag) {
			tag = pd.randomizeTag()
		}
		if canDollarQuote(val, tag) {
			buf.WriteString(tag)
			buf.WriteString(val)
			buf.WriteString(tag)
			return nil
		}
	}

	buf.WriteByte('\'')
	if strings.IndexByte(val, '\'') < 0 {
		buf.WriteString(val)
	} else {
		for _, char := range val {
			if char == '\'' {
				buf.WriteString(`''`)
			} else {
				buf.WriteRune(char)
			}
		}
	}
	buf.WriteByte('\'')
	return nil
}

// canDollarQuote reports whether tag+val+tag closes only at the final tag. A
// value ending in a prefix of the tag would otherwise close the literal early.
func canDollarQuote(val, tag string) bool {
	return !strings.Contains(val+tag[:len(tag)-1], tag)
}

// WriteFormattedTime writes a time as a quoted timestamptz literal.
func (pd *Postgres) WriteFormattedTime(buf common.BufferWriter, t time.Time) {
	buf.WriteByte('\'')
	buf.WriteString(t.Format(timeFormat))
	buf.WriteByte('\'')
}
