package postgres

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopkg.in/stretchr/testify.v1/assert"
)

func literal(t *testing.T, pd *Postgres, s string) string {
	var buf bytes.Buffer
	err := pd.WriteStringLiteral(&buf, s)
	assert.NoError(t, err)
	return buf.String()
}

func TestWriteStringLiteral(t *testing.T) {
	pd := New()
	assert.Equal(t, "''", literal(t, pd, ""))
	assert.Equal(t, "'hello'", literal(t, pd, "hello"))
	assert.Equal(t, "'it''s'", literal(t, pd, "it's"))
	assert.Equal(t, `'back\slash'`, literal(t, pd, `back\slash`))
}

func TestWriteStringLiteralDollarQuoted(t *testing.T) {
	pd := New()
	long := strings.Repeat("it's ", 20)
	s := literal(t, pd, long)

	tag := pd.DollarTag()
	assert.Equal(t, tag+long+tag, s)
}

// assertLiteral checks s is val quoted either way and that a dollar quoted
// literal only closes at its last tag.
func assertLiteral(t *testing.T, s, val string) {
	if strings.HasPrefix(s, "'") {
		assert.Equal(t, "'"+strings.Replace(val, "'", "''", -1)+"'", s)
		return
	}
	tag := s[:5]
	assert.Equal(t, tag+val+tag, s)
	assert.Equal(t, len(s)-len(tag), strings.Index(s[len(tag):], tag)+len(tag))
}

func TestWriteStringLiteralEndsWithTagPrefix(t *testing.T) {
	pd := New()
	for i := 0; i < 20; i++ {
		tag := pd.DollarTag()
		val := strings.Repeat("x", 70) + tag[:len(tag)-1]
		assertLiteral(t, literal(t, pd, val), val)
	}
}

func TestWriteStringLiteralContainsTag(t *testing.T) {
	pd := New()
	tag := pd.DollarTag()
	val := strings.Repeat("y", 70) + tag + "z"
	s := literal(t, pd, val)
	assertLiteral(t, s, val)
	assert.NotEqual(t, tag+val+tag, s)
}

func TestCanDollarQuote(t *testing.T) {
	assert.True(t, canDollarQuote("abc", "$HCS$"))
	assert.True(t, canDollarQuote("abc$", "$HCS$"))
	assert.False(t, canDollarQuote("a$HCS$b", "$HCS$"))
	assert.False(t, canDollarQuote("abc$HCS", "$HCS$"))
	assert.False(t, canDollarQuote("abc$HC", "$H$"))
}

func TestWriteStringLiteralNullChar(t *testing.T) {
	var buf bytes.Buffer
	err := New().WriteStringLiteral(&buf, "a\x00b")
	assert.Equal(t, ErrNullChar, err)
}

func TestWriteFormattedTime(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2016, 3, 4, 5, 6, 7, 8000, time.UTC)
	New().WriteFormattedTime(&buf, ts)
	assert.Equal(t, "'2016-03-04 05:06:07.000008+00:00'", buf.String())
}
