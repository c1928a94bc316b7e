package pgchain

import (
	"strings"

	log "github.com/mgutz/logxi"
	"github.com/mgutz/str"
)

func init() {
	log.Suppress(true)
}

// cleanSQL collapses the whitespace of a multi-line expectation and removes
// the padding inside parentheses.
func cleanSQL(s string) string {
	s = str.Clean(s)
	s = strings.Replace(s, "( ", "(", -1)
	return strings.Replace(s, " )", ")", -1)
}
