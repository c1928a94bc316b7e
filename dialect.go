package pgchain

import (
	"time"

	"github.com/mgutz/pgchain/common"
)

// Dialect is the active SQLDialect. It is only consulted by Interpolate.
var Dialect SQLDialect

// SQLDialect represents a vendor specific SQL dialect.
type SQLDialect interface {
	// WriteStringLiteral writes a quoted, escaped string literal.
	WriteStringLiteral(buf common.BufferWriter, value string) error
	// WriteFormattedTime writes a quoted time literal.
	WriteFormattedTime(buf common.BufferWriter, t time.Time)
}
