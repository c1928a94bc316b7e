package pgchain

import (
	"fmt"
	"strconv"

	log "github.com/mgutz/logxi"
	"github.com/mgutz/pgchain/common"
	"github.com/mgutz/pgchain/postgres"
)

var logger log.Logger

// Strict tells pgchain to raise errors on suspicious interpolation input.
var Strict = false

// EnableInterpolation sets the default for new chains. Interpolated chains
// inline their parameters as literals when Interpolate is called.
var EnableInterpolation = false

// maxLookup is the max lookup index for predefined lookup tables
const maxLookup = 100

// atoiTab holds "0" => 0, "1" .. 1 ... "99" -> 99 to avoid using strconv.Atoi()
var atoiTab = make(map[string]int, maxLookup)

// placeholderTab holds $0, $1 ... $n to avoid using  "$" + strconv.FormatInt()
var placeholderTab = make([]string, maxLookup)

var bufPool = common.NewBufferPool(64 * 1024)

func init() {
	// Most render cost is converting ordinals to text. The tables cover
	// statements with fewer than maxLookup params.
	for i := 0; i < maxLookup; i++ {
		placeholderTab[i] = fmt.Sprintf("$%d", i)
		atoiTab[strconv.Itoa(i)] = i
	}

	Dialect = postgres.New()
	logger = log.New("pgchain")
}

func writePlaceholder(buf common.BufferWriter, pos int64) {
	if pos < maxLookup {
		buf.WriteString(placeholderTab[pos])
		return
	}
	buf.WriteByte('$')
	buf.WriteString(strconv.FormatInt(pos, 10))
}

func atoi(digits string) int {
	if n, ok := atoiTab[digits]; ok {
		return n
	}
	n, _ := strconv.Atoi(digits)
	return n
}
