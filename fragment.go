package pgchain

import (
	"strings"

	"github.com/mgutz/pgchain/common"
)

// fragment is one literal template and its slot values, wrapped in an
// optional prefix and suffix.
//
// Invariant: len(parts) == len(values)+1
type fragment struct {
	parts  []string
	values []interface{}
	prefix string
	suffix string

	// nargs is the number of params the fragment renders, nested chains included
	nargs int
}

// slotMarker separates literal parts in a template. A doubled marker is a
// literal '?'.
const slotMarker = '?'

// splitTemplate splits a template into its literal parts.
func splitTemplate(sql string) []string {
	if strings.IndexByte(sql, slotMarker) < 0 {
		return []string{sql}
	}

	var parts []string
	var part strings.Builder
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		if ch != slotMarker {
			part.WriteByte(ch)
			continue
		}
		if i+1 < len(sql) && sql[i+1] == slotMarker {
			part.WriteByte(slotMarker)
			i++
			continue
		}
		parts = append(parts, part.String())
		part.Reset()
	}
	return append(parts, part.String())
}

// newFragment validates the slot count and copies values so later changes to
// the caller's slice cannot leak into the chain.
func newFragment(parts []string, values []interface{}, prefix, suffix string) (*fragment, error) {
	if len(parts) != len(values)+1 {
		return nil, ErrArgumentMismatch
	}

	f := &fragment{parts: parts, prefix: prefix, suffix: suffix}
	if len(values) > 0 {
		f.values = make([]interface{}, len(values))
		copy(f.values, values)
	}

	for _, v := range f.values {
		if c, ok := v.(*Chain); ok {
			if c.Err() != nil {
				return nil, c.Err()
			}
			f.nargs += c.NumArgs()
		} else {
			f.nargs++
		}
	}
	return f, nil
}

// seriesParts returns the parts for n comma separated slots.
func seriesParts(n int) []string {
	if n == 0 {
		return []string{""}
	}
	parts := make([]string, n+1)
	for i := 1; i < n; i++ {
		parts[i] = ", "
	}
	return parts
}

// writeSQL writes the fragment numbering scalar slots after pos and returns
// the last number used.
func (f *fragment) writeSQL(buf common.BufferWriter, args *[]interface{}, pos int64) int64 {
	buf.WriteString(f.prefix)
	for i, part := range f.parts {
		buf.WriteString(part)
		if i >= len(f.values) {
			continue
		}

		if c, ok := f.values[i].(*Chain); ok {
			pos = c.writeSQL(buf, args, pos)
			continue
		}
		pos++
		writePlaceholder(buf, pos)
		*args = append(*args, f.values[i])
	}
	buf.WriteString(f.suffix)
	return pos
}

// toSQL renders the fragment alone, numbering after start.
func (f *fragment) toSQL(start int64) (string, []interface{}, int64) {
	buf := bufPool.Get()
	defer bufPool.Put(buf)

	args := make([]interface{}, 0, f.nargs)
	end := f.writeSQL(buf, &args, start)
	return buf.String(), args, end
}
