package pgchain

import (
	"fmt"

	"github.com/mgutz/pgchain/common"
)

// Chain is an immutable sequence of SQL fragments. Every chaining method
// returns a new Chain which shares the receiver as its tail, so a chain may be
// branched, reused inside other chains and rendered concurrently.
//
// A *Chain passed as a slot value is rendered inline and its placeholders are
// numbered in sequence with the enclosing statement.
type Chain struct {
	prev *Chain
	frag *fragment

	// n is the number of fragments including this one
	n int
	// nargs is the number of params rendered by the whole chain
	nargs int

	isInterpolated bool
	err            error
}

func newChain(frag *fragment) *Chain {
	return &Chain{frag: frag, n: 1, nargs: frag.nargs, isInterpolated: EnableInterpolation}
}

// orEmpty lets a nil *Chain behave as an empty chain.
func (c *Chain) orEmpty() *Chain {
	if c == nil {
		return &Chain{isInterpolated: EnableInterpolation}
	}
	return c
}

// append returns a new chain ending with frag. An erred chain is returned
// as-is.
func (c *Chain) append(frag *fragment) *Chain {
	if c.err != nil {
		return c
	}
	if c.n == 0 {
		return &Chain{frag: frag, n: 1, nargs: frag.nargs, isInterpolated: c.isInterpolated}
	}
	return &Chain{
		prev:           c,
		frag:           frag,
		n:              c.n + 1,
		nargs:          c.nargs + frag.nargs,
		isInterpolated: c.isInterpolated,
	}
}

// fail returns a copy of the chain carrying err. Only the first error is kept.
func (c *Chain) fail(err error) *Chain {
	if c.err != nil {
		return c
	}
	cp := *c
	cp.err = err
	return &cp
}

// Err returns the first error recorded while building the chain.
func (c *Chain) Err() error {
	if c == nil {
		return nil
	}
	return c.err
}

// Len returns the number of fragments in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return c.n
}

// NumArgs returns the number of params the chain renders.
func (c *Chain) NumArgs() int {
	if c == nil {
		return 0
	}
	return c.nargs
}

func (c *Chain) writeSQL(buf common.BufferWriter, args *[]interface{}, pos int64) int64 {
	if c == nil || c.frag == nil {
		return pos
	}
	if c.prev != nil {
		pos = c.prev.writeSQL(buf, args, pos)
		buf.WriteByte(' ')
	}
	return c.frag.writeSQL(buf, args, pos)
}

// ToSQL renders the chain. Placeholders start at $1 and the i-th arg is bound
// to $i+1. The error is non-nil only if building the chain failed.
func (c *Chain) ToSQL() (string, []interface{}, error) {
	return c.ToSQLAt(0)
}

// ToSQLAt renders the chain numbering placeholders after start, for embedding
// into a statement that already has start params.
func (c *Chain) ToSQLAt(start int64) (string, []interface{}, error) {
	if c.Err() != nil {
		return "", nil, c.err
	}

	buf := bufPool.Get()
	defer bufPool.Put(buf)

	var args []interface{}
	if c.NumArgs() > 0 {
		args = make([]interface{}, 0, c.nargs)
	}
	c.writeSQL(buf, &args, start)
	return buf.String(), args, nil
}

// String implements fmt.Stringer returning only the SQL. An erred chain
// returns "".
func (c *Chain) String() string {
	sql, _, _ := c.ToSQL()
	return sql
}

// GoString implements fmt.GoStringer for debugging output.
func (c *Chain) GoString() string {
	sql, args, err := c.ToSQL()
	if err != nil {
		return fmt.Sprintf("pgchain.Chain{err: %q}", err.Error())
	}
	return fmt.Sprintf("pgchain.Chain{%q, %#v}", sql, args)
}

// Interpolate renders the chain and, if the chain is interpolated, inlines
// supported params as literals.
func (c *Chain) Interpolate() (string, []interface{}, error) {
	return interpolate(c)
}

// IsInterpolated determines if this chain will interpolate when
// Interpolate() is called.
func (c *Chain) IsInterpolated() bool {
	return c != nil && c.isInterpolated
}

// SetIsInterpolated returns a chain identical to c that does or does not
// interpolate.
func (c *Chain) SetIsInterpolated(enable bool) *Chain {
	cp := *c.orEmpty()
	cp.isInterpolated = enable
	return &cp
}
