package pgchain

import "fmt"

// keyword appends a keyword fragment. A string is a template whose ? slots
// take args. A *Chain is wrapped as "KEYWORD (chain)".
func (c *Chain) keyword(kw string, fragmentOrChain interface{}, args []interface{}) *Chain {
	c = c.orEmpty()
	if c.err != nil {
		return c
	}

	switch f := fragmentOrChain.(type) {
	case string:
		prefix := kw + " "
		frag, err := newFragment(splitTemplate(f), args, prefix, "")
		if err != nil {
			return c.fail(templateError(prefix, f, err))
		}
		return c.append(frag)
	case *Chain:
		if len(args) > 0 {
			return c.fail(fmt.Errorf("%s: a *Chain takes no args: %w", kw, ErrInvalidFragment))
		}
		frag, err := newFragment([]string{"", ""}, []interface{}{f}, kw+" (", ")")
		if err != nil {
			return c.fail(err)
		}
		return c.append(frag)
	default:
		return c.fail(fmt.Errorf("%s: got %T: %w", kw, fragmentOrChain, ErrInvalidFragment))
	}
}

// Append appends a fragment without a keyword. Unlike keyword methods, a
// *Chain is rendered inline without parentheses.
func (c *Chain) Append(fragmentOrChain interface{}, args ...interface{}) *Chain {
	c = c.orEmpty()
	if c.err != nil {
		return c
	}

	switch f := fragmentOrChain.(type) {
	case string:
		frag, err := newFragment(splitTemplate(f), args, "", "")
		if err != nil {
			return c.fail(templateError("", f, err))
		}
		return c.append(frag)
	case *Chain:
		if len(args) > 0 {
			return c.fail(fmt.Errorf("append: a *Chain takes no args: %w", ErrInvalidFragment))
		}
		frag, err := newFragment([]string{"", ""}, []interface{}{f}, "", "")
		if err != nil {
			return c.fail(err)
		}
		return c.append(frag)
	default:
		return c.fail(fmt.Errorf("append: got %T: %w", fragmentOrChain, ErrInvalidFragment))
	}
}

// Values appends VALUES (...) with one slot per value.
//
//	InsertInto("users (name, status)").Values("Alice", "active")
//	// INSERT INTO users (name, status) VALUES ($1, $2)
func (c *Chain) Values(values ...interface{}) *Chain {
	return c.series("VALUES (", values)
}

func (c *Chain) series(prefix string, values []interface{}) *Chain {
	c = c.orEmpty()
	if c.err != nil {
		return c
	}
	frag, err := newFragment(seriesParts(len(values)), values, prefix, ")")
	if err != nil {
		return c.fail(err)
	}
	return c.append(frag)
}

// Union appends UNION. Use it between two SELECT runs of the same chain.
func (c *Chain) Union() *Chain {
	return c.bare("UNION")
}

// UnionAll appends UNION ALL.
func (c *Chain) UnionAll() *Chain {
	return c.bare("UNION ALL")
}

func (c *Chain) bare(keyword string) *Chain {
	c = c.orEmpty()
	if c.err != nil {
		return c
	}
	return c.append(&fragment{parts: []string{""}, prefix: keyword})
}
