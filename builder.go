package pgchain

import "fmt"

// Builder interface is used to tie SQL generators to executors.
type Builder interface {
	// ToSQL builds the SQL and arguments from builder.
	ToSQL() (string, []interface{}, error)

	// Interpolate builds the interpolation SQL and arguments from builder.
	// If interpolation flag is disabled then this is just a passthrough to ToSQL.
	Interpolate() (string, []interface{}, error)

	// IsInterpolated determines if this builder will interpolate when
	// Interpolate() is called.
	IsInterpolated() bool
}

var _ Builder = (*Chain)(nil)

// templateChain starts a chain with a single template fragment.
func templateChain(prefix, sql string, args []interface{}) *Chain {
	frag, err := newFragment(splitTemplate(sql), args, prefix, "")
	if err != nil {
		return (&Chain{isInterpolated: EnableInterpolation}).fail(templateError(prefix, sql, err))
	}
	return newChain(frag)
}

func templateError(keyword, sql string, err error) error {
	if err == ErrArgumentMismatch {
		return fmt.Errorf("%s%q: %w", keyword, sql, err)
	}
	return err
}

// SQL creates a chain from a raw template with no keyword.
func SQL(sql string, args ...interface{}) *Chain {
	return templateChain("", sql, args)
}

// Select creates a new SELECT chain.
func Select(sql string, args ...interface{}) *Chain {
	return templateChain("SELECT ", sql, args)
}

// InsertInto creates a new INSERT INTO chain.
func InsertInto(sql string, args ...interface{}) *Chain {
	return templateChain("INSERT INTO ", sql, args)
}

// Update creates a new UPDATE chain.
func Update(sql string, args ...interface{}) *Chain {
	return templateChain("UPDATE ", sql, args)
}

// DeleteFrom creates a new DELETE FROM chain.
func DeleteFrom(sql string, args ...interface{}) *Chain {
	return templateChain("DELETE FROM ", sql, args)
}

// With creates a new WITH chain for common table expressions.
func With(sql string, args ...interface{}) *Chain {
	return templateChain("WITH ", sql, args)
}

// WithRecursive creates a new WITH RECURSIVE chain. The prefix is the SQL
// keyword pair "WITH RECURSIVE", not an underscored WITH_RECURSIVE form.
//
//	WithRecursive("tree").As(anchor.Union().Append(step)).Select("*").From("tree")
func WithRecursive(sql string, args ...interface{}) *Chain {
	return templateChain("WITH RECURSIVE ", sql, args)
}

// Exists creates an EXISTS (...) chain of comma separated values. A *Chain
// value renders inline, so Exists(subquery) is EXISTS (subquery).
func Exists(values ...interface{}) *Chain {
	frag, err := newFragment(seriesParts(len(values)), values, "EXISTS (", ")")
	if err != nil {
		return (&Chain{isInterpolated: EnableInterpolation}).fail(err)
	}
	return newChain(frag)
}
