/*
Package pgchain builds Postgres statements from chained SQL fragments.

Each fragment is a template whose ? slots are filled by values. Rendering
turns every scalar value into a numbered placeholder and collects the values
in placeholder order. A *Chain used as a value is rendered inline, its
placeholders numbered in sequence with the enclosing statement, which makes
subqueries composable:

	posts := pgchain.Select("*").From("posts").Where("author_id = ?", 7)

	sql, args, err := pgchain.
		Select("id, name").
		From("users").
		Where("status = ?", "active").
		And("?", pgchain.Exists(posts)).
		ToSQL()

	// sql  == "SELECT id, name FROM users WHERE status = $1 AND EXISTS (SELECT * FROM posts WHERE author_id = $2)"
	// args == []interface{}{"active", 7}

Keyword methods also accept a *Chain directly, rendering it in parentheses:

	pgchain.Select("*").From("users").Where(pgchain.SQL("a = ?", 1).Or("b = ?", 2))
	// SELECT * FROM users WHERE (a = $1 OR b = $2)

Write ?? for a literal question mark, for example the jsonb operator:

	pgchain.Select("*").From("docs").Where("tags ?? ?", "go")
	// SELECT * FROM docs WHERE tags ? $1

Chains are immutable. Each method returns a new chain, so a chain may be
branched into several statements and rendered from many goroutines.

Templates are not parsed beyond the ? marker and values are not inspected, so a
template must not contain $N placeholders of its own.
*/
package pgchain
