/*
This package contains lowish-level APIs for making queries to our Postgres
database. It streamlines the process of mapping query results to Go types,
while allowing you to write arbitrary SQL queries.

The primary functions are Query and QueryIterator.

# Query syntax

Arguments can be provided using placeholders like $1, $2, etc. All arguments
will be safely escaped and mapped from their Go type to the correct Postgres
type. (This is a direct proxy to pgx.)

	forumIDs, err := db.Query[int](ctx, conn,
		`
		SELECT id
		FROM forum
		WHERE
			identifier = ANY($1)
			AND NOT trash
		`,
		[]string{"novinky", "obecne"},
	)

(If you want to use a slice in your query, use Postgres arrays instead
of IN.)

To query multiple columns at once, you may use a struct type with
`db:"column_name"` tags, and the special $columns placeholder:

	type Forum struct {
		ID       int    `db:"id"`
		Name     string `db:"name"`
		Position int    `db:"position"`
	}
	fora, err := db.Query[Forum](ctx, conn, `SELECT $columns FROM forum`)
	// Resulting query:
	// SELECT id, name, position FROM forum

Sometimes a table name prefix is required on each column to disambiguate
between column names, especially when performing a JOIN. In those situations,
you can include the prefix in the $columns placeholder like $columns{prefix}:

	threads, err := db.Query[Thread](ctx, conn, `
		SELECT $columns{thread}
		FROM
			thread
			JOIN forum ON thread.forum_id = forum.id
		WHERE NOT forum.trash
	`)
	// Resulting query:
	// SELECT thread.id, thread.name, ... FROM ...

Queries may also carry a name in a leading `---- name` comment, which is
picked up by the perf tracer.
*/
package db
