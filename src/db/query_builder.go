package db

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles a query from optional chunks, renumbering
// placeholders as it goes. The fetch helpers use it for queries whose WHERE
// clauses depend on which filters the caller set.
type QueryBuilder struct {
	sql  strings.Builder
	args []interface{}
}

// Appends a chunk of SQL along with its arguments. Write `$?` for each
// argument instead of a numbered placeholder; the builder substitutes the
// next free number, so chunks can be written without knowing how many
// arguments came before them. Panics when the count of `$?` markers and
// the count of arguments disagree, since that is always a programming
// error at the call site.
func (qb *QueryBuilder) Add(sql string, args ...interface{}) {
	numPlaceholders := strings.Count(sql, "$?")
	if numPlaceholders != len(args) {
		panic(fmt.Errorf("cannot add chunk to query; expected %d arguments but got %d", numPlaceholders, len(args)))
	}

	for _, arg := range args {
		sql = strings.Replace(sql, "$?", fmt.Sprintf("$%d", len(qb.args)+1), 1)
		qb.args = append(qb.args, arg)
	}

	qb.sql.WriteString(sql)
	qb.sql.WriteString("\n")
}

// The assembled SQL, chunks in the order they were added.
func (qb *QueryBuilder) String() string {
	return qb.sql.String()
}

// The collected arguments, in placeholder order. Pass the result straight
// through to Query and friends.
func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}
