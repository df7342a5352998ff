package db

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	type CustomInt int
	type S struct {
		I   int        `db:"I"`
		PI  *int       `db:"PI"`
		CI  CustomInt  `db:"CI"`
		PCI *CustomInt `db:"PCI"`
		B   bool       `db:"B"`
		PB  *bool      `db:"PB"`

		NoTag int
	}
	type Nested struct {
		S  S  `db:"S"`
		PS *S `db:"PS"`

		NoTag S
	}

	names, paths, err := getColumnNamesAndPaths(reflect.TypeOf(Nested{}), nil, "")
	if assert.Nil(t, err) {
		assert.Equal(t, []string{
			"S.I", "S.PI",
			"S.CI", "S.PCI",
			"S.B", "S.PB",
			"PS.I", "PS.PI",
			"PS.CI", "PS.PCI",
			"PS.B", "PS.PB",
		}, names)
		assert.Equal(t, []fieldPath{
			{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5},
			{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5},
		}, paths)
		assert.True(t, len(names) == len(paths))
	}

	testStruct := Nested{}
	for i, path := range paths {
		val, field := followPathThroughStructs(reflect.ValueOf(&testStruct), path)
		assert.True(t, val.IsValid())
		assert.True(t, strings.Contains(names[i], field.Name))
	}
}

func TestCompileQuery(t *testing.T) {
	type Dest struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}

	t.Run("plain columns", func(t *testing.T) {
		c := compileQuery(`SELECT $columns FROM forum`, reflect.TypeOf(Dest{}))
		assert.Equal(t, `SELECT id, name FROM forum`, c.query)
	})
	t.Run("prefixed columns", func(t *testing.T) {
		c := compileQuery(`SELECT $columns{forum} FROM forum`, reflect.TypeOf(Dest{}))
		assert.Equal(t, `SELECT forum.id, forum.name FROM forum`, c.query)
	})
}

func TestQueryBuilder(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		var qb QueryBuilder
		qb.Add("SELECT stuff FROM thing WHERE id = $?", 3)
		qb.Add("AND foo = $?", "bar")
		assert.Equal(t, "SELECT stuff FROM thing WHERE id = $1\nAND foo = $2\n", qb.String())
		assert.Equal(t, []interface{}{3, "bar"}, qb.Args())
	})
	t.Run("too few arguments", func(t *testing.T) {
		var qb QueryBuilder
		assert.Panics(t, func() {
			qb.Add("HELLO $? $? $?", 1, 2)
		})
	})
	t.Run("too many arguments", func(t *testing.T) {
		var qb QueryBuilder
		assert.Panics(t, func() {
			qb.Add("HELLO $? $? $?", 1, 2, 3, 4)
		})
	})
}

func TestGetQueryName(t *testing.T) {
	name, ok := GetQueryName("---- Fetch threads\nSELECT 1")
	assert.True(t, ok)
	assert.Equal(t, "Fetch threads", name)

	_, ok = GetQueryName("SELECT 1")
	assert.False(t, ok)
}
