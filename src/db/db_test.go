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

	names, paths := getColumnNamesAndPaths(reflect.TypeOf(Nested{}), nil, nil)
	assert.Equal(t, []columnName{
		{"S", "I"}, {"S", "PI"},
		{"S", "CI"}, {"S", "PCI"},
		{"S", "B"}, {"S", "PB"},
		{"PS", "I"}, {"PS", "PI"},
		{"PS", "CI"}, {"PS", "PCI"},
		{"PS", "B"}, {"PS", "PB"},
	}, names)
	assert.Equal(t, []fieldPath{
		{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5},
		{1, 0}, {1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5},
	}, paths)
	assert.True(t, len(names) == len(paths))

	testStruct := Nested{}
	for i, path := range paths {
		val, field := followPathThroughStructs(reflect.ValueOf(&testStruct), path)
		assert.True(t, val.IsValid())
		assert.True(t, strings.Contains(strings.Join(names[i], "."), field.Name))
	}
}

func TestCompileQuery(t *testing.T) {
	type Dest struct {
		ID    int    `db:"id"`
		Title string `db:"title"`
	}

	t.Run("no $columns", func(t *testing.T) {
		compiled := compileQuery("SELECT id FROM article", reflect.TypeOf(0))
		assert.Equal(t, "SELECT id FROM article", compiled.query)
	})
	t.Run("plain $columns", func(t *testing.T) {
		compiled := compileQuery("SELECT $columns FROM article", reflect.TypeOf(Dest{}))
		assert.Equal(t, "SELECT id, title FROM article", compiled.query)
	})
	t.Run("$columns with prefix", func(t *testing.T) {
		compiled := compileQuery("SELECT $columns{a} FROM article AS a", reflect.TypeOf(Dest{}))
		assert.Equal(t, "SELECT a.id, a.title FROM article AS a", compiled.query)
	})
}
