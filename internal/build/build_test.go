package build

import (
	"testing"

	"github.com/YiRanMushroom/jsonkit/internal/dumper"
	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/parser"
	"github.com/YiRanMushroom/jsonkit/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compact(v *value.Value) string {
	return dumper.DumpWithOptions(v, dumper.Options{Compact: true})
}

type course struct {
	Name    string
	Credits float64
}

func TestObject_Literals(t *testing.T) {
	key := "computed"
	doc, err := Object(
		Field("name", "Alice"),
		Field("age", 20),
		Field("gpa", 3.5),
		Field("graduated", nil),
		Field("active", true),
		Field(key+"_key", int64(7)),
		Field("nested", Must(Array(1, "two", false))),
		Field("empty", Must(Object())),
	)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"Alice","age":20,"gpa":3.5,"graduated":null,"active":true,"computed_key":7,`+
			`"nested":[1,"two",false],"empty":{}}`,
		compact(doc))
}

func TestObject_MatchesParsedText(t *testing.T) {
	built := Must(Object(
		Field("a", 1),
		Field("b", Must(Array(1, 2, 3))),
	))
	parsed, err := parser.ParseString(`{"a":1,"b":[1,2,3]}`)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(built))
}

func TestObject_MemberShorthand(t *testing.T) {
	doc := Must(Object(
		Field("one", Field("inner", 1)),
		Field("many", []Member{Field("x", 1), Field("y", 2)}),
	))
	assert.Equal(t, `{"one":{"inner":1},"many":{"x":1,"y":2}}`, compact(doc))
}

func TestObject_DuplicateKeys(t *testing.T) {
	doc := Must(Object(Field("k", 1), Field("other", 2), Field("k", 3)))
	assert.Equal(t, `{"k":3,"other":2}`, compact(doc))
}

func TestFrom_MovesValues(t *testing.T) {
	child := Must(Array(1, 2))
	doc := Must(Object(Field("list", child)))
	assert.Equal(t, `{"list":[1,2]}`, compact(doc))
	assert.True(t, child.IsNull(), "the argument was moved into the tree")

	src := Must(Array("x"))
	copied := Must(Array(*src))
	assert.Equal(t, `[["x"]]`, compact(copied))
	assert.False(t, src.IsNull())
}

func TestFrom_EncodesThroughCodec(t *testing.T) {
	doc := Must(Object(
		Field("courses", []course{{Name: "Math", Credits: 3}}),
		Field("scores", map[string]int{"b": 2, "a": 1}),
		Field("small", uint8(4)),
		Field("ptr", (*course)(nil)),
	))
	assert.Equal(t,
		`{"courses":[{"Name":"Math","Credits":3}],"scores":{"a":1,"b":2},"small":4,"ptr":null}`,
		compact(doc))
}

func TestObject_Errors(t *testing.T) {
	_, err := Object(Field("bad", make(chan int)))
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.Contains(t, err.Error(), `key "bad"`)

	_, err = Array(1, func() {})
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.Contains(t, err.Error(), "index 1")
}

func TestMust_Panics(t *testing.T) {
	assert.Panics(t, func() { Must(Array(make(chan int))) })
	assert.NotPanics(t, func() { Must(Array()) })
}
