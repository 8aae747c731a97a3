package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/lexer"
	"github.com/YiRanMushroom/jsonkit/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(kv ...any) *value.Value {
	o := value.NewObject()
	for i := 0; i < len(kv); i += 2 {
		_ = o.Insert(kv[i].(string), kv[i+1].(*value.Value))
	}
	return o
}

func num(n float64) *value.Value { return value.NewNumber(n) }

func TestParse_SimpleObject(t *testing.T) {
	root, err := ParseString(`{"a":1,"b":[1,2,3]}`)
	require.NoError(t, err)

	expected := obj(
		"a", num(1),
		"b", value.NewArray(num(1), num(2), num(3)),
	)
	assert.True(t, expected.Equal(root), "got %v", root.Keys())
	assert.Equal(t, []string{"a", "b"}, root.Keys())
}

func TestParse_SimpleArray(t *testing.T) {
	root, err := Parse(strings.NewReader(`[1, "test", true, null, 3.14]`))
	require.NoError(t, err)

	expected := value.NewArray(num(1), value.NewString("test"), value.NewBool(true), value.NewNull(), num(3.14))
	assert.True(t, expected.Equal(root))
}

func TestParse_NestedObject(t *testing.T) {
	root, err := ParseString(`{"user": {"name": "Jane Doe", "id": 123}, "active": true, "tags": ["go", "json"]}`)
	require.NoError(t, err)

	user, err := root.Get("user")
	require.NoError(t, err)
	name, err := user.Get("name")
	require.NoError(t, err)
	s, _ := name.AsString()
	assert.Equal(t, "Jane Doe", s)

	tags, err := root.Get("tags")
	require.NoError(t, err)
	n, _ := tags.Len()
	assert.Equal(t, 2, n)
}

func TestParse_TopLevelScalars(t *testing.T) {
	tests := []struct {
		input    string
		expected *value.Value
	}{
		{`"text"`, value.NewString("text")},
		{`42`, num(42)},
		{`false`, value.NewBool(false)},
		{`null`, value.NewNull()},
		{`{}`, value.NewObject()},
		{`[]`, value.NewArray()},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(root))
		})
	}
}

func TestParse_DuplicateKeys(t *testing.T) {
	root, err := ParseString(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, root.Keys())
	a, _ := root.Get("a")
	n, _ := a.AsNumber()
	assert.Equal(t, 3.0, n)
}

func TestParse_CommaPolicy(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing comma in array", `[1, 2,]`},
		{"trailing comma in object", `{"a": 1,}`},
		{"leading comma in array", `[,1]`},
		{"doubled comma in array", `[1,,2]`},
		{"lone comma in array", `[,]`},
		{"missing comma in array", `[1 2]`},
		{"missing comma in object", `{"a": 1 "b": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.ErrorIs(t, err, errors.ErrUnexpectedToken)
		})
	}
}

func TestParse_RequiresSingleDocument(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`)
	assert.ErrorIs(t, err, errors.ErrUnexpectedToken)

	_, err = ParseString(`[1] ]`)
	assert.ErrorIs(t, err, errors.ErrUnexpectedToken)

	_, err = ParseString("  [1]  \n")
	assert.NoError(t, err, "trailing whitespace is fine")
}

func TestParse_ObjectErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"non-string key", `{1: 2}`, errors.ErrUnexpectedToken},
		{"missing colon", `{"a" 1}`, errors.ErrUnexpectedToken},
		{"missing value", `{"a": }`, errors.ErrUnexpectedToken},
		{"unterminated", `{"a": 1`, errors.ErrUnexpectedEndOfInput},
		{"unterminated after brace", `{`, errors.ErrUnexpectedEndOfInput},
		{"ends after key", `{"a"`, errors.ErrUnexpectedEndOfInput},
		{"ends after colon", `{"a":`, errors.ErrUnexpectedEndOfInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParse_ArrayErrors(t *testing.T) {
	_, err := ParseString(`[1, 2`)
	assert.ErrorIs(t, err, errors.ErrUnexpectedEndOfInput)

	_, err = ParseString(`[1, :]`)
	assert.ErrorIs(t, err, errors.ErrUnexpectedToken)

	_, err = ParseString(`]`)
	assert.ErrorIs(t, err, errors.ErrUnexpectedToken)
}

func TestParse_LexErrorsPropagate(t *testing.T) {
	_, err := ParseString(`{"a": tru}`)
	assert.ErrorIs(t, err, errors.ErrMalformedLiteral)

	_, err = ParseString(`[1e+]`)
	assert.ErrorIs(t, err, errors.ErrMalformedNumber)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := ParseString("   \n\t")
	assert.ErrorIs(t, err, errors.ErrEmptyInput)

	_, err = ParseTokens(nil, Options{})
	assert.ErrorIs(t, err, errors.ErrUnexpectedEndOfInput)
}

func TestParse_DepthLimit(t *testing.T) {
	_, err := ParseStringWithOptions(`[[1]]`, Options{MaxDepth: 2})
	assert.NoError(t, err)

	_, err = ParseStringWithOptions(`[[[1]]]`, Options{MaxDepth: 2})
	assert.ErrorIs(t, err, errors.ErrDepthExceeded)

	deep := strings.Repeat("[", DefaultMaxDepth+1) + strings.Repeat("]", DefaultMaxDepth+1)
	_, err = ParseString(deep)
	assert.ErrorIs(t, err, errors.ErrDepthExceeded)

	ok := strings.Repeat("[", DefaultMaxDepth) + strings.Repeat("]", DefaultMaxDepth)
	_, err = ParseString(ok)
	assert.NoError(t, err)
}

func TestParseTokens_LenientErrorToken(t *testing.T) {
	tokens := lexer.TokenizeLenient(`[1, oops]`)
	_, err := ParseTokens(tokens, Options{})
	assert.ErrorIs(t, err, errors.ErrUnexpectedToken)
	assert.Contains(t, err.Error(), "malformed literal")
}

func TestParse_ReusesAsWriteTarget(t *testing.T) {
	root, err := ParseString(`{"name": "Alice", "courses": [{"credits": 3e3}]}`)
	require.NoError(t, err)

	name, err := root.Entry("name")
	require.NoError(t, err)
	name.Set(value.NewString("Bob"))

	courses, err := root.Get("courses")
	require.NoError(t, err)
	first, err := courses.At(0)
	require.NoError(t, err)
	credits, err := first.Entry("credits")
	require.NoError(t, err)
	credits.SetNull()

	expected, err := ParseString(`{"name": "Bob", "courses": [{"credits": null}]}`)
	require.NoError(t, err)
	assert.True(t, expected.Equal(root))
}

func TestParseFile(t *testing.T) {
	root, err := ParseFile(filepath.Join("..", "..", "testdata", "samples", "person.json"))
	require.NoError(t, err)

	msg, err := root.Get("message")
	require.NoError(t, err)
	s, _ := msg.AsString()
	assert.Equal(t, "你好中国", s)

	graduated, err := root.Get("graduated")
	require.NoError(t, err)
	assert.True(t, graduated.IsNull())
}

func TestParseFile_Errors(t *testing.T) {
	_, err := ParseFile("")
	assert.ErrorIs(t, err, errors.ErrInvalidFilePath)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ParseFile(empty)
	assert.ErrorIs(t, err, errors.ErrFileEmpty)
}
