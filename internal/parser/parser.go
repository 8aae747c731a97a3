package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/YiRanMushroom/jsonkit/internal/errors" // Custom errors package
	"github.com/YiRanMushroom/jsonkit/internal/lexer"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

// DefaultMaxDepth bounds nesting so hostile input cannot exhaust the stack.
const DefaultMaxDepth = 512

// Options tune the parser.
type Options struct {
	// MaxDepth is the deepest array/object nesting accepted. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// parser is a recursive-descent parser over a token slice. The only
// lookahead is the single token that unread pushes back.
type parser struct {
	tokens   []lexer.Token
	pos      int
	maxDepth int
	depth    int
}

// ParseTokens builds a tree from a complete token sequence. The sequence
// must hold exactly one value.
func ParseTokens(tokens []lexer.Token, opts Options) (*value.Value, error) {
	p := &parser{tokens: tokens, maxDepth: opts.MaxDepth}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}

	root, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.next(); ok {
		return nil, errors.NewUnexpectedToken(tok.Offset, "%s after the top-level value", tok.Type)
	}
	return root, nil
}

func (p *parser) next() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

func (p *parser) unread() { p.pos-- }

func (p *parser) parseValue() (*value.Value, error) {
	tok, ok := p.next()
	if !ok {
		return nil, errors.NewUnexpectedEndOfInput("expected a value")
	}
	switch tok.Type {
	case lexer.String:
		return value.NewString(tok.Str), nil
	case lexer.Number:
		return value.NewNumber(tok.Num), nil
	case lexer.Boolean:
		return value.NewBool(tok.Bool), nil
	case lexer.Null:
		return value.NewNull(), nil
	case lexer.LeftBrace:
		return p.nested(p.parseObject)
	case lexer.LeftBracket:
		return p.nested(p.parseArray)
	case lexer.Error:
		return nil, errors.NewUnexpectedToken(tok.Offset, "%s", tok.Str)
	default:
		return nil, errors.NewUnexpectedToken(tok.Offset, "%s where a value was expected", tok.Type)
	}
}

func (p *parser) nested(parse func() (*value.Value, error)) (*value.Value, error) {
	if p.depth >= p.maxDepth {
		return nil, errors.NewDepthExceeded(p.maxDepth)
	}
	p.depth++
	defer func() { p.depth-- }()
	return parse()
}

// parseObject runs after '{'. A repeated key keeps its first position and
// takes the last value.
func (p *parser) parseObject() (*value.Value, error) {
	obj := value.NewObject()

	tok, ok := p.next()
	if !ok {
		return nil, errors.NewUnexpectedEndOfInput("unterminated object")
	}
	if tok.Type == lexer.RightBrace {
		return obj, nil
	}
	p.unread()

	for {
		key, ok := p.next()
		if !ok {
			return nil, errors.NewUnexpectedEndOfInput("unterminated object")
		}
		if key.Type != lexer.String {
			return nil, errors.NewUnexpectedToken(key.Offset, "%s where an object key was expected", key.Type)
		}

		colon, ok := p.next()
		if !ok {
			return nil, errors.NewUnexpectedEndOfInput("expected ':' after key %q", key.Str)
		}
		if colon.Type != lexer.Colon {
			return nil, errors.NewUnexpectedToken(colon.Offset, "%s after key %q, expected ':'", colon.Type, key.Str)
		}

		member, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		_ = obj.Insert(key.Str, member)

		sep, ok := p.next()
		if !ok {
			return nil, errors.NewUnexpectedEndOfInput("unterminated object")
		}
		switch sep.Type {
		case lexer.Comma:
			continue
		case lexer.RightBrace:
			return obj, nil
		default:
			return nil, errors.NewUnexpectedToken(sep.Offset, "%s in object, expected ',' or '}'", sep.Type)
		}
	}
}

// parseArray runs after '['. Commas must separate values: leading, doubled
// and trailing commas are rejected.
func (p *parser) parseArray() (*value.Value, error) {
	arr := value.NewArray()
	expectValue := true // true right after '[' or ','
	first := true

	for {
		tok, ok := p.next()
		if !ok {
			return nil, errors.NewUnexpectedEndOfInput("unterminated array")
		}
		switch {
		case tok.Type == lexer.RightBracket:
			if expectValue && !first {
				return nil, errors.NewUnexpectedToken(tok.Offset, "trailing ',' before ']'")
			}
			return arr, nil
		case tok.Type == lexer.Comma:
			if expectValue {
				return nil, errors.NewUnexpectedToken(tok.Offset, "',' where a value was expected")
			}
			expectValue = true
		default:
			if !expectValue {
				return nil, errors.NewUnexpectedToken(tok.Offset, "%s in array, expected ',' or ']'", tok.Type)
			}
			p.unread()
			item, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			_ = arr.Push(item)
			expectValue = false
		}
		first = false
	}
}

// ParseStringWithOptions lexes and parses text.
func ParseStringWithOptions(text string, opts Options) (*value.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens, opts)
}

// ParseString parses JSON from a string
func ParseString(text string) (*value.Value, error) {
	return ParseStringWithOptions(text, Options{})
}

// Parse reads everything from reader and parses it as one JSON document
func Parse(reader io.Reader) (*value.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseString(string(data))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (*value.Value, error) {
	return ParseFileWithOptions(filePath, Options{})
}

// ParseFileWithOptions parses JSON from a file path with explicit options
func ParseFileWithOptions(filePath string, opts Options) (*value.Value, error) {
	text, err := ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseStringWithOptions(text, opts)
}

// ReadFile loads a document from disk, reporting a missing or empty file as
// an input error.
func ReadFile(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return "", errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return "", errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return "", errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return string(data), nil
}
