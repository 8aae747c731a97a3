package lexer

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Literals
	String TokenType = iota
	Number
	Boolean
	Null

	// Punctuation
	Comma        // ","
	Colon        // ":"
	LeftBrace    // "{"
	RightBrace   // "}"
	LeftBracket  // "["
	RightBracket // "]"

	// Error stands in for a malformed element in lenient mode.
	Error
)

var tokenNames = [...]string{
	String:       "string",
	Number:       "number",
	Boolean:      "boolean",
	Null:         "null",
	Comma:        "','",
	Colon:        "':'",
	LeftBrace:    "'{'",
	RightBrace:   "'}'",
	LeftBracket:  "'['",
	RightBracket: "']'",
	Error:        "error",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is one lexical element. Only the payload field matching Type is set;
// for Error tokens Str holds the error message.
type Token struct {
	Type   TokenType
	Str    string
	Num    float64
	Bool   bool
	Offset int // byte offset of the first character
}

// String renders the token for diagnostics, e.g. `number 2.5 @4`.
func (t Token) String() string {
	switch t.Type {
	case String:
		return fmt.Sprintf("string %s @%d", strconv.Quote(t.Str), t.Offset)
	case Number:
		return fmt.Sprintf("number %s @%d", strconv.FormatFloat(t.Num, 'g', -1, 64), t.Offset)
	case Boolean:
		return fmt.Sprintf("boolean %t @%d", t.Bool, t.Offset)
	case Error:
		return fmt.Sprintf("error %q @%d", t.Str, t.Offset)
	default:
		return fmt.Sprintf("%s @%d", t.Type, t.Offset)
	}
}
