// Package lexer turns JSON text into a flat token sequence.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
)

// Options control how malformed input is reported.
type Options struct {
	// Lenient emits an Error token for a malformed element and keeps going.
	// When false the first malformed element stops the lexer.
	Lenient bool
}

// Lexer scans one input left to right with a single character of lookahead.
type Lexer struct {
	input string
	pos   int
	opts  Options
}

// NewLexer creates a lexer over input.
func NewLexer(input string, opts Options) *Lexer {
	return &Lexer{input: input, opts: opts}
}

// Tokenize scans the whole input in strict mode. On failure the tokens
// produced before the malformed element are returned with the error.
func Tokenize(input string) ([]Token, error) {
	return NewLexer(input, Options{}).All()
}

// TokenizeLenient scans the whole input, replacing malformed elements by
// Error tokens. It never fails.
func TokenizeLenient(input string) []Token {
	tokens, _ := NewLexer(input, Options{Lenient: true}).All()
	return tokens
}

// All drains the lexer.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Offset returns the byte offset of the next unread character.
func (l *Lexer) Offset() int { return l.pos }

// Next returns the next token; ok is false once the input is exhausted.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, false, nil
	}
	start := l.pos
	tok, err = l.scan()
	if err != nil {
		if !l.opts.Lenient {
			return Token{}, false, err
		}
		return Token{Type: Error, Str: err.Error(), Offset: start}, true, nil
	}
	tok.Offset = start
	return tok, true, nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *Lexer) scan() (Token, error) {
	c := l.input[l.pos]
	switch {
	case c == '"':
		return l.scanString()
	case isNumberStart(c):
		return l.scanNumber()
	case isLetter(c):
		return l.scanWord()
	}

	l.pos++
	switch c {
	case ',':
		return Token{Type: Comma}, nil
	case ':':
		return Token{Type: Colon}, nil
	case '{':
		return Token{Type: LeftBrace}, nil
	case '}':
		return Token{Type: RightBrace}, nil
	case '[':
		return Token{Type: LeftBracket}, nil
	case ']':
		return Token{Type: RightBracket}, nil
	}

	l.pos--
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	start := l.pos
	l.pos += size
	return Token{}, errors.NewUnexpectedToken(start, "character %q", r)
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func isNumberByte(c byte) bool {
	return isNumberStart(c) || c == 'e' || c == 'E'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanNumber takes the longest run of number characters and lets strconv
// decide whether it is a float.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isNumberByte(l.input[l.pos]) {
		l.pos++
	}
	text := l.input[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, errors.NewMalformedNumber(start, text)
	}
	return Token{Type: Number, Num: n}, nil
}

func (l *Lexer) scanWord() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		l.pos++
	}
	switch word := l.input[start:l.pos]; word {
	case "true":
		return Token{Type: Boolean, Bool: true}, nil
	case "false":
		return Token{Type: Boolean, Bool: false}, nil
	case "null":
		return Token{Type: Null}, nil
	default:
		return Token{}, errors.NewMalformedLiteral(start, word)
	}
}

// scanString reads up to and including the closing quote. Strings must be
// valid UTF-8. After a bad escape or byte it still runs to the closing quote
// so lenient mode resumes after the whole string.
func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++

	var sb strings.Builder
	var bad error
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '"':
			l.pos++
			if bad != nil {
				return Token{}, bad
			}
			return Token{Type: String, Str: sb.String()}, nil
		case '\\':
			r, err := l.scanEscape()
			if err != nil {
				if errors.TypeOf(err) == errors.ErrorTypeUnexpectedEndOfInput {
					return Token{}, err
				}
				if bad == nil {
					bad = err
				}
				continue
			}
			sb.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(l.input[l.pos:])
			if r == utf8.RuneError && size == 1 {
				if bad == nil {
					bad = errors.NewUnexpectedToken(l.pos, "invalid UTF-8 byte 0x%02x in string", c)
				}
				l.pos++
				continue
			}
			sb.WriteString(l.input[l.pos : l.pos+size])
			l.pos += size
		}
	}
	return Token{}, errors.NewUnexpectedEndOfInput("unterminated string starting at offset %d", start)
}

func (l *Lexer) scanEscape() (rune, error) {
	start := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.input) {
		return 0, errors.NewUnexpectedEndOfInput("escape at offset %d", start)
	}
	c := l.input[l.pos]
	l.pos++
	switch c {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return l.scanUnicodeEscape(), nil
	}
	l.pos--
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return 0, errors.NewMalformedEscape(start, `\%c`, r)
}

// scanUnicodeEscape decodes the digits after `\u`. Anything short of four
// hex digits, and any surrogate that is not half of a proper pair, becomes
// U+FFFD.
func (l *Lexer) scanUnicodeEscape() rune {
	r, ok := l.hex4(l.pos)
	if !ok {
		for l.pos < len(l.input) && isHex(l.input[l.pos]) {
			l.pos++
		}
		return utf8.RuneError
	}
	l.pos += 4
	if !utf16.IsSurrogate(r) {
		return r
	}
	if r >= 0xDC00 || !strings.HasPrefix(l.input[l.pos:], `\u`) {
		return utf8.RuneError
	}
	low, ok := l.hex4(l.pos + 2)
	if !ok {
		return utf8.RuneError
	}
	combined := utf16.DecodeRune(r, low)
	if combined == utf8.RuneError {
		return utf8.RuneError
	}
	l.pos += 6
	return combined
}

// hex4 parses exactly four hex digits at offset without consuming them.
func (l *Lexer) hex4(offset int) (rune, bool) {
	if offset+4 > len(l.input) {
		return 0, false
	}
	var r rune
	for i := offset; i < offset+4; i++ {
		c := l.input[i]
		if !isHex(c) {
			return 0, false
		}
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		default:
			r |= rune(c-'A') + 10
		}
	}
	return r, true
}
