package dumper

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Escape returns s with every character outside printable ASCII written as
// a JSON escape. Code points above U+FFFF become a surrogate pair, so the
// result is pure ASCII and decodes back to s when s is valid UTF-8. An
// invalid byte, which the lexer never produces, is written as U+FFFD.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '/':
			sb.WriteString(`\/`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				writeUnit(&sb, r)
			case r < utf8.RuneSelf:
				sb.WriteByte(byte(r))
			case r > 0xFFFF:
				hi, lo := utf16.EncodeRune(r)
				writeUnit(&sb, hi)
				writeUnit(&sb, lo)
			default:
				writeUnit(&sb, r)
			}
		}
	}
	return sb.String()
}

// writeUnit writes one UTF-16 code unit as \uXXXX.
func writeUnit(sb *strings.Builder, u rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hexDigits[u>>12&0xf])
	sb.WriteByte(hexDigits[u>>8&0xf])
	sb.WriteByte(hexDigits[u>>4&0xf])
	sb.WriteByte(hexDigits[u&0xf])
}
