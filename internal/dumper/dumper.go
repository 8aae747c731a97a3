// Package dumper renders value trees as JSON text.
package dumper

import (
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

// Options control the rendering.
type Options struct {
	// Indent is the number of spaces per nesting level. Negative values
	// count as zero: members still go on their own lines.
	Indent int
	// Escape turns quotes, backslashes, control characters, '/' and every
	// non-ASCII code point into backslash escapes. When false strings are
	// written verbatim between quotes.
	Escape bool
	// Compact puts the whole document on one line without spaces.
	Compact bool
	// Colorizer, when set, wraps keys and scalars in terminal color codes.
	Colorizer *Colorizer
}

// Dump renders v with indentWidth spaces per level.
func Dump(v *value.Value, indentWidth int, escapeStrings bool) string {
	return DumpWithOptions(v, Options{Indent: indentWidth, Escape: escapeStrings})
}

// DumpWithOptions renders v according to opts.
func DumpWithOptions(v *value.Value, opts Options) string {
	d := dumper{opts: opts}
	if d.opts.Indent < 0 {
		d.opts.Indent = 0
	}
	d.process(v)
	return d.buf.String()
}

// Write renders v to w.
func Write(w io.Writer, v *value.Value, opts Options) error {
	if _, err := io.WriteString(w, DumpWithOptions(v, opts)); err != nil {
		return errors.NewOutputError("failed to write JSON", err)
	}
	return nil
}

type dumper struct {
	opts  Options
	buf   bytes.Buffer
	level int
}

// newLine starts a line at the current indentation level.
func (d *dumper) newLine() {
	if d.opts.Compact {
		return
	}
	d.buf.WriteByte('\n')
	for i := d.opts.Indent * d.level; i > 0; i-- {
		d.buf.WriteByte(' ')
	}
}

func (d *dumper) process(v *value.Value) {
	switch v.Kind() {
	case value.Object:
		d.object(v)
	case value.Array:
		d.array(v)
	case value.String:
		s, _ := v.AsString()
		d.scalar(stringColor, d.quote(s))
	case value.Number:
		n, _ := v.AsNumber()
		d.scalar(numberColor, formatNumber(n))
	case value.Boolean:
		b, _ := v.AsBool()
		d.scalar(boolColor, strconv.FormatBool(b))
	default:
		d.scalar(nullColor, "null")
	}
}

func (d *dumper) object(v *value.Value) {
	n, _ := v.Len()
	if n == 0 {
		d.buf.WriteString("{}")
		return
	}
	d.buf.WriteByte('{')
	d.level++
	i := 0
	for key, member := range v.Members() {
		d.newLine()
		d.key(key)
		d.buf.WriteByte(':')
		if !d.opts.Compact {
			d.buf.WriteByte(' ')
		}
		d.process(member)
		if i++; i < n {
			d.buf.WriteByte(',')
		}
	}
	d.level--
	d.newLine()
	d.buf.WriteByte('}')
}

func (d *dumper) array(v *value.Value) {
	n, _ := v.Len()
	if n == 0 {
		d.buf.WriteString("[]")
		return
	}
	d.buf.WriteByte('[')
	d.level++
	for i, item := range v.Elements() {
		d.newLine()
		d.process(item)
		if i < n-1 {
			d.buf.WriteByte(',')
		}
	}
	d.level--
	d.newLine()
	d.buf.WriteByte(']')
}

func (d *dumper) quote(s string) string {
	if d.opts.Escape {
		return `"` + Escape(s) + `"`
	}
	return `"` + s + `"`
}

func (d *dumper) key(k string) {
	c := d.opts.Colorizer
	if c != nil {
		d.buf.Write(c.KeyColorCode)
	}
	d.buf.WriteString(d.quote(k))
	if c != nil {
		d.buf.Write(c.ResetCode)
	}
}

func (d *dumper) scalar(kind scalarKind, text string) {
	c := d.opts.Colorizer
	if c != nil {
		d.buf.Write(c.ScalarColorCodes[kind])
	}
	d.buf.WriteString(text)
	if c != nil {
		d.buf.Write(c.ResetCode)
	}
}

// formatNumber gives the shortest decimal that parses back to n, switching
// to exponent form outside [1e-6, 1e21). NaN and infinities have no JSON
// spelling and come out as null.
func formatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "null"
	}
	format := byte('f')
	if abs := math.Abs(n); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, n, format, -1, 64)
	if format == 'e' {
		// e-07 -> e-7
		if k := len(b); k >= 4 && b[k-4] == 'e' && b[k-3] == '-' && b[k-2] == '0' {
			b[k-2] = b[k-1]
			b = b[:k-1]
		}
	}
	return string(b)
}
