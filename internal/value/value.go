// Package value holds the JSON value tree shared by the lexer, parser, dumper
// and mapping packages.
//
// A tree is made of *Value nodes. Every child is owned by exactly one parent:
// Clone deep-copies, while Set, Insert, Push and NewArray move their argument
// into a fresh node and leave it null. A child that would close a cycle is
// copied instead. Object members keep insertion order.
package value

import (
	"iter"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which of the six JSON shapes a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Boolean
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:    "null",
	Boolean: "boolean",
	Number:  "number",
	String:  "string",
	Array:   "array",
	Object:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

type members = orderedmap.OrderedMap[string, *Value]

// Value is one node of a JSON tree. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	str     string
	items   []*Value
	members *members
}

// NewNull returns a fresh null node.
func NewNull() *Value { return &Value{} }

// NewBool returns a boolean node.
func NewBool(b bool) *Value { return &Value{kind: Boolean, boolean: b} }

// NewNumber returns a number node.
func NewNumber(n float64) *Value { return &Value{kind: Number, number: n} }

// NewString returns a string node.
func NewString(s string) *Value { return &Value{kind: String, str: s} }

// NewArray returns an array node that takes ownership of items. Nil items
// become null nodes.
func NewArray(items ...*Value) *Value {
	v := &Value{kind: Array, items: make([]*Value, 0, len(items))}
	for _, item := range items {
		v.items = append(v.items, v.adopt(item))
	}
	return v
}

// NewObject returns an empty object node.
func NewObject() *Value {
	return &Value{kind: Object, members: orderedmap.New[string, *Value]()}
}

// adopt returns the node v should store for child. child's contents move to
// a fresh node; when child is v or one of its ancestors it is copied.
func (v *Value) adopt(child *Value) *Value {
	if child == nil {
		return NewNull()
	}
	if child == v || child.reaches(v) {
		return child.Clone()
	}
	node := NewNull()
	node.Set(child)
	return node
}

// Kind reports the node's shape. A nil *Value reports Null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == Null }

// SetNull turns the node into null, dropping any children. It is a no-op on
// a nil receiver.
func (v *Value) SetNull() {
	if v == nil {
		return
	}
	*v = Value{}
}

// Set replaces the node's contents with other's, moving the whole subtree.
// other is left null. When v lives inside other's subtree, moving would
// create a cycle, so other is deep-copied instead and left untouched.
func (v *Value) Set(other *Value) {
	if v == nil || other == v {
		return
	}
	if other == nil {
		v.SetNull()
		return
	}
	if other.reaches(v) {
		*v = *other.Clone()
		return
	}
	*v = *other
	*other = Value{}
}

// reaches reports whether target is other than v and is a descendant of v.
func (v *Value) reaches(target *Value) bool {
	switch v.kind {
	case Array:
		for _, item := range v.items {
			if item == target || item.reaches(target) {
				return true
			}
		}
	case Object:
		for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == target || pair.Value.reaches(target) {
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy of the tree rooted at v.
func (v *Value) Clone() *Value {
	if v == nil {
		return NewNull()
	}
	switch v.kind {
	case Array:
		items := make([]*Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Clone()
		}
		return &Value{kind: Array, items: items}
	case Object:
		out := NewObject()
		for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
			out.members.Set(pair.Key, pair.Value.Clone())
		}
		return out
	default:
		c := *v
		return &c
	}
}

// Equal reports whether two trees hold the same data. Object members are
// compared as sets, so member order does not matter. NaN is not equal to
// itself.
func (v *Value) Equal(other *Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case Null:
		return true
	case Boolean:
		return v.boolean == other.boolean
	case Number:
		return v.number == other.number
	case String:
		return v.str == other.str
	case Array:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if v.members.Len() != other.members.Len() {
			return false
		}
		for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
			o, ok := other.members.Get(pair.Key)
			if !ok || !pair.Value.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// IsFinite reports whether a number node holds neither NaN nor an infinity.
// Non-number nodes report true.
func (v *Value) IsFinite() bool {
	if v.Kind() != Number {
		return true
	}
	return !math.IsNaN(v.number) && !math.IsInf(v.number, 0)
}

// Elements iterates over an array's items in order. Other kinds yield
// nothing.
func (v *Value) Elements() iter.Seq2[int, *Value] {
	return func(yield func(int, *Value) bool) {
		if v.Kind() != Array {
			return
		}
		for i, item := range v.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Members iterates over an object's members in insertion order. Other kinds
// yield nothing.
func (v *Value) Members() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if v.Kind() != Object {
			return
		}
		for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Keys returns an object's keys in insertion order, or nil for other kinds.
func (v *Value) Keys() []string {
	if v.Kind() != Object {
		return nil
	}
	keys := make([]string, 0, v.members.Len())
	for pair := v.members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
