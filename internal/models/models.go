// Package models holds the shape descriptors the mapping codec walks.
package models

import (
	"fmt"
	"reflect"
)

// Kind is the mapping category of a Go type.
type Kind int

const (
	Invalid Kind = iota
	Bool
	Int
	Uint
	Float
	String
	Slice
	Array
	Map
	Struct
	Tuple
	Union
	Pointer
	Interface
	Value
	Custom
)

var kindNames = [...]string{
	Invalid:   "invalid",
	Bool:      "bool",
	Int:       "int",
	Uint:      "uint",
	Float:     "float",
	String:    "string",
	Slice:     "slice",
	Array:     "array",
	Map:       "map",
	Struct:    "struct",
	Tuple:     "tuple",
	Union:     "union",
	Pointer:   "pointer",
	Interface: "interface",
	Value:     "value",
	Custom:    "custom",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// TypeInfo describes how one Go type maps onto a value tree.
type TypeInfo struct {
	Kind Kind
	Name string // Go type as printed by reflect
	Type reflect.Type

	// Elem is the element of a Slice, Array, Map or Pointer.
	Elem *TypeInfo
	// Len is the arity of an Array.
	Len int
	// Fields lists the mapped fields of a Struct or Tuple in declaration order.
	Fields []FieldInfo

	// Encoder is set when the type (or a pointer to it) provides its own
	// encoding; Decoder when a pointer to it provides its own decoding.
	Encoder bool
	Decoder bool
}

// FieldInfo is one mapped struct field.
type FieldInfo struct {
	GoName  string
	JSONKey string // empty for Tuple fields
	Index   []int
	Type    *TypeInfo
}

// Arity is the number of mapped fields.
func (t *TypeInfo) Arity() int { return len(t.Fields) }

// Field looks a Struct field up by its object key.
func (t *TypeInfo) Field(key string) (FieldInfo, bool) {
	for _, f := range t.Fields {
		if f.JSONKey == key {
			return f, true
		}
	}
	return FieldInfo{}, false
}
