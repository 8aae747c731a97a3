// Package build assembles value trees from Go literals.
//
//	doc := build.Must(build.Object(
//		build.Field("name", "Ada"),
//		build.Field("tags", build.Must(build.Array("math", 1843))),
//	))
package build

import (
	"fmt"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/mapping"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

// Member is one key and value of an object literal.
type Member struct {
	Key   string
	Value any
}

// Field pairs a key with a value for Object.
func Field(key string, v any) Member {
	return Member{Key: key, Value: v}
}

// Object builds an object from members in order. A repeated key keeps its
// first position and takes the last value.
func Object(members ...Member) (*value.Value, error) {
	obj := value.NewObject()
	for _, m := range members {
		child, err := From(m.Value)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("key %q", m.Key))
		}
		_ = obj.Insert(m.Key, child)
	}
	return obj, nil
}

// Array builds an array from items in order.
func Array(items ...any) (*value.Value, error) {
	arr := value.NewArray()
	_ = arr.Reserve(len(items))
	for i, item := range items {
		child, err := From(item)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("index %d", i))
		}
		_ = arr.Push(child)
	}
	return arr, nil
}

// From converts one literal item. A *value.Value is moved: the returned
// node takes its contents and the argument is left null. Anything that is
// not a plain literal goes through the default codec.
func From(v any) (*value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.NewNull(), nil
	case *value.Value:
		out := value.NewNull()
		out.Set(x)
		return out, nil
	case value.Value:
		return x.Clone(), nil
	case Member:
		return Object(x)
	case []Member:
		return Object(x...)
	case bool:
		return value.NewBool(x), nil
	case string:
		return value.NewString(x), nil
	case int:
		return value.NewNumber(float64(x)), nil
	case int64:
		return value.NewNumber(float64(x)), nil
	case float64:
		return value.NewNumber(x), nil
	}
	return mapping.Default().Encode(v)
}

// Must returns v and panics on err. It is meant for literals in tests and
// initialisers whose shape is fixed at compile time.
func Must(v *value.Value, err error) *value.Value {
	if err != nil {
		panic(err)
	}
	return v
}
