package value

import (
	"slices"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func (v *Value) mismatch(op string, want string) error {
	return errors.NewTypeMismatch("%s needs %s, node is %s", op, want, v.Kind())
}

// AsBool returns a boolean node's value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != Boolean {
		return false, v.mismatch("AsBool", "boolean")
	}
	return v.boolean, nil
}

// AsNumber returns a number node's value.
func (v *Value) AsNumber() (float64, error) {
	if v.Kind() != Number {
		return 0, v.mismatch("AsNumber", "number")
	}
	return v.number, nil
}

// AsString returns a string node's value.
func (v *Value) AsString() (string, error) {
	if v.Kind() != String {
		return "", v.mismatch("AsString", "string")
	}
	return v.str, nil
}

// Get reads an object member. The returned node is still owned by v, so
// writing through it updates the tree.
func (v *Value) Get(key string) (*Value, error) {
	if v.Kind() != Object {
		return nil, v.mismatch("Get", "object")
	}
	child, ok := v.members.Get(key)
	if !ok {
		return nil, errors.NewKeyNotFound(key)
	}
	return child, nil
}

// Entry is the write form of Get: a missing key is first inserted as null.
// Only one level is created per call; an Entry on the returned null node
// fails until that node has been replaced by an object.
func (v *Value) Entry(key string) (*Value, error) {
	if v.Kind() != Object {
		return nil, v.mismatch("Entry", "object")
	}
	if child, ok := v.members.Get(key); ok {
		return child, nil
	}
	child := NewNull()
	v.members.Set(key, child)
	return child, nil
}

// At returns the array element at index. The bounds are strict: there is no
// growth on write, use Push or Resize for that.
func (v *Value) At(index int) (*Value, error) {
	if v.Kind() != Array {
		return nil, v.mismatch("At", "array")
	}
	if index < 0 || index >= len(v.items) {
		return nil, errors.NewIndexOutOfBounds(index, len(v.items))
	}
	return v.items[index], nil
}

// Insert moves child under key, replacing any previous member in place.
// child is left null; when it is v or contains v it is copied instead.
func (v *Value) Insert(key string, child *Value) error {
	if v.Kind() != Object {
		return v.mismatch("Insert", "object")
	}
	v.members.Set(key, v.adopt(child))
	return nil
}

// Push moves child onto the end of an array, with the same ownership
// rules as Insert.
func (v *Value) Push(child *Value) error {
	if v.Kind() != Array {
		return v.mismatch("Push", "array")
	}
	v.items = append(v.items, v.adopt(child))
	return nil
}

// Remove deletes key from an object and hands back the detached member.
func (v *Value) Remove(key string) (*Value, bool, error) {
	if v.Kind() != Object {
		return nil, false, v.mismatch("Remove", "object")
	}
	old, ok := v.members.Delete(key)
	return old, ok, nil
}

// ContainsKey reports whether an object has key.
func (v *Value) ContainsKey(key string) (bool, error) {
	if v.Kind() != Object {
		return false, v.mismatch("ContainsKey", "object")
	}
	_, ok := v.members.Get(key)
	return ok, nil
}

// Len returns the number of members or elements.
func (v *Value) Len() (int, error) {
	switch v.Kind() {
	case Object:
		return v.members.Len(), nil
	case Array:
		return len(v.items), nil
	}
	return 0, v.mismatch("Len", "object or array")
}

// Clear empties an object or array.
func (v *Value) Clear() error {
	switch v.Kind() {
	case Object:
		v.members = orderedmap.New[string, *Value]()
		return nil
	case Array:
		clear(v.items)
		v.items = v.items[:0]
		return nil
	}
	return v.mismatch("Clear", "object or array")
}

// Resize truncates an array or pads it with fresh null nodes.
func (v *Value) Resize(n int) error {
	if v.Kind() != Array {
		return v.mismatch("Resize", "array")
	}
	if n < 0 {
		return errors.NewIndexOutOfBounds(n, len(v.items))
	}
	if n <= len(v.items) {
		clear(v.items[n:])
		v.items = v.items[:n]
		return nil
	}
	v.items = slices.Grow(v.items, n-len(v.items))
	for len(v.items) < n {
		v.items = append(v.items, NewNull())
	}
	return nil
}

// Reserve grows an array's capacity for at least additional more elements.
func (v *Value) Reserve(additional int) error {
	if v.Kind() != Array {
		return v.mismatch("Reserve", "array")
	}
	if additional > 0 {
		v.items = slices.Grow(v.items, additional)
	}
	return nil
}
