package value

import (
	"math"
	"testing"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Value {
	obj := NewObject()
	_ = obj.Insert("a", NewNumber(1))
	_ = obj.Insert("b", NewArray(NewNumber(1), NewNumber(2), NewNumber(3)))
	_ = obj.Insert("c", NewString("x"))
	return obj
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.Equal(t, Null, v.Kind())
	assert.True(t, v.IsNull())

	var nilPtr *Value
	assert.Equal(t, Null, nilPtr.Kind())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "invalid", Kind(42).String())
}

func TestScalarAccessors(t *testing.T) {
	b, err := NewBool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	n, err := NewNumber(2.5).AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 2.5, n)

	s, err := NewString("hi").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = NewString("hi").AsNumber()
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
	_, err = NewNull().AsBool()
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
}

func TestClone_IsDeep(t *testing.T) {
	orig := sample()
	cp := orig.Clone()
	require.True(t, orig.Equal(cp))

	arr, err := cp.Get("b")
	require.NoError(t, err)
	require.NoError(t, arr.Push(NewNumber(4)))

	origArr, err := orig.Get("b")
	require.NoError(t, err)
	n, _ := origArr.Len()
	assert.Equal(t, 3, n, "mutating the clone must not touch the original")
	assert.False(t, orig.Equal(cp))
}

func TestSet_MovesSubtree(t *testing.T) {
	root := NewObject()
	slot, err := root.Entry("child")
	require.NoError(t, err)

	src := NewArray(NewBool(true))
	slot.Set(src)

	assert.True(t, src.IsNull(), "source is left null after a move")
	got, err := root.Get("child")
	require.NoError(t, err)
	assert.True(t, got.Equal(NewArray(NewBool(true))))
}

func TestSet_AncestorIsCopied(t *testing.T) {
	root := NewObject()
	inner, err := root.Entry("inner")
	require.NoError(t, err)
	inner.Set(NewNumber(7))

	inner.Set(root)

	// root is untouched and inner now holds a copy of the old root.
	assert.Equal(t, Object, root.Kind())
	assert.Equal(t, Object, inner.Kind())
	nested, err := inner.Get("inner")
	require.NoError(t, err)
	n, err := nested.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 7.0, n)
}

func TestSet_NilAndSelf(t *testing.T) {
	v := NewNumber(1)
	v.Set(v)
	assert.Equal(t, Number, v.Kind())
	v.Set(nil)
	assert.True(t, v.IsNull())
}

func TestEqual(t *testing.T) {
	a := NewObject()
	_ = a.Insert("x", NewNumber(1))
	_ = a.Insert("y", NewNumber(2))
	b := NewObject()
	_ = b.Insert("y", NewNumber(2))
	_ = b.Insert("x", NewNumber(1))

	assert.True(t, a.Equal(b), "member order is not significant")
	assert.False(t, NewArray(NewNumber(1), NewNumber(2)).Equal(NewArray(NewNumber(2), NewNumber(1))))
	assert.False(t, NewNumber(math.NaN()).Equal(NewNumber(math.NaN())))
	assert.False(t, NewNull().Equal(NewBool(false)))
	assert.True(t, NewNull().Equal(nil))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, NewNumber(1).IsFinite())
	assert.False(t, NewNumber(math.Inf(-1)).IsFinite())
	assert.False(t, NewNumber(math.NaN()).IsFinite())
	assert.True(t, NewString("NaN").IsFinite())
}

func TestIteration(t *testing.T) {
	obj := sample()
	var keys []string
	for k := range obj.Members() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, keys, obj.Keys())

	arr, _ := obj.Get("b")
	sum := 0.0
	for i, item := range arr.Elements() {
		n, err := item.AsNumber()
		require.NoError(t, err)
		sum += n * float64(i+1)
	}
	assert.Equal(t, 14.0, sum)

	for range NewString("s").Elements() {
		t.Fatal("scalars have no elements")
	}
	assert.Nil(t, NewArray().Keys())
}

func TestIteration_EarlyBreak(t *testing.T) {
	count := 0
	for range sample().Members() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
