package mapping

import (
	"testing"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type State interface{ isState() }

type Idle struct{}

type Running struct{ Speed float64 }

type Moving struct {
	X, Y int
}

type Failed struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

type Label string

type Paused struct{ Until int }

func (Idle) isState()    {}
func (Running) isState() {}
func (Moving) isState()  {}
func (Failed) isState()  {}
func (Label) isState()   {}
func (*Paused) isState() {}

type Machine struct {
	Name    string
	Current State
	History []State
}

func stateCodec(t *testing.T) *Codec {
	t.Helper()
	c := NewCodec()
	require.NoError(t, c.RegisterUnion(NewUnion[State](
		Unit[Idle]("Idle"),
		Single[Running]("Running"),
		Tuple[Moving]("Moving"),
		Named[Failed]("Failed"),
		Single[Label]("Label"),
		Single[Paused]("Paused"),
	)))
	return c
}

func TestUnion_UnitScenario(t *testing.T) {
	c := stateCodec(t)
	jv, err := c.Encode(Idle{})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"Idle"}`, compact(jv))

	back, err := DecodeAs[State](c, jv)
	require.NoError(t, err)
	assert.Equal(t, Idle{}, back)
}

func TestUnion_Encodings(t *testing.T) {
	c := stateCodec(t)
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"unit", Idle{}, `{"type":"Idle"}`},
		{"single struct", Running{Speed: 2.5}, `{"type":"Running","value":2.5}`},
		{"tuple", Moving{X: 1, Y: -2}, `{"type":"Moving","value":[1,-2]}`},
		{"named", Failed{Code: 7, Reason: "jam"}, `{"type":"Failed","value":{"code":7,"reason":"jam"}}`},
		{"single scalar", Label("hi"), `{"type":"Label","value":"hi"}`},
		{"pointer receiver", &Paused{Until: 9}, `{"type":"Paused","value":9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jv, err := EncodeAs(c, tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, compact(jv))

			back, err := DecodeAs[State](c, jv)
			require.NoError(t, err)
			assert.Equal(t, tt.state, back)
		})
	}
}

func TestUnion_NestedRoundTrip(t *testing.T) {
	c := stateCodec(t)
	original := Machine{
		Name:    "press",
		Current: Failed{Code: 3, Reason: "overheat"},
		History: []State{Idle{}, Running{Speed: 1}, Moving{X: 4, Y: 5}, nil, &Paused{Until: 2}},
	}

	jv, err := c.Encode(original)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Name":"press","Current":{"type":"Failed","value":{"code":3,"reason":"overheat"}},`+
			`"History":[{"type":"Idle"},{"type":"Running","value":1},{"type":"Moving","value":[4,5]},null,`+
			`{"type":"Paused","value":2}]}`,
		compact(jv))

	back, err := DecodeAs[Machine](c, jv)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}

func TestUnion_VariantInsideAny(t *testing.T) {
	c := stateCodec(t)
	jv, err := c.Encode([]any{Idle{}, Label("x")})
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"Idle"},{"type":"Label","value":"x"}]`, compact(jv))
}

func TestUnion_DecodeErrors(t *testing.T) {
	c := stateCodec(t)
	tests := []struct {
		name   string
		json   string
		target error
	}{
		{"not an object", `["Idle"]`, errors.ErrTypeMismatch},
		{"missing type", `{"value": 1}`, errors.ErrUnknownVariant},
		{"type not a string", `{"type": 5}`, errors.ErrUnknownVariant},
		{"unknown name", `{"type": "Exploded"}`, errors.ErrUnknownVariant},
		{"missing value", `{"type": "Running"}`, errors.ErrKeyNotFound},
		{"tuple arity", `{"type": "Moving", "value": [1]}`, errors.ErrArityMismatch},
		{"named missing field", `{"type": "Failed", "value": {"code": 1}}`, errors.ErrKeyNotFound},
		{"payload mismatch", `{"type": "Label", "value": 3}`, errors.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAs[State](c, mustParse(t, tt.json))
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestUnion_UnitIgnoresValue(t *testing.T) {
	c := stateCodec(t)
	back, err := DecodeAs[State](c, mustParse(t, `{"type": "Idle", "value": [1, 2]}`))
	require.NoError(t, err)
	assert.Equal(t, Idle{}, back)
}

func TestUnion_NullDecodesToNil(t *testing.T) {
	c := stateCodec(t)
	var s State = Idle{}
	require.NoError(t, c.Decode(value.NewNull(), &s))
	assert.Nil(t, s)

	jv, err := EncodeAs[State](c, nil)
	require.NoError(t, err)
	assert.True(t, jv.IsNull())

	ptr, err := DecodeAs[*State](c, value.NewNull())
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestUnion_NilVariantPointerEncodesNull(t *testing.T) {
	c := stateCodec(t)

	jv, err := c.Encode(Machine{Name: "m", Current: (*Paused)(nil), History: []State{(*Paused)(nil), &Paused{Until: 3}}})
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"m","Current":null,"History":[null,{"type":"Paused","value":3}]}`, compact(jv))

	back, err := DecodeAs[Machine](c, jv)
	require.NoError(t, err)
	assert.Nil(t, back.Current)
	require.Len(t, back.History, 2)
	assert.Nil(t, back.History[0])
	assert.Equal(t, &Paused{Until: 3}, back.History[1])

	top, err := c.Encode((*Paused)(nil))
	require.NoError(t, err)
	assert.True(t, top.IsNull())
}

type Shape interface{ shape() }
type Square struct{ Side float64 }
type Blob struct{ A, B int }

func (Square) shape() {}
func (Blob) shape()   {}

func TestRegisterUnion_Errors(t *testing.T) {
	tests := []struct {
		name  string
		union *Union
	}{
		{"not an interface", NewUnion[Square](Unit[Square]("Square"))},
		{"no variants", NewUnion[Shape]()},
		{"empty name", NewUnion[Shape](Unit[Square](""))},
		{"duplicate name", NewUnion[Shape](Unit[Square]("S"), Unit[Blob]("S"))},
		{"duplicate type", NewUnion[Shape](Unit[Square]("A"), Unit[Square]("B"))},
		{"does not implement", NewUnion[Shape](Unit[Idle]("Idle"))},
		{"pointer variant", NewUnion[Shape](Unit[*Square]("Square"))},
		{"single with two fields", NewUnion[Shape](Single[Blob]("Blob"))},
		{"tuple of scalar", NewUnion[State](Tuple[Label]("Label"))},
		{"named of scalar", NewUnion[State](Named[Label]("Label"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCodec().RegisterUnion(tt.union)
			assert.ErrorIs(t, err, errors.ErrUnsupported)
		})
	}

	assert.ErrorIs(t, NewCodec().RegisterUnion(nil), errors.ErrUnsupported)
}

func TestRegisterUnion_Twice(t *testing.T) {
	c := NewCodec()
	u := NewUnion[Shape](Single[Square]("Square"), Tuple[Blob]("Blob"))
	require.NoError(t, c.RegisterUnion(u))
	assert.Equal(t, []string{"Square", "Blob"}, u.Names())

	err := c.RegisterUnion(NewUnion[Shape](Unit[Square]("Other")))
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	type otherShape interface{ shape() }
	err = c.RegisterUnion(NewUnion[otherShape](Unit[Square]("Square")))
	assert.ErrorIs(t, err, errors.ErrUnsupported, "a type belongs to one union")
}

func TestUnion_UnregisteredVariant(t *testing.T) {
	c := NewCodec()
	require.NoError(t, c.RegisterUnion(NewUnion[Shape](Single[Square]("Square"))))
	_, err := EncodeAs[Shape](c, Blob{A: 1})
	assert.ErrorIs(t, err, errors.ErrUnknownVariant)
}
