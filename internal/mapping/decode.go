package mapping

import (
	"fmt"
	"reflect"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/models"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

// decodeValue fills the settable rv from jv. A nil jv counts as null.
func (c *Codec) decodeValue(jv *value.Value, rv reflect.Value, depth int) error {
	info, err := c.analyzer.Analyze(rv.Type())
	if err != nil {
		return err
	}
	return c.decodeWith(info, jv, rv, depth)
}

func mismatch(info *models.TypeInfo, want value.Kind, jv *value.Value) error {
	return errors.NewTypeMismatch("%s needs %s, node is %s", info.Name, want, jv.Kind())
}

// decodeWith requires rv to be addressable.
func (c *Codec) decodeWith(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if err := c.checkDepth(depth); err != nil {
		return err
	}
	if jv == nil {
		jv = value.NewNull()
	}
	if info.Decoder {
		return rv.Addr().Interface().(Decodable).DecodeJSON(jv)
	}

	switch info.Kind {
	case models.Value:
		clone := jv.Clone()
		if rv.Kind() == reflect.Pointer {
			if jv.IsNull() {
				rv.SetZero()
				return nil
			}
			rv.Set(reflect.ValueOf(clone))
		} else {
			rv.Set(reflect.ValueOf(clone).Elem())
		}
		return nil
	case models.Bool:
		b, err := jv.AsBool()
		if err != nil {
			return mismatch(info, value.Boolean, jv)
		}
		rv.SetBool(b)
		return nil
	case models.Int, models.Uint, models.Float:
		n, err := jv.AsNumber()
		if err != nil {
			return mismatch(info, value.Number, jv)
		}
		// Narrowing is a plain conversion; out-of-range values wrap.
		switch info.Kind {
		case models.Int:
			rv.SetInt(int64(n))
		case models.Uint:
			rv.SetUint(uint64(n))
		default:
			rv.SetFloat(n)
		}
		return nil
	case models.String:
		s, err := jv.AsString()
		if err != nil {
			return mismatch(info, value.String, jv)
		}
		rv.SetString(s)
		return nil
	case models.Slice:
		return c.decodeSlice(info, jv, rv, depth)
	case models.Array:
		return c.decodeArray(info, jv, rv, depth)
	case models.Map:
		return c.decodeMap(info, jv, rv, depth)
	case models.Struct:
		return c.decodeRecord(info, jv, rv, depth)
	case models.Tuple:
		return c.decodeTuple(info, jv, rv, depth)
	case models.Pointer:
		if jv.IsNull() {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(info.Type.Elem()))
		}
		return c.decodeWith(info.Elem, jv, rv.Elem(), depth+1)
	case models.Union, models.Interface:
		return c.decodeDynamic(info, jv, rv, depth)
	}
	return errors.NewUnsupported("cannot decode into %s", info.Name)
}

func (c *Codec) decodeDynamic(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if u := c.unionFor(info.Type); u != nil {
		return c.decodeUnion(u, jv, rv, depth)
	}
	if info.Type.NumMethod() != 0 {
		return errors.NewUnsupported("cannot decode into interface %s without a registered union", info.Name)
	}
	natural, err := c.natural(jv, depth)
	if err != nil {
		return err
	}
	if natural == nil {
		rv.SetZero()
		return nil
	}
	rv.Set(reflect.ValueOf(natural))
	return nil
}

// natural converts a tree to plain Go values: nil, bool, float64, string,
// []any and map[string]any.
func (c *Codec) natural(jv *value.Value, depth int) (any, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}
	switch jv.Kind() {
	case value.Boolean:
		b, _ := jv.AsBool()
		return b, nil
	case value.Number:
		n, _ := jv.AsNumber()
		return n, nil
	case value.String:
		s, _ := jv.AsString()
		return s, nil
	case value.Array:
		n, _ := jv.Len()
		out := make([]any, 0, n)
		for _, item := range jv.Elements() {
			v, err := c.natural(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case value.Object:
		n, _ := jv.Len()
		out := make(map[string]any, n)
		for k, member := range jv.Members() {
			v, err := c.natural(member, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return nil, nil
}

// decodeSlice accepts null as a nil slice.
func (c *Codec) decodeSlice(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if jv.IsNull() {
		rv.SetZero()
		return nil
	}
	if jv.Kind() != value.Array {
		return mismatch(info, value.Array, jv)
	}
	n, _ := jv.Len()
	s := reflect.MakeSlice(info.Type, n, n)
	for i, item := range jv.Elements() {
		if err := c.decodeWith(info.Elem, item, s.Index(i), depth+1); err != nil {
			return errors.Wrap(err, fmt.Sprintf("index %d", i))
		}
	}
	rv.Set(s)
	return nil
}

func (c *Codec) decodeArray(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if jv.Kind() != value.Array {
		return mismatch(info, value.Array, jv)
	}
	if n, _ := jv.Len(); n != info.Len {
		return errors.Wrap(errors.NewArityMismatch(info.Len, n), info.Name)
	}
	for i, item := range jv.Elements() {
		if err := c.decodeWith(info.Elem, item, rv.Index(i), depth+1); err != nil {
			return errors.Wrap(err, fmt.Sprintf("index %d", i))
		}
	}
	return nil
}

// decodeMap accepts null as a nil map.
func (c *Codec) decodeMap(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if jv.IsNull() {
		rv.SetZero()
		return nil
	}
	if jv.Kind() != value.Object {
		return mismatch(info, value.Object, jv)
	}
	n, _ := jv.Len()
	m := reflect.MakeMapWithSize(info.Type, n)
	keyType := info.Type.Key()
	for k, member := range jv.Members() {
		elem := reflect.New(info.Type.Elem()).Elem()
		if err := c.decodeWith(info.Elem, member, elem, depth+1); err != nil {
			return errors.Wrap(err, fmt.Sprintf("key %q", k))
		}
		m.SetMapIndex(reflect.ValueOf(k).Convert(keyType), elem)
	}
	rv.Set(m)
	return nil
}

// decodeRecord needs every mapped field present; extra keys are ignored.
func (c *Codec) decodeRecord(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if jv.Kind() != value.Object {
		return mismatch(info, value.Object, jv)
	}
	for _, f := range info.Fields {
		member, err := jv.Get(f.JSONKey)
		if err != nil {
			return errors.Wrap(err, info.Name)
		}
		if err := c.decodeWith(f.Type, member, rv.FieldByIndex(f.Index), depth+1); err != nil {
			return errors.Wrap(err, fmt.Sprintf("field %s.%s", info.Name, f.GoName))
		}
	}
	return nil
}

func (c *Codec) decodeTuple(info *models.TypeInfo, jv *value.Value, rv reflect.Value, depth int) error {
	if jv.Kind() != value.Array {
		return mismatch(info, value.Array, jv)
	}
	if n, _ := jv.Len(); n != info.Arity() {
		return errors.Wrap(errors.NewArityMismatch(info.Arity(), n), info.Name)
	}
	for i, item := range jv.Elements() {
		f := info.Fields[i]
		if err := c.decodeWith(f.Type, item, rv.FieldByIndex(f.Index), depth+1); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%s element %d", info.Name, i))
		}
	}
	return nil
}
