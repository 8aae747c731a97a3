package mapping

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/models"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

func (c *Codec) encodeValue(rv reflect.Value, depth int) (*value.Value, error) {
	if !rv.IsValid() {
		return value.NewNull(), nil
	}
	info, err := c.analyzer.Analyze(rv.Type())
	if err != nil {
		return nil, err
	}
	return c.encodeWith(info, rv, depth)
}

func (c *Codec) encodeWith(info *models.TypeInfo, rv reflect.Value, depth int) (*value.Value, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}
	if info.Encoder {
		return callEncoder(rv)
	}

	switch info.Kind {
	case models.Value:
		if rv.Kind() == reflect.Pointer {
			return rv.Interface().(*value.Value).Clone(), nil
		}
		v := rv.Interface().(value.Value)
		return v.Clone(), nil
	case models.Bool:
		return value.NewBool(rv.Bool()), nil
	case models.Int:
		return value.NewNumber(float64(rv.Int())), nil
	case models.Uint:
		return value.NewNumber(float64(rv.Uint())), nil
	case models.Float:
		return value.NewNumber(rv.Float()), nil
	case models.String:
		return value.NewString(rv.String()), nil
	case models.Slice:
		if rv.IsNil() {
			return value.NewNull(), nil
		}
		return c.encodeElements(info.Elem, rv, depth)
	case models.Array:
		return c.encodeElements(info.Elem, rv, depth)
	case models.Map:
		if rv.IsNil() {
			return value.NewNull(), nil
		}
		return c.encodeMap(info, rv, depth)
	case models.Struct:
		return c.encodeRecord(info, rv, depth)
	case models.Tuple:
		return c.encodeTuple(info, rv, depth)
	case models.Pointer:
		if rv.IsNil() {
			return value.NewNull(), nil
		}
		return c.encodeWith(info.Elem, rv.Elem(), depth+1)
	case models.Union, models.Interface:
		return c.encodeDynamic(info, rv, depth)
	}
	return nil, errors.NewUnsupported("cannot encode %s", info.Name)
}

// encodeDynamic handles interface-typed values: registered unions are
// tagged, anything else is encoded by its dynamic type.
func (c *Codec) encodeDynamic(info *models.TypeInfo, rv reflect.Value, depth int) (*value.Value, error) {
	if rv.IsNil() {
		return value.NewNull(), nil
	}
	if u := c.unionFor(info.Type); u != nil {
		return c.encodeUnion(u, rv, depth)
	}
	dynamic := rv.Elem()
	if u := c.unionOfVariant(dynamic.Type()); u != nil {
		return c.encodeUnion(u, dynamic, depth)
	}
	return c.encodeValue(dynamic, depth+1)
}

func callEncoder(rv reflect.Value) (*value.Value, error) {
	var enc Encodable
	switch {
	case rv.Type().Implements(encodableType):
		enc = rv.Interface().(Encodable)
	case rv.CanAddr():
		enc = rv.Addr().Interface().(Encodable)
	default:
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		enc = p.Interface().(Encodable)
	}
	out, err := enc.EncodeJSON()
	if err != nil {
		return nil, err
	}
	if out == nil {
		return value.NewNull(), nil
	}
	return out, nil
}

func (c *Codec) encodeElements(elem *models.TypeInfo, rv reflect.Value, depth int) (*value.Value, error) {
	arr := value.NewArray()
	_ = arr.Reserve(rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, err := c.encodeWith(elem, rv.Index(i), depth+1)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("index %d", i))
		}
		_ = arr.Push(item)
	}
	return arr, nil
}

// encodeMap writes members in key order so equal maps give equal text.
func (c *Codec) encodeMap(info *models.TypeInfo, rv reflect.Value, depth int) (*value.Value, error) {
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})

	obj := value.NewObject()
	for _, k := range keys {
		member, err := c.encodeWith(info.Elem, rv.MapIndex(k), depth+1)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("key %q", k.String()))
		}
		_ = obj.Insert(k.String(), member)
	}
	return obj, nil
}

func (c *Codec) encodeRecord(info *models.TypeInfo, rv reflect.Value, depth int) (*value.Value, error) {
	obj := value.NewObject()
	for _, f := range info.Fields {
		member, err := c.encodeWith(f.Type, rv.FieldByIndex(f.Index), depth+1)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("field %s.%s", info.Name, f.GoName))
		}
		_ = obj.Insert(f.JSONKey, member)
	}
	return obj, nil
}

func (c *Codec) encodeTuple(info *models.TypeInfo, rv reflect.Value, depth int) (*value.Value, error) {
	arr := value.NewArray()
	for i, f := range info.Fields {
		item, err := c.encodeWith(f.Type, rv.FieldByIndex(f.Index), depth+1)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%s element %d", info.Name, i))
		}
		_ = arr.Push(item)
	}
	return arr, nil
}
