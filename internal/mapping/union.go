package mapping

import (
	"reflect"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/models"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

// Union keys.
const (
	TypeKey  = "type"
	ValueKey = "value"
)

// PayloadKind is the shape of a variant's payload.
type PayloadKind int

const (
	// PayloadNone encodes as {"type": name}.
	PayloadNone PayloadKind = iota
	// PayloadSingle encodes its one payload as "value".
	PayloadSingle
	// PayloadTuple encodes the struct fields as an array under "value".
	PayloadTuple
	// PayloadNamed encodes the struct fields as an object under "value".
	PayloadNamed
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "unit"
	case PayloadSingle:
		return "single"
	case PayloadTuple:
		return "tuple"
	case PayloadNamed:
		return "named"
	}
	return "unknown"
}

// Variant is one alternative of a Union.
type Variant struct {
	Name    string
	Payload PayloadKind
	Type    reflect.Type

	info *models.TypeInfo
}

// Unit declares a variant without payload.
func Unit[T any](name string) Variant {
	return Variant{Name: name, Payload: PayloadNone, Type: reflect.TypeFor[T]()}
}

// Single declares a variant with one unnamed payload. A struct T must have
// exactly one mapped field, which is the payload; any other T is the
// payload itself.
func Single[T any](name string) Variant {
	return Variant{Name: name, Payload: PayloadSingle, Type: reflect.TypeFor[T]()}
}

// Tuple declares a variant whose struct fields are encoded positionally.
func Tuple[T any](name string) Variant {
	return Variant{Name: name, Payload: PayloadTuple, Type: reflect.TypeFor[T]()}
}

// Named declares a variant whose struct fields are encoded by key.
func Named[T any](name string) Variant {
	return Variant{Name: name, Payload: PayloadNamed, Type: reflect.TypeFor[T]()}
}

// Union is a closed set of variants behind the interface type U.
type Union struct {
	iface    reflect.Type
	variants []Variant
	byName   map[string]*Variant
	byType   map[reflect.Type]*Variant
}

// NewUnion groups variants under the interface type U. The set is checked
// when it is registered with a Codec.
func NewUnion[U any](variants ...Variant) *Union {
	return &Union{iface: reflect.TypeFor[U](), variants: variants}
}

// Interface returns the union's interface type.
func (u *Union) Interface() reflect.Type { return u.iface }

// Names lists the variant names in declaration order.
func (u *Union) Names() []string {
	names := make([]string, len(u.variants))
	for i, v := range u.variants {
		names[i] = v.Name
	}
	return names
}

// RegisterUnion makes u's interface type encode as a tagged union. Register
// unions before the first encode or decode that reaches them.
func (c *Codec) RegisterUnion(u *Union) error {
	if u == nil || u.iface == nil || u.iface.Kind() != reflect.Interface {
		return errors.NewUnsupported("union type must be an interface")
	}
	if len(u.variants) == 0 {
		return errors.NewUnsupported("union %s has no variants", u.iface)
	}

	byName := make(map[string]*Variant, len(u.variants))
	byType := make(map[reflect.Type]*Variant, len(u.variants))
	for i := range u.variants {
		v := &u.variants[i]
		if err := c.checkVariant(u.iface, v); err != nil {
			return err
		}
		if _, dup := byName[v.Name]; dup {
			return errors.NewUnsupported("union %s declares variant %q twice", u.iface, v.Name)
		}
		if _, dup := byType[v.Type]; dup {
			return errors.NewUnsupported("union %s uses %s for two variants", u.iface, v.Type)
		}
		byName[v.Name] = v
		byType[v.Type] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.unions[u.iface]; exists {
		return errors.NewUnsupported("union %s is already registered", u.iface)
	}
	for t := range byType {
		if owner, taken := c.variants[t]; taken {
			return errors.NewUnsupported("%s is already a variant of %s", t, owner.iface)
		}
	}
	u.byName, u.byType = byName, byType
	c.unions[u.iface] = u
	for t := range byType {
		c.variants[t] = u
	}
	return nil
}

func (c *Codec) checkVariant(iface reflect.Type, v *Variant) error {
	if v.Name == "" {
		return errors.NewUnsupported("union %s has a variant without a name", iface)
	}
	if v.Type == nil || v.Type.Kind() == reflect.Interface || v.Type.Kind() == reflect.Pointer {
		return errors.NewUnsupported("variant %q of %s must be a concrete non-pointer type", v.Name, iface)
	}
	if !v.Type.Implements(iface) && !reflect.PointerTo(v.Type).Implements(iface) {
		return errors.NewUnsupported("variant %q: %s does not implement %s", v.Name, v.Type, iface)
	}

	info, err := c.analyzer.Analyze(v.Type)
	if err != nil {
		return errors.Wrap(err, "variant "+v.Name)
	}
	record := info.Kind == models.Struct || info.Kind == models.Tuple
	switch v.Payload {
	case PayloadNone:
	case PayloadSingle:
		if record && info.Arity() != 1 {
			return errors.NewUnsupported("single variant %q: %s has %d fields, want 1", v.Name, v.Type, info.Arity())
		}
	case PayloadTuple:
		if !record {
			return errors.NewUnsupported("tuple variant %q: %s is not a struct", v.Name, v.Type)
		}
	case PayloadNamed:
		if info.Kind != models.Struct {
			return errors.NewUnsupported("named variant %q: %s is not a keyed struct", v.Name, v.Type)
		}
	default:
		return errors.NewUnsupported("variant %q has payload kind %d", v.Name, int(v.Payload))
	}
	v.info = info
	return nil
}

// variantOf finds the variant for a concrete value, dereferencing a pointer
// to a registered variant type.
func (u *Union) variantOf(rv reflect.Value) (*Variant, reflect.Value, bool) {
	if v, ok := u.byType[rv.Type()]; ok {
		return v, rv, true
	}
	if rv.Kind() == reflect.Pointer {
		if v, ok := u.byType[rv.Type().Elem()]; ok {
			return v, rv.Elem(), true
		}
	}
	return nil, reflect.Value{}, false
}

func (c *Codec) encodeUnion(u *Union, rv reflect.Value, depth int) (*value.Value, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return value.NewNull(), nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return value.NewNull(), nil
	}
	v, concrete, ok := u.variantOf(rv)
	if !ok {
		return nil, errors.NewUnknownVariant("%s is not a variant of %s", rv.Type(), u.iface)
	}
	rv = concrete

	obj := value.NewObject()
	_ = obj.Insert(TypeKey, value.NewString(v.Name))

	var payload *value.Value
	var err error
	switch v.Payload {
	case PayloadNone:
		return obj, nil
	case PayloadSingle:
		if len(v.info.Fields) == 1 && (v.info.Kind == models.Struct || v.info.Kind == models.Tuple) {
			f := v.info.Fields[0]
			payload, err = c.encodeWith(f.Type, rv.FieldByIndex(f.Index), depth+1)
		} else {
			payload, err = c.encodeWith(v.info, rv, depth+1)
		}
	case PayloadTuple:
		payload, err = c.encodeTuple(v.info, rv, depth+1)
	case PayloadNamed:
		payload, err = c.encodeRecord(v.info, rv, depth+1)
	}
	if err != nil {
		return nil, errors.Wrap(err, "variant "+v.Name)
	}
	_ = obj.Insert(ValueKey, payload)
	return obj, nil
}

func (c *Codec) decodeUnion(u *Union, jv *value.Value, rv reflect.Value, depth int) error {
	if err := c.checkDepth(depth); err != nil {
		return err
	}
	if jv.IsNull() {
		rv.SetZero()
		return nil
	}
	if jv.Kind() != value.Object {
		return errors.NewTypeMismatch("%s needs object, node is %s", u.iface, jv.Kind())
	}
	tag, err := jv.Get(TypeKey)
	if err != nil {
		return errors.NewUnknownVariant("%s: missing %q", u.iface, TypeKey)
	}
	name, err := tag.AsString()
	if err != nil {
		return errors.NewUnknownVariant("%s: %q is %s, not a string", u.iface, TypeKey, tag.Kind())
	}
	v, ok := u.byName[name]
	if !ok {
		return errors.NewUnknownVariant("%q is not a variant of %s", name, u.iface)
	}

	p := reflect.New(v.Type)
	if v.Payload != PayloadNone {
		payload, err := jv.Get(ValueKey)
		if err != nil {
			return errors.Wrap(err, "variant "+name)
		}
		switch v.Payload {
		case PayloadSingle:
			if len(v.info.Fields) == 1 && (v.info.Kind == models.Struct || v.info.Kind == models.Tuple) {
				f := v.info.Fields[0]
				err = c.decodeWith(f.Type, payload, p.Elem().FieldByIndex(f.Index), depth+1)
			} else {
				err = c.decodeWith(v.info, payload, p.Elem(), depth+1)
			}
		case PayloadTuple:
			err = c.decodeTuple(v.info, payload, p.Elem(), depth+1)
		case PayloadNamed:
			err = c.decodeRecord(v.info, payload, p.Elem(), depth+1)
		}
		if err != nil {
			return errors.Wrap(err, "variant "+name)
		}
	}

	if v.Type.Implements(u.iface) {
		rv.Set(p.Elem())
	} else {
		rv.Set(p)
	}
	return nil
}
