// Package mapping converts Go values to and from value trees.
//
// Structs become objects keyed by field name, structs marked Positional
// become arrays, registered interface types become tagged unions of the
// form {"type": name, "value": payload}. Descriptors are derived by
// reflection once per type and cached in the Codec.
package mapping

import (
	"reflect"
	"sync"

	"github.com/YiRanMushroom/jsonkit/internal/analyzer"
	"github.com/YiRanMushroom/jsonkit/internal/config"
	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

// DefaultMaxDepth bounds nesting during encode and decode. Cyclic pointer
// graphs hit it instead of recursing forever.
const DefaultMaxDepth = 512

// Encodable types produce their own tree.
type Encodable interface {
	EncodeJSON() (*value.Value, error)
}

// Decodable types fill themselves from a tree.
type Decodable interface {
	DecodeJSON(*value.Value) error
}

// Positional marks a struct that maps to an array of its exported fields
// in declaration order.
type Positional interface {
	Positional()
}

var (
	encodableType  = reflect.TypeFor[Encodable]()
	decodableType  = reflect.TypeFor[Decodable]()
	positionalType = reflect.TypeFor[Positional]()
)

// Codec encodes and decodes Go values. It is safe for concurrent use once
// its unions are registered.
type Codec struct {
	analyzer *analyzer.Analyzer
	maxDepth int

	mu       sync.RWMutex
	unions   map[reflect.Type]*Union // interface type -> union
	variants map[reflect.Type]*Union // variant type -> owning union
}

type settings struct {
	mapping  config.MappingConfig
	maxDepth int
}

// Option configures a Codec.
type Option func(*settings)

// WithKeyCase sets the case applied to untagged struct field names.
func WithKeyCase(kc config.KeyCase) Option {
	return func(s *settings) { s.mapping.KeyCase = kc }
}

// WithMappingConfig replaces the whole field naming configuration.
func WithMappingConfig(cfg config.MappingConfig) Option {
	return func(s *settings) { s.mapping = cfg }
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(s *settings) { s.maxDepth = n }
}

// FromConfig creates a Codec that names fields by cfg's mapping section and
// stops at cfg's parse depth. opts are applied after those.
func FromConfig(cfg *config.Config, opts ...Option) *Codec {
	base := []Option{WithMappingConfig(cfg.Mapping), WithMaxDepth(cfg.Parse.MaxDepth)}
	return NewCodec(append(base, opts...)...)
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	s := settings{mapping: config.NewConfig().Mapping, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&s)
	}
	if s.maxDepth <= 0 {
		s.maxDepth = DefaultMaxDepth
	}

	c := &Codec{
		maxDepth: s.maxDepth,
		unions:   make(map[reflect.Type]*Union),
		variants: make(map[reflect.Type]*Union),
	}
	c.analyzer = analyzer.NewAnalyzerWithConfig(&s.mapping, analyzer.Capabilities{
		Encoder:    encodableType,
		Decoder:    decodableType,
		Positional: positionalType,
		IsUnion:    func(t reflect.Type) bool { return c.unionFor(t) != nil },
	})
	return c
}

var defaultCodec = NewCodec()

// Default returns the shared codec used by the package-level functions.
func Default() *Codec { return defaultCodec }

// Encode encodes v with the default codec.
func Encode(v any) (*value.Value, error) { return defaultCodec.Encode(v) }

// Decode decodes jv into out with the default codec.
func Decode(jv *value.Value, out any) error { return defaultCodec.Decode(jv, out) }

// RegisterUnion registers u with the default codec.
func RegisterUnion(u *Union) error { return defaultCodec.RegisterUnion(u) }

// Encode converts v to a tree. A variant of a registered union is encoded
// as that union even though the static type is lost in the any argument.
func (c *Codec) Encode(v any) (*value.Value, error) {
	if v == nil {
		return value.NewNull(), nil
	}
	rv := reflect.ValueOf(v)
	if u := c.unionOfVariant(rv.Type()); u != nil {
		return c.encodeUnion(u, rv, 0)
	}
	return c.encodeValue(rv, 0)
}

// Decode fills the value out points to. out must be a non-nil pointer.
func (c *Codec) Decode(jv *value.Value, out any) error {
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.NewUnsupported("decode target must be a non-nil pointer, got %T", out)
	}
	return c.decodeValue(jv, rv.Elem(), 0)
}

// EncodeAs encodes v using its static type, so an interface-typed union
// value is encoded through its union.
func EncodeAs[T any](c *Codec, v T) (*value.Value, error) {
	return c.encodeValue(reflect.ValueOf(&v).Elem(), 0)
}

// DecodeAs decodes jv into a new T.
func DecodeAs[T any](c *Codec, jv *value.Value) (T, error) {
	var out T
	err := c.decodeValue(jv, reflect.ValueOf(&out).Elem(), 0)
	return out, err
}

func (c *Codec) unionFor(iface reflect.Type) *Union {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unions[iface]
}

func (c *Codec) unionOfVariant(t reflect.Type) *Union {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.variants[t]; ok {
		return u
	}
	if t.Kind() == reflect.Pointer {
		return c.variants[t.Elem()]
	}
	return nil
}

func (c *Codec) checkDepth(depth int) error {
	if depth > c.maxDepth {
		return errors.NewDepthExceeded(c.maxDepth)
	}
	return nil
}
