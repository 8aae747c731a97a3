package analyzer

import (
	"reflect"
	"strings"
	"sync"

	"github.com/YiRanMushroom/jsonkit/internal/config"
	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/YiRanMushroom/jsonkit/internal/models"
	"github.com/YiRanMushroom/jsonkit/internal/value"
)

var (
	valueType    = reflect.TypeFor[value.Value]()
	valuePtrType = reflect.TypeFor[*value.Value]()
)

// Capabilities tells the analyzer which interfaces mark a type as special.
// Any of them may be nil.
type Capabilities struct {
	Encoder    reflect.Type // interface with a self-encoding method
	Decoder    reflect.Type // interface with a self-decoding method
	Positional reflect.Type // marker interface for tuple structs
	IsUnion    func(reflect.Type) bool
}

// Analyzer turns Go types into descriptors and caches them. It is safe for
// concurrent use.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*models.TypeInfo
	// config holds the field naming rules
	config *config.MappingConfig
	caps   Capabilities
}

// NewAnalyzer creates a new Analyzer instance with default naming.
func NewAnalyzer(caps Capabilities) *Analyzer {
	return NewAnalyzerWithConfig(&config.NewConfig().Mapping, caps)
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom naming.
func NewAnalyzerWithConfig(cfg *config.MappingConfig, caps Capabilities) *Analyzer {
	if cfg == nil {
		cfg = &config.NewConfig().Mapping
	}
	return &Analyzer{
		cache:  make(map[reflect.Type]*models.TypeInfo),
		config: cfg,
		caps:   caps,
	}
}

// Analyze returns the descriptor for t, computing it on first use.
func (a *Analyzer) Analyze(t reflect.Type) (*models.TypeInfo, error) {
	if t == nil {
		return nil, errors.NewUnsupported("nil type")
	}

	a.mu.RLock()
	info, ok := a.cache[t]
	a.mu.RUnlock()
	if ok {
		return info, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// pending collects descriptors created by this call so a failure does
	// not leave half-built entries behind.
	pending := make(map[reflect.Type]bool)
	info, err := a.analyzeNode(t, pending)
	if err != nil {
		for p := range pending {
			delete(a.cache, p)
		}
		return nil, err
	}
	return info, nil
}

// analyzeNode is the core recursive function. The descriptor is cached
// before its children are analyzed so self-referencing types terminate.
func (a *Analyzer) analyzeNode(t reflect.Type, pending map[reflect.Type]bool) (*models.TypeInfo, error) {
	if info, ok := a.cache[t]; ok {
		return info, nil
	}

	info := &models.TypeInfo{Name: t.String(), Type: t}
	a.cache[t] = info
	pending[t] = true

	if t == valueType || t == valuePtrType {
		info.Kind = models.Value
		return info, nil
	}

	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		info.Encoder = a.implements(t, a.caps.Encoder)
		info.Decoder = a.caps.Decoder != nil && reflect.PointerTo(t).Implements(a.caps.Decoder)
		if info.Encoder && info.Decoder {
			info.Kind = models.Custom
			return info, nil
		}
	}

	var err error
	switch t.Kind() {
	case reflect.Bool:
		info.Kind = models.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		info.Kind = models.Int
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		info.Kind = models.Uint
	case reflect.Float32, reflect.Float64:
		info.Kind = models.Float
	case reflect.String:
		info.Kind = models.String
	case reflect.Slice:
		info.Kind = models.Slice
		info.Elem, err = a.analyzeNode(t.Elem(), pending)
	case reflect.Array:
		info.Kind = models.Array
		info.Len = t.Len()
		info.Elem, err = a.analyzeNode(t.Elem(), pending)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, errors.NewUnsupported("map key type %s of %s is not a string", t.Key(), t)
		}
		info.Kind = models.Map
		info.Elem, err = a.analyzeNode(t.Elem(), pending)
	case reflect.Pointer:
		info.Kind = models.Pointer
		info.Elem, err = a.analyzeNode(t.Elem(), pending)
	case reflect.Interface:
		info.Kind = models.Interface
		if a.caps.IsUnion != nil && a.caps.IsUnion(t) {
			info.Kind = models.Union
		}
	case reflect.Struct:
		err = a.analyzeStruct(t, info, pending)
	default:
		return nil, errors.NewUnsupported("%s has kind %s", t, t.Kind())
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (a *Analyzer) implements(t, iface reflect.Type) bool {
	if iface == nil {
		return false
	}
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

// analyzeStruct fills the field list. Tuple structs keep every exported
// field in order; record structs honour json tags and the naming config.
func (a *Analyzer) analyzeStruct(t reflect.Type, info *models.TypeInfo, pending map[reflect.Type]bool) error {
	info.Kind = models.Struct
	if a.implements(t, a.caps.Positional) {
		info.Kind = models.Tuple
	}

	seen := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		field := models.FieldInfo{GoName: sf.Name, Index: sf.Index}
		if info.Kind == models.Struct {
			key, skip := a.getFieldKey(sf)
			if skip {
				continue
			}
			if prev, dup := seen[key]; dup {
				return errors.NewUnsupported("%s: fields %s and %s both map to key %q", t, prev, sf.Name, key)
			}
			seen[key] = sf.Name
			field.JSONKey = key
		}

		fieldType, err := a.analyzeNode(sf.Type, pending)
		if err != nil {
			return errors.Wrap(err, t.String()+"."+sf.Name)
		}
		field.Type = fieldType
		info.Fields = append(info.Fields, field)
	}
	return nil
}

// getFieldKey returns the object key for a struct field. A json tag name
// wins over the naming config; `json:"-"` skips the field.
func (a *Analyzer) getFieldKey(sf reflect.StructField) (string, bool) {
	if tag, ok := sf.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	if a.config.ShouldSkipField(sf.Name) {
		return "", true
	}
	return a.config.KeyFor(sf.Name), false
}
