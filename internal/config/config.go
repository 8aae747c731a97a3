package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/YiRanMushroom/jsonkit/internal/errors"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonkit
type Config struct {
	Dump    DumpConfig    `yaml:"dump"`
	Parse   ParseConfig   `yaml:"parse"`
	Mapping MappingConfig `yaml:"mapping"`
	Dev     DevConfig     `yaml:"dev"`
}

// DumpConfig controls how trees are rendered
type DumpConfig struct {
	Indent        int       `yaml:"indent"`
	EscapeStrings bool      `yaml:"escape_strings"`
	Compact       bool      `yaml:"compact"`
	Color         ColorMode `yaml:"color"`
}

// ParseConfig controls the lexer and parser
type ParseConfig struct {
	MaxDepth      int  `yaml:"max_depth"`
	LenientTokens bool `yaml:"lenient_tokens"`
}

// MappingConfig controls how struct fields become object keys
type MappingConfig struct {
	KeyCase       KeyCase           `yaml:"key_case"`
	FieldMappings map[string]string `yaml:"field_mappings"`
	SkipFields    []string          `yaml:"skip_fields"`
	SkipPatterns  []string          `yaml:"skip_patterns"`

	// compiled SkipPatterns (not serialized)
	skipRegexes []*regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// ColorMode selects when the dumper emits terminal colors
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// KeyCase is the transformation applied to Go field names that carry no
// explicit key.
type KeyCase string

const (
	KeyCaseField  KeyCase = "field"
	KeyCaseSnake  KeyCase = "snake"
	KeyCaseCamel  KeyCase = "camel"
	KeyCasePascal KeyCase = "pascal"
	KeyCaseKebab  KeyCase = "kebab"
)

// Apply converts a Go field name to an object key.
func (k KeyCase) Apply(name string) string {
	switch k {
	case KeyCaseSnake:
		return strcase.ToSnake(name)
	case KeyCaseCamel:
		return strcase.ToLowerCamel(name)
	case KeyCasePascal:
		return strcase.ToCamel(name)
	case KeyCaseKebab:
		return strcase.ToKebab(name)
	default:
		return name
	}
}

func (k KeyCase) valid() bool {
	switch k {
	case KeyCaseField, KeyCaseSnake, KeyCaseCamel, KeyCasePascal, KeyCaseKebab, "":
		return true
	}
	return false
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Dump: DumpConfig{
			Indent:        2,
			EscapeStrings: true,
			Compact:       false,
			Color:         ColorAuto,
		},
		Parse: ParseConfig{
			MaxDepth:      512,
			LenientTokens: false,
		},
		Mapping: MappingConfig{
			KeyCase:       KeyCaseField,
			FieldMappings: make(map[string]string),
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and enums, and compiles the skip patterns.
func (c *Config) Validate() error {
	if c.Dump.Indent < 0 {
		return errors.NewConfigError(fmt.Sprintf("dump.indent must not be negative, got %d", c.Dump.Indent), nil)
	}
	if c.Parse.MaxDepth < 0 {
		return errors.NewConfigError(fmt.Sprintf("parse.max_depth must not be negative, got %d", c.Parse.MaxDepth), nil)
	}
	switch c.Dump.Color {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return errors.NewConfigError(fmt.Sprintf("dump.color must be auto, always or never, got %q", c.Dump.Color), nil)
	}
	if !c.Mapping.KeyCase.valid() {
		return errors.NewConfigError(fmt.Sprintf("unknown mapping.key_case %q", c.Mapping.KeyCase), nil)
	}
	return c.compilePatterns()
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonkit.yml", ".jsonkit.yaml", "jsonkit.yml", "jsonkit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

func (c *Config) compilePatterns() error {
	c.Mapping.skipRegexes = c.Mapping.skipRegexes[:0]
	for _, pattern := range c.Mapping.SkipPatterns {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid skip pattern '%s'", pattern), err)
		}
		c.Mapping.skipRegexes = append(c.Mapping.skipRegexes, regex)
	}
	return nil
}

// KeyFor returns the object key for a Go field name, applying the explicit
// field mappings first and the key case otherwise.
func (m *MappingConfig) KeyFor(fieldName string) string {
	if mapped, exists := m.FieldMappings[fieldName]; exists {
		return mapped
	}
	return m.KeyCase.Apply(fieldName)
}

// ShouldSkipField reports whether a Go field is left out of the mapping,
// either by name or by matching one of the skip patterns.
func (m *MappingConfig) ShouldSkipField(fieldName string) bool {
	if slices.Contains(m.SkipFields, fieldName) {
		return true
	}
	if len(m.skipRegexes) != len(m.SkipPatterns) {
		for _, pattern := range m.SkipPatterns {
			if ok, err := regexp.MatchString(pattern, fieldName); err == nil && ok {
				return true
			}
		}
		return false
	}
	for _, regex := range m.skipRegexes {
		if regex.MatchString(fieldName) {
			return true
		}
	}
	return false
}

// Overrides carries command-line flags. Nil pointers leave the file value.
type Overrides struct {
	Indent   *int
	Escape   *bool
	Compact  *bool
	Color    *ColorMode
	Lenient  *bool
	MaxDepth *int
	Debug    bool
}

// LoadConfigWithCLI loads config with CLI argument precedence. An empty
// configPath means defaults.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Indent != nil {
		cfg.Dump.Indent = *o.Indent
	}
	if o.Escape != nil {
		cfg.Dump.EscapeStrings = *o.Escape
	}
	if o.Compact != nil {
		cfg.Dump.Compact = *o.Compact
	}
	if o.Color != nil {
		cfg.Dump.Color = *o.Color
	}
	if o.Lenient != nil {
		cfg.Parse.LenientTokens = *o.Lenient
	}
	if o.MaxDepth != nil {
		cfg.Parse.MaxDepth = *o.MaxDepth
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
