// Package config provides configuration for language and formatter selection.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LanguageType represents the type of query language to use.
type LanguageType string

const (
	// LanguageBoolean represents search-box syntax: terms, and/or/not, parentheses and phrases
	LanguageBoolean LanguageType = "boolean"
)

// FormatterType represents the type of output formatter to use.
type FormatterType string

const (
	// FormatterSQL represents SQL LIKE expression output
	FormatterSQL FormatterType = "sql"
	// FormatterMongo represents MongoDB BSON output format
	FormatterMongo FormatterType = "mongo"
)

// DefaultField is the field name used when none is configured.
const DefaultField = "field"

// Config represents the configuration for a parser.
type Config struct {
	Language  LanguageType  `yaml:"language"`
	Formatter FormatterType `yaml:"formatter"`
	// Field is the name of the field every term is matched against.
	Field string `yaml:"field"`
	// Quote delimits phrases, `"` when empty.
	Quote                 string `yaml:"quote"`
	CaseSensitiveKeywords bool   `yaml:"case_sensitive_keywords"`
	// Transforms names the pre-transforms applied to each query, in order.
	Transforms []string `yaml:"transforms"`
	// Roots and RootsFile feed the "roots" transform.
	Roots     map[string]string `yaml:"roots"`
	RootsFile string            `yaml:"roots_file"`
	// CacheTTL enables result caching when positive.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default returns the default configuration with boolean language and SQL formatter.
func Default() *Config {
	return &Config{
		Language:  LanguageBoolean,
		Formatter: FormatterSQL,
		Field:     DefaultField,
	}
}

// WithLanguage sets the language type and returns the config.
func (c *Config) WithLanguage(lang LanguageType) *Config {
	c.Language = lang
	return c
}

// WithFormatter sets the formatter type and returns the config.
func (c *Config) WithFormatter(formatter FormatterType) *Config {
	c.Formatter = formatter
	return c
}

// WithField sets the search field and returns the config.
// Blank names are ignored and the previous field is kept.
func (c *Config) WithField(field string) *Config {
	if strings.TrimSpace(field) != "" {
		c.Field = field
	}
	return c
}

// WithTransforms sets the pre-transforms and returns the config.
func (c *Config) WithTransforms(names ...string) *Config {
	c.Transforms = names
	return c
}

// WithRoots sets the word-root table and returns the config.
func (c *Config) WithRoots(roots map[string]string) *Config {
	c.Roots = roots
	return c
}

// WithCacheTTL sets the result cache TTL and returns the config.
func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.CacheTTL = ttl
	return c
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	switch c.Language {
	case LanguageBoolean:
	default:
		errs = append(errs, fmt.Errorf("unsupported language type: %q", c.Language))
	}
	switch c.Formatter {
	case FormatterSQL, FormatterMongo:
	default:
		errs = append(errs, fmt.Errorf("unsupported formatter type: %q", c.Formatter))
	}
	if strings.TrimSpace(c.Field) == "" {
		errs = append(errs, errors.New("field must not be blank"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL))
	}
	return errors.Join(errs...)
}

// Load reads a YAML configuration file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.Field) == "" {
		cfg.Field = DefaultField
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
