// Package likeql compiles search-box queries into SQL LIKE expressions and MongoDB filters.
package likeql

import (
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/kyle-williams-1/likeql/config"
	"github.com/kyle-williams-1/likeql/factory"
	"github.com/kyle-williams-1/likeql/formatter"
	"github.com/kyle-williams-1/likeql/language"
	"github.com/kyle-williams-1/likeql/language/boolean"
	"github.com/kyle-williams-1/likeql/metrics"
	"github.com/kyle-williams-1/likeql/registry"
	"github.com/kyle-williams-1/likeql/wordroot"
)

// SyntaxError describes a malformed query and where it went wrong.
type SyntaxError = boolean.SyntaxError

// Kinds of syntax error, usable with errors.Is.
var (
	ErrTrailingInput = boolean.ErrTrailingInput
	ErrUnclosedParen = boolean.ErrUnclosedParen
	ErrExpectedTerm  = boolean.ErrExpectedTerm
)

// Parser compiles queries against a single configured field.
//
// Evaluate and EvaluateBSON may be called from several goroutines at once.
// SetField changes configuration and must not race with them.
type Parser struct {
	// Config holds the language, formatter and field configuration
	Config *config.Config

	compiler     language.Compiler
	preprocessor *QueryPreprocessor
	logger       *zap.Logger
	metrics      *metrics.Collector
	cache        *cache.Cache
	transformer  wordroot.Transformer
}

// Option customizes a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records every compilation on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Parser) {
		p.metrics = c
	}
}

// WithTransformer replaces the pre-transforms named in the configuration.
func WithTransformer(t wordroot.Transformer) Option {
	return func(p *Parser) {
		p.transformer = t
	}
}

// New creates a parser with the default configuration.
func New(opts ...Option) *Parser {
	p, err := NewWithConfig(config.Default(), opts...)
	if err != nil {
		// The default configuration always validates.
		panic(err)
	}
	return p
}

// NewWithConfig creates a parser with the given configuration.
func NewWithConfig(cfg *config.Config, opts ...Option) (*Parser, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	compiler, err := registry.DefaultRegistry.Languages.GetLanguage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create compiler: %w", err)
	}

	p := &Parser{
		Config:   cfg,
		compiler: compiler,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.transformer == nil {
		p.transformer, err = registry.DefaultRegistry.Transformer(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create transforms: %w", err)
		}
	}
	shaper, _ := compiler.(language.Shaper)
	p.preprocessor = NewQueryPreprocessor(p.transformer, shaper)

	if cfg.CacheTTL > 0 {
		p.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return p, nil
}

// SetField sets the field every term is matched against. Blank names are ignored.
func (p *Parser) SetField(name string) {
	p.Config.WithField(name)
}

// Field returns the current search field.
func (p *Parser) Field() string {
	return p.Config.Field
}

// Evaluate compiles query into a parenthesized SQL LIKE expression.
func (p *Parser) Evaluate(query string) (string, error) {
	return compile(p, query, config.FormatterSQL, factory.CreateSQLFormatter())
}

// EvaluateBSON compiles query into a MongoDB filter document.
func (p *Parser) EvaluateBSON(query string) (bson.M, error) {
	return compile(p, query, config.FormatterMongo, factory.CreateMongoFormatter())
}

// Parse compiles query with the configured formatter. The result is a string
// for the SQL formatter and a bson.M for the Mongo formatter.
func (p *Parser) Parse(query string) (interface{}, error) {
	switch p.Config.Formatter {
	case config.FormatterMongo:
		return p.EvaluateBSON(query)
	case config.FormatterSQL:
		return p.Evaluate(query)
	default:
		return nil, fmt.Errorf("unsupported formatter type: %s", p.Config.Formatter)
	}
}

var defaultParser = New()

// Evaluate compiles query against the default field using a shared parser.
func Evaluate(query string) (string, error) {
	return defaultParser.Evaluate(query)
}

// EvaluateBSON compiles query into a MongoDB filter against the default field.
func EvaluateBSON(query string) (bson.M, error) {
	return defaultParser.EvaluateBSON(query)
}

// compile runs one query through the compiler into f. Only string results are
// cached since documents are mutable maps owned by the caller.
func compile[T any](p *Parser, query string, kind config.FormatterType, f formatter.Formatter[T]) (T, error) {
	var zero T
	start := time.Now()
	field := p.Config.Field
	label := string(kind)

	key := label + "\x00" + field + "\x00" + query
	_, cacheable := any(zero).(string)
	cacheable = cacheable && p.cache != nil
	if cacheable {
		if cached, ok := p.cache.Get(key); ok {
			p.metrics.Observe(label, metrics.OutcomeCached, time.Since(start))
			return cached.(T), nil
		}
	}

	input, ok := p.preprocessor.PreprocessQuery(query)
	if !ok {
		p.logger.Warn("pre-transform changed query shape, using raw query",
			zap.String("query", query), zap.String("transformed", input))
		input = query
	}

	if err := p.compiler.Compile(input, field, f); err != nil {
		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			p.logger.Debug("query rejected",
				zap.String("query", query),
				zap.Int("line", syntaxErr.Line),
				zap.Int("column", syntaxErr.Column),
				zap.Error(err))
			p.metrics.Observe(label, metrics.OutcomeSyntaxError, time.Since(start))
			return zero, err
		}
		p.metrics.Observe(label, metrics.OutcomeError, time.Since(start))
		return zero, fmt.Errorf("failed to compile query: %w", err)
	}

	result, err := f.Result()
	if err != nil {
		p.metrics.Observe(label, metrics.OutcomeError, time.Since(start))
		return zero, fmt.Errorf("failed to format query: %w", err)
	}

	if cacheable {
		p.cache.SetDefault(key, result)
	}
	p.metrics.Observe(label, metrics.OutcomeOK, time.Since(start))
	p.logger.Debug("compiled query",
		zap.String("query", query),
		zap.String("field", field),
		zap.String("formatter", label),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}
