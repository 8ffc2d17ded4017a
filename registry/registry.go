// Package registry provides dynamic discovery and registration of languages and pre-transforms.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kyle-williams-1/likeql/config"
	"github.com/kyle-williams-1/likeql/factory"
	"github.com/kyle-williams-1/likeql/language"
	"github.com/kyle-williams-1/likeql/wordroot"
)

// Names of the built-in transforms.
const (
	TransformIdentity = "identity"
	TransformFold     = "fold"
	TransformRoots    = "roots"
)

// LanguageFactory creates a new language compiler instance.
type LanguageFactory func(cfg *config.Config) (language.Compiler, error)

// TransformFactory creates a new pre-transform instance.
type TransformFactory func(cfg *config.Config) (wordroot.Transformer, error)

// LanguageRegistry manages available language compilers.
type LanguageRegistry struct {
	mu        sync.RWMutex
	languages map[config.LanguageType]LanguageFactory
}

// TransformRegistry manages available pre-transforms.
type TransformRegistry struct {
	mu         sync.RWMutex
	transforms map[string]TransformFactory
}

// Registry combines language and transform registries.
type Registry struct {
	Languages  *LanguageRegistry
	Transforms *TransformRegistry
}

// New creates a new registry with default languages and transforms.
func New() *Registry {
	return &Registry{
		Languages:  NewLanguageRegistry(),
		Transforms: NewTransformRegistry(),
	}
}

// NewLanguageRegistry creates a new language registry with default languages.
func NewLanguageRegistry() *LanguageRegistry {
	registry := &LanguageRegistry{
		languages: make(map[config.LanguageType]LanguageFactory),
	}
	registry.RegisterLanguage(config.LanguageBoolean, factory.CreateCompiler)
	return registry
}

// NewTransformRegistry creates a new transform registry with default transforms.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		transforms: make(map[string]TransformFactory),
	}
	registry.RegisterTransform(TransformIdentity, func(*config.Config) (wordroot.Transformer, error) {
		return wordroot.Identity, nil
	})
	registry.RegisterTransform(TransformFold, func(*config.Config) (wordroot.Transformer, error) {
		return wordroot.Fold{}, nil
	})
	registry.RegisterTransform(TransformRoots, func(cfg *config.Config) (wordroot.Transformer, error) {
		table, err := factory.CreateRootTable(cfg)
		if err != nil {
			return nil, err
		}
		return table, nil
	})
	return registry
}

// RegisterLanguage registers a language factory.
func (lr *LanguageRegistry) RegisterLanguage(langType config.LanguageType, factory LanguageFactory) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.languages[langType] = factory
}

// RegisterTransform registers a transform factory under name.
func (tr *TransformRegistry) RegisterTransform(name string, factory TransformFactory) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.transforms[name] = factory
}

// GetLanguage creates a compiler for the configured language.
func (lr *LanguageRegistry) GetLanguage(cfg *config.Config) (language.Compiler, error) {
	lr.mu.RLock()
	factory, exists := lr.languages[cfg.Language]
	lr.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unsupported language type: %s", cfg.Language)
	}
	return factory(cfg)
}

// GetTransform creates the transform registered under name.
func (tr *TransformRegistry) GetTransform(name string, cfg *config.Config) (wordroot.Transformer, error) {
	tr.mu.RLock()
	factory, exists := tr.transforms[name]
	tr.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unsupported transform: %s", name)
	}
	return factory(cfg)
}

// ListLanguages returns all registered language types, sorted.
func (lr *LanguageRegistry) ListLanguages() []config.LanguageType {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	var languages []config.LanguageType
	for langType := range lr.languages {
		languages = append(languages, langType)
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i] < languages[j] })
	return languages
}

// ListTransforms returns all registered transform names, sorted.
func (tr *TransformRegistry) ListTransforms() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	var names []string
	for name := range tr.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transformer builds the chain of transforms named by cfg.Transforms.
// An empty list yields the identity transform.
func (r *Registry) Transformer(cfg *config.Config) (wordroot.Transformer, error) {
	if len(cfg.Transforms) == 0 {
		return wordroot.Identity, nil
	}
	chain := make(wordroot.Chain, 0, len(cfg.Transforms))
	for _, name := range cfg.Transforms {
		t, err := r.Transforms.GetTransform(name, cfg)
		if err != nil {
			return nil, err
		}
		chain = append(chain, t)
	}
	return chain, nil
}

// ValidateConfig validates that a configuration only names registered components.
func (r *Registry) ValidateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := r.Languages.GetLanguage(cfg); err != nil {
		return fmt.Errorf("invalid language: %w", err)
	}
	if _, err := r.Transformer(cfg); err != nil {
		return fmt.Errorf("invalid transforms: %w", err)
	}
	return nil
}

// Global registry instance
var DefaultRegistry = New()

// RegisterLanguage registers a language with the global registry.
func RegisterLanguage(langType config.LanguageType, factory LanguageFactory) {
	DefaultRegistry.Languages.RegisterLanguage(langType, factory)
}

// RegisterTransform registers a transform with the global registry.
func RegisterTransform(name string, factory TransformFactory) {
	DefaultRegistry.Transforms.RegisterTransform(name, factory)
}
