// Package factory provides factory functions for creating compilers, formatters and transforms.
package factory

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kyle-williams-1/likeql/config"
	"github.com/kyle-williams-1/likeql/formatter"
	mongoformatter "github.com/kyle-williams-1/likeql/formatter/mongo"
	sqlformatter "github.com/kyle-williams-1/likeql/formatter/sql"
	"github.com/kyle-williams-1/likeql/language"
	"github.com/kyle-williams-1/likeql/language/boolean"
	"github.com/kyle-williams-1/likeql/wordroot"
)

// CreateCompiler creates a compiler based on the configured language type.
func CreateCompiler(cfg *config.Config) (language.Compiler, error) {
	switch cfg.Language {
	case config.LanguageBoolean:
		compiler, err := boolean.NewWithOptions(boolean.Options{
			Quote:                 cfg.Quote,
			CaseSensitiveKeywords: cfg.CaseSensitiveKeywords,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s compiler: %w", cfg.Language, err)
		}
		return compiler, nil
	default:
		return nil, fmt.Errorf("unsupported language type: %s", cfg.Language)
	}
}

// CreateSQLFormatter creates a SQL LIKE formatter.
func CreateSQLFormatter() formatter.Formatter[string] {
	return sqlformatter.New()
}

// CreateMongoFormatter creates a MongoDB BSON formatter.
func CreateMongoFormatter() formatter.Formatter[bson.M] {
	return mongoformatter.New()
}

// CreateRootTable creates the word-root table from the configured file and
// inline roots. Inline roots win over the file.
func CreateRootTable(cfg *config.Config) (*wordroot.Table, error) {
	table := wordroot.NewTable(nil)
	if cfg.RootsFile != "" {
		loaded, err := wordroot.LoadTable(cfg.RootsFile)
		if err != nil {
			return nil, err
		}
		table = loaded
	}
	for word, root := range cfg.Roots {
		table.Add(word, root)
	}
	return table, nil
}
