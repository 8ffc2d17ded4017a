// Package wordroot provides the text transforms applied to a raw search query
// before it is tokenized, such as accent folding and word-root expansion.
package wordroot

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Transformer rewrites a query string. Implementations must be pure.
type Transformer interface {
	Transform(query string) string
}

// Func adapts a plain function to a Transformer.
type Func func(string) string

// Transform calls f(query).
func (f Func) Transform(query string) string {
	return f(query)
}

// Identity returns the query unchanged.
var Identity Transformer = Func(func(query string) string { return query })

// Chain applies transformers in order.
type Chain []Transformer

// Transform implements Transformer.
func (c Chain) Transform(query string) string {
	for _, t := range c {
		query = t.Transform(query)
	}
	return query
}

// Fold lower-cases the query and strips diacritics, so that "Canción" and
// "cancion" produce the same search terms.
type Fold struct{}

// Transform implements Transformer.
func (Fold) Transform(query string) string {
	// transform.Chain is stateful, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, query)
	if err != nil {
		folded = query
	}
	return cases.Lower(language.Und).String(folded)
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Table replaces every word found in it by its root, e.g. "running" -> "run".
// Lookups ignore case; words not in the table are left untouched.
type Table struct {
	roots map[string]string
}

// NewTable creates a table from a word -> root mapping.
func NewTable(roots map[string]string) *Table {
	t := &Table{roots: make(map[string]string, len(roots))}
	for word, root := range roots {
		t.Add(word, root)
	}
	return t
}

// Add registers root as the root of word. Blank words or roots are ignored.
func (t *Table) Add(word, root string) {
	word = strings.ToLower(strings.TrimSpace(word))
	root = strings.TrimSpace(root)
	if word == "" || root == "" {
		return
	}
	t.roots[word] = root
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.roots)
}

// Root returns the root of word and whether the table knows it.
func (t *Table) Root(word string) (string, bool) {
	root, ok := t.roots[strings.ToLower(word)]
	return root, ok
}

// Transform implements Transformer.
func (t *Table) Transform(query string) string {
	if len(t.roots) == 0 {
		return query
	}
	return wordPattern.ReplaceAllStringFunc(query, func(word string) string {
		if root, ok := t.Root(word); ok {
			return root
		}
		return word
	})
}

// LoadTable reads a YAML mapping of words to roots.
//
//	running: run
//	ran: run
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read root table: %w", err)
	}
	var roots map[string]string
	if err := yaml.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("failed to parse root table %s: %w", path, err)
	}
	return NewTable(roots), nil
}
