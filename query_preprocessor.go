package likeql

import (
	"github.com/kyle-williams-1/likeql/language"
	"github.com/kyle-williams-1/likeql/language/boolean"
	"github.com/kyle-williams-1/likeql/wordroot"
)

// QueryPreprocessor applies the configured pre-transform to a query before
// it reaches the scanner.
type QueryPreprocessor struct {
	transformer wordroot.Transformer
	shaper      language.Shaper
}

// NewQueryPreprocessor creates a preprocessor around t. A nil t leaves
// queries untouched. shaper must tokenize queries the way the compiler does;
// nil means the default boolean syntax.
func NewQueryPreprocessor(t wordroot.Transformer, shaper language.Shaper) *QueryPreprocessor {
	if t == nil {
		t = wordroot.Identity
	}
	if shaper == nil {
		shaper = boolean.New()
	}
	return &QueryPreprocessor{transformer: t, shaper: shaper}
}

// PreprocessQuery transforms query once. The second result is false when
// the transformed query has a different shape: keywords, operators or
// phrases were added, removed or reordered, or a term appeared, vanished or
// split. The caller should then fall back to the raw query.
func (qp *QueryPreprocessor) PreprocessQuery(query string) (string, bool) {
	out := qp.transformer.Transform(query)
	if out == query {
		return out, true
	}

	before, err := qp.shaper.Shape(query)
	if err != nil {
		return out, false
	}
	after, err := qp.shaper.Shape(out)
	if err != nil {
		return out, false
	}
	return out, before == after
}
