// Package formatter provides interfaces for query result formatters.
package formatter

// Sink receives the compiled query as a stream of events, in the order a
// recursive-descent parser produces them. A query "a and not (b or c)" is
// delivered as:
//
//	OpenGroup Term(a) And Not OpenGroup Term(b) Or Term(c) CloseGroup CloseGroup
//
// The outermost OpenGroup/CloseGroup pair wraps the whole query.
type Sink interface {
	OpenGroup()
	CloseGroup()
	And()
	Or()
	Not()
	// Term matches field against the literal search text.
	Term(field, text string)
}

// Formatter represents a query result formatter for a specific output type.
type Formatter[T any] interface {
	Sink
	// Reset discards any partial output so the formatter can be reused.
	Reset()
	// Result returns the formatted query once the outermost group is closed.
	Result() (T, error)
}
