// Package language provides interfaces for query language parsers.
package language

import "github.com/kyle-williams-1/likeql/formatter"

// Compiler compiles a search query matching one field into a stream of
// formatter events.
//
// Implementations keep no per-call state, so one Compiler may be used from
// several goroutines as long as each call gets its own sink.
type Compiler interface {
	Compile(query, field string, sink formatter.Sink) error
}

// Shaper is implemented by compilers that can describe the structure of a
// query. Two queries with the same shape compile to the same expression tree,
// differing only in the text of their terms.
type Shaper interface {
	Shape(query string) (string, error)
}
