// Package sql provides SQL LIKE formatting for compiled search queries.
package sql

import (
	"strings"

	"github.com/kyle-williams-1/likeql/formatter"
)

// Connectors written between clauses.
const (
	andConnector = " and "
	orConnector  = " or "
	notConnector = "not "
)

// Formatter renders the event stream as a SQL boolean expression of LIKE
// clauses, e.g. "(title like '%vue%' or title like '%node%')".
//
// Single quotes inside search text are doubled; nothing else is escaped.
type Formatter struct {
	out   strings.Builder
	depth int
}

// New creates a new SQL formatter instance.
func New() *Formatter {
	return &Formatter{}
}

// Ensure Formatter implements the generic interface
var _ formatter.Formatter[string] = (*Formatter)(nil)

// Reset implements formatter.Formatter.
func (f *Formatter) Reset() {
	f.out.Reset()
	f.depth = 0
}

// OpenGroup implements formatter.Sink.
func (f *Formatter) OpenGroup() {
	f.out.WriteByte('(')
	f.depth++
}

// CloseGroup implements formatter.Sink.
func (f *Formatter) CloseGroup() {
	f.out.WriteByte(')')
	f.depth--
}

// And implements formatter.Sink.
func (f *Formatter) And() {
	f.out.WriteString(andConnector)
}

// Or implements formatter.Sink.
func (f *Formatter) Or() {
	f.out.WriteString(orConnector)
}

// Not implements formatter.Sink. A negation always follows an opening
// parenthesis or a connector, so it needs no leading space.
func (f *Formatter) Not() {
	f.out.WriteString(notConnector)
}

// Term implements formatter.Sink.
func (f *Formatter) Term(field, text string) {
	f.out.WriteString(Clause(field, text))
}

// Result implements formatter.Formatter.
func (f *Formatter) Result() (string, error) {
	if f.depth != 0 || f.out.Len() == 0 {
		return "", formatter.ErrIncomplete
	}
	return f.out.String(), nil
}

// Clause returns the LIKE clause matching text anywhere in field.
func Clause(field, text string) string {
	return field + " like " + Quote(formatter.LikePattern(text))
}

// Quote returns s as a SQL string literal, doubling embedded single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
