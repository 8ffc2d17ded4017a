package boolean

import (
	"errors"
	"fmt"

	"github.com/kyle-williams-1/likeql/scanner"
)

// Kinds of syntax errors. Use errors.Is to test a returned error.
var (
	ErrTrailingInput = errors.New("trailing input")
	ErrUnclosedParen = errors.New("unclosed parenthesis")
	ErrExpectedTerm  = errors.New("expected search term")
)

// SyntaxError describes malformed query input.
type SyntaxError struct {
	// Kind is one of ErrTrailingInput, ErrUnclosedParen or ErrExpectedTerm.
	Kind    error
	Message string
	// Lexeme is the text of the offending token, empty at end of input.
	Lexeme string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s, at line %d, column %d", e.Message, e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

func newSyntaxError(kind error, tok scanner.Token, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Lexeme:  tok.Lexeme,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}
