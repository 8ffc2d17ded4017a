// Package boolean compiles search-box queries: terms joined by and, or and
// not, parenthesized groups and quoted phrases. Adjacent terms with no
// connector between them are or-ed.
//
// Grammar, loosest to tightest binding:
//
//	Expression := OrExpr
//	OrExpr     := AndExpr { [ "or" ] AndExpr }
//	AndExpr    := UnaryExpr { "and" UnaryExpr }
//	UnaryExpr  := [ "not" ] Primary
//	Primary    := "(" Expression ")" | STRING | BareTermRun
//
// A bare term run is a contiguous run of non-reserved characters up to the
// next whitespace, keyword, parenthesis or quote. Empty input matches
// everything.
package boolean

import (
	"fmt"

	"github.com/kyle-williams-1/likeql/formatter"
	"github.com/kyle-williams-1/likeql/language"
	"github.com/kyle-williams-1/likeql/scanner"
)

// Keyword and operator codes.
const (
	Not scanner.Code = iota + 1
	And
	Or
	ParenOpen
	ParenClose
)

// Options configures the parser.
type Options struct {
	// Quote delimits phrases, `"` by default.
	Quote string
	// CaseSensitiveKeywords makes only lower-case and, or, not reserved.
	CaseSensitiveKeywords bool
}

// Parser compiles boolean search queries. It is safe for concurrent use.
type Parser struct {
	def *scanner.Definition
}

// Ensure Parser implements the language interfaces
var (
	_ language.Compiler = (*Parser)(nil)
	_ language.Shaper   = (*Parser)(nil)
)

// New creates a parser with default options.
func New() *Parser {
	p, err := NewWithOptions(Options{})
	if err != nil {
		panic(err)
	}
	return p
}

// NewWithOptions creates a parser with the given options.
func NewWithOptions(opts Options) (*Parser, error) {
	scanOpts := scanner.DefaultOptions()
	if opts.Quote != "" {
		scanOpts.Quote = opts.Quote
	}
	scanOpts.CaseSensitiveKeywords = opts.CaseSensitiveKeywords
	scanOpts.Keywords = map[string]scanner.Code{"not": Not, "and": And, "or": Or}
	scanOpts.Operators = map[string]scanner.Code{"(": ParenOpen, ")": ParenClose}

	def, err := scanner.New(scanOpts)
	if err != nil {
		return nil, err
	}
	return &Parser{def: def}, nil
}

// Compile parses query and streams the compiled expression for field into
// sink, wrapped in one outer group. On error the events already delivered
// must be discarded.
func (p *Parser) Compile(query, field string, sink formatter.Sink) error {
	scan, err := p.def.Scan(query)
	if err != nil {
		return err
	}

	ps := &parse{scan: scan, sink: sink, field: field}
	if err := ps.advance(); err != nil {
		return err
	}

	sink.OpenGroup()
	if err := ps.expression(); err != nil {
		return err
	}
	if ps.tok.Class != scanner.EOF {
		return newSyntaxError(ErrTrailingInput, ps.tok, "unexpected %s", ps.tok)
	}
	sink.CloseGroup()
	return nil
}

// Shape implements language.Shaper.
func (p *Parser) Shape(query string) (string, error) {
	return p.def.Shape(query)
}

// parse holds the state of one Compile call.
type parse struct {
	scan    *scanner.Scanner
	tok     scanner.Token
	sink    formatter.Sink
	field   string
	emitted bool
}

func (ps *parse) advance() error {
	tok, err := ps.scan.Next()
	if err != nil {
		return fmt.Errorf("failed to scan query: %w", err)
	}
	ps.tok = tok
	return nil
}

func (ps *parse) expression() error {
	return ps.orExpr()
}

// continuesOrChain reports whether tok starts another or-ed operand: either
// an explicit or, or anything that does not close the current expression.
func continuesOrChain(tok scanner.Token) bool {
	return tok.Is(Or) || (!tok.Is(ParenClose) && tok.Class != scanner.EOF)
}

func (ps *parse) orExpr() error {
	if err := ps.andExpr(); err != nil {
		return err
	}
	for continuesOrChain(ps.tok) {
		if ps.tok.Is(Or) {
			if err := ps.advance(); err != nil {
				return err
			}
		}
		ps.sink.Or()
		if err := ps.andExpr(); err != nil {
			return err
		}
	}
	return nil
}

func (ps *parse) andExpr() error {
	if err := ps.unaryExpr(); err != nil {
		return err
	}
	for ps.tok.Is(And) {
		ps.sink.And()
		if err := ps.advance(); err != nil {
			return err
		}
		if err := ps.unaryExpr(); err != nil {
			return err
		}
	}
	return nil
}

// unaryExpr negates the single primary that follows a not.
func (ps *parse) unaryExpr() error {
	if ps.tok.Is(Not) {
		ps.emitted = true
		ps.sink.Not()
		if err := ps.advance(); err != nil {
			return err
		}
	}
	return ps.primary()
}

func (ps *parse) primary() error {
	switch {
	case ps.tok.Is(ParenOpen):
		ps.emitted = true
		ps.sink.OpenGroup()
		if err := ps.advance(); err != nil {
			return err
		}
		if err := ps.expression(); err != nil {
			return err
		}
		if !ps.tok.Is(ParenClose) {
			return newSyntaxError(ErrUnclosedParen, ps.tok, `expected ")" but found %s`, ps.tok)
		}
		ps.sink.CloseGroup()
		return ps.advance()

	case ps.tok.Class == scanner.String:
		ps.term(ps.scan.Definition().Unquote(ps.tok.Lexeme))
		return ps.advance()

	case ps.tok.Class == scanner.EOF && !ps.emitted:
		// empty query
		ps.term("")
		return nil

	case ps.tok.Class == scanner.EOF, ps.tok.Class == scanner.Keyword, ps.tok.Class == scanner.Operator:
		return newSyntaxError(ErrExpectedTerm, ps.tok, "expected a search term but found %s", ps.tok)
	}

	literal, next, err := ps.scan.Run(ps.tok)
	if err != nil {
		return fmt.Errorf("failed to scan query: %w", err)
	}
	ps.term(literal)
	ps.tok = next
	return nil
}

func (ps *parse) term(text string) {
	ps.emitted = true
	ps.sink.Term(ps.field, text)
}
