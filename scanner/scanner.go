// Package scanner provides the tokenizer used by the search query languages.
//
// A Definition is built once from Options and is safe to share. Each call to
// Scan returns an independent Scanner that produces tokens lazily, one per
// request, tracking line and column of every token.
package scanner

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Class is the lexical class of a token.
type Class int

const (
	EOF Class = iota
	Keyword
	Operator
	String
	Ident
	Number
	Unknown
	Space
	EOL

	// comments are always skipped and never reach callers
	comment Class = -1
)

var classNames = map[Class]string{
	EOF:      "end of input",
	Keyword:  "keyword",
	Operator: "operator",
	String:   "string",
	Ident:    "identifier",
	Number:   "number",
	Unknown:  "unknown",
	Space:    "space",
	EOL:      "end of line",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "class(" + strconv.Itoa(int(c)) + ")"
}

// Code identifies a keyword or operator. Codes are owned by the language
// that registers them; zero means "no code".
type Code int

// Token is a single lexical token.
type Token struct {
	Class  Class
	Code   Code
	Lexeme string
	Line   int
	Column int
}

// Is reports whether the token is the keyword or operator registered with code.
func (t Token) Is(code Code) bool {
	return (t.Class == Keyword || t.Class == Operator) && t.Code == code
}

func (t Token) String() string {
	if t.Class == EOF {
		return "end of input"
	}
	return strconv.Quote(t.Lexeme)
}

// Options configures a Definition.
type Options struct {
	// Quote is the string delimiter, a single character. Defaults to `"`.
	Quote string
	// LineComment starts a comment running to the end of the line. Empty disables it.
	LineComment string
	// BlockCommentBegin and BlockCommentEnd delimit multi-line comments.
	// Both must be set to enable them.
	BlockCommentBegin string
	BlockCommentEnd   string
	// IgnoreSpaces and IgnoreEOL make Next skip in-line whitespace and line breaks.
	IgnoreSpaces bool
	IgnoreEOL    bool
	// Keywords maps identifier spellings to codes.
	Keywords map[string]Code
	// Operators maps operator spellings to codes.
	Operators map[string]Code
	// CaseSensitiveKeywords disables case folding of keyword lookups.
	CaseSensitiveKeywords bool
}

// DefaultOptions returns options with a double-quote string delimiter,
// comments disabled and whitespace ignored.
func DefaultOptions() Options {
	return Options{
		Quote:        `"`,
		IgnoreSpaces: true,
		IgnoreEOL:    true,
	}
}

// Definition holds the compiled lexer rules and lookup tables.
type Definition struct {
	opts      Options
	quote     rune
	lexer     *lexer.StatefulDefinition
	classes   map[lexer.TokenType]Class
	keywords  map[string]Code
	operators map[string]Code
}

// ErrInvalidOptions is returned by New for unusable options.
var ErrInvalidOptions = errors.New("invalid scanner options")

// New compiles a Definition from opts.
func New(opts Options) (*Definition, error) {
	if opts.Quote == "" {
		opts.Quote = `"`
	}
	quote, size := utf8.DecodeRuneInString(opts.Quote)
	if size != len(opts.Quote) || quote == '\\' {
		return nil, fmt.Errorf("%w: quote must be a single character other than backslash, got %q", ErrInvalidOptions, opts.Quote)
	}
	if (opts.BlockCommentBegin == "") != (opts.BlockCommentEnd == "") {
		return nil, fmt.Errorf("%w: block comments need both delimiters", ErrInvalidOptions)
	}

	d := &Definition{
		opts:      opts,
		quote:     quote,
		keywords:  make(map[string]Code, len(opts.Keywords)),
		operators: make(map[string]Code, len(opts.Operators)),
	}
	for spelling, code := range opts.Keywords {
		d.keywords[d.keywordKey(spelling)] = code
	}
	for spelling, code := range opts.Operators {
		if spelling == "" {
			return nil, fmt.Errorf("%w: empty operator spelling", ErrInvalidOptions)
		}
		d.operators[spelling] = code
	}

	def, err := lexer.NewSimple(d.rules())
	if err != nil {
		return nil, fmt.Errorf("failed to build lexer: %w", err)
	}
	d.lexer = def

	ruleClasses := map[string]Class{
		"LineComment":  comment,
		"BlockComment": comment,
		"String":       String,
		"EOL":          EOL,
		"Space":        Space,
		"Operator":     Operator,
		"Number":       Number,
		"Ident":        Ident,
		"Unknown":      Unknown,
	}
	d.classes = make(map[lexer.TokenType]Class)
	for name, tokenType := range def.Symbols() {
		if class, ok := ruleClasses[name]; ok {
			d.classes[tokenType] = class
		}
	}
	return d, nil
}

// MustNew is like New but panics on error.
func MustNew(opts Options) *Definition {
	d, err := New(opts)
	if err != nil {
		panic(err)
	}
	return d
}

// rules builds the lexer rules. Order matters: the first matching rule wins.
func (d *Definition) rules() []lexer.SimpleRule {
	var rules []lexer.SimpleRule

	if d.opts.LineComment != "" {
		rules = append(rules, lexer.SimpleRule{Name: "LineComment", Pattern: regexp.QuoteMeta(d.opts.LineComment) + `[^\n]*`})
	}
	if d.opts.BlockCommentBegin != "" {
		rules = append(rules, lexer.SimpleRule{
			Name:    "BlockComment",
			Pattern: regexp.QuoteMeta(d.opts.BlockCommentBegin) + `(?s:.*?)` + regexp.QuoteMeta(d.opts.BlockCommentEnd),
		})
	}

	q := regexp.QuoteMeta(string(d.quote))
	rules = append(rules,
		// Quoted strings with backslash escapes
		lexer.SimpleRule{Name: "String", Pattern: q + `(?:[^` + q + `\\]|\\(?s:.))*` + q},
		lexer.SimpleRule{Name: "EOL", Pattern: `\r\n?|\n`},
		// Any whitespace except line breaks
		lexer.SimpleRule{Name: "Space", Pattern: `[^\S\r\n]+`},
	)

	if len(d.operators) > 0 {
		spellings := make([]string, 0, len(d.operators))
		for spelling := range d.operators {
			spellings = append(spellings, spelling)
		}
		// Longest spelling first so that "<=" wins over "<"
		sort.Slice(spellings, func(i, j int) bool {
			if len(spellings[i]) != len(spellings[j]) {
				return len(spellings[i]) > len(spellings[j])
			}
			return spellings[i] < spellings[j]
		})
		for i, s := range spellings {
			spellings[i] = regexp.QuoteMeta(s)
		}
		rules = append(rules, lexer.SimpleRule{Name: "Operator", Pattern: strings.Join(spellings, "|")})
	}

	return append(rules,
		lexer.SimpleRule{Name: "Number", Pattern: `[0-9]+(?:\.[0-9]+)?`},
		// Keywords are identifiers found in the keyword table
		lexer.SimpleRule{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
		// Anything else, one character at a time. The lexer never fails.
		lexer.SimpleRule{Name: "Unknown", Pattern: `(?s:.)`},
	)
}

func (d *Definition) keywordKey(spelling string) string {
	if d.opts.CaseSensitiveKeywords {
		return spelling
	}
	return strings.ToLower(spelling)
}

func (d *Definition) classify(t lexer.Token) Token {
	tok := Token{
		Lexeme: t.Value,
		Line:   t.Pos.Line,
		Column: t.Pos.Column,
	}
	if t.EOF() {
		tok.Class = EOF
		tok.Lexeme = ""
		return tok
	}

	tok.Class = d.classes[t.Type]
	switch tok.Class {
	case Ident:
		if code, ok := d.keywords[d.keywordKey(t.Value)]; ok {
			tok.Class = Keyword
			tok.Code = code
		}
	case Operator:
		tok.Code = d.operators[t.Value]
	}
	return tok
}

// Unquote decodes the text of a String token: the delimiters are removed and
// every backslash escape is replaced by the escaped character.
func (d *Definition) Unquote(lexeme string) string {
	q := string(d.quote)
	if len(lexeme) >= 2*len(q) && strings.HasPrefix(lexeme, q) && strings.HasSuffix(lexeme, q) {
		lexeme = lexeme[len(q) : len(lexeme)-len(q)]
	}
	if !strings.Contains(lexeme, `\`) {
		return lexeme
	}

	var b strings.Builder
	b.Grow(len(lexeme))
	escaped := false
	for _, r := range lexeme {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// Scan starts tokenizing input.
func (d *Definition) Scan(input string) (*Scanner, error) {
	lex, err := d.lexer.LexString("", input)
	if err != nil {
		return nil, fmt.Errorf("failed to start scanner: %w", err)
	}
	return &Scanner{def: d, lex: lex}, nil
}

// Scanner produces the tokens of one input.
type Scanner struct {
	def *Definition
	lex lexer.Lexer
}

// Definition returns the definition the scanner was created from.
func (s *Scanner) Definition() *Definition {
	return s.def
}

func (s *Scanner) read() (Token, error) {
	for {
		t, err := s.lex.Next()
		if err != nil {
			return Token{}, fmt.Errorf("scanner: %w", err)
		}
		tok := s.def.classify(t)
		if tok.Class == comment {
			continue
		}
		return tok, nil
	}
}

// Next returns the next significant token. Spaces and line breaks are
// skipped according to the IgnoreSpaces and IgnoreEOL options.
func (s *Scanner) Next() (Token, error) {
	for {
		tok, err := s.read()
		if err != nil {
			return Token{}, err
		}
		if (tok.Class == Space && s.def.opts.IgnoreSpaces) || (tok.Class == EOL && s.def.opts.IgnoreEOL) {
			continue
		}
		return tok, nil
	}
}

// NextRaw returns the next token, including spaces and line breaks.
func (s *Scanner) NextRaw() (Token, error) {
	return s.read()
}

// Shape describes the structure input parses into: one entry per keyword and
// operator (with its code), per string and per run of identifier, number and
// unknown lexemes. Inputs with the same shape differ only in the text of their
// terms.
func (d *Definition) Shape(input string) (string, error) {
	s, err := d.Scan(input)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	inRun := false
	for {
		tok, err := s.NextRaw()
		if err != nil {
			return "", err
		}
		switch tok.Class {
		case EOF:
			return b.String(), nil
		case Ident, Number, Unknown:
			if !inRun {
				b.WriteString("t ")
			}
			inRun = true
			continue
		case Keyword:
			fmt.Fprintf(&b, "k%d ", tok.Code)
		case Operator:
			fmt.Fprintf(&b, "o%d ", tok.Code)
		case String:
			b.WriteString("s ")
		}
		inRun = false
	}
}

// Run collects a contiguous run of identifier, number and unknown lexemes
// starting with first. Whitespace, keywords, operators, strings and the end
// of input all end the run. It returns the concatenated text and the token
// that stopped the run; a stopping space or line break is consumed and the
// following significant token is returned instead.
func (s *Scanner) Run(first Token) (string, Token, error) {
	var b strings.Builder
	b.WriteString(first.Lexeme)
	for {
		tok, err := s.NextRaw()
		if err != nil {
			return "", Token{}, err
		}
		switch tok.Class {
		case Ident, Number, Unknown:
			b.WriteString(tok.Lexeme)
			continue
		case Space, EOL:
			if tok, err = s.Next(); err != nil {
				return "", Token{}, err
			}
		}
		return b.String(), tok, nil
	}
}
