package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	codeNot Code = iota + 1
	codeAnd
	codeOr
	codeOpen
	codeClose
)

func testDefinition(t *testing.T, mutate func(*Options)) *Definition {
	t.Helper()
	opts := DefaultOptions()
	opts.Keywords = map[string]Code{"not": codeNot, "and": codeAnd, "or": codeOr}
	opts.Operators = map[string]Code{"(": codeOpen, ")": codeClose}
	if mutate != nil {
		mutate(&opts)
	}
	def, err := New(opts)
	require.NoError(t, err)
	return def
}

func collect(t *testing.T, s *Scanner, next func() (Token, error)) []Token {
	t.Helper()
	var tokens []Token
	for {
		tok, err := next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Class == EOF {
			return tokens
		}
	}
}

func TestNextSkipsWhitespace(t *testing.T) {
	s, err := testDefinition(t, nil).Scan("(vue or\n \"react js\")  AND node2")
	require.NoError(t, err)

	tokens := collect(t, s, s.Next)
	expected := []Token{
		{Class: Operator, Code: codeOpen, Lexeme: "(", Line: 1, Column: 1},
		{Class: Ident, Lexeme: "vue", Line: 1, Column: 2},
		{Class: Keyword, Code: codeOr, Lexeme: "or", Line: 1, Column: 6},
		{Class: String, Lexeme: `"react js"`, Line: 2, Column: 2},
		{Class: Operator, Code: codeClose, Lexeme: ")", Line: 2, Column: 12},
		{Class: Keyword, Code: codeAnd, Lexeme: "AND", Line: 2, Column: 15},
		{Class: Ident, Lexeme: "node2", Line: 2, Column: 19},
	}
	require.Len(t, tokens, len(expected)+1)
	assert.Equal(t, expected, tokens[:len(expected)])
	assert.Equal(t, EOF, tokens[len(expected)].Class)
}

func TestNextRawKeepsWhitespace(t *testing.T) {
	s, err := testDefinition(t, nil).Scan("a b\nc")
	require.NoError(t, err)

	var classes []Class
	for _, tok := range collect(t, s, s.NextRaw) {
		classes = append(classes, tok.Class)
	}
	assert.Equal(t, []Class{Ident, Space, Ident, EOL, Ident, EOF}, classes)
}

func TestLineEndings(t *testing.T) {
	s, err := testDefinition(t, nil).Scan("a\rb\r\nc\nd")
	require.NoError(t, err)

	var classes []Class
	var eols []string
	for _, tok := range collect(t, s, s.NextRaw) {
		classes = append(classes, tok.Class)
		if tok.Class == EOL {
			eols = append(eols, tok.Lexeme)
		}
	}
	assert.Equal(t, []Class{Ident, EOL, Ident, EOL, Ident, EOL, Ident, EOF}, classes)
	assert.Equal(t, []string{"\r", "\r\n", "\n"}, eols)

	s, err = testDefinition(t, nil).Scan("c++\rx")
	require.NoError(t, err)
	first, err := s.Next()
	require.NoError(t, err)
	literal, next, err := s.Run(first)
	require.NoError(t, err)
	assert.Equal(t, "c++", literal)
	assert.Equal(t, "x", next.Lexeme)
}

func TestShape(t *testing.T) {
	def := testDefinition(t, nil)

	shape := func(input string) string {
		t.Helper()
		out, err := def.Shape(input)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "", shape(""))
	assert.Equal(t, "t t ", shape("vue react"))
	assert.Equal(t, "t ", shape("c++3d"))
	assert.Equal(t, "o4 t k3 s o5 ", shape(`(vue or "react js")`))
	assert.Equal(t, shape("Vue AND React"), shape("vue and react"))
	assert.Equal(t, shape(`"Canción"  niño`), shape(`"cancion" nino`))
	assert.NotEqual(t, shape("vue y react"), shape("vue and react"))
	assert.NotEqual(t, shape("vue react"), shape("vue-react"))

	sensitive := testDefinition(t, func(o *Options) { o.CaseSensitiveKeywords = true })
	upper, err := sensitive.Shape("vue AND react")
	require.NoError(t, err)
	lower, err := sensitive.Shape("vue and react")
	require.NoError(t, err)
	assert.NotEqual(t, upper, lower)
}

func TestKeywordCase(t *testing.T) {
	t.Run("insensitive by default", func(t *testing.T) {
		s, err := testDefinition(t, nil).Scan("Not")
		require.NoError(t, err)
		tok, err := s.Next()
		require.NoError(t, err)
		assert.True(t, tok.Is(codeNot))
	})

	t.Run("case sensitive", func(t *testing.T) {
		def := testDefinition(t, func(o *Options) { o.CaseSensitiveKeywords = true })
		s, err := def.Scan("Not not")
		require.NoError(t, err)
		tokens := collect(t, s, s.Next)
		assert.Equal(t, Ident, tokens[0].Class)
		assert.True(t, tokens[1].Is(codeNot))
	})

	t.Run("keyword inside identifier", func(t *testing.T) {
		s, err := testDefinition(t, nil).Scan("android")
		require.NoError(t, err)
		tok, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, Ident, tok.Class)
	})
}

func TestNumbersAndUnknown(t *testing.T) {
	s, err := testDefinition(t, nil).Scan("1.5.3 c++ é")
	require.NoError(t, err)

	var lexemes []string
	var classes []Class
	for _, tok := range collect(t, s, s.Next) {
		lexemes = append(lexemes, tok.Lexeme)
		classes = append(classes, tok.Class)
	}
	assert.Equal(t, []string{"1.5", ".", "3", "c", "+", "+", "é", ""}, lexemes)
	assert.Equal(t, []Class{Number, Unknown, Number, Ident, Unknown, Unknown, Ident, EOF}, classes)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		literal  string
		stop     Class
		stopText string
	}{
		{name: "stops at space", input: "c++ next", literal: "c++", stop: Ident, stopText: "next"},
		{name: "stops at eol", input: "a.b\nnext", literal: "a.b", stop: Ident, stopText: "next"},
		{name: "stops at keyword", input: "c++and x", literal: "c++", stop: Keyword, stopText: "and"},
		{name: "stops at operator", input: "a-b)", literal: "a-b", stop: Operator, stopText: ")"},
		{name: "stops at string", input: `ab"cd"`, literal: "ab", stop: String, stopText: `"cd"`},
		{name: "stops at eof", input: "o'neil", literal: "o'neil", stop: EOF},
		{name: "unterminated quote", input: `"abc`, literal: `"abc`, stop: EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := testDefinition(t, nil).Scan(tt.input)
			require.NoError(t, err)
			first, err := s.Next()
			require.NoError(t, err)

			literal, stop, err := s.Run(first)
			require.NoError(t, err)
			assert.Equal(t, tt.literal, literal)
			assert.Equal(t, tt.stop, stop.Class)
			assert.Equal(t, tt.stopText, stop.Lexeme)
		})
	}
}

func TestUnquote(t *testing.T) {
	def := testDefinition(t, nil)
	assert.Equal(t, "react js", def.Unquote(`"react js"`))
	assert.Equal(t, `say "hi"`, def.Unquote(`"say \"hi\""`))
	assert.Equal(t, `back\slash`, def.Unquote(`"back\\slash"`))
	assert.Equal(t, "it's", def.Unquote(`"it's"`))

	single := testDefinition(t, func(o *Options) { o.Quote = "'" })
	assert.Equal(t, "two words", single.Unquote("'two words'"))
}

func TestComments(t *testing.T) {
	def := testDefinition(t, func(o *Options) {
		o.LineComment = "#"
		o.BlockCommentBegin = "/*"
		o.BlockCommentEnd = "*/"
	})
	s, err := def.Scan("a /* skip\nme */ b # tail\nc")
	require.NoError(t, err)

	var lexemes []string
	for _, tok := range collect(t, s, s.Next) {
		lexemes = append(lexemes, tok.Lexeme)
	}
	assert.Equal(t, []string{"a", "b", "c", ""}, lexemes)
}

func TestInvalidOptions(t *testing.T) {
	_, err := New(Options{Quote: "ab"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = New(Options{Quote: `\`})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = New(Options{BlockCommentBegin: "/*"})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "end of input", Token{Class: EOF}.String())
	assert.Equal(t, `"and"`, Token{Class: Keyword, Lexeme: "and"}.String())
	assert.Equal(t, "identifier", Ident.String())
}
