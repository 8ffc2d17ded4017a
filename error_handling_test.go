package likeql_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kyle-williams-1/likeql"
)

func TestErrorHandling(t *testing.T) {
	parser := likeql.New()

	tests := []struct {
		name        string
		query       string
		expectError bool
		kind        error
		errorText   string
	}{
		{
			name:        "unclosed parenthesis",
			query:       "(vue",
			expectError: true,
			kind:        likeql.ErrUnclosedParen,
			errorText:   `expected ")" but found end of input, at line 1, column 5`,
		},
		{
			name:        "leading operator",
			query:       "and vue",
			expectError: true,
			kind:        likeql.ErrExpectedTerm,
			errorText:   `expected a search term but found "and", at line 1, column 1`,
		},
		{
			name:        "dangling operator",
			query:       "vue and",
			expectError: true,
			kind:        likeql.ErrExpectedTerm,
			errorText:   "expected a search term but found end of input",
		},
		{
			name:        "stray closing parenthesis",
			query:       "a )",
			expectError: true,
			kind:        likeql.ErrTrailingInput,
			errorText:   `unexpected ")", at line 1, column 3`,
		},
		{
			name:        "empty group",
			query:       "()",
			expectError: true,
			kind:        likeql.ErrExpectedTerm,
		},
		{
			name:        "valid query",
			query:       "vue or react",
			expectError: false,
		},
		{
			name:        "empty query",
			query:       "",
			expectError: false,
		},
		{
			name:        "whitespace query",
			query:       "   ",
			expectError: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := parser.Evaluate(test.query)

			if test.expectError {
				if err == nil {
					t.Fatalf("Expected error for query '%s', got none", test.query)
				}
				if !errors.Is(err, test.kind) {
					t.Fatalf("Expected error kind %v, got %v", test.kind, err)
				}
				if test.errorText != "" && !strings.Contains(err.Error(), test.errorText) {
					t.Fatalf("Expected error to contain '%s', got '%s'", test.errorText, err.Error())
				}
			} else {
				if err != nil {
					t.Fatalf("Expected no error for query '%s', got: %v", test.query, err)
				}
			}
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	parser := likeql.New()

	_, err := parser.Evaluate("vue\nreact and (node")
	var syntaxErr *likeql.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected *SyntaxError, got %T: %v", err, err)
	}
	if syntaxErr.Line != 2 || syntaxErr.Column != 16 {
		t.Fatalf("Expected error at line 2, column 16, got line %d, column %d", syntaxErr.Line, syntaxErr.Column)
	}
}

func TestNoPartialResults(t *testing.T) {
	parser := likeql.New()

	result, err := parser.Evaluate("vue and (react")
	if err == nil {
		t.Fatal("Expected error")
	}
	if result != "" {
		t.Fatalf("Expected no output on error, got %q", result)
	}

	doc, err := parser.EvaluateBSON("vue and (react")
	if err == nil {
		t.Fatal("Expected error")
	}
	if doc != nil {
		t.Fatalf("Expected no document on error, got %v", doc)
	}
}
