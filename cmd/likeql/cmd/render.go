package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kyle-williams-1/likeql"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
)

// errReported is returned once an error has already been printed.
var errReported = errors.New("error reported")

// reportQueryError prints syntax errors with the offending line and a caret.
// Other errors are returned unchanged.
func reportQueryError(cmd *cobra.Command, query string, err error) error {
	var syntaxErr *likeql.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), RenderSyntaxError(query, syntaxErr))
	return errReported
}

// RenderSyntaxError formats err against the query it was raised for:
//
//	error: expected ")" but found end of input
//	 --> 1:5
//	  |
//	1 | (vue
//	  |     ^
func RenderSyntaxError(query string, err *likeql.SyntaxError) string {
	var b strings.Builder
	b.WriteString(errorStyle.Sprint("error: "))
	b.WriteString(err.Message)
	b.WriteByte('\n')

	lines := strings.Split(query, "\n")
	if err.Line < 1 || err.Line > len(lines) {
		return b.String()
	}
	line := strings.TrimRight(lines[err.Line-1], "\r")

	lineNum := fmt.Sprintf("%d", err.Line)
	padding := strings.Repeat(" ", len(lineNum))
	b.WriteString(lineStyle.Sprintf("%s--> ", padding))
	b.WriteString(fmt.Sprintf("%d:%d\n", err.Line, err.Column))
	b.WriteString(lineStyle.Sprintf("%s |\n", padding))
	b.WriteString(lineStyle.Sprintf("%s | ", lineNum))
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(lineStyle.Sprintf("%s | ", padding))
	b.WriteString(caretIndent(line, err.Column))
	b.WriteString(messageStyle.Sprint("^"))
	b.WriteByte('\n')
	return b.String()
}

// caretIndent returns the whitespace that puts a caret under the 1-based
// column, keeping tabs so the caret lines up in a terminal.
func caretIndent(line string, column int) string {
	var b strings.Builder
	n := 1
	for _, r := range line {
		if n >= column {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	for ; n < column; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}
