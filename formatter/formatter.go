package formatter

import "errors"

// ErrIncomplete is returned by Result when the event stream did not close
// every group it opened.
var ErrIncomplete = errors.New("formatter: incomplete expression")

// LikePattern returns the LIKE pattern matching text anywhere in a value.
func LikePattern(text string) string {
	return "%" + text + "%"
}
