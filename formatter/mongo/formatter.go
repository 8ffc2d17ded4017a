// Package mongo provides MongoDB BSON formatting functionality for query results.
package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kyle-williams-1/likeql/formatter"
)

// DefaultRegexOptions makes term matching case-insensitive, like LIKE on
// most SQL databases, and lets wildcards match line breaks as LIKE does.
const DefaultRegexOptions = "is"

// MongoFormatter renders the event stream as a MongoDB filter document.
//
// Terms become {field: {$regex: ..., $options: ...}}, negated terms
// {field: {$not: /.../, $ne: null}}, negated groups {$nor: [group, {field: null}]};
// and-chains and or-chains with more than one member become $and / $or arrays.
// Negations never select documents where field is null or missing, matching
// SQL, where not applied to a null comparison is null.
type MongoFormatter struct {
	// RegexOptions are passed to every $regex, DefaultRegexOptions by default.
	RegexOptions string

	stack  []*group
	negate bool
	field  string
	result bson.M
}

// group collects the or-separated branches of one parenthesized expression.
// Each branch is an and-chain.
type group struct {
	branches [][]bson.M
	negate   bool
}

// New creates a new MongoDB BSON formatter instance.
func New() *MongoFormatter {
	return &MongoFormatter{RegexOptions: DefaultRegexOptions}
}

// Ensure MongoFormatter implements the generic interface
var _ formatter.Formatter[bson.M] = (*MongoFormatter)(nil)

// Reset implements formatter.Formatter.
func (f *MongoFormatter) Reset() {
	f.stack = f.stack[:0]
	f.negate = false
	f.field = ""
	f.result = nil
}

// OpenGroup implements formatter.Sink.
func (f *MongoFormatter) OpenGroup() {
	f.stack = append(f.stack, &group{branches: [][]bson.M{nil}, negate: f.negate})
	f.negate = false
}

// CloseGroup implements formatter.Sink.
func (f *MongoFormatter) CloseGroup() {
	if len(f.stack) == 0 {
		return
	}
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	f.add(top.build(f.field))
}

// And implements formatter.Sink. Consecutive conditions in a branch are
// implicitly and-ed, so there is nothing to record.
func (f *MongoFormatter) And() {}

// Or implements formatter.Sink.
func (f *MongoFormatter) Or() {
	if len(f.stack) == 0 {
		return
	}
	top := f.stack[len(f.stack)-1]
	top.branches = append(top.branches, nil)
}

// Not implements formatter.Sink.
func (f *MongoFormatter) Not() {
	f.negate = true
}

// Term implements formatter.Sink.
func (f *MongoFormatter) Term(field, text string) {
	pattern := LikeToRegex(formatter.LikePattern(text))
	var condition bson.M
	if f.negate {
		condition = bson.M{field: bson.M{
			"$not": primitive.Regex{Pattern: pattern, Options: f.RegexOptions},
			"$ne":  nil,
		}}
	} else {
		condition = bson.M{field: bson.M{"$regex": pattern, "$options": f.RegexOptions}}
	}
	f.negate = false
	f.field = field
	f.add(condition)
}

// Result implements formatter.Formatter.
func (f *MongoFormatter) Result() (bson.M, error) {
	if len(f.stack) != 0 || f.result == nil {
		return nil, formatter.ErrIncomplete
	}
	return f.result, nil
}

// add appends a condition to the current branch, or makes it the result when
// the outermost group has been closed.
func (f *MongoFormatter) add(condition bson.M) {
	if len(f.stack) == 0 {
		f.result = condition
		return
	}
	top := f.stack[len(f.stack)-1]
	last := len(top.branches) - 1
	top.branches[last] = append(top.branches[last], condition)
}

func (g *group) build(field string) bson.M {
	var ors []bson.M
	for _, branch := range g.branches {
		switch len(branch) {
		case 0:
			continue
		case 1:
			ors = append(ors, branch[0])
		default:
			ors = append(ors, bson.M{"$and": branch})
		}
	}

	var doc bson.M
	switch len(ors) {
	case 0:
		doc = bson.M{}
	case 1:
		doc = ors[0]
	default:
		doc = bson.M{"$or": ors}
	}

	if g.negate {
		return bson.M{"$nor": []bson.M{doc, {field: nil}}}
	}
	return doc
}

// LikeToRegex converts a SQL LIKE pattern to a regular expression.
// % matches any run of characters and _ any single character; everything
// else is matched literally. Leading and trailing % leave the regex
// unanchored on that side.
func LikeToRegex(pattern string) string {
	trimmed := strings.TrimLeft(pattern, "%")
	if trimmed == "" && pattern != "" {
		return ""
	}
	anchorStart := len(trimmed) == len(pattern)
	body := strings.TrimRight(trimmed, "%")
	anchorEnd := len(body) == len(trimmed)

	var b strings.Builder
	if anchorStart {
		b.WriteByte('^')
	}
	for _, r := range body {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if anchorEnd {
		b.WriteByte('$')
	}
	return b.String()
}
