package integration

// posts is the data set loaded into every backend.
var posts = []string{
	"Getting started with Vue",
	"React hooks in depth",
	"Vue and React compared",
	"Node streams",
	"Building APIs with Node and Express",
	"Angular for React developers",
	"Modern C++ idioms",
	"O'Reilly guide to Vue",
	"100% test coverage",
	"Line\nbreaks",
}

// untitled is the number of extra rows loaded with a null or missing title.
// No query may select them.
const untitled = 2

// searchCases must match the same number of posts on every backend.
var searchCases = []struct {
	name     string
	query    string
	expected int
}{
	{name: "single term", query: "vue", expected: 3},
	{name: "implicit or", query: "vue react", expected: 5},
	{name: "and", query: "vue and react", expected: 1},
	{name: "and not", query: "(vue or react) and not angular", expected: 4},
	{name: "negated term", query: "not vue", expected: 7},
	{name: "negated group", query: "not (vue or react)", expected: 5},
	{name: "double negation", query: "not (not vue)", expected: 3},
	{name: "wildcard matches line break", query: "line_breaks", expected: 1},
	{name: "phrase", query: `"getting started"`, expected: 1},
	{name: "regex metacharacters", query: "c++", expected: 1},
	{name: "single quote", query: "o'reilly", expected: 1},
	{name: "percent sign", query: "100%", expected: 1},
	{name: "no match", query: "node and not (express or streams)", expected: 0},
	{name: "upper case keywords", query: "NODE AND NOT EXPRESS", expected: 1},
	{name: "empty query matches everything", query: "", expected: len(posts)},
}
