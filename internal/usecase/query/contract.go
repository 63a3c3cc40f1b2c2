package query

import "github.com/kailas-cloud/esquery"

// FilterValue applies the filter registered under Handle with Value.
type FilterValue struct {
	Handle string
	Value  any
}

// Call is a verb-style operation run through esquery.Dispatcher.
type Call struct {
	Verb string
	Args []any
}

// Request describes one composition. Empty Fields and Analyzer fall back to
// the service defaults. Steps run in order: Raw, Search, Filters, Calls.
type Request struct {
	Collection string
	Fields     []string
	Analyzer   string
	Raw        esquery.Document
	Search     []string
	Filters    []FilterValue
	Calls      []Call
}

// Result is the outcome of a composition.
type Result struct {
	Collection  string
	Query       esquery.Document
	Sort        []any
	QueryParts  int
	FilterParts int
}

// Defaults seeds every builder the service creates.
type Defaults struct {
	Collection string
	Fields     []string
	Analyzer   string
	DateLayout string
}
