package esquery

import (
	"encoding/json"
	"fmt"

	"github.com/olivere/elastic/v7"
)

// Document is the wire form of a query or clause: nested maps and slices of primitives.
type Document = map[string]any

// Clause is one Elasticsearch query DSL condition.
//
// Clause satisfies elastic.Query, so composed clauses can be passed to an
// olivere/elastic search service as is.
type Clause interface {
	elastic.Query
	json.Marshaler
	clause()
}

// Compile-time checks: every clause kind is an elastic.Query.
var (
	_ Clause = Term{}
	_ Clause = ShortTerm{}
	_ Clause = Range{}
	_ Clause = Bool{}
	_ Clause = MultiMatch{}
	_ Clause = Raw{}
)

// Operator is the boolean operator applied between analyzed query terms.
type Operator string

const (
	// OperatorAnd requires every term of the query string to match.
	OperatorAnd Operator = "and"
	// OperatorOr requires any term of the query string to match.
	OperatorOr Operator = "or"
)

// Term is a custom-typed single-field filter of the shape {type: {field: {"value": v}}}.
// Type defaults to "term".
type Term struct {
	Type  string
	Field string
	Value any
}

// NewTerm creates a term clause for field.
func NewTerm(field string, value any) Term {
	return Term{Type: "term", Field: field, Value: value}
}

// Source renders the clause document.
func (t Term) Source() (any, error) {
	typ := t.Type
	if typ == "" {
		typ = "term"
	}
	return Document{
		typ: Document{
			t.Field: Document{"value": copyValue(t.Value)},
		},
	}, nil
}

// MarshalJSON implements json.Marshaler.
func (t Term) MarshalJSON() ([]byte, error) { return marshalSource(t) }

func (Term) clause() {}

// ShortTerm is the shorthand term form {term: {field: v}}.
type ShortTerm struct {
	Field string
	Value any
}

// Source renders the clause document.
func (t ShortTerm) Source() (any, error) {
	return Document{"term": Document{t.Field: copyValue(t.Value)}}, nil
}

// MarshalJSON implements json.Marshaler.
func (t ShortTerm) MarshalJSON() ([]byte, error) { return marshalSource(t) }

func (ShortTerm) clause() {}

// Range is a range clause over one field. Nil bounds are omitted.
type Range struct {
	Field string
	GT    any
	GTE   any
	LT    any
	LTE   any
}

// NewRange starts a range clause for field.
func NewRange(field string) Range {
	return Range{Field: field}
}

// Gt sets the exclusive lower bound.
func (r Range) Gt(v any) Range { r.GT = v; return r }

// Gte sets the inclusive lower bound.
func (r Range) Gte(v any) Range { r.GTE = v; return r }

// Lt sets the exclusive upper bound.
func (r Range) Lt(v any) Range { r.LT = v; return r }

// Lte sets the inclusive upper bound.
func (r Range) Lte(v any) Range { r.LTE = v; return r }

// Source renders the clause document.
func (r Range) Source() (any, error) {
	if r.Field == "" {
		return nil, fmt.Errorf("range: field is required")
	}
	bounds := Document{}
	if r.GT != nil {
		bounds["gt"] = copyValue(r.GT)
	}
	if r.GTE != nil {
		bounds["gte"] = copyValue(r.GTE)
	}
	if r.LT != nil {
		bounds["lt"] = copyValue(r.LT)
	}
	if r.LTE != nil {
		bounds["lte"] = copyValue(r.LTE)
	}
	if len(bounds) == 0 {
		return nil, fmt.Errorf("range %q: at least one bound is required", r.Field)
	}
	return Document{"range": Document{r.Field: bounds}}, nil
}

// MarshalJSON implements json.Marshaler.
func (r Range) MarshalJSON() ([]byte, error) { return marshalSource(r) }

func (Range) clause() {}

// Bool groups clauses with must/should/filter/must_not semantics. Empty groups are omitted.
type Bool struct {
	Must    []Clause
	Should  []Clause
	Filter  []Clause
	MustNot []Clause
}

// NewShould creates a bool clause where at least one of clauses must match.
func NewShould(clauses ...Clause) Bool {
	return Bool{Should: clauses}
}

// Source renders the clause document.
func (b Bool) Source() (any, error) {
	body := Document{}
	groups := []struct {
		key     string
		clauses []Clause
	}{
		{"must", b.Must},
		{"should", b.Should},
		{"filter", b.Filter},
		{"must_not", b.MustNot},
	}
	for _, g := range groups {
		if len(g.clauses) == 0 {
			continue
		}
		src, err := sources(g.clauses)
		if err != nil {
			return nil, fmt.Errorf("bool.%s: %w", g.key, err)
		}
		body[g.key] = src
	}
	return Document{"bool": body}, nil
}

// MarshalJSON implements json.Marshaler.
func (b Bool) MarshalJSON() ([]byte, error) { return marshalSource(b) }

func (Bool) clause() {}

// MultiMatch is a free-text query over several fields.
type MultiMatch struct {
	Fields   []string
	Query    string
	Analyzer string
	Operator Operator
}

// Source renders the clause document.
func (m MultiMatch) Source() (any, error) {
	fields := append([]string{}, m.Fields...)
	return Document{
		"multi_match": Document{
			"fields":   fields,
			"query":    m.Query,
			"analyzer": m.Analyzer,
			"operator": string(m.Operator),
		},
	}, nil
}

// MarshalJSON implements json.Marshaler.
func (m MultiMatch) MarshalJSON() ([]byte, error) { return marshalSource(m) }

func (MultiMatch) clause() {}

// Raw is an externally supplied clause kept verbatim.
type Raw struct {
	Body Document
}

// Source renders the clause document.
func (r Raw) Source() (any, error) {
	if r.Body == nil {
		return Document{}, nil
	}
	return copyDocument(r.Body), nil
}

// MarshalJSON implements json.Marshaler.
func (r Raw) MarshalJSON() ([]byte, error) { return marshalSource(r) }

func (Raw) clause() {}

func marshalSource(q elastic.Query) ([]byte, error) {
	src, err := q.Source()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("marshal clause: %w", err)
	}
	return data, nil
}

func sources(clauses []Clause) ([]any, error) {
	out := make([]any, len(clauses))
	for i, c := range clauses {
		src, err := c.Source()
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		out[i] = src
	}
	return out, nil
}
