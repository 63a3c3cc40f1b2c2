package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/esquery"
	queryuc "github.com/kailas-cloud/esquery/internal/usecase/query"
)

// Filter applies the filter registered under Handle with Value.
type Filter struct {
	Handle string
	Value  any
}

// Call runs Verb through esquery.Dispatcher.
type Call struct {
	Verb string
	Args []any
}

// Query describes one composition. Empty Collection, Fields and Analyzer
// fall back to WithSearchDefaults. Steps run in order: Raw, Search, Filters, Calls.
type Query struct {
	Collection string
	Fields     []string
	Analyzer   string
	Raw        esquery.Document
	Search     []string
	Filters    []Filter
	Calls      []Call
}

// Result is a composed query.
type Result struct {
	Collection  string
	Query       esquery.Document
	Sort        []any
	QueryParts  int
	FilterParts int
}

// Body returns the _search request body for the result.
func (r Result) Body() esquery.Document {
	body := esquery.Document{"query": r.Query}
	if r.Sort != nil {
		body["sort"] = r.Sort
	}
	return body
}

// Compose builds a query document from q.
func (c *Client) Compose(ctx context.Context, q Query) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compose", start, err, "collection", res.Collection) }()

	out, err := c.querySvc.Compose(ctx, queryToUsecase(q))
	if err != nil {
		return Result{}, fmt.Errorf("compose: %w", err)
	}
	return Result{
		Collection:  out.Collection,
		Query:       out.Query,
		Sort:        out.Sort,
		QueryParts:  out.QueryParts,
		FilterParts: out.FilterParts,
	}, nil
}

func queryToUsecase(q Query) queryuc.Request {
	req := queryuc.Request{
		Collection: q.Collection,
		Fields:     q.Fields,
		Analyzer:   q.Analyzer,
		Raw:        q.Raw,
		Search:     q.Search,
	}
	for _, f := range q.Filters {
		req.Filters = append(req.Filters, queryuc.FilterValue{Handle: f.Handle, Value: f.Value})
	}
	for _, call := range q.Calls {
		req.Calls = append(req.Calls, queryuc.Call{Verb: call.Verb, Args: call.Args})
	}
	return req
}
