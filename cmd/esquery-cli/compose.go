package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/esquery"
	queryuc "github.com/kailas-cloud/esquery/internal/usecase/query"
)

type composeOptions struct {
	collection string
	fields     []string
	analyzer   string
	search     []string
	filters    []string
	rawPath    string
	now        string
	compact    bool
}

// searchBody is the body of an Elasticsearch _search request.
type searchBody struct {
	Query esquery.Document `json:"query"`
	Sort  []any            `json:"sort,omitempty"`
}

func newComposeCmd(root *rootOptions) *cobra.Command {
	opts := &composeOptions{}

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print a composed search body",
		Long: `Builds a bool query from text searches and registered filters and prints
the _search request body. Search fields and analyzer default to the config file.
Filter values are parsed as JSON when possible, otherwise taken as strings.`,
		Example: `  esquery-cli compose -c config/local.yaml --search "climate report" --filter category=news
  esquery-cli compose --raw previous.json --filter type='["article","report"]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, registry, err := root.setup(cmd.Context())
			if err != nil {
				return err
			}

			clock := esquery.SystemClock
			if opts.now != "" {
				t, err := time.Parse(time.RFC3339, opts.now)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				clock = esquery.FixedClock(t)
			}

			req, err := opts.request(cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc := queryuc.New(registry, queryuc.Defaults{
				Collection: cfg.Search.Collection,
				Fields:     cfg.Search.Fields,
				Analyzer:   cfg.Search.Analyzer,
				DateLayout: cfg.Search.DateLayout,
			}, clock)
			res, err := svc.Compose(ctx, req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), searchBody{Query: res.Query, Sort: res.Sort}, opts.compact)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.collection, "collection", "", "target collection")
	f.StringSliceVarP(&opts.fields, "field", "f", nil, "search field (repeatable or comma-separated)")
	f.StringVarP(&opts.analyzer, "analyzer", "a", "", "site analyzer")
	f.StringArrayVarP(&opts.search, "search", "s", nil, "free-text search (repeatable)")
	f.StringArrayVar(&opts.filters, "filter", nil, "filter as handle=value (repeatable)")
	f.StringVar(&opts.rawPath, "raw", "", "JSON query document to start from, - for stdin")
	f.StringVar(&opts.now, "now", "", "RFC 3339 instant for the visibility filters")
	f.BoolVar(&opts.compact, "compact", false, "print compact JSON")
	return cmd
}

func (o *composeOptions) request(stdin io.Reader) (queryuc.Request, error) {
	req := queryuc.Request{
		Collection: o.collection,
		Fields:     o.fields,
		Analyzer:   o.analyzer,
		Search:     o.search,
	}

	for _, f := range o.filters {
		fv, err := parseFilterFlag(f)
		if err != nil {
			return req, err
		}
		req.Filters = append(req.Filters, fv)
	}

	if o.rawPath != "" {
		raw, err := readRaw(o.rawPath, stdin)
		if err != nil {
			return req, err
		}
		req.Raw = raw
	}
	return req, nil
}

func parseFilterFlag(s string) (queryuc.FilterValue, error) {
	handle, raw, ok := strings.Cut(s, "=")
	if !ok || handle == "" {
		return queryuc.FilterValue{}, fmt.Errorf("invalid --filter %q: want handle=value", s)
	}

	var value any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil || dec.More() {
		value = raw
	}
	return queryuc.FilterValue{Handle: handle, Value: value}, nil
}

func readRaw(path string, stdin io.Reader) (esquery.Document, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open raw document: %w", err)
		}
		defer f.Close()
		r = f
	}

	var doc esquery.Document
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode raw document: %w", err)
	}
	// Accept a full _search body as well as a bare query.
	if q, ok := doc["query"].(map[string]any); ok {
		doc = q
	}
	return doc, nil
}
