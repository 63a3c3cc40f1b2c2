package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery"
	"github.com/kailas-cloud/esquery/internal/logger"
	"github.com/kailas-cloud/esquery/internal/metrics"
)

// Service composes query documents, one fresh builder per request.
type Service struct {
	registry *esquery.Registry
	defaults Defaults
	clock    esquery.Clock
}

// New creates a query service resolving filters against registry.
// clock can be nil to use the system clock.
func New(registry *esquery.Registry, defaults Defaults, clock esquery.Clock) *Service {
	if clock == nil {
		clock = esquery.SystemClock
	}
	return &Service{registry: registry, defaults: defaults, clock: clock}
}

// Compose runs req against a new builder and returns the composed document.
func (s *Service) Compose(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		metrics.QueriesComposedTotal.WithLabelValues(metrics.Status(err)).Inc()
	}()

	b := s.newBuilder(ctx, req)

	if req.Raw != nil {
		if _, err := b.ParseQueryParameters(req.Raw); err != nil {
			return Result{}, fmt.Errorf("parse raw query: %w", err)
		}
	}

	for _, text := range req.Search {
		b.AddTextSearch(text)
	}

	for _, f := range req.Filters {
		_, err := b.ApplyFilter(f.Handle, f.Value)
		metrics.FiltersAppliedTotal.WithLabelValues(handleLabel(s.registry, f.Handle), metrics.Status(err)).Inc()
		if err != nil {
			return Result{}, fmt.Errorf("apply filter: %w", err)
		}
	}

	d := esquery.NewDispatcher(b)
	for _, c := range req.Calls {
		if _, err := d.Call(c.Verb, c.Args...); err != nil {
			return Result{}, fmt.Errorf("call %s: %w", c.Verb, err)
		}
	}

	res = Result{
		Collection:  b.Collection(),
		Query:       b.Compose(),
		Sort:        b.Sort(),
		QueryParts:  len(b.QueryParts()),
		FilterParts: len(b.FilterParts()),
	}
	logger.FromContext(ctx).Debug("query composed",
		zap.String("collection", res.Collection),
		zap.Int("query_parts", res.QueryParts),
		zap.Int("filter_parts", res.FilterParts),
		zap.Bool("sort_by_score", res.Sort != nil),
	)
	return res, nil
}

func (s *Service) newBuilder(ctx context.Context, req Request) *esquery.QueryBuilder {
	collection := req.Collection
	if collection == "" {
		collection = s.defaults.Collection
	}
	b := esquery.New(collection,
		esquery.WithRegistry(s.registry),
		esquery.WithClock(s.clock),
		esquery.WithDateLayout(s.defaults.DateLayout),
		esquery.WithLogger(logger.FromContext(ctx)),
	)

	fields := req.Fields
	if len(fields) == 0 {
		fields = s.defaults.Fields
	}
	analyzer := req.Analyzer
	if analyzer == "" {
		analyzer = s.defaults.Analyzer
	}
	return b.SetSearchFields(fields).SetSiteAnalyzer(analyzer)
}

// handleLabel keeps metric cardinality bounded to registered handles.
func handleLabel(r *esquery.Registry, handle string) string {
	if _, ok := r.Lookup(handle); ok {
		return handle
	}
	return "unknown"
}
