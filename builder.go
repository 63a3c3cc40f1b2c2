package esquery

import (
	"fmt"

	"go.uber.org/zap"
)

// Default visibility filter fields.
const (
	FieldPostDate     = "postDate"
	FieldExpiryDate   = "expiryDate"
	FieldNoExpiryDate = "noExpiryDate"
)

// Option configures a QueryBuilder.
type Option func(*QueryBuilder)

// WithRegistry sets the filter registry. Defaults to an empty private registry.
func WithRegistry(r *Registry) Option {
	return func(b *QueryBuilder) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithClock sets the time source for the default filters.
func WithClock(c Clock) Option {
	return func(b *QueryBuilder) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithDateLayout sets the layout instants are rendered with.
func WithDateLayout(layout string) Option {
	return func(b *QueryBuilder) {
		if layout != "" {
			b.dateLayout = layout
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(b *QueryBuilder) {
		if l != nil {
			b.logger = l
		}
	}
}

// QueryBuilder accumulates query and filter clauses for one search session and
// renders them into a single bool query:
//
//	{"bool": {"must": queryParts, "filter": {"bool": {"must": filterParts}}}}
//
// Query parts score, filter parts only select. A QueryBuilder is not safe for
// concurrent use; create one per request.
type QueryBuilder struct {
	collection string
	registry   *Registry
	clock      Clock
	dateLayout string
	logger     *zap.Logger

	queryParts   []Clause
	filterParts  []Clause
	searchFields []string
	siteAnalyzer string
	sortByScore  bool
}

// New creates a builder targeting collection, seeded with the default visibility filters.
func New(collection string, opts ...Option) *QueryBuilder {
	b := &QueryBuilder{
		collection: collection,
		clock:      SystemClock,
		dateLayout: DefaultDateLayout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = NewRegistry()
	}
	b.filterParts = b.DefaultFilterParts()
	return b
}

// Collection returns the target document collection.
func (b *QueryBuilder) Collection() string { return b.collection }

// Registry returns the registry filters are resolved against.
func (b *QueryBuilder) Registry() *Registry { return b.registry }

// SetSearchFields replaces the fields eligible for free-text matching.
// Field existence is left to the search engine.
func (b *QueryBuilder) SetSearchFields(fields []string) *QueryBuilder {
	b.searchFields = append([]string(nil), fields...)
	return b
}

// SearchFields returns a copy of the free-text fields.
func (b *QueryBuilder) SearchFields() []string {
	return append([]string(nil), b.searchFields...)
}

// SetSiteAnalyzer sets the analyzer used by subsequent text searches.
func (b *QueryBuilder) SetSiteAnalyzer(name string) *QueryBuilder {
	b.siteAnalyzer = name
	return b
}

// SiteAnalyzer returns the analyzer name.
func (b *QueryBuilder) SiteAnalyzer() string { return b.siteAnalyzer }

// AddTextSearch appends a multi_match clause requiring every term of s to
// match across the current search fields, and returns the composed document.
func (b *QueryBuilder) AddTextSearch(s string) Document {
	b.queryParts = append(b.queryParts, MultiMatch{
		Fields:   b.SearchFields(),
		Query:    s,
		Analyzer: b.siteAnalyzer,
		Operator: OperatorAnd,
	})
	return b.Compose()
}

// RegisterFilter validates def and stores it in the builder's registry.
// Re-registering a handle replaces the earlier definition.
func (b *QueryBuilder) RegisterFilter(def FilterDefinition) error {
	replaced, err := b.registry.Register(def)
	if err != nil {
		return fmt.Errorf("register filter: %w", err)
	}
	if replaced {
		b.logger.Debug("filter definition replaced", zap.String("handle", def.SearchHandle))
	}
	return nil
}

// ApplyFilter appends the clause of the filter registered under handle,
// compared against value, and returns the composed document.
func (b *QueryBuilder) ApplyFilter(handle string, value any) (Document, error) {
	def, ok := b.registry.Lookup(handle)
	if !ok {
		return nil, &UnknownFilterError{Handle: handle}
	}

	b.filterParts = append(b.filterParts, def.Clause(copyValue(value)))
	if def.SortByScore {
		b.sortByScore = true
	}
	b.logger.Debug("filter applied",
		zap.String("handle", handle),
		zap.String("type", def.ESFilterType),
		zap.String("field", def.FieldHandle),
	)
	return b.Compose(), nil
}

// ParseQueryParameters replaces the query and filter parts with the clauses
// found under bool.must and bool.filter.bool.must of raw. Nothing changes if
// raw lacks that shape.
func (b *QueryBuilder) ParseQueryParameters(raw Document) (Document, error) {
	queryParts, filterParts, err := parseDocument(raw)
	if err != nil {
		return nil, err
	}
	b.queryParts = queryParts
	b.filterParts = filterParts
	return b.Compose(), nil
}

// DefaultFilterParts returns the always-on visibility filters at the current instant:
// postDate <= now, and either expiryDate > now or noExpiryDate == true.
func (b *QueryBuilder) DefaultFilterParts() []Clause {
	now := formatInstant(b.clock.Now(), b.dateLayout)
	return []Clause{
		NewRange(FieldPostDate).Lte(now),
		NewShould(
			NewRange(FieldExpiryDate).Gt(now),
			ShortTerm{Field: FieldNoExpiryDate, Value: true},
		),
	}
}

// QueryParts returns a copy of the scoring clauses.
func (b *QueryBuilder) QueryParts() []Clause {
	return append([]Clause(nil), b.queryParts...)
}

// FilterParts returns a copy of the non-scoring clauses.
func (b *QueryBuilder) FilterParts() []Clause {
	return append([]Clause(nil), b.filterParts...)
}

// SortByScore reports whether an applied filter asked for relevance ordering.
func (b *QueryBuilder) SortByScore() bool { return b.sortByScore }

// Sort returns the sort section to send alongside the query, or nil.
func (b *QueryBuilder) Sort() []any {
	if !b.sortByScore {
		return nil
	}
	return []any{Document{"_score": Document{"order": "desc"}}}
}

// Compose renders the current state. It has no side effects.
func (b *QueryBuilder) Compose() Document {
	return Document{
		"bool": Document{
			"must": render(b.queryParts),
			"filter": Document{
				"bool": Document{
					"must": render(b.filterParts),
				},
			},
		},
	}
}

// render converts stored clauses to documents. Clauses are checked on the way
// in, so Source does not fail here.
func render(clauses []Clause) []any {
	out := make([]any, 0, len(clauses))
	for _, c := range clauses {
		src, err := c.Source()
		if err != nil {
			continue
		}
		out = append(out, src)
	}
	return out
}
