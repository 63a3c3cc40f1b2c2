package esquery

// Mandatory FilterDefinition fields, in validation order.
const (
	FieldSearchHandle = "searchHandle"
	FieldESFilterType = "esFilterType"
	FieldFieldHandle  = "fieldHandle"
)

// FilterDefinition describes how a registered filter verb turns a value into a clause.
type FilterDefinition struct {
	// SearchHandle is the verb callers use to invoke the filter.
	SearchHandle string `json:"searchHandle" yaml:"search_handle"`
	// ESFilterType is the outer key of the generated clause, e.g. "term".
	ESFilterType string `json:"esFilterType" yaml:"es_filter_type"`
	// FieldHandle is the document field the filter targets.
	FieldHandle string `json:"fieldHandle" yaml:"field_handle"`
	// SortByScore asks for relevance-score ordering once the filter is applied.
	SortByScore bool `json:"sortByScore,omitempty" yaml:"sort_by_score"`
}

// Validate reports the first missing mandatory field.
func (d FilterDefinition) Validate() error {
	switch {
	case d.SearchHandle == "":
		return &InvalidFilterConfigError{Field: FieldSearchHandle}
	case d.ESFilterType == "":
		return &InvalidFilterConfigError{Field: FieldESFilterType}
	case d.FieldHandle == "":
		return &InvalidFilterConfigError{Field: FieldFieldHandle}
	}
	return nil
}

// Clause builds the filter clause {esFilterType: {fieldHandle: {"value": value}}}.
func (d FilterDefinition) Clause(value any) Clause {
	return Term{Type: d.ESFilterType, Field: d.FieldHandle, Value: value}
}
