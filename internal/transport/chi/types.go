package chi

import "github.com/kailas-cloud/esquery"

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeInvalidFilterConfig ErrorCode = "invalid_filter_config"
	ErrorCodeUnknownFilter       ErrorCode = "unknown_filter"
	ErrorCodeMalformedQuery      ErrorCode = "malformed_query"
	ErrorCodeNoSuchOperation     ErrorCode = "no_such_operation"
	ErrorCodeInvalidArgument     ErrorCode = "invalid_argument"
	ErrorCodeRegistryFrozen      ErrorCode = "registry_frozen"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ComposeRequest is the body of POST /queries.
type ComposeRequest struct {
	Collection string           `json:"collection,omitempty"`
	Fields     []string         `json:"fields,omitempty"`
	Analyzer   string           `json:"analyzer,omitempty"`
	Raw        esquery.Document `json:"raw,omitempty"`
	Search     []string         `json:"search,omitempty"`
	Filters    []FilterValue    `json:"filters,omitempty"`
	Calls      []Call           `json:"calls,omitempty"`
}

// FilterValue applies a registered filter.
type FilterValue struct {
	Handle string `json:"handle"`
	Value  any    `json:"value"`
}

// Call runs a verb through the dispatcher.
type Call struct {
	Verb string `json:"verb"`
	Args []any  `json:"args,omitempty"`
}

// ComposeResponse is the body returned by POST /queries.
type ComposeResponse struct {
	Collection  string           `json:"collection"`
	Query       esquery.Document `json:"query"`
	Sort        []any            `json:"sort,omitempty"`
	QueryParts  int              `json:"query_parts"`
	FilterParts int              `json:"filter_parts"`
}

// PutFilterRequest is the body of PUT /filters/{handle}. The handle comes from the path.
type PutFilterRequest struct {
	ESFilterType string `json:"esFilterType"`
	FieldHandle  string `json:"fieldHandle"`
	SortByScore  bool   `json:"sortByScore,omitempty"`
}

// FilterListResponse is the body returned by GET /filters.
type FilterListResponse struct {
	Items []esquery.FilterDefinition `json:"items"`
	Total int                        `json:"total"`
}

// ListFiltersParams are the query parameters of GET /filters.
type ListFiltersParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Filters int               `json:"filters"`
	Frozen  bool              `json:"frozen"`
}
