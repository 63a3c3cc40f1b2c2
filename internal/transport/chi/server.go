package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery"
	filteruc "github.com/kailas-cloud/esquery/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/esquery/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esquery/internal/usecase/query"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the esquery HTTP API.
type Server struct {
	filters       *filteruc.Service
	queries       *queryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	filters *filteruc.Service,
	queries *queryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		filters: filters,
		queries: queries,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(esquery.ErrInvalidFilterConfig, http.StatusBadRequest, ErrorCodeInvalidFilterConfig),
		sentinelHandler(esquery.ErrUnknownFilter, http.StatusNotFound, ErrorCodeUnknownFilter),
		sentinelHandler(esquery.ErrMalformedQueryDocument, http.StatusBadRequest, ErrorCodeMalformedQuery),
		sentinelHandler(esquery.ErrNoSuchOperation, http.StatusBadRequest, ErrorCodeNoSuchOperation),
		sentinelHandler(esquery.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeInvalidArgument),
		sentinelHandler(esquery.ErrRegistryFrozen, http.StatusConflict, ErrorCodeRegistryFrozen),
	}
	return s
}

// ComposeQuery handles POST /queries.
func (s *Server) ComposeQuery(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.queries.Compose(r.Context(), composeRequestToUsecase(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ComposeResponse{
		Collection:  res.Collection,
		Query:       res.Query,
		Sort:        res.Sort,
		QueryParts:  res.QueryParts,
		FilterParts: res.FilterParts,
	})
}

// ListFilters handles GET /filters.
func (s *Server) ListFilters(w http.ResponseWriter, r *http.Request, params ListFiltersParams) {
	items := s.filters.List(r.Context())
	total := len(items)

	if params.Limit != nil {
		if *params.Limit <= 0 {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "limit must be positive")
			return
		}
		if *params.Limit < len(items) {
			items = items[:*params.Limit]
		}
	}

	writeJSON(w, http.StatusOK, FilterListResponse{Items: items, Total: total})
}

// GetFilter handles GET /filters/{handle}.
func (s *Server) GetFilter(w http.ResponseWriter, r *http.Request, handle string) {
	def, err := s.filters.Get(r.Context(), handle)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// PutFilter handles PUT /filters/{handle}.
func (s *Server) PutFilter(w http.ResponseWriter, r *http.Request, handle string) {
	var req PutFilterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	def := esquery.FilterDefinition{
		SearchHandle: handle,
		ESFilterType: req.ESFilterType,
		FieldHandle:  req.FieldHandle,
		SortByScore:  req.SortByScore,
	}
	replaced, err := s.filters.Register(r.Context(), def)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	writeJSON(w, status, def)
}

// DeleteFilter handles DELETE /filters/{handle}.
func (s *Server) DeleteFilter(w http.ResponseWriter, r *http.Request, handle string) {
	if err := s.filters.Remove(r.Context(), handle); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Filters: report.Filters,
		Frozen:  report.Frozen,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody reads a JSON body, keeping numbers as json.Number so integer
// filter values render unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Typed domain errors name the offending field, handle, verb or path.
func safeDomainMessage(err error) string {
	var (
		ife *esquery.InvalidFilterConfigError
		ufe *esquery.UnknownFilterError
		mde *esquery.MalformedDocumentError
		nso *esquery.NoSuchOperationError
	)
	switch {
	case errors.As(err, &ife):
		return ife.Error()
	case errors.As(err, &ufe):
		return ufe.Error()
	case errors.As(err, &mde):
		return mde.Error()
	case errors.As(err, &nso):
		return nso.Error()
	case errors.Is(err, esquery.ErrInvalidArgument):
		return err.Error()
	case errors.Is(err, esquery.ErrRegistryFrozen):
		return esquery.ErrRegistryFrozen.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func composeRequestToUsecase(req ComposeRequest) queryuc.Request {
	out := queryuc.Request{
		Collection: req.Collection,
		Fields:     req.Fields,
		Analyzer:   req.Analyzer,
		Raw:        req.Raw,
		Search:     req.Search,
	}
	if len(req.Filters) > 0 {
		out.Filters = make([]queryuc.FilterValue, len(req.Filters))
		for i, f := range req.Filters {
			out.Filters[i] = queryuc.FilterValue{Handle: f.Handle, Value: f.Value}
		}
	}
	if len(req.Calls) > 0 {
		out.Calls = make([]queryuc.Call, len(req.Calls))
		for i, c := range req.Calls {
			out.Calls[i] = queryuc.Call{Verb: c.Verb, Args: c.Args}
		}
	}
	return out
}
