package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery"
	filteruc "github.com/kailas-cloud/esquery/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/esquery/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esquery/internal/usecase/query"
)

func newTestRouter(t *testing.T, defs ...esquery.FilterDefinition) (http.Handler, *esquery.Registry) {
	t.Helper()
	registry := esquery.NewRegistry()
	for _, d := range defs {
		if _, err := registry.Register(d); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	server := NewServer(
		filteruc.New(registry, nil),
		queryuc.New(registry, queryuc.Defaults{
			Collection: "entries",
			Fields:     []string{"title"},
			Analyzer:   "standard",
		}, esquery.FixedClock(now)),
		healthuc.New(nil, registry),
		zap.NewNop(),
	)
	return Handler(server, chi.NewRouter(), nil), registry
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

var category = esquery.FilterDefinition{SearchHandle: "category", ESFilterType: "term", FieldHandle: "categorySlug"}

func TestComposeQuery(t *testing.T) {
	h, _ := newTestRouter(t, category)

	rr := do(t, h, http.MethodPost, "/queries",
		`{"search":["hello"],"filters":[{"handle":"category","value":"news"},{"handle":"category","value":7}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}

	var resp ComposeResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Collection != "entries" || resp.QueryParts != 1 || resp.FilterParts != 4 {
		t.Errorf("resp = %+v", resp)
	}

	data, _ := json.Marshal(resp.Query)
	for _, want := range []string{
		`{"term":{"categorySlug":{"value":"news"}}}`,
		`{"term":{"categorySlug":{"value":7}}}`,
		`"operator":"and"`,
		`"lte":"2024-03-15 09:30:00"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("query %s missing %s", data, want)
		}
	}
}

func TestComposeQuery_Errors(t *testing.T) {
	h, _ := newTestRouter(t, category)

	tests := []struct {
		name   string
		body   string
		status int
		code   ErrorCode
	}{
		{"invalid json", `{`, http.StatusBadRequest, ErrorCodeBadRequest},
		{"unknown filter", `{"filters":[{"handle":"colour","value":"red"}]}`, http.StatusNotFound, ErrorCodeUnknownFilter},
		{"malformed raw", `{"raw":{"query":{}}}`, http.StatusBadRequest, ErrorCodeMalformedQuery},
		{"no such operation", `{"calls":[{"verb":"colour","args":["red"]}]}`, http.StatusBadRequest, ErrorCodeNoSuchOperation},
		{"invalid argument", `{"calls":[{"verb":"searchString"}]}`, http.StatusBadRequest, ErrorCodeInvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/queries", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tc.status, rr.Body)
			}
			if e := decodeError(t, rr); e.Code != tc.code {
				t.Errorf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestComposeQuery_RawRoundTrip(t *testing.T) {
	h, _ := newTestRouter(t)
	// Keys in sorted order, as encoding/json writes maps.
	raw := `{"bool":{"filter":{"bool":{"must":[{"exists":{"field":"x"}}]}},"must":[{"match_all":{}}]}}`

	rr := do(t, h, http.MethodPost, "/queries", `{"raw":`+raw+`}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	var resp struct {
		Query json.RawMessage `json:"query"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(resp.Query) != raw {
		t.Errorf("query = %s, want %s", resp.Query, raw)
	}
}

func TestFilterLifecycle(t *testing.T) {
	h, registry := newTestRouter(t)

	rr := do(t, h, http.MethodPut, "/filters/type", `{"esFilterType":"term","fieldHandle":"type","sortByScore":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body)
	}
	rr = do(t, h, http.MethodPut, "/filters/type", `{"esFilterType":"terms","fieldHandle":"type"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("replace status = %d", rr.Code)
	}
	if def, _ := registry.Lookup("type"); def.ESFilterType != "terms" {
		t.Errorf("registry not updated: %+v", def)
	}

	rr = do(t, h, http.MethodGet, "/filters/type", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	var def esquery.FilterDefinition
	if err := json.NewDecoder(rr.Body).Decode(&def); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if def.SearchHandle != "type" || def.FieldHandle != "type" {
		t.Errorf("def = %+v", def)
	}

	if rr = do(t, h, http.MethodDelete, "/filters/type", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = do(t, h, http.MethodGet, "/filters/type", "")
	if rr.Code != http.StatusNotFound || decodeError(t, rr).Code != ErrorCodeUnknownFilter {
		t.Errorf("get after delete: status = %d", rr.Code)
	}
}

func TestPutFilter_Invalid(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := do(t, h, http.MethodPut, "/filters/type", `{"fieldHandle":"type"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	e := decodeError(t, rr)
	if e.Code != ErrorCodeInvalidFilterConfig || !strings.Contains(e.Message, "esFilterType") {
		t.Errorf("error = %+v", e)
	}
}

func TestPutFilter_Frozen(t *testing.T) {
	h, registry := newTestRouter(t, category)
	registry.Freeze()

	rr := do(t, h, http.MethodPut, "/filters/type", `{"esFilterType":"term","fieldHandle":"type"}`)
	if rr.Code != http.StatusConflict || decodeError(t, rr).Code != ErrorCodeRegistryFrozen {
		t.Errorf("put status = %d", rr.Code)
	}
	rr = do(t, h, http.MethodDelete, "/filters/category", "")
	if rr.Code != http.StatusConflict {
		t.Errorf("delete status = %d", rr.Code)
	}
}

func TestListFilters(t *testing.T) {
	section := esquery.FilterDefinition{SearchHandle: "section", ESFilterType: "term", FieldHandle: "sectionHandle"}
	h, _ := newTestRouter(t, section, category)

	rr := do(t, h, http.MethodGet, "/filters?limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp FilterListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Items) != 1 || resp.Items[0].SearchHandle != "category" {
		t.Errorf("resp = %+v", resp)
	}

	if rr = do(t, h, http.MethodGet, "/filters?limit=abc", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d", rr.Code)
	}
	if rr = do(t, h, http.MethodGet, "/filters?limit=0", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("zero limit: status = %d", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestRouter(t, category)

	rr := do(t, h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Filters != 1 || resp.Checks["registry"] != "ok" {
		t.Errorf("resp = %+v", resp)
	}
}
