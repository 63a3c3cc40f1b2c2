package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorHandlerFunc reports a request whose parameters failed to bind.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Handler mounts the API routes on r and returns it.
func Handler(s *Server, r chi.Router, onBindError ErrorHandlerFunc) http.Handler {
	if onBindError == nil {
		onBindError = defaultBindError
	}
	w := &wrapper{s: s, onBindError: onBindError}

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/queries", s.ComposeQuery)
	r.Get("/filters", w.ListFilters)
	r.Get("/filters/{handle}", w.GetFilter)
	r.Put("/filters/{handle}", w.PutFilter)
	r.Delete("/filters/{handle}", w.DeleteFilter)
	return r
}

// wrapper binds path and query parameters before calling Server.
type wrapper struct {
	s           *Server
	onBindError ErrorHandlerFunc
}

func (w *wrapper) ListFilters(rw http.ResponseWriter, r *http.Request) {
	var params ListFiltersParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		w.onBindError(rw, r, err)
		return
	}
	w.s.ListFilters(rw, r, params)
}

func (w *wrapper) GetFilter(rw http.ResponseWriter, r *http.Request) {
	handle, ok := w.handle(rw, r)
	if !ok {
		return
	}
	w.s.GetFilter(rw, r, handle)
}

func (w *wrapper) PutFilter(rw http.ResponseWriter, r *http.Request) {
	handle, ok := w.handle(rw, r)
	if !ok {
		return
	}
	w.s.PutFilter(rw, r, handle)
}

func (w *wrapper) DeleteFilter(rw http.ResponseWriter, r *http.Request) {
	handle, ok := w.handle(rw, r)
	if !ok {
		return
	}
	w.s.DeleteFilter(rw, r, handle)
}

func (w *wrapper) handle(rw http.ResponseWriter, r *http.Request) (string, bool) {
	var handle string
	err := runtime.BindStyledParameterWithOptions("simple", "handle", chi.URLParam(r, "handle"), &handle,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		w.onBindError(rw, r, err)
		return "", false
	}
	return handle, true
}

func defaultBindError(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request: "+err.Error())
}
