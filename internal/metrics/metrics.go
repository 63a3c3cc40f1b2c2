package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "esquery"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// QueriesComposedTotal counts compose requests by outcome.
	QueriesComposedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_composed_total",
			Help:      "Total number of composed query documents",
		},
		[]string{"status"},
	)

	// FiltersAppliedTotal counts dynamic filter applications by handle and outcome.
	FiltersAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_applied_total",
			Help:      "Total number of dynamic filter applications",
		},
		[]string{"handle", "status"},
	)

	// FilterRegistrationsTotal counts filter registrations by outcome.
	FilterRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_registrations_total",
			Help:      "Total number of filter registrations",
		},
		[]string{"status"},
	)

	// RegisteredFilters is the current registry size.
	RegisteredFilters = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_filters",
			Help:      "Number of filter definitions in the registry",
		},
	)
)

var registerOnce sync.Once

// Register registers all collectors with reg (prometheus.DefaultRegisterer when nil).
// Only the first call has an effect; call it once from main.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var err error
	registerOnce.Do(func() {
		err = registerAll(reg)
	})
	return err
}

func registerAll(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		httpRequestDuration,
		httpRequestsTotal,
		QueriesComposedTotal,
		FiltersAppliedTotal,
		FilterRegistrationsTotal,
		RegisteredFilters,
	}
	var errs []error
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Status maps an error to a status label value.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
