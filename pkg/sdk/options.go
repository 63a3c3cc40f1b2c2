package sdk

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/esquery"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "valkey", "redis" or empty for memory only
	addrs     []string
	password  string
	keyPrefix string

	filters []esquery.FilterDefinition
	freeze  bool

	collection string
	fields     []string
	analyzer   string
	dateLayout string
	clock      esquery.Clock

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey persists filter definitions in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis persists filter definitions in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the prefix of persisted keys. Default: "esquery:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithFilters registers defs at startup. Persisted definitions with the same
// handle take precedence.
func WithFilters(defs ...esquery.FilterDefinition) Option {
	return optionFunc(func(c *clientConfig) {
		c.filters = append(c.filters, defs...)
	})
}

// WithFrozenRegistry makes the registry read-only once startup filters are loaded.
func WithFrozenRegistry() Option {
	return optionFunc(func(c *clientConfig) {
		c.freeze = true
	})
}

// WithSearchDefaults sets the collection, search fields and analyzer used
// when a Query leaves them empty.
func WithSearchDefaults(collection string, fields []string, analyzer string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = collection
		c.fields = append([]string(nil), fields...)
		c.analyzer = analyzer
	})
}

// WithDateLayout sets the layout of instants in the visibility filters.
func WithDateLayout(layout string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dateLayout = layout
	})
}

// WithClock sets the time source of the visibility filters.
func WithClock(clock esquery.Clock) Option {
	return optionFunc(func(c *clientConfig) {
		c.clock = clock
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
