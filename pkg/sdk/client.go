package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/esquery"
	"github.com/kailas-cloud/esquery/internal/db"
	dbRedis "github.com/kailas-cloud/esquery/internal/db/redis"
	filterrepo "github.com/kailas-cloud/esquery/internal/repository/filter"
	filteruc "github.com/kailas-cloud/esquery/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/esquery/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esquery/internal/usecase/query"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "esquery:"
)

// Internal interfaces, swapped for fakes in tests.
type filterUseCase interface {
	Register(ctx context.Context, def esquery.FilterDefinition) (bool, error)
	Remove(ctx context.Context, handle string) error
	Get(ctx context.Context, handle string) (esquery.FilterDefinition, error)
	List(ctx context.Context) []esquery.FilterDefinition
}

type queryUseCase interface {
	Compose(ctx context.Context, req queryuc.Request) (queryuc.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the esquery SDK entry point.
type Client struct {
	store     db.Store
	registry  *esquery.Registry
	cfg       *clientConfig
	filterSvc filterUseCase
	querySvc  queryUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, connects to the database when one is configured and
// loads the startup and persisted filters.
// The provided context is used for the readiness check and the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		s, err := createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("esquery: database not ready: %w", err)
		}
		store = s
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("esquery: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("esquery: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	registry := esquery.NewRegistry()

	// Interfaces stay nil, not typed-nil, when there is no store.
	var (
		repo   filteruc.Repository
		pinger healthuc.DBPinger
	)
	if store != nil {
		repo = filterrepo.New(store, cfg.keyPrefix)
		pinger = store
	}

	filterSvc := filteruc.New(registry, repo)
	start := time.Now()
	n, err := filterSvc.Bootstrap(ctx, cfg.filters, cfg.freeze)
	obs.observe("bootstrap", start, err, "filters", n)
	if err != nil {
		return nil, fmt.Errorf("esquery: load filters: %w", err)
	}

	querySvc := queryuc.New(registry, queryuc.Defaults{
		Collection: cfg.collection,
		Fields:     cfg.fields,
		Analyzer:   cfg.analyzer,
		DateLayout: cfg.dateLayout,
	}, cfg.clock)

	return &Client{
		store:     store,
		registry:  registry,
		cfg:       cfg,
		filterSvc: filterSvc,
		querySvc:  querySvc,
		healthSvc: healthuc.New(pinger, registry),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity. It is a no-op without a database.
func (c *Client) Ping(ctx context.Context) (err error) {
	if c.store == nil {
		return nil
	}
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Filters returns the filter management service.
func (c *Client) Filters() *FilterService {
	return &FilterService{svc: c.filterSvc, obs: c.obs}
}

// NewBuilder returns a QueryBuilder bound to the client's registry and defaults,
// for callers that drive the builder step by step.
func (c *Client) NewBuilder(collection string) *esquery.QueryBuilder {
	if collection == "" {
		collection = c.cfg.collection
	}
	return esquery.New(collection,
		esquery.WithRegistry(c.registry),
		esquery.WithClock(c.cfg.clock),
		esquery.WithDateLayout(c.cfg.dateLayout),
	).SetSearchFields(c.cfg.fields).SetSiteAnalyzer(c.cfg.analyzer)
}
