package sdk

import (
	"context"

	"github.com/kailas-cloud/esquery"
	healthuc "github.com/kailas-cloud/esquery/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esquery/internal/usecase/query"
)

// --- filterUseCase mock ---

type mockFilterUC struct {
	registerFn func(ctx context.Context, def esquery.FilterDefinition) (bool, error)
	removeFn   func(ctx context.Context, handle string) error
	getFn      func(ctx context.Context, handle string) (esquery.FilterDefinition, error)
	listFn     func(ctx context.Context) []esquery.FilterDefinition
}

func (m *mockFilterUC) Register(ctx context.Context, def esquery.FilterDefinition) (bool, error) {
	return m.registerFn(ctx, def)
}

func (m *mockFilterUC) Remove(ctx context.Context, handle string) error {
	return m.removeFn(ctx, handle)
}

func (m *mockFilterUC) Get(ctx context.Context, handle string) (esquery.FilterDefinition, error) {
	return m.getFn(ctx, handle)
}

func (m *mockFilterUC) List(ctx context.Context) []esquery.FilterDefinition {
	return m.listFn(ctx)
}

// --- queryUseCase mock ---

type mockQueryUC struct {
	composeFn func(ctx context.Context, req queryuc.Request) (queryuc.Result, error)
}

func (m *mockQueryUC) Compose(ctx context.Context, req queryuc.Request) (queryuc.Result, error) {
	return m.composeFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(filterSvc filterUseCase, querySvc queryUseCase, healthSvc healthUseCase) *Client {
	return &Client{
		cfg:       &clientConfig{},
		registry:  esquery.NewRegistry(),
		filterSvc: filterSvc,
		querySvc:  querySvc,
		healthSvc: healthSvc,
	}
}
