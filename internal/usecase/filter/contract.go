package filter

import (
	"context"

	"github.com/kailas-cloud/esquery"
)

// Repository defines the storage contract for filter definitions.
type Repository interface {
	Save(ctx context.Context, def esquery.FilterDefinition) error
	Get(ctx context.Context, handle string) (esquery.FilterDefinition, error)
	List(ctx context.Context) ([]esquery.FilterDefinition, error)
	Delete(ctx context.Context, handle string) error
}
