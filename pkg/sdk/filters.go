package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/esquery"
)

// FilterService manages filter definitions.
type FilterService struct {
	svc filterUseCase
	obs *observer
}

// Register stores def, replacing any definition under the same handle.
// It reports whether a definition was replaced.
func (s *FilterService) Register(ctx context.Context, def esquery.FilterDefinition) (replaced bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("filter.register", start, err, "handle", def.SearchHandle) }()

	replaced, err = s.svc.Register(ctx, def)
	if err != nil {
		return false, fmt.Errorf("register filter %q: %w", def.SearchHandle, err)
	}
	return replaced, nil
}

// Remove deletes the filter registered under handle.
func (s *FilterService) Remove(ctx context.Context, handle string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("filter.remove", start, err, "handle", handle) }()

	if err = s.svc.Remove(ctx, handle); err != nil {
		return fmt.Errorf("remove filter %q: %w", handle, err)
	}
	return nil
}

// Get returns the definition registered under handle.
func (s *FilterService) Get(ctx context.Context, handle string) (esquery.FilterDefinition, error) {
	def, err := s.svc.Get(ctx, handle)
	if err != nil {
		return esquery.FilterDefinition{}, fmt.Errorf("get filter %q: %w", handle, err)
	}
	return def, nil
}

// List returns every definition, sorted by handle.
func (s *FilterService) List(ctx context.Context) []esquery.FilterDefinition {
	return s.svc.List(ctx)
}
