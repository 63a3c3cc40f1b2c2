package filter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery"
	"github.com/kailas-cloud/esquery/internal/logger"
	"github.com/kailas-cloud/esquery/internal/metrics"
)

// Service keeps the in-process filter registry and its persisted copy in step.
type Service struct {
	registry *esquery.Registry
	repo     Repository
}

// New creates a filter service. repo can be nil, in which case definitions live in memory only.
func New(registry *esquery.Registry, repo Repository) *Service {
	return &Service{registry: registry, repo: repo}
}

// Registry returns the registry the service populates.
func (s *Service) Registry() *esquery.Registry { return s.registry }

// Bootstrap populates the registry at startup: configured definitions first,
// then persisted ones, which win on handle clashes. With freeze set the
// registry becomes read-only afterwards. Returns the registry size.
func (s *Service) Bootstrap(ctx context.Context, configured []esquery.FilterDefinition, freeze bool) (int, error) {
	log := logger.FromContext(ctx)

	for _, def := range configured {
		replaced, err := s.registry.Register(def)
		if err != nil {
			return 0, fmt.Errorf("register configured filter %q: %w", def.SearchHandle, err)
		}
		if replaced {
			log.Warn("configured filter listed more than once, later entry wins", zap.String("handle", def.SearchHandle))
		}
	}

	if s.repo != nil {
		persisted, err := s.repo.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("load persisted filters: %w", err)
		}
		for _, def := range persisted {
			replaced, err := s.registry.Register(def)
			if err != nil {
				return 0, fmt.Errorf("register persisted filter %q: %w", def.SearchHandle, err)
			}
			if replaced {
				log.Info("persisted filter overrides configured one", zap.String("handle", def.SearchHandle))
			}
		}
	}

	if freeze {
		s.registry.Freeze()
	}

	n := s.registry.Len()
	metrics.RegisteredFilters.Set(float64(n))
	log.Info("filter registry ready", zap.Int("filters", n), zap.Bool("frozen", freeze))
	return n, nil
}

// Register validates, persists and registers def. It reports whether an
// existing definition was replaced. Nothing changes when any step fails.
func (s *Service) Register(ctx context.Context, def esquery.FilterDefinition) (replaced bool, err error) {
	defer func() {
		metrics.FilterRegistrationsTotal.WithLabelValues(metrics.Status(err)).Inc()
	}()

	if err := def.Validate(); err != nil {
		return false, fmt.Errorf("register filter: %w", err)
	}
	if s.registry.Frozen() {
		return false, fmt.Errorf("register filter: %w", esquery.ErrRegistryFrozen)
	}

	previous, existed := s.registry.Lookup(def.SearchHandle)
	if s.repo != nil {
		if err := s.repo.Save(ctx, def); err != nil {
			return false, fmt.Errorf("persist filter: %w", err)
		}
	}

	replaced, err = s.registry.Register(def)
	if err != nil {
		// Registry was frozen between the check and the write: undo the persisted change.
		return false, errors.Join(fmt.Errorf("register filter: %w", err), s.restore(ctx, def.SearchHandle, previous, existed))
	}

	metrics.RegisteredFilters.Set(float64(s.registry.Len()))
	logger.FromContext(ctx).Info("filter registered",
		zap.String("handle", def.SearchHandle),
		zap.String("type", def.ESFilterType),
		zap.String("field", def.FieldHandle),
		zap.Bool("replaced", replaced),
	)
	return replaced, nil
}

// Remove unregisters handle and deletes its persisted copy.
func (s *Service) Remove(ctx context.Context, handle string) error {
	if _, ok := s.registry.Lookup(handle); !ok {
		return &esquery.UnknownFilterError{Handle: handle}
	}
	if s.registry.Frozen() {
		return fmt.Errorf("remove filter: %w", esquery.ErrRegistryFrozen)
	}

	if s.repo != nil {
		// Definitions that only came from config have no persisted copy.
		if err := s.repo.Delete(ctx, handle); err != nil && !errors.Is(err, esquery.ErrUnknownFilter) {
			return fmt.Errorf("delete persisted filter: %w", err)
		}
	}
	if err := s.registry.Remove(handle); err != nil {
		return fmt.Errorf("remove filter: %w", err)
	}

	metrics.RegisteredFilters.Set(float64(s.registry.Len()))
	logger.FromContext(ctx).Info("filter removed", zap.String("handle", handle))
	return nil
}

// Get returns the registered definition for handle.
func (s *Service) Get(_ context.Context, handle string) (esquery.FilterDefinition, error) {
	def, ok := s.registry.Lookup(handle)
	if !ok {
		return esquery.FilterDefinition{}, &esquery.UnknownFilterError{Handle: handle}
	}
	return def, nil
}

// List returns the registered definitions sorted by handle.
func (s *Service) List(_ context.Context) []esquery.FilterDefinition {
	return s.registry.List()
}

func (s *Service) restore(ctx context.Context, handle string, previous esquery.FilterDefinition, existed bool) error {
	if s.repo == nil {
		return nil
	}
	if existed {
		return s.repo.Save(ctx, previous)
	}
	return s.repo.Delete(ctx, handle)
}
