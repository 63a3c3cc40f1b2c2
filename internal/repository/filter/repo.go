package filter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/esquery"
	"github.com/kailas-cloud/esquery/internal/db"
)

// store is the consumer interface for filter definitions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo persists FilterDefinitions as hashes under {prefix}filter:{handle}.
type Repo struct {
	store  store
	prefix string
}

// New creates a filter repository. keyPrefix is prepended to every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// Save stores def, replacing any definition with the same handle.
func (r *Repo) Save(ctx context.Context, def esquery.FilterDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.key(def.SearchHandle), definitionToHash(def)); err != nil {
		return fmt.Errorf("hset filter %s: %w", def.SearchHandle, err)
	}
	return nil
}

// Get loads the definition stored under handle.
func (r *Repo) Get(ctx context.Context, handle string) (esquery.FilterDefinition, error) {
	m, err := r.store.HGetAll(ctx, r.key(handle))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return esquery.FilterDefinition{}, &esquery.UnknownFilterError{Handle: handle}
		}
		return esquery.FilterDefinition{}, fmt.Errorf("hgetall filter %s: %w", handle, err)
	}
	return definitionFromHash(m)
}

// List returns all stored definitions sorted by handle.
func (r *Repo) List(ctx context.Context) ([]esquery.FilterDefinition, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan filters: %w", err)
	}
	if len(keys) == 0 {
		return []esquery.FilterDefinition{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi filters: %w", err)
	}

	defs := make([]esquery.FilterDefinition, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		def, err := definitionFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse filter %s: %w", keys[i], err)
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].SearchHandle < defs[j].SearchHandle
	})
	return defs, nil
}

// Delete removes the definition stored under handle.
func (r *Repo) Delete(ctx context.Context, handle string) error {
	key := r.key(handle)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check filter exists: %w", err)
	}
	if !exists {
		return &esquery.UnknownFilterError{Handle: handle}
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del filter %s: %w", handle, err)
	}
	return nil
}

// Key pattern: {prefix}filter:{handle}
func (r *Repo) key(handle string) string {
	return fmt.Sprintf("%sfilter:%s", r.prefix, handle)
}
