package filter

import (
	"context"
	"strings"

	"github.com/kailas-cloud/esquery/internal/db"
)

// memStore is an in-memory implementation of the consumer interface for tests.
type memStore struct {
	hashes map[string]map[string]string

	hsetErr error
	scanErr error
	multErr error
}

func newMemStore() *memStore {
	return &memStore{hashes: make(map[string]map[string]string)}
}

func (m *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return h, nil
}

func (m *memStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.multErr != nil {
		return nil, m.multErr
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	return ok, nil
}

// Scan supports trailing-* patterns only.
func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
