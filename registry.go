package esquery

import (
	"sort"
	"sync"
)

// Registry holds FilterDefinitions keyed by search handle.
// Safe for concurrent use; reads never block each other.
type Registry struct {
	mu     sync.RWMutex
	defs   map[string]FilterDefinition
	frozen bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]FilterDefinition)}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry.
// Only the application's composition root should reach for it.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register validates def and stores it, replacing any definition with the same handle.
// It reports whether an existing definition was replaced.
func (r *Registry) Register(def FilterDefinition) (bool, error) {
	if err := def.Validate(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return false, ErrRegistryFrozen
	}
	_, replaced := r.defs[def.SearchHandle]
	r.defs[def.SearchHandle] = def
	return replaced, nil
}

// Lookup returns the definition registered under handle.
func (r *Registry) Lookup(handle string) (FilterDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[handle]
	return def, ok
}

// Remove deletes the definition registered under handle.
func (r *Registry) Remove(handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, ok := r.defs[handle]; !ok {
		return &UnknownFilterError{Handle: handle}
	}
	delete(r.defs, handle)
	return nil
}

// List returns all definitions sorted by handle.
func (r *Registry) List() []FilterDefinition {
	r.mu.RLock()
	out := make([]FilterDefinition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SearchHandle < out[j].SearchHandle })
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Freeze makes the registry read-only. Later Register and Remove calls fail with ErrRegistryFrozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
