package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Registry exposes the filter registry state.
type Registry interface {
	Len() int
	Frozen() bool
}
