package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ReferenceChecker verifies that the reference corpus can be loaded.
type ReferenceChecker interface {
	CheckReference(ctx context.Context) error
}
