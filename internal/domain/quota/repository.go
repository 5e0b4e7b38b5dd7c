package quota

import "context"

// Repository defines the interface for daily counter persistence
type Repository interface {
	// Get returns the stored counter. Missing or corrupt counters are
	// returned as the zero Counter.
	Get(ctx context.Context, userID string) (Counter, error)

	// Save stores the counter
	Save(ctx context.Context, userID string, c Counter) error

	// Delete removes the counter
	Delete(ctx context.Context, userID string) error

	// DeleteStale removes the counter only if the stored one is not dated
	// today. It reports whether a counter was removed.
	DeleteStale(ctx context.Context, userID, today string) (bool, error)

	// All returns every stored counter keyed by user id
	All(ctx context.Context) (map[string]Counter, error)
}
