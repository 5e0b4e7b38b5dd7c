package history

import "context"

// Repository defines the interface for history persistence
type Repository interface {
	// Load returns the stored entries, newest first. Missing or corrupt
	// history is returned as empty.
	Load(ctx context.Context, userID string) ([]Entry, error)

	// Save replaces the stored entries
	Save(ctx context.Context, userID string, entries []Entry) error

	// Delete removes all entries
	Delete(ctx context.Context, userID string) error
}
