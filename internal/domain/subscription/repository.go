package subscription

import "context"

// Repository defines the interface for subscription persistence
type Repository interface {
	// Get returns the stored record. A missing or unreadable record yields
	// the free subscription.
	Get(ctx context.Context, userID string) (Subscription, error)

	// Save stores the record
	Save(ctx context.Context, userID string, sub Subscription) error

	// Delete removes the record, returning the user to free
	Delete(ctx context.Context, userID string) error
}
