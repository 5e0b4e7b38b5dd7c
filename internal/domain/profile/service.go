package profile

import "context"

// Service defines the interface for health profile business logic
type Service interface {
	// Get returns the user's profile. Users without one get an empty profile.
	Get(ctx context.Context, userID string) (*HealthProfile, error)

	// Update replaces conditions and goals. A nil slice leaves that part
	// unchanged.
	Update(ctx context.Context, userID string, conditions, goals []string) (*HealthProfile, error)

	// HasProfile reports whether the user has saved any profile data
	HasProfile(ctx context.Context, userID string) (bool, error)
}
