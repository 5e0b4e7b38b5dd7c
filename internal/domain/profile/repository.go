package profile

import "context"

// Repository defines the interface for health profile persistence
type Repository interface {
	// Get returns the stored profile, or nil when the user has none
	Get(ctx context.Context, userID string) (*HealthProfile, error)

	// Save stores the profile
	Save(ctx context.Context, p *HealthProfile) error

	// Delete removes the profile
	Delete(ctx context.Context, userID string) error
}
