package subscription

import "context"

// Service defines the interface for subscription business logic
type Service interface {
	// Get returns the user's current subscription
	Get(ctx context.Context, userID string) (Subscription, error)

	// Upgrade moves the user to a paid plan
	Upgrade(ctx context.Context, userID string, plan Plan, cycle BillingCycle) (Subscription, error)

	// Cancel returns the user to the free plan
	Cancel(ctx context.Context, userID string) error

	// Plans returns the plan catalogue
	Plans() []PlanInfo
}
