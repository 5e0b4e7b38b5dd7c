package quota

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
)

// Service defines the interface for the quota tracker
type Service interface {
	// CanScan reports whether todayCount is below the plan's ceiling
	CanScan(plan subscription.Plan, todayCount int) bool

	// Status returns today's usage, resetting a stale counter first
	Status(ctx context.Context, userID string, plan subscription.Plan) (Status, error)

	// RecordScan counts one scan for today
	RecordScan(ctx context.Context, userID string, plan subscription.Plan) (Status, error)

	// Limit returns the plan's ceiling and whether it is unlimited
	Limit(plan subscription.Plan) (int, bool)
}
