package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// QuotaTracker implements quota.Service. Counters are keyed by calendar
// day in loc; a counter from any other day reads as zero.
type QuotaTracker struct {
	repo   quota.Repository
	limits quota.Limits
	loc    *time.Location
	now    func() time.Time
	logger *logger.Logger
}

// NewQuotaTracker creates a new quota tracker
func NewQuotaTracker(repo quota.Repository, limits quota.Limits, loc *time.Location, log *logger.Logger) *QuotaTracker {
	if loc == nil {
		loc = time.Local
	}
	return &QuotaTracker{
		repo:   repo,
		limits: limits,
		loc:    loc,
		now:    time.Now,
		logger: log,
	}
}

// WithClock replaces the time source. Used by tests.
func (t *QuotaTracker) WithClock(now func() time.Time) *QuotaTracker {
	t.now = now
	return t
}

// Today returns the current quota day
func (t *QuotaTracker) Today() string {
	return t.now().In(t.loc).Format(quota.DateLayout)
}

// Limit returns the ceiling of a plan
func (t *QuotaTracker) Limit(plan subscription.Plan) (int, bool) {
	switch plan {
	case subscription.PlanPro:
		return 0, true
	case subscription.PlanPremium:
		return t.limits.Premium, false
	default:
		return t.limits.Free, false
	}
}

// CanScan reports whether another scan is allowed
func (t *QuotaTracker) CanScan(plan subscription.Plan, todayCount int) bool {
	limit, unlimited := t.Limit(plan)
	return unlimited || todayCount < limit
}

// Status returns today's usage
func (t *QuotaTracker) Status(ctx context.Context, userID string, plan subscription.Plan) (quota.Status, error) {
	c, err := t.current(ctx, userID)
	if err != nil {
		return quota.Status{}, err
	}
	return t.status(plan, c), nil
}

// RecordScan counts one scan for today
func (t *QuotaTracker) RecordScan(ctx context.Context, userID string, plan subscription.Plan) (quota.Status, error) {
	c, err := t.current(ctx, userID)
	if err != nil {
		return quota.Status{}, err
	}
	c.Count++
	if err := t.repo.Save(ctx, userID, c); err != nil {
		t.logger.ErrorWithErr(err, "Failed to save scan counter")
		return quota.Status{}, err
	}
	return t.status(plan, c), nil
}

// current loads the counter, resetting it when it belongs to another day
func (t *QuotaTracker) current(ctx context.Context, userID string) (quota.Counter, error) {
	today := t.Today()
	c, err := t.repo.Get(ctx, userID)
	if err != nil {
		return quota.Counter{}, err
	}
	if c.Date != today {
		c = quota.Counter{Date: today}
	}
	return c, nil
}

func (t *QuotaTracker) status(plan subscription.Plan, c quota.Counter) quota.Status {
	limit, unlimited := t.Limit(plan)
	s := quota.Status{
		Date:      c.Date,
		Plan:      string(plan),
		Used:      c.Count,
		Limit:     limit,
		Unlimited: unlimited,
	}
	if unlimited {
		s.Remaining = -1
	} else {
		s.Remaining = max(limit-c.Count, 0)
	}
	return s
}
