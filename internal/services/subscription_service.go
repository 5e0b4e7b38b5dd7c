package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	repo   subscription.Repository
	gate   *PlanGate
	now    func() time.Time
	logger *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo subscription.Repository, gate *PlanGate, log *logger.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, gate: gate, now: time.Now, logger: log}
}

// Get returns the current subscription, free when nothing is stored
func (s *SubscriptionService) Get(ctx context.Context, userID string) (subscription.Subscription, error) {
	return s.repo.Get(ctx, userID)
}

// Upgrade stores a paid subscription starting now
func (s *SubscriptionService) Upgrade(ctx context.Context, userID string, plan subscription.Plan, cycle subscription.BillingCycle) (subscription.Subscription, error) {
	if plan != subscription.PlanPremium && plan != subscription.PlanPro {
		return subscription.Subscription{}, errors.BadRequest("Plan must be premium or pro")
	}
	if cycle == "" {
		cycle = subscription.CycleMonthly
	}
	if cycle != subscription.CycleMonthly && cycle != subscription.CycleYearly {
		return subscription.Subscription{}, errors.BadRequest("Billing cycle must be monthly or yearly")
	}

	start := s.now().UTC()
	sub := subscription.Subscription{
		Plan:         plan,
		BillingCycle: cycle,
		StartDate:    &start,
		Status:       subscription.StatusActive,
	}
	if err := s.repo.Save(ctx, userID, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to save subscription")
		return subscription.Subscription{}, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"plan":    plan,
		"cycle":   cycle,
	}).Info("Subscription upgraded")

	return sub, nil
}

// Cancel removes the stored subscription
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.ErrorWithErr(err, "Failed to cancel subscription")
		return err
	}
	s.logger.With("user_id", userID).Info("Subscription cancelled")
	return nil
}

// Plans returns the catalogue
func (s *SubscriptionService) Plans() []subscription.PlanInfo {
	return []subscription.PlanInfo{
		{
			Plan:         subscription.PlanFree,
			Name:         "Free",
			MonthlyPrice: 0,
			YearlyPrice:  0,
			Currency:     "USD",
			Features:     s.gate.Features(subscription.PlanFree),
			Highlights:   []string{fmt.Sprintf("%d scans per day", s.gate.Features(subscription.PlanFree).DailyScans), "Basic analysis", "With ads"},
		},
		{
			Plan:         subscription.PlanPremium,
			Name:         "Premium",
			MonthlyPrice: 3.99,
			YearlyPrice:  33.99,
			Currency:     "USD",
			Features:     s.gate.Features(subscription.PlanPremium),
			Highlights:   []string{fmt.Sprintf("%d scans per day", s.gate.Features(subscription.PlanPremium).DailyScans), "Complete analysis", "Healthier alternatives", "Recent history", "No ads"},
		},
		{
			Plan:         subscription.PlanPro,
			Name:         "Pro",
			MonthlyPrice: 7.99,
			YearlyPrice:  67.99,
			Currency:     "USD",
			Features:     s.gate.Features(subscription.PlanPro),
			Highlights:   []string{"Unlimited scans", "Nutrient breakdown", "Full history with export", "AI insights", "Priority support"},
		},
	}
}
