package services

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

// HistoryView serves history as the user's plan allows them to see it
type HistoryView struct {
	history       history.Service
	subscriptions subscription.Repository
	gate          *PlanGate
	logger        *logger.Logger
}

// NewHistoryView creates a new history view
func NewHistoryView(h history.Service, subs subscription.Repository, gate *PlanGate, log *logger.Logger) *HistoryView {
	return &HistoryView{history: h, subscriptions: subs, gate: gate, logger: log}
}

// List returns the visible entries and the plan they were filtered for.
// Free users get an empty list.
func (v *HistoryView) List(ctx context.Context, userID string) ([]history.Entry, subscription.Plan, error) {
	plan := v.plan(ctx, userID)
	all, err := v.history.All(ctx, userID)
	if err != nil {
		return nil, plan, err
	}
	visible := v.gate.FilterHistory(all, plan)
	for i := range visible {
		visible[i].Analysis = v.gate.FilterAnalysisDepth(visible[i].Analysis, plan)
	}
	return visible, plan, nil
}

// Get returns one entry if it is inside the user's visible window
func (v *HistoryView) Get(ctx context.Context, userID, id string) (*history.Entry, error) {
	plan := v.plan(ctx, userID)
	if plan == subscription.PlanFree {
		return nil, errors.PlanRequired("Scan history", string(subscription.PlanPremium))
	}
	all, err := v.history.All(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !v.gate.CanViewEntry(all, id, plan) {
		return nil, errors.NotFound("History entry")
	}
	e, err := v.history.Lookup(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	e.Analysis = v.gate.FilterAnalysisDepth(e.Analysis, plan)
	return e, nil
}

// Clear removes the user's history regardless of plan
func (v *HistoryView) Clear(ctx context.Context, userID string) error {
	return v.history.Clear(ctx, userID)
}

func (v *HistoryView) plan(ctx context.Context, userID string) subscription.Plan {
	sub, err := v.subscriptions.Get(ctx, userID)
	if err != nil {
		v.logger.WarnWithErr(err, "Failed to load subscription, using free plan")
		return subscription.PlanFree
	}
	return sub.Plan
}
