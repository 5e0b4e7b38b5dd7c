package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/scan"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/events"
	"github.com/pratik-mahalle/nutriscan/internal/integrations"
	apperrors "github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/metrics"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

// Scan outcomes for metrics
const (
	outcomeOK            = "ok"
	outcomeQuotaExceeded = "quota_exceeded"
	outcomeNotFound      = "not_found"
	outcomeError         = "error"
)

// ScanService implements scan.Service
type ScanService struct {
	subscriptions subscription.Repository
	profiles      profile.Service
	quota         quota.Service
	lookup        product.Lookup
	engine        analysis.Engine
	history       history.Service
	gate          *PlanGate
	publisher     events.Publisher
	narrator      integrations.Narrator
	lookupTimeout time.Duration
	logger        *logger.Logger
}

// ScanServiceDeps groups the collaborators of the scan flow
type ScanServiceDeps struct {
	Subscriptions subscription.Repository
	Profiles      profile.Service
	Quota         quota.Service
	Lookup        product.Lookup
	Engine        analysis.Engine
	History       history.Service
	Gate          *PlanGate
	Publisher     events.Publisher
	Narrator      integrations.Narrator
	LookupTimeout time.Duration
}

// NewScanService creates a new scan service
func NewScanService(deps ScanServiceDeps, log *logger.Logger) *ScanService {
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	if deps.LookupTimeout <= 0 {
		deps.LookupTimeout = 5 * time.Second
	}
	return &ScanService{
		subscriptions: deps.Subscriptions,
		profiles:      deps.Profiles,
		quota:         deps.Quota,
		lookup:        deps.Lookup,
		engine:        deps.Engine,
		history:       deps.History,
		gate:          deps.Gate,
		publisher:     deps.Publisher,
		narrator:      deps.Narrator,
		lookupTimeout: deps.LookupTimeout,
		logger:        log,
	}
}

// Scan runs the scan flow. A refused quota stops before the lookup and a
// failed lookup stops before anything is written.
func (s *ScanService) Scan(ctx context.Context, userID, barcode string) (*scan.Outcome, error) {
	barcode = strings.TrimSpace(barcode)
	if !validator.IsBarcode(barcode) {
		return nil, apperrors.ValidationError("Invalid barcode", map[string]string{
			"barcode": "must be 8 to 14 digits",
		})
	}

	sub, err := s.subscriptions.Get(ctx, userID)
	if err != nil {
		s.logger.WarnWithErr(err, "Failed to load subscription, using free plan")
		sub = subscription.Free()
	}
	plan := sub.Plan
	log := s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"barcode": barcode,
		"plan":    plan,
	})

	status, err := s.quota.Status(ctx, userID, plan)
	if err != nil {
		metrics.RecordScan(string(plan), outcomeError)
		return nil, err
	}
	if !s.quota.CanScan(plan, status.Used) {
		metrics.RecordScan(string(plan), outcomeQuotaExceeded)
		metrics.RecordQuotaRejection(string(plan))
		log.Info("Scan refused, daily quota reached")
		return nil, apperrors.QuotaExceeded(string(plan), status.Limit, status.Used)
	}

	lctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	p, err := s.lookup.Lookup(lctx, barcode)
	cancel()
	if err != nil {
		metrics.RecordScan(string(plan), outcomeNotFound)
		if !errors.Is(err, product.ErrNotFound) {
			log.WarnWithErr(err, "Product lookup failed")
		}
		return nil, apperrors.ProductNotFound(barcode)
	}

	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.WarnWithErr(err, "Failed to load health profile, scoring without it")
		prof = &profile.HealthProfile{UserID: userID}
	}

	result := s.engine.Analyze(p, prof.Conditions, prof.Goals, plan)

	// History first: a failed write must not use up the user's quota
	entry, err := s.history.Record(ctx, userID, *p, result)
	if err != nil {
		metrics.RecordScan(string(plan), outcomeError)
		return nil, err
	}

	status, err = s.quota.RecordScan(ctx, userID, plan)
	if err != nil {
		metrics.RecordScan(string(plan), outcomeError)
		return nil, err
	}

	metrics.RecordScan(string(plan), outcomeOK)
	metrics.ObserveScore(string(result.Level), result.Score)

	event := scan.RecordedEvent{
		EntryID:   entry.ID,
		UserID:    userID,
		Barcode:   barcode,
		Source:    p.Source,
		Plan:      plan,
		Score:     result.Score,
		Level:     result.Level,
		ScannedAt: entry.ScannedAt.Format(time.RFC3339),
	}
	if err := events.PublishJSON(ctx, s.publisher, scan.EventScanRecorded, event); err != nil {
		log.WarnWithErr(err, "Failed to publish scan event")
	}

	outcome := &scan.Outcome{
		EntryID:  entry.ID,
		Plan:     plan,
		Product:  *p,
		Analysis: s.gate.FilterAnalysisDepth(entry.Analysis, plan),
		Quota:    status,
	}
	outcome.Insight = s.insight(ctx, plan, *p, result, prof)

	log.WithFields(map[string]interface{}{
		"score": result.Score,
		"level": result.Level,
	}).Info("Product scanned")

	return outcome, nil
}

// Analyze scores a caller-supplied product. Nothing is counted or stored.
func (s *ScanService) Analyze(ctx context.Context, userID string, p product.Product) (*scan.Outcome, error) {
	sub, err := s.subscriptions.Get(ctx, userID)
	if err != nil {
		sub = subscription.Free()
	}
	plan := sub.Plan

	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.WarnWithErr(err, "Failed to load health profile, scoring without it")
		prof = &profile.HealthProfile{UserID: userID}
	}

	if p.Source == "" {
		p.Source = product.SourceManual
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	if p.Allergens == nil {
		p.Allergens = []string{}
	}

	result := s.engine.Analyze(&p, prof.Conditions, prof.Goals, plan)

	status, err := s.quota.Status(ctx, userID, plan)
	if err != nil {
		return nil, err
	}

	return &scan.Outcome{
		Plan:     plan,
		Product:  p,
		Analysis: s.gate.FilterAnalysisDepth(result, plan),
		Quota:    status,
		Insight:  s.insight(ctx, plan, p, result, prof),
	}, nil
}

// insight asks the narrator for pro users. Failures only cost the insight.
func (s *ScanService) insight(ctx context.Context, plan subscription.Plan, p product.Product, r analysis.Result, prof *profile.HealthProfile) string {
	if s.narrator == nil || !s.gate.Features(plan).AIInsights {
		return ""
	}
	text, err := s.narrator.Narrate(ctx, p, r, prof.Conditions, prof.Goals)
	if err != nil {
		s.logger.WarnWithErr(err, "Failed to generate insight")
		return ""
	}
	return text
}
