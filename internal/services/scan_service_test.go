package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/scan"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/events"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/internal/testutil"
)

type scanFixture struct {
	repos     *testutil.Repos
	lookup    *testutil.MockLookup
	events    *events.Recorder
	clock     *testutil.Clock
	quota     *QuotaTracker
	history   *HistoryRecorder
	profiles  profile.Service
	subs      *SubscriptionService
	service   *ScanService
	narration *fakeNarrator
	gate      *PlanGate
	log       *logger.Logger
}

type fakeNarrator struct {
	calls int
}

func (f *fakeNarrator) Narrate(context.Context, product.Product, analysis.Result, []string, []string) (string, error) {
	f.calls++
	return "Mostly sugar.", nil
}

func newScanFixture(t *testing.T, products ...product.Product) *scanFixture {
	t.Helper()
	log := testutil.NewTestLogger()
	repos := testutil.NewRepos(kv.NewMemoryStore())
	clock := testutil.NewClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	gate := NewPlanGate(quota.DefaultLimits, history.DefaultPremiumVisible, history.DefaultCap)

	f := &scanFixture{
		repos:     repos,
		lookup:    testutil.NewMockLookup(products...),
		events:    &events.Recorder{},
		clock:     clock,
		quota:     NewQuotaTracker(repos.Quota, quota.DefaultLimits, time.UTC, log).WithClock(clock.Now),
		history:   NewHistoryRecorder(repos.History, history.DefaultCap, log).WithClock(clock.Now),
		profiles:  NewProfileService(repos.Profiles, log),
		subs:      NewSubscriptionService(repos.Subscriptions, gate, log),
		narration: &fakeNarrator{},
		gate:      gate,
		log:       log,
	}
	f.wire()
	return f
}

// wire rebuilds the service from the fixture's current collaborators
func (f *scanFixture) wire() {
	f.service = NewScanService(ScanServiceDeps{
		Subscriptions: f.repos.Subscriptions,
		Profiles:      f.profiles,
		Quota:         f.quota,
		Lookup:        f.lookup,
		Engine:        NewScoringEngine(),
		History:       f.history,
		Gate:          f.gate,
		Publisher:     f.events,
		Narrator:      f.narration,
		LookupTimeout: time.Second,
	}, f.log)
}

type failingHistoryRepo struct {
	history.Repository
}

func (failingHistoryRepo) Save(context.Context, string, []history.Entry) error {
	return testutil.ErrStoreDown
}

type failingProfiles struct {
	profile.Service
}

func (failingProfiles) Get(context.Context, string) (*profile.HealthProfile, error) {
	return nil, testutil.ErrStoreDown
}

func TestScanService_ScenarioA_DiabetesHighSugar(t *testing.T) {
	ctx := context.Background()
	p := product.Product{Barcode: "12345678", Name: "Soda", Nutrition: product.Nutrition{Sugar: 20}}
	f := newScanFixture(t, p)

	if _, err := f.profiles.Update(ctx, "u1", []string{profile.ConditionDiabetes}, nil); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	out, err := f.service.Scan(ctx, "u1", "12345678")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if out.Analysis.Score > 40 {
		t.Errorf("Scan() score = %d, want <= 40", out.Analysis.Score)
	}
	found := false
	for _, w := range out.Analysis.Warnings {
		if strings.Contains(w, "diabetes") && strings.Contains(strings.ToLower(w), "sugar") {
			found = true
		}
	}
	if !found {
		t.Errorf("Scan() warnings = %v, want a diabetes sugar warning", out.Analysis.Warnings)
	}
}

func TestScanService_ScenarioB_MuscleGain(t *testing.T) {
	ctx := context.Background()
	p := product.Product{Barcode: "87654321", Name: "Protein Bar", Nutrition: product.Nutrition{Protein: 12}}
	f := newScanFixture(t, p)

	if _, err := f.profiles.Update(ctx, "u1", []string{}, []string{profile.GoalGainMuscle}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	out, err := f.service.Scan(ctx, "u1", "87654321")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if out.Analysis.Score < 70 {
		t.Errorf("Scan() score = %d, want >= 70", out.Analysis.Score)
	}
	found := false
	for _, r := range out.Analysis.Recommendations {
		if strings.Contains(r, "muscle") {
			found = true
		}
	}
	if !found {
		t.Errorf("Scan() recommendations = %v, want a muscle gain note", out.Analysis.Recommendations)
	}
}

func TestScanService_ScenarioC_QuotaRefusedBeforeLookup(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, testutil.SugaryProduct)

	for i := 0; i < 5; i++ {
		if _, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode); err != nil {
			t.Fatalf("Scan() #%d error = %v", i+1, err)
		}
	}
	callsBefore := f.lookup.Calls()
	historyBefore, _ := f.history.Count(ctx, "u1")

	_, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode)
	if !errors.HasCode(err, errors.ErrCodeQuotaExceeded) {
		t.Fatalf("Scan() #6 error = %v, want quota exceeded", err)
	}
	appErr, _ := errors.As(err)
	if !strings.Contains(appErr.Message, "5") {
		t.Errorf("quota message %q does not name the limit", appErr.Message)
	}
	if f.lookup.Calls() != callsBefore {
		t.Errorf("lookup called %d times after refusal, want %d", f.lookup.Calls(), callsBefore)
	}
	if n, _ := f.history.Count(ctx, "u1"); n != historyBefore {
		t.Errorf("history count = %d after refusal, want %d", n, historyBefore)
	}
}

func TestScanService_QuotaResetsNextDay(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, testutil.SugaryProduct)

	for i := 0; i < 5; i++ {
		if _, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
	}
	f.clock.Advance(24 * time.Hour)

	out, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode)
	if err != nil {
		t.Fatalf("Scan() next day error = %v", err)
	}
	if out.Quota.Used != 1 || out.Quota.Remaining != 4 {
		t.Errorf("Scan() quota = %+v, want used 1 remaining 4", out.Quota)
	}
}

func TestScanService_NotFoundWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)

	_, err := f.service.Scan(ctx, "u1", "99999999")
	if !errors.HasCode(err, errors.ErrCodeProductNotFound) {
		t.Fatalf("Scan() error = %v, want product not found", err)
	}

	st, _ := f.quota.Status(ctx, "u1", subscription.PlanFree)
	if st.Used != 0 {
		t.Errorf("quota used = %d after not found, want 0", st.Used)
	}
	if n, _ := f.history.Count(ctx, "u1"); n != 0 {
		t.Errorf("history count = %d after not found, want 0", n)
	}
	if f.events.Len() != 0 {
		t.Errorf("published %d events after not found, want 0", f.events.Len())
	}
}

func TestScanService_InvalidBarcode(t *testing.T) {
	f := newScanFixture(t)

	for _, code := range []string{"", "abc", "123", "123456789012345"} {
		_, err := f.service.Scan(context.Background(), "u1", code)
		if !errors.HasCode(err, errors.ErrCodeValidation) {
			t.Errorf("Scan(%q) error = %v, want validation error", code, err)
		}
	}
	if f.lookup.Calls() != 0 {
		t.Errorf("lookup called %d times for invalid barcodes", f.lookup.Calls())
	}
}

func TestScanService_RecordsAndPublishes(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, testutil.SugaryProduct)

	out, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	entries, _ := f.history.All(ctx, "u1")
	if len(entries) != 1 || entries[0].ID != out.EntryID {
		t.Fatalf("history = %+v, want the scanned entry", entries)
	}

	if f.events.Len() != 1 {
		t.Fatalf("published %d events, want 1", f.events.Len())
	}
	ev := f.events.Events[0]
	if ev.RoutingKey != scan.EventScanRecorded {
		t.Errorf("routing key = %s, want %s", ev.RoutingKey, scan.EventScanRecorded)
	}
	var payload scan.RecordedEvent
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("event payload: %v", err)
	}
	if payload.EntryID != out.EntryID || payload.Barcode != testutil.SugaryProduct.Barcode {
		t.Errorf("event payload = %+v", payload)
	}
}

func TestScanService_PublishFailureDoesNotFailScan(t *testing.T) {
	f := newScanFixture(t, testutil.SugaryProduct)
	f.events.Err = testutil.ErrStoreDown

	if _, err := f.service.Scan(context.Background(), "u1", testutil.SugaryProduct.Barcode); err != nil {
		t.Fatalf("Scan() error = %v, want success despite publish failure", err)
	}
}

func TestScanService_PlanDepth(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		plan          subscription.Plan
		wantAlts      bool
		wantBreakdown bool
		wantInsight   bool
	}{
		{"free", subscription.PlanFree, false, false, false},
		{"premium", subscription.PlanPremium, true, false, false},
		{"pro", subscription.PlanPro, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScanFixture(t, testutil.SugaryProduct)
			if tt.plan != subscription.PlanFree {
				if _, err := f.subs.Upgrade(ctx, "u1", tt.plan, subscription.CycleMonthly); err != nil {
					t.Fatalf("Upgrade() error = %v", err)
				}
			}

			out, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if out.Plan != tt.plan {
				t.Errorf("Scan() plan = %s, want %s", out.Plan, tt.plan)
			}
			if got := len(out.Analysis.Alternatives) > 0; got != tt.wantAlts {
				t.Errorf("alternatives present = %v, want %v", got, tt.wantAlts)
			}
			if got := len(out.Analysis.Breakdown) > 0; got != tt.wantBreakdown {
				t.Errorf("breakdown present = %v, want %v", got, tt.wantBreakdown)
			}
			if got := out.Insight != ""; got != tt.wantInsight {
				t.Errorf("insight present = %v, want %v", got, tt.wantInsight)
			}

			entries, _ := f.history.All(ctx, "u1")
			if len(entries) != 1 {
				t.Fatalf("history has %d entries, want 1", len(entries))
			}
			if entries[0].Analysis.Breakdown == nil {
				t.Error("stored analysis should keep the full breakdown")
			}
		})
	}
}

func TestScanService_AnalyzeDoesNotCount(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t)

	out, err := f.service.Analyze(ctx, "u1", product.Product{Name: "Homemade", Nutrition: product.Nutrition{Sugar: 2}})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if out.Product.Source != product.SourceManual {
		t.Errorf("Analyze() source = %s, want manual", out.Product.Source)
	}
	if out.Quota.Used != 0 {
		t.Errorf("Analyze() counted a scan: %+v", out.Quota)
	}
	if n, _ := f.history.Count(ctx, "u1"); n != 0 {
		t.Errorf("Analyze() recorded %d history entries", n)
	}
	if f.lookup.Calls() != 0 {
		t.Error("Analyze() called the product lookup")
	}
}

func TestScanService_HistoryFailureDoesNotCountScan(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, testutil.SugaryProduct)
	f.history = NewHistoryRecorder(failingHistoryRepo{f.repos.History}, history.DefaultCap, f.log).WithClock(f.clock.Now)
	f.wire()

	if _, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode); err == nil {
		t.Fatal("Scan() error = nil, want the history write failure")
	}

	st, err := f.quota.Status(ctx, "u1", subscription.PlanFree)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Used != 0 {
		t.Errorf("quota used = %d after failed history write, want 0", st.Used)
	}
	if f.events.Len() != 0 {
		t.Errorf("published %d events after failed scan, want 0", f.events.Len())
	}
}

func TestScanService_CorruptStoredStateStillScans(t *testing.T) {
	ctx := context.Background()
	f := newScanFixture(t, testutil.SugaryProduct)

	for _, name := range []string{kv.NameDailyScans, kv.NameSubscription, kv.NameHistory, kv.NameProfile} {
		if err := f.repos.Store.Set(ctx, kv.UserKey("u1", name), []byte("{not json")); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}

	out, err := f.service.Scan(ctx, "u1", testutil.SugaryProduct.Barcode)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if out.Plan != subscription.PlanFree {
		t.Errorf("Scan() plan = %s, want free", out.Plan)
	}
	if out.Quota.Used != 1 || out.Quota.Remaining != 4 {
		t.Errorf("Scan() quota = %+v, want used 1 remaining 4", out.Quota)
	}
	if n, _ := f.history.Count(ctx, "u1"); n != 1 {
		t.Errorf("history count = %d, want 1", n)
	}
}

func TestScanService_AnalyzeScoresWithoutProfileOnLoadFailure(t *testing.T) {
	f := newScanFixture(t)
	f.profiles = failingProfiles{f.profiles}
	f.wire()

	out, err := f.service.Analyze(context.Background(), "u1", product.Product{Name: "Homemade", Nutrition: product.Nutrition{Sugar: 2}})
	if err != nil {
		t.Fatalf("Analyze() error = %v, want scoring with an empty profile", err)
	}
	if out.Analysis.Score == 0 {
		t.Errorf("Analyze() score = 0, want a scored result")
	}
}
