package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/internal/testutil"
)

func numberedProduct(i int) product.Product {
	return product.Product{Barcode: fmt.Sprintf("%08d", i), Name: fmt.Sprintf("Product %d", i)}
}

func TestHistoryRecorder_CapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepos(kv.NewMemoryStore())
	clock := testutil.NewClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	recorder := NewHistoryRecorder(repos.History, history.DefaultCap, testutil.NewTestLogger()).
		WithClock(clock.Now)

	for i := 1; i <= history.DefaultCap+1; i++ {
		clock.Advance(time.Minute)
		if _, err := recorder.Record(ctx, "u1", numberedProduct(i), analysis.Result{Score: 70}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := recorder.All(ctx, "u1")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(entries) != history.DefaultCap {
		t.Fatalf("All() returned %d entries, want %d", len(entries), history.DefaultCap)
	}
	if entries[0].Product.Barcode != "00000101" {
		t.Errorf("newest entry = %s, want 00000101", entries[0].Product.Barcode)
	}
	if last := entries[len(entries)-1].Product.Barcode; last != "00000002" {
		t.Errorf("oldest entry = %s, want 00000002 (first scan evicted)", last)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].ScannedAt.After(entries[i-1].ScannedAt) {
			t.Fatalf("entries not newest first at %d", i)
		}
	}
}

func TestHistoryRecorder_SnapshotIsIndependent(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepos(kv.NewMemoryStore())
	recorder := NewHistoryRecorder(repos.History, 10, testutil.NewTestLogger())

	result := analysis.Result{Score: 40, Warnings: []string{"High sugar"}}
	entry, err := recorder.Record(ctx, "u1", testutil.SugaryProduct, result)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	result.Warnings[0] = "changed"

	got, err := recorder.Lookup(ctx, "u1", entry.ID)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.Analysis.Warnings[0] != "High sugar" {
		t.Errorf("stored warning = %q, want %q", got.Analysis.Warnings[0], "High sugar")
	}
	if got.Analysis.AnalyzedAt == nil {
		t.Error("stored analysis has no AnalyzedAt")
	}
}

func TestHistoryRecorder_LookupCountClear(t *testing.T) {
	ctx := context.Background()
	repos := testutil.NewRepos(kv.NewMemoryStore())
	recorder := NewHistoryRecorder(repos.History, 10, testutil.NewTestLogger())

	for i := 0; i < 3; i++ {
		if _, err := recorder.Record(ctx, "u1", numberedProduct(i), analysis.Result{}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	if n, _ := recorder.Count(ctx, "u1"); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}

	_, err := recorder.Lookup(ctx, "u1", "missing")
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("Lookup(missing) error = %v, want not found", err)
	}

	if err := recorder.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _ := recorder.Count(ctx, "u1"); n != 0 {
		t.Errorf("Count() after Clear = %d, want 0", n)
	}
}

func TestPlanGate_FilterHistory(t *testing.T) {
	gate := NewPlanGate(quota.DefaultLimits, history.DefaultPremiumVisible, history.DefaultCap)

	entries := make([]history.Entry, 12)
	for i := range entries {
		entries[i] = history.Entry{ID: fmt.Sprintf("e%d", i)}
	}

	tests := []struct {
		plan subscription.Plan
		want int
	}{
		{subscription.PlanFree, 0},
		{subscription.PlanPremium, 5},
		{subscription.PlanPro, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			got := gate.FilterHistory(entries, tt.plan)
			if got == nil {
				t.Fatal("FilterHistory() returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("FilterHistory() returned %d entries, want %d", len(got), tt.want)
			}
			if tt.want > 0 && got[0].ID != "e0" {
				t.Errorf("FilterHistory() first = %s, want e0", got[0].ID)
			}
		})
	}

	if gate.CanViewEntry(entries, "e7", subscription.PlanPremium) {
		t.Error("CanViewEntry() = true for an entry outside the premium window")
	}
	if !gate.CanViewEntry(entries, "e7", subscription.PlanPro) {
		t.Error("CanViewEntry() = false for pro")
	}
}

func TestPlanGate_FilterAnalysisDepth(t *testing.T) {
	gate := NewPlanGate(quota.DefaultLimits, 5, 100)
	full := analysis.Result{
		Score:          50,
		Alternatives:   []string{"Fresh fruit"},
		Breakdown:      []analysis.NutrientLine{{Nutrient: "sugar"}},
		ConditionNotes: []analysis.ConditionNote{{Tag: "diabetes"}},
	}

	free := gate.FilterAnalysisDepth(full, subscription.PlanFree)
	if len(free.Alternatives) != 0 || free.Breakdown != nil || free.ConditionNotes != nil {
		t.Errorf("free result = %+v, want no alternatives, breakdown or notes", free)
	}
	if free.Warnings == nil || free.Recommendations == nil {
		t.Error("free result has nil lists")
	}

	premium := gate.FilterAnalysisDepth(full, subscription.PlanPremium)
	if len(premium.Alternatives) != 1 || premium.Breakdown != nil {
		t.Errorf("premium result = %+v, want alternatives only", premium)
	}

	pro := gate.FilterAnalysisDepth(full, subscription.PlanPro)
	if len(pro.Breakdown) != 1 || len(pro.ConditionNotes) != 1 {
		t.Errorf("pro result = %+v, want full depth", pro)
	}

	if len(full.Alternatives) != 1 || full.Breakdown == nil {
		t.Error("FilterAnalysisDepth() mutated its input")
	}
}
