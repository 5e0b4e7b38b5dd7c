package services

import (
	"reflect"
	"testing"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/testutil"
)

func TestScoringEngine_Analyze(t *testing.T) {
	engine := NewScoringEngine()

	tests := []struct {
		name       string
		product    product.Product
		conditions []string
		goals      []string
		wantScore  int
		wantLevel  analysis.Level
		wantWarn   int
	}{
		{
			name:      "no profile keeps the base score",
			product:   testutil.SugaryProduct,
			wantScore: 70,
			wantLevel: analysis.LevelGood,
		},
		{
			name:       "diabetes with high sugar",
			product:    testutil.SugaryProduct,
			conditions: []string{profile.ConditionDiabetes},
			wantScore:  40,
			wantLevel:  analysis.LevelModerate,
			wantWarn:   1,
		},
		{
			name:       "diabetes with low sugar",
			product:    testutil.HealthyProduct,
			conditions: []string{profile.ConditionDiabetes},
			wantScore:  70,
			wantLevel:  analysis.LevelGood,
		},
		{
			name:      "muscle gain with high protein",
			product:   testutil.HealthyProduct,
			goals:     []string{profile.GoalGainMuscle},
			wantScore: 85,
			wantLevel: analysis.LevelGood,
		},
		{
			name:       "lactose intolerance and diabetes stack",
			product:    testutil.SugaryProduct,
			conditions: []string{profile.ConditionLactoseIntolerance, profile.ConditionDiabetes},
			wantScore:  0,
			wantLevel:  analysis.LevelPoor,
			wantWarn:   2,
		},
		{
			name: "celiac with a gluten-free ingredient and no allergens",
			product: product.Product{
				Name:        "Oat crackers",
				Ingredients: []string{"Rice flour", "Sea salt", "Certified gluten-free oats"},
				Allergens:   []string{},
			},
			conditions: []string{profile.ConditionCeliac},
			wantScore:  70,
			wantLevel:  analysis.LevelGood,
		},
		{
			name:       "unknown condition and goal tags are ignored",
			product:    testutil.SugaryProduct,
			conditions: []string{"not_a_condition"},
			goals:      []string{"???"},
			wantScore:  70,
			wantLevel:  analysis.LevelGood,
		},
		{
			name:       "tags are normalized",
			product:    testutil.SugaryProduct,
			conditions: []string{"  DIABETES "},
			wantScore:  40,
			wantLevel:  analysis.LevelModerate,
			wantWarn:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product
			got := engine.Analyze(&p, tt.conditions, tt.goals, subscription.PlanPro)

			if got.Score != tt.wantScore {
				t.Errorf("Analyze() score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Analyze() level = %v, want %v", got.Level, tt.wantLevel)
			}
			if len(got.Warnings) != tt.wantWarn {
				t.Errorf("Analyze() warnings = %v, want %d", got.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestScoringEngine_CeliacOverridesEverything(t *testing.T) {
	engine := NewScoringEngine()
	p := testutil.SugaryProduct
	p.Nutrition.Protein = 30
	p.Nutrition.Fiber = 12

	got := engine.Analyze(&p,
		[]string{profile.ConditionCeliac},
		[]string{profile.GoalGainMuscle, profile.GoalIncreaseFiber},
		subscription.PlanPremium)

	if got.Score != 0 {
		t.Errorf("Analyze() score = %d, want 0 for gluten with celiac", got.Score)
	}
	if got.Level != analysis.LevelPoor {
		t.Errorf("Analyze() level = %v, want poor", got.Level)
	}
	if len(got.Warnings) == 0 || got.Warnings[0] != "CONTAINS GLUTEN - DO NOT CONSUME" {
		t.Errorf("Analyze() warnings = %v, want gluten warning first", got.Warnings)
	}
}

func TestScoringEngine_ScoreBounds(t *testing.T) {
	engine := NewScoringEngine()

	products := []product.Product{
		testutil.SugaryProduct,
		testutil.HealthyProduct,
		{Barcode: "00000000", Nutrition: product.Nutrition{Calories: 900, Sugar: 90, Fat: 90, Sodium: 4000}, Allergens: []string{"milk"}},
		{Barcode: "11111111", Nutrition: product.Nutrition{Protein: 80, Fiber: 40, Calories: 100}},
		{Barcode: "22222222"},
	}
	profiles := [][]string{
		nil,
		profile.Conditions,
		{profile.ConditionDiabetes, profile.ConditionHypertension},
	}
	goalSets := [][]string{
		nil,
		profile.Goals,
		{profile.GoalGainMuscle, profile.GoalIncreaseFiber, profile.GoalBalancedDiet},
	}
	plans := []subscription.Plan{subscription.PlanFree, subscription.PlanPremium, subscription.PlanPro}

	for _, p := range products {
		for _, conds := range profiles {
			for _, goals := range goalSets {
				for _, plan := range plans {
					p := p
					got := engine.Analyze(&p, conds, goals, plan)
					if got.Score < analysis.MinScore || got.Score > analysis.MaxScore {
						t.Fatalf("Analyze(%s, %v, %v, %s) score = %d out of bounds",
							p.Barcode, conds, goals, plan, got.Score)
					}
					if got.Level != analysis.LevelFor(got.Score) {
						t.Fatalf("Analyze() level = %v does not match score %d", got.Level, got.Score)
					}
				}
			}
		}
	}
}

func TestScoringEngine_Deterministic(t *testing.T) {
	engine := NewScoringEngine()
	conds := []string{profile.ConditionHypertension, profile.ConditionHighCholesterol}
	goals := []string{profile.GoalLoseWeight, profile.GoalReduceSugar}

	p1 := testutil.SugaryProduct
	p2 := testutil.SugaryProduct
	first := engine.Analyze(&p1, conds, goals, subscription.PlanPro)
	second := engine.Analyze(&p2, conds, goals, subscription.PlanPro)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze() is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestScoringEngine_AlternativesByPlan(t *testing.T) {
	engine := NewScoringEngine()
	conds := []string{profile.ConditionDiabetes}

	t.Run("free gets none and an upgrade hint", func(t *testing.T) {
		p := testutil.SugaryProduct
		got := engine.Analyze(&p, conds, nil, subscription.PlanFree)
		if got.Alternatives == nil || len(got.Alternatives) != 0 {
			t.Errorf("Analyze() alternatives = %v, want empty list", got.Alternatives)
		}
		if got.Summary != SummaryBasic {
			t.Errorf("Analyze() summary = %q, want %q", got.Summary, SummaryBasic)
		}
		if len(got.UpgradeHints) != 1 || got.UpgradeHints[0] != HintUnlockAlternatives {
			t.Errorf("Analyze() hints = %v", got.UpgradeHints)
		}
	})

	t.Run("premium gets rule alternatives", func(t *testing.T) {
		p := testutil.SugaryProduct
		got := engine.Analyze(&p, conds, nil, subscription.PlanPremium)
		if !reflect.DeepEqual(got.Alternatives, altLowSugar) {
			t.Errorf("Analyze() alternatives = %v, want %v", got.Alternatives, altLowSugar)
		}
		if got.Summary != SummaryComplete {
			t.Errorf("Analyze() summary = %q, want %q", got.Summary, SummaryComplete)
		}
	})

	t.Run("premium falls back to general alternatives", func(t *testing.T) {
		p := testutil.HealthyProduct
		got := engine.Analyze(&p, nil, nil, subscription.PlanPremium)
		if !reflect.DeepEqual(got.Alternatives, generalAlternatives) {
			t.Errorf("Analyze() alternatives = %v, want %v", got.Alternatives, generalAlternatives)
		}
	})

	t.Run("duplicate alternatives are merged", func(t *testing.T) {
		p := testutil.SugaryProduct
		got := engine.Analyze(&p, []string{profile.ConditionDiabetes, profile.ConditionFattyLiver}, nil, subscription.PlanPro)
		if !reflect.DeepEqual(got.Alternatives, altLowSugar) {
			t.Errorf("Analyze() alternatives = %v, want %v", got.Alternatives, altLowSugar)
		}
	})
}

func TestScoringEngine_Breakdown(t *testing.T) {
	engine := NewScoringEngine()
	p := testutil.SugaryProduct
	got := engine.Analyze(&p, nil, nil, subscription.PlanPro)

	if len(got.Breakdown) != len(nutrientBands) {
		t.Fatalf("Analyze() breakdown has %d lines, want %d", len(got.Breakdown), len(nutrientBands))
	}
	for _, line := range got.Breakdown {
		if line.Nutrient == "sugar" && line.Rating != analysis.RatingHigh {
			t.Errorf("sugar rating = %s, want high", line.Rating)
		}
	}
}
