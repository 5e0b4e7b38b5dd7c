package services

import (
	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
)

// Thresholds per 100 g
const (
	highSugarG     = 15.0
	goalSugarG     = 10.0
	highFatG       = 17.5
	highCaloriesKc = 400.0
	balancedKcal   = 250.0
	goodProteinG   = 10.0
	highFiberG     = 6.0
	lowFiberG      = 3.0
)

// Summaries
const (
	SummaryBasic    = "Basic analysis"
	SummaryComplete = "Complete personalized analysis"
)

// Upgrade hints
const (
	HintUnlockAlternatives = "Upgrade to Premium to unlock healthier alternatives"
	HintUnlockBreakdown    = "Upgrade to Pro for the full nutrient breakdown"
)

type ruleKind int

const (
	kindCondition ruleKind = iota
	kindGoal
)

// scoringRule is one row of the rule table. A rule applies when the
// profile declares any of its tags.
type scoringRule struct {
	tags         []string
	kind         ruleKind
	trigger      func(p *product.Product) bool
	delta        int
	message      string
	alternatives []string
	// forceZero rules override the score after everything else
	forceZero bool
	// advice is added as a recommendation, with no score effect, when the
	// rule does not trigger but adviceWhen does
	adviceWhen func(p *product.Product) bool
	advice     string
}

var (
	altLowSugar   = []string{"Sugar-free whole grain crackers", "Plain yogurt with fresh fruit"}
	altLowSodium  = []string{"Unsalted nuts", "Low-sodium rice cakes"}
	altGlutenFree = []string{"Certified gluten-free crackers", "Rice or corn based snacks"}
	altLowFat     = []string{"Baked instead of fried snacks", "Fresh fruit"}
	altNoLactose  = []string{"Lactose-free dairy", "Plant-based yogurt"}
	altLowCal     = []string{"Homemade granola bars", "Air-popped popcorn"}

	generalAlternatives = []string{
		"Whole grain cookies with no added sugar",
		"Homemade granola bars",
		"Natural unsalted nuts",
	}
)

func highSugar(p *product.Product) bool  { return p.Nutrition.Sugar > highSugarG }
func highSodium(p *product.Product) bool { return p.Nutrition.HighSodium() }
func highFat(p *product.Product) bool    { return p.Nutrition.Fat > highFatG }

// The order of this table fixes the order of warnings and recommendations.
var scoringRules = []scoringRule{
	{
		tags: []string{profile.ConditionDiabetes}, kind: kindCondition,
		trigger: highSugar, delta: -30,
		message:      "High sugar content - not recommended with diabetes",
		alternatives: altLowSugar,
	},
	{
		tags: []string{profile.ConditionHypertension}, kind: kindCondition,
		trigger: highSodium, delta: -25,
		message:      "High sodium content - avoid with hypertension",
		alternatives: altLowSodium,
	},
	{
		tags: []string{profile.ConditionCeliac}, kind: kindCondition,
		trigger:      func(p *product.Product) bool { return p.AllergenMentions("gluten") },
		forceZero:    true,
		message:      "CONTAINS GLUTEN - DO NOT CONSUME",
		alternatives: altGlutenFree,
	},
	{
		tags: []string{profile.ConditionHighCholesterol}, kind: kindCondition,
		trigger: highFat, delta: -20,
		message:      "High fat content - limit with high cholesterol",
		alternatives: altLowFat,
	},
	{
		tags: []string{profile.ConditionNoGallbladder}, kind: kindCondition,
		trigger: highFat, delta: -15,
		message:      "High fat content - may be hard to digest without a gallbladder",
		alternatives: altLowFat,
	},
	{
		tags: []string{profile.ConditionLactoseIntolerance}, kind: kindCondition,
		trigger: func(p *product.Product) bool {
			return p.AllergenMentions("milk", "lactose", "leche", "lactosa")
		},
		delta:        -40,
		message:      "Contains milk or lactose - avoid with lactose intolerance",
		alternatives: altNoLactose,
	},
	{
		tags: []string{profile.ConditionFattyLiver}, kind: kindCondition,
		trigger: highSugar, delta: -15,
		message:      "High sugar content - limit with fatty liver",
		alternatives: altLowSugar,
	},
	{
		tags: []string{profile.ConditionKidneyInsufficiency}, kind: kindCondition,
		trigger: highSodium, delta: -20,
		message:      "High sodium content - limit with kidney insufficiency",
		alternatives: altLowSodium,
	},
	{
		tags: []string{profile.GoalLoseWeight, profile.GoalLoseWeightAlt}, kind: kindGoal,
		trigger:      func(p *product.Product) bool { return p.Nutrition.Calories > highCaloriesKc },
		delta:        -20,
		message:      "High in calories - consume in moderation",
		alternatives: altLowCal,
	},
	{
		tags: []string{profile.GoalGainMuscle}, kind: kindGoal,
		trigger: func(p *product.Product) bool { return p.Nutrition.Protein > goodProteinG },
		delta:   15,
		message: "Good protein content for muscle gain",
	},
	{
		tags: []string{profile.GoalReduceSugar}, kind: kindGoal,
		trigger:      func(p *product.Product) bool { return p.Nutrition.Sugar > goalSugarG },
		delta:        -10,
		message:      "Sugar is above your reduction goal - look for a lower-sugar option",
		alternatives: altLowSugar,
	},
	{
		tags: []string{profile.GoalReduceSodium}, kind: kindGoal,
		trigger: highSodium, delta: -10,
		message:      "Sodium is above your reduction goal - look for a lower-sodium option",
		alternatives: altLowSodium,
	},
	{
		tags: []string{profile.GoalIncreaseFiber}, kind: kindGoal,
		trigger:    func(p *product.Product) bool { return p.Nutrition.Fiber >= highFiberG },
		delta:      10,
		message:    "Good source of fiber",
		adviceWhen: func(p *product.Product) bool { return p.Nutrition.Fiber < lowFiberG },
		advice:     "Low in fiber - pair it with fruit, vegetables or whole grains",
	},
	{
		tags: []string{profile.GoalBalancedDiet}, kind: kindGoal,
		trigger: func(p *product.Product) bool {
			n := p.Nutrition
			return n.Calories <= balancedKcal && n.Sugar <= goalSugarG && n.Fat <= highFatG
		},
		delta:   5,
		message: "Fits a balanced diet",
	},
}

// ScoringEngine implements analysis.Engine with the rule table above
type ScoringEngine struct{}

// NewScoringEngine creates the scoring engine
func NewScoringEngine() analysis.Engine {
	return ScoringEngine{}
}

// Analyze scores a product. It is pure: no clock, no I/O, and the output
// depends only on the arguments.
func (ScoringEngine) Analyze(p *product.Product, conditions, goals []string, plan subscription.Plan) analysis.Result {
	declared := make(map[string]bool)
	for _, t := range profile.NormalizeTags(conditions) {
		declared[t] = true
	}
	for _, t := range profile.NormalizeTags(goals) {
		declared[t] = true
	}

	score := analysis.BaseScore
	forceZero := false
	warnings := []string{}
	recommendations := []string{}
	var contributed []string
	var notes []analysis.ConditionNote

	for _, rule := range scoringRules {
		tag, ok := firstDeclared(rule.tags, declared)
		if !ok {
			continue
		}

		note := analysis.ConditionNote{Tag: tag}
		switch {
		case rule.trigger(p):
			note.Triggered = true
			note.Note = rule.message
			if rule.forceZero {
				forceZero = true
			} else {
				score += rule.delta
				note.Delta = rule.delta
			}
			if rule.kind == kindCondition {
				warnings = append(warnings, rule.message)
			} else {
				recommendations = append(recommendations, rule.message)
			}
			contributed = append(contributed, rule.alternatives...)
		case rule.adviceWhen != nil && rule.adviceWhen(p):
			note.Note = rule.advice
			recommendations = append(recommendations, rule.advice)
		default:
			note.Note = "No concern for this product"
		}
		notes = append(notes, note)
	}

	if forceZero {
		score = analysis.MinScore
	}
	score = clamp(score, analysis.MinScore, analysis.MaxScore)

	result := analysis.Result{
		Score:           score,
		Level:           analysis.LevelFor(score),
		Warnings:        warnings,
		Recommendations: recommendations,
		Breakdown:       breakdown(p.Nutrition),
		ConditionNotes:  notes,
	}

	switch plan {
	case subscription.PlanPremium, subscription.PlanPro:
		alts := dedupe(contributed)
		if len(alts) == 0 {
			alts = append([]string(nil), generalAlternatives...)
		}
		result.Alternatives = alts
		result.Summary = SummaryComplete
		if plan == subscription.PlanPremium {
			result.UpgradeHints = []string{HintUnlockBreakdown}
		}
	default:
		result.Alternatives = []string{}
		result.Summary = SummaryBasic
		result.UpgradeHints = []string{HintUnlockAlternatives}
	}

	return result
}

func firstDeclared(tags []string, declared map[string]bool) (string, bool) {
	for _, t := range tags {
		if declared[t] {
			return t, true
		}
	}
	return "", false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// nutrient traffic-light bounds per 100 g: at or under low is low, over
// high is high.
type nutrientBand struct {
	name      string
	unit      string
	low, high float64
	value     func(n product.Nutrition) float64
}

var nutrientBands = []nutrientBand{
	{"calories", "kcal", 150, highCaloriesKc, func(n product.Nutrition) float64 { return n.Calories }},
	{"protein", "g", 3, goodProteinG, func(n product.Nutrition) float64 { return n.Protein }},
	{"carbs", "g", 15, 45, func(n product.Nutrition) float64 { return n.Carbs }},
	{"fat", "g", 3, highFatG, func(n product.Nutrition) float64 { return n.Fat }},
	{"fiber", "g", lowFiberG, highFiberG, func(n product.Nutrition) float64 { return n.Fiber }},
	{"sugar", "g", 5, 22.5, func(n product.Nutrition) float64 { return n.Sugar }},
	{"sodium", "mg", 120, 600, func(n product.Nutrition) float64 { return n.Sodium }},
}

func breakdown(n product.Nutrition) []analysis.NutrientLine {
	lines := make([]analysis.NutrientLine, 0, len(nutrientBands)+1)
	for _, b := range nutrientBands {
		v := b.value(n)
		lines = append(lines, analysis.NutrientLine{
			Nutrient: b.name,
			Value:    v,
			Unit:     b.unit,
			Rating:   rate(v, b.low, b.high),
		})
	}
	if n.Salt > 0 {
		lines = append(lines, analysis.NutrientLine{
			Nutrient: "salt", Value: n.Salt, Unit: "g", Rating: rate(n.Salt, 0.3, 1.5),
		})
	}
	return lines
}

func rate(v, low, high float64) string {
	switch {
	case v <= low:
		return analysis.RatingLow
	case v > high:
		return analysis.RatingHigh
	default:
		return analysis.RatingMedium
	}
}
