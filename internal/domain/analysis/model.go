package analysis

import "time"

// Level is the coarse health rating derived from a score
type Level string

// Levels
const (
	LevelGood     Level = "good"
	LevelModerate Level = "moderate"
	LevelPoor     Level = "poor"
)

// Score bounds
const (
	BaseScore = 70
	MinScore  = 0
	MaxScore  = 100
)

// LevelFor maps a clamped score to its level
func LevelFor(score int) Level {
	switch {
	case score >= 70:
		return LevelGood
	case score >= 40:
		return LevelModerate
	default:
		return LevelPoor
	}
}

// Rating of a single nutrient per 100 g
const (
	RatingLow    = "low"
	RatingMedium = "medium"
	RatingHigh   = "high"
)

// NutrientLine is one row of the per-nutrient breakdown
type NutrientLine struct {
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Rating   string  `json:"rating"`
}

// ConditionNote explains how a declared condition or goal affected the score
type ConditionNote struct {
	Tag       string `json:"tag"`
	Triggered bool   `json:"triggered"`
	Delta     int    `json:"delta"`
	Note      string `json:"note"`
}

// Result is the outcome of scoring one product for one profile and plan
type Result struct {
	Score           int             `json:"score"`
	Level           Level           `json:"level"`
	Warnings        []string        `json:"warnings"`
	Recommendations []string        `json:"recommendations"`
	Alternatives    []string        `json:"alternatives"`
	Summary         string          `json:"summary"`
	UpgradeHints    []string        `json:"upgrade_hints,omitempty"`
	Breakdown       []NutrientLine  `json:"breakdown,omitempty"`
	ConditionNotes  []ConditionNote `json:"condition_notes,omitempty"`
	AnalyzedAt      *time.Time      `json:"analyzed_at,omitempty"`
}

// Clone returns a deep copy of r
func (r Result) Clone() Result {
	out := r
	out.Warnings = cloneStrings(r.Warnings)
	out.Recommendations = cloneStrings(r.Recommendations)
	out.Alternatives = cloneStrings(r.Alternatives)
	out.UpgradeHints = cloneStrings(r.UpgradeHints)
	if r.Breakdown != nil {
		out.Breakdown = append([]NutrientLine(nil), r.Breakdown...)
	}
	if r.ConditionNotes != nil {
		out.ConditionNotes = append([]ConditionNote(nil), r.ConditionNotes...)
	}
	if r.AnalyzedAt != nil {
		t := *r.AnalyzedAt
		out.AnalyzedAt = &t
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
