package subscription

import (
	"strings"
	"time"
)

// Plan is a subscription tier
type Plan string

// Plans
const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
	PlanPro     Plan = "pro"
)

// ParsePlan normalizes a plan name. Unknown names fall back to free.
func ParsePlan(s string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanPremium:
		return PlanPremium
	case PlanPro:
		return PlanPro
	default:
		return PlanFree
	}
}

// Valid reports whether p is one of the known plans
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPremium || p == PlanPro
}

// Rank orders plans so that higher tiers compare greater.
func (p Plan) Rank() int {
	switch p {
	case PlanPremium:
		return 1
	case PlanPro:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether p includes everything min does.
func (p Plan) AtLeast(min Plan) bool {
	return p.Rank() >= min.Rank()
}

// BillingCycle is how often a paid plan is billed
type BillingCycle string

// Billing cycles
const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Status values
const (
	StatusActive = "active"
)

// Subscription is the stored subscription record. A user without a record
// is on the free plan.
type Subscription struct {
	Plan         Plan         `json:"plan"`
	BillingCycle BillingCycle `json:"billing_cycle,omitempty"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	Status       string       `json:"status"`
}

// Free is the implicit subscription of every user without a record.
func Free() Subscription {
	return Subscription{Plan: PlanFree, Status: StatusActive}
}

// AnalysisDepth describes how much of an analysis a plan sees
type AnalysisDepth string

// Analysis depths
const (
	DepthBasic    AnalysisDepth = "basic"
	DepthComplete AnalysisDepth = "complete"
	DepthExpert   AnalysisDepth = "complete_with_breakdown"
)

// HistoryAccess describes how much scan history a plan sees
type HistoryAccess string

// History access levels
const (
	HistoryNone       HistoryAccess = "none"
	HistoryRecent     HistoryAccess = "recent"
	HistoryFullExport HistoryAccess = "full_export"
)

// Features is the per-plan feature table shared by every surface.
type Features struct {
	Plan          Plan          `json:"plan"`
	DailyScans    int           `json:"daily_scans"`
	Unlimited     bool          `json:"unlimited"`
	AnalysisDepth AnalysisDepth `json:"analysis_depth"`
	Alternatives  bool          `json:"alternatives"`
	History       HistoryAccess `json:"history"`
	HistoryLimit  int           `json:"history_limit"`
	Ads           bool          `json:"ads"`
	Support       string        `json:"support"`
	Export        bool          `json:"export"`
	AIInsights    bool          `json:"ai_insights"`
}

// PlanInfo is a catalogue entry
type PlanInfo struct {
	Plan         Plan     `json:"plan"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthly_price"`
	YearlyPrice  float64  `json:"yearly_price"`
	Currency     string   `json:"currency"`
	Features     Features `json:"features"`
	Highlights   []string `json:"highlights"`
}
