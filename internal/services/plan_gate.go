package services

import (
	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
)

// PlanGate decides what each plan may see. Every method returns copies
// and never mutates its input.
type PlanGate struct {
	limits         quota.Limits
	premiumVisible int
	historyCap     int
}

// NewPlanGate creates a plan gate
func NewPlanGate(limits quota.Limits, premiumVisible, historyCap int) *PlanGate {
	if premiumVisible <= 0 {
		premiumVisible = history.DefaultPremiumVisible
	}
	if historyCap <= 0 {
		historyCap = history.DefaultCap
	}
	return &PlanGate{limits: limits, premiumVisible: premiumVisible, historyCap: historyCap}
}

// Features returns the feature table of a plan
func (g *PlanGate) Features(plan subscription.Plan) subscription.Features {
	switch plan {
	case subscription.PlanPro:
		return subscription.Features{
			Plan:          plan,
			Unlimited:     true,
			AnalysisDepth: subscription.DepthExpert,
			Alternatives:  true,
			History:       subscription.HistoryFullExport,
			HistoryLimit:  g.historyCap,
			Support:       "priority",
			Export:        true,
			AIInsights:    true,
		}
	case subscription.PlanPremium:
		return subscription.Features{
			Plan:          plan,
			DailyScans:    g.limits.Premium,
			AnalysisDepth: subscription.DepthComplete,
			Alternatives:  true,
			History:       subscription.HistoryRecent,
			HistoryLimit:  g.premiumVisible,
			Support:       "email",
		}
	default:
		return subscription.Features{
			Plan:          subscription.PlanFree,
			DailyScans:    g.limits.Free,
			AnalysisDepth: subscription.DepthBasic,
			History:       subscription.HistoryNone,
			Ads:           true,
			Support:       "community",
		}
	}
}

// FilterHistory returns the entries a plan may see: nothing for free, the
// most recent few for premium and everything for pro.
func (g *PlanGate) FilterHistory(entries []history.Entry, plan subscription.Plan) []history.Entry {
	var n int
	switch plan {
	case subscription.PlanPro:
		n = len(entries)
	case subscription.PlanPremium:
		n = min(g.premiumVisible, len(entries))
	default:
		return []history.Entry{}
	}

	out := make([]history.Entry, n)
	for i := 0; i < n; i++ {
		e := entries[i]
		e.Analysis = entries[i].Analysis.Clone()
		out[i] = e
	}
	return out
}

// CanViewEntry reports whether the entry with id is visible to the plan
func (g *PlanGate) CanViewEntry(entries []history.Entry, id string, plan subscription.Plan) bool {
	for _, e := range g.FilterHistory(entries, plan) {
		if e.ID == id {
			return true
		}
	}
	return false
}

// FilterAnalysisDepth strips the parts of a result the plan does not
// include. Free keeps score, level, warnings, recommendations, summary and
// upgrade hints. Premium adds alternatives. Pro adds the breakdown and
// condition notes.
func (g *PlanGate) FilterAnalysisDepth(r analysis.Result, plan subscription.Plan) analysis.Result {
	out := r.Clone()
	switch plan {
	case subscription.PlanPro:
	case subscription.PlanPremium:
		out.Breakdown = nil
		out.ConditionNotes = nil
	default:
		out.Alternatives = []string{}
		out.Breakdown = nil
		out.ConditionNotes = nil
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	if out.Alternatives == nil {
		out.Alternatives = []string{}
	}
	return out
}
