package output

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-engine/internal/domain"
)

// Milestone is the next target the household reaches.
type Milestone struct {
	ScenarioName  string
	TargetAmount  decimal.Decimal
	Shortfall     decimal.Decimal
	YearsToTarget decimal.Decimal
	TargetAge     decimal.Decimal
}

// NextMilestone picks the reachable scenario with the fewest months to target.
// Ties go to the larger target. The zero Milestone means nothing is reachable.
func NextMilestone(targets []domain.TargetResult) Milestone {
	reachable := make([]domain.TargetResult, 0, len(targets))
	for _, t := range targets {
		if t.Reachable {
			reachable = append(reachable, t)
		}
	}
	if len(reachable) == 0 {
		return Milestone{}
	}
	sort.SliceStable(reachable, func(i, j int) bool {
		if reachable[i].MonthsToTarget != reachable[j].MonthsToTarget {
			return reachable[i].MonthsToTarget < reachable[j].MonthsToTarget
		}
		return reachable[i].TargetAmount > reachable[j].TargetAmount
	})
	best := reachable[0]
	return Milestone{
		ScenarioName:  best.Scenario,
		TargetAmount:  decimal.NewFromFloat(best.TargetAmount.Float()).Round(2),
		Shortfall:     decimal.NewFromFloat(best.Shortfall.Float()).Round(2),
		YearsToTarget: decimal.NewFromFloat(best.YearsToTarget.Float()).Round(1),
		TargetAge:     decimal.NewFromFloat(best.TargetAge.Float()).Round(1),
	}
}

// targetsOf returns the target results of a report, from either section.
func targetsOf(r *Report) []domain.TargetResult {
	if len(r.Targets) > 0 {
		return r.Targets
	}
	if r.Projection == nil {
		return nil
	}
	out := make([]domain.TargetResult, 0, len(r.Projection.Scenarios))
	for _, sp := range r.Projection.Scenarios {
		out = append(out, sp.Target)
	}
	return out
}
