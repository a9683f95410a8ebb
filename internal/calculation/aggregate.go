package calculation

import (
	"github.com/rpgo/fire-engine/internal/domain"
)

// Aggregate reduces a batch of cycles into the simulation response. Final
// portfolio and withdrawal percentiles cover successful cycles only; failures
// still count towards the totals and the success rate.
func Aggregate(cfg domain.SimulationConfig, cycles []domain.CycleResult) *domain.SimulationResponse {
	resp := &domain.SimulationResponse{
		Config:           cfg,
		Simulations:      cycles,
		TotalSimulations: len(cycles),
		Failures:         []domain.FailureSummary{},
	}

	var finals, withdrawals []float64
	for _, c := range cycles {
		if c.Success {
			resp.SuccessfulSimulations++
			finals = append(finals, c.FinalPortfolioValue)
			withdrawals = append(withdrawals, c.AverageWithdrawal)
			continue
		}
		resp.FailedSimulations++
		fs := domain.FailureSummary{StartYear: c.StartYear, YearsLasted: c.YearsLasted}
		if c.FailureYear != nil {
			fs.FailureYear = *c.FailureYear
		}
		resp.Failures = append(resp.Failures, fs)
	}
	if resp.TotalSimulations > 0 {
		resp.SuccessRate = float64(resp.SuccessfulSimulations) / float64(resp.TotalSimulations) * 100
	}

	resp.FinalPortfolioPercentiles = PercentileTable(finals)
	resp.MedianFinalPortfolio = resp.FinalPortfolioPercentiles.P50
	resp.MeanFinalPortfolio = mean(finals)
	resp.WithdrawalPercentiles = PercentileTable(withdrawals)
	resp.MedianAnnualWithdrawal = resp.WithdrawalPercentiles.P50

	resp.WorstCase, resp.BestCase, resp.SmallestFinalPortfolio = notableCases(cycles)
	resp.PercentilesByYear = percentilesByYear(cycles, cfg.RetirementDuration)
	return resp
}

// notableCases picks the worst (fewest years, then lowest final), best (highest
// final) and smallest successful non-zero final cycle. Ties keep the earliest start year.
func notableCases(cycles []domain.CycleResult) (worst, best, smallest *domain.CaseSummary) {
	var w, b, s *domain.CycleResult
	for i := range cycles {
		c := &cycles[i]
		if w == nil || c.YearsLasted < w.YearsLasted ||
			(c.YearsLasted == w.YearsLasted && c.FinalPortfolioValue < w.FinalPortfolioValue) {
			w = c
		}
		if b == nil || c.FinalPortfolioValue > b.FinalPortfolioValue {
			b = c
		}
		if c.Success && c.FinalPortfolioValue > 0 && (s == nil || c.FinalPortfolioValue < s.FinalPortfolioValue) {
			s = c
		}
	}
	if w != nil {
		worst = w.Summary()
	}
	if b != nil {
		best = b.Summary()
	}
	if s != nil {
		smallest = s.Summary()
	}
	return worst, best, smallest
}

// percentilesByYear builds the fan-chart series. Each index only includes
// cycles that produced a row at that index; a failed cycle contributes its
// final zero row and nothing after it.
func percentilesByYear(cycles []domain.CycleResult, duration int) []domain.YearPercentiles {
	out := make([]domain.YearPercentiles, 0, duration)
	for idx := 0; idx < duration; idx++ {
		var values []float64
		for _, c := range cycles {
			if len(c.YearlyData) > idx {
				values = append(values, c.YearlyData[idx].PortfolioEnd)
			}
		}
		if len(values) == 0 {
			break
		}
		out = append(out, domain.YearPercentiles{
			YearIndex:        idx,
			Survivors:        len(values),
			PercentileRanges: PercentileTable(values),
		})
	}
	return out
}
