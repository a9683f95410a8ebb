package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/fire-engine/internal/domain"
)

// CSVSummarizer writes one row per historical cycle, or one row per scenario
// when the report has no simulation.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	switch {
	case r.Simulation != nil:
		return writeCSV(cycleSummaryHeader, cycleSummaryRows(r.Simulation))
	case r.Projection != nil:
		return writeCSV(scenarioSummaryHeader, scenarioSummaryRows(r.Projection))
	case len(r.Targets) > 0:
		rows := make([][]string, 0, len(r.Targets))
		for _, t := range sortedTargets(r.Targets) {
			rows = append(rows, targetRow(t))
		}
		return writeCSV(targetHeader, rows)
	default:
		return nil, ErrEmptyReport
	}
}

var cycleSummaryHeader = []string{
	"StartYear", "EndYear", "Success", "FailureYear", "YearsLasted",
	"FinalPortfolio", "FinalPortfolioReal", "MinPortfolio", "MinPortfolioYear",
	"TotalWithdrawals", "AverageWithdrawal",
}

func cycleSummaryRows(resp *domain.SimulationResponse) [][]string {
	rows := make([][]string, 0, len(resp.Simulations))
	for _, c := range resp.Simulations {
		rows = append(rows, []string{
			intToString(c.StartYear),
			intToString(c.EndYear),
			boolToString(c.Success),
			csvAge(c.FailureYear),
			intToString(c.YearsLasted),
			csvFloat(c.FinalPortfolioValue),
			csvFloat(c.FinalPortfolioReal),
			csvFloat(c.MinPortfolioValue),
			intToString(c.MinPortfolioYear),
			csvFloat(c.TotalWithdrawals),
			csvFloat(c.AverageWithdrawal),
		})
	}
	return rows
}

var targetHeader = []string{
	"Scenario", "TargetAmount", "Shortfall", "CurrentInvestmentIncome",
	"MonthsToTarget", "YearsToTarget", "TargetAge", "TargetDate", "Reachable",
}

func targetRow(t domain.TargetResult) []string {
	return []string{
		t.Scenario,
		csvFloat(t.TargetAmount.Float()),
		csvFloat(t.Shortfall.Float()),
		csvFloat(t.CurrentInvestmentIncome),
		csvFloat(t.MonthsToTarget.Float()),
		csvFloat(t.YearsToTarget.Float()),
		csvFloat(t.TargetAge.Float()),
		csvDate(t.TargetDate),
		boolToString(t.Reachable),
	}
}

var scenarioSummaryHeader = append(append([]string(nil), targetHeader...),
	"FiAge", "CoastFiAge", "CoastFiNumber", "DepletedAge", "FinalPortfolio", "SuccessRate")

func scenarioSummaryRows(b *domain.ProjectionBundle) [][]string {
	scenarios := append([]domain.ScenarioProjection(nil), b.Scenarios...)
	sort.SliceStable(scenarios, func(i, j int) bool { return scenarios[i].Scenario.Name < scenarios[j].Scenario.Name })

	rows := make([][]string, 0, len(scenarios))
	for _, sp := range scenarios {
		p := sp.Projection
		final := ""
		if last, ok := p.Final(); ok {
			final = csvFloat(last.PortfolioEnd)
		}
		row := append(targetRow(sp.Target),
			csvAge(p.FiAge),
			csvAge(p.CoastFiAge),
			csvFloat(p.CoastFiNumber.Float()),
			csvAge(p.DepletedAge),
			final,
			csvFloat(p.SuccessRate),
		)
		rows = append(rows, row)
	}
	return rows
}

func sortedTargets(targets []domain.TargetResult) []domain.TargetResult {
	out := append([]domain.TargetResult(nil), targets...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Scenario < out[j].Scenario })
	return out
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
