package output

import (
	"errors"
	"sort"

	"github.com/rpgo/fire-engine/internal/domain"
)

// errNoYearlyData is returned when a simulation was run without yearly rows.
var errNoYearlyData = errors.New("simulation has no yearly data; rerun with yearly data enabled")

// CSVDetailedExporter writes the raw yearly rows: the projection per
// scenario/year, or every simulated year of every cycle.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(r *Report) ([]byte, error) {
	switch {
	case r.Projection != nil:
		return writeCSV(projectionRowHeader, projectionRows(r.Projection))
	case r.Simulation != nil:
		rows := cycleYearRows(r.Simulation)
		if len(rows) == 0 && len(r.Simulation.Simulations) > 0 {
			return nil, errNoYearlyData
		}
		return writeCSV(cycleYearHeader, rows)
	default:
		return nil, ErrEmptyReport
	}
}

var projectionRowHeader = []string{
	"Scenario", "YearIndex", "Year", "Age", "Status", "PortfolioStart", "Contributions",
	"Growth", "Withdrawal", "StatePension", "NetWithdrawal", "AnnualSpend", "PortfolioEnd",
}

func projectionRows(b *domain.ProjectionBundle) [][]string {
	scenarios := append([]domain.ScenarioProjection(nil), b.Scenarios...)
	sort.SliceStable(scenarios, func(i, j int) bool { return scenarios[i].Scenario.Name < scenarios[j].Scenario.Name })

	var rows [][]string
	for _, sp := range scenarios {
		for _, y := range sp.Projection.Rows {
			rows = append(rows, []string{
				sp.Scenario.Name,
				intToString(y.YearIndex),
				intToString(y.Year),
				intToString(y.Age),
				y.Status.String(),
				csvFloat(y.PortfolioStart),
				csvFloat(y.Contributions),
				csvFloat(y.Growth),
				csvFloat(y.Withdrawal),
				csvFloat(y.StatePension),
				csvFloat(y.NetWithdrawal),
				csvFloat(y.AnnualSpendInflated),
				csvFloat(y.PortfolioEnd),
			})
		}
	}
	return rows
}

var cycleYearHeader = []string{
	"StartYear", "Year", "YearIndex", "Age", "PortfolioStart", "Withdrawal", "ExtraIncome",
	"NetWithdrawal", "StockReturn", "BondReturn", "BlendedReturn", "CumulativeInflation", "PortfolioEnd",
}

func cycleYearRows(resp *domain.SimulationResponse) [][]string {
	var rows [][]string
	for _, c := range resp.Simulations {
		for _, y := range c.YearlyData {
			rows = append(rows, []string{
				intToString(c.StartYear),
				intToString(y.Year),
				intToString(y.YearIndex),
				intToString(y.Age),
				csvFloat(y.PortfolioStart),
				csvFloat(y.Withdrawal),
				csvFloat(y.ExtraIncome),
				csvFloat(y.NetWithdrawal),
				csvRate(y.StockReturn),
				csvRate(y.BondReturn),
				csvRate(y.BlendedReturn),
				csvRate(y.CumulativeInflation),
				csvFloat(y.PortfolioEnd),
			})
		}
	}
	return rows
}
