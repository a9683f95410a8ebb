package output

import (
	"fmt"

	"github.com/rpgo/fire-engine/internal/domain"
)

// DefaultAssumptions lists the modelling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Target dates compound monthly at the scenario's expected return",
	"Lifecycle projections compound annually; spending grows with the scenario's inflation rate",
	"Historical cycles withdraw at the start of each year, then apply that year's blended return",
	"Constant-dollar withdrawals rise with historical inflation",
}

// GenerateAssumptions describes the inputs behind a report, followed by the defaults.
func GenerateAssumptions(r *Report) []string {
	var out []string
	if r.Projection != nil {
		for _, sp := range r.Projection.Scenarios {
			s := sp.Scenario
			out = append(out, fmt.Sprintf("%s: spend %s at %.1f%% withdrawal, %.1f%% return, %.1f%% inflation",
				s.Name, formatAmount(s.AnnualSpend), s.WithdrawalRate, s.ExpectedReturn, s.InflationRate))
		}
	}
	if r.Simulation != nil {
		out = append(out, simulationAssumption(r.Simulation.Config))
	}
	return append(out, DefaultAssumptions...)
}

func simulationAssumption(c domain.SimulationConfig) string {
	withdrawal := fmt.Sprintf("%.2f%% initial withdrawal", c.InitialWithdrawalRate)
	if c.WithdrawalStrategy == domain.ConstantDollar && c.FixedWithdrawal != nil {
		withdrawal = formatAmount(*c.FixedWithdrawal) + " fixed withdrawal"
	}
	return fmt.Sprintf("Historical backtest: %d years, %.0f/%.0f stocks/bonds, %s (%s) from %s",
		c.RetirementDuration, c.StockAllocation, c.BondAllocation, withdrawal,
		c.WithdrawalStrategy, formatAmount(c.InitialPortfolio))
}
