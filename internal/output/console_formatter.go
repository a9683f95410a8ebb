package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/rpgo/fire-engine/pkg/money"
)

// ConsoleFormatter provides a concise plain-text summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	if r.Empty() {
		return nil, ErrEmptyReport
	}
	var buf bytes.Buffer

	if targets := targetsOf(r); len(targets) > 0 {
		fmt.Fprintln(&buf, "FIRE TARGET SUMMARY")
		fmt.Fprintln(&buf, "================================")
		for _, t := range sortedTargets(targets) {
			fmt.Fprintf(&buf, "%s: target=%s shortfall=%s %s\n",
				t.Scenario, formatFigure(t.TargetAmount), formatFigure(t.Shortfall), reachText(t))
		}
		if m := NextMilestone(targets); m.ScenarioName != "" {
			fmt.Fprintln(&buf)
			fmt.Fprintf(&buf, "Next milestone: %s in %s years (age %s)\n", m.ScenarioName, m.YearsToTarget, m.TargetAge)
		}
	}

	if r.Projection != nil {
		fmt.Fprintln(&buf)
		for _, sp := range r.Projection.Scenarios {
			p := sp.Projection
			final := "-"
			if last, ok := p.Final(); ok {
				final = formatAmount(last.PortfolioEnd)
			}
			fmt.Fprintf(&buf, "%s: FI age=%s coast FI age=%s depleted=%s final=%s\n",
				sp.Scenario.Name, formatAge(p.FiAge), formatAge(p.CoastFiAge), formatAge(p.DepletedAge), final)
		}
	}

	if s := r.Simulation; s != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "HISTORICAL BACKTEST")
		fmt.Fprintln(&buf, "================================")
		fmt.Fprintf(&buf, "Cycles: %d  Succeeded: %d  Failed: %d  Success rate: %s\n",
			s.TotalSimulations, s.SuccessfulSimulations, s.FailedSimulations, formatPercent(s.SuccessRate))
		fmt.Fprintf(&buf, "Median final portfolio: %s  Mean: %s\n",
			formatAmount(s.MedianFinalPortfolio), formatAmount(s.MeanFinalPortfolio))
		if s.WorstCase != nil {
			fmt.Fprintf(&buf, "Worst start year: %d (%s)\n", s.WorstCase.StartYear, caseText(s.WorstCase))
		}
	}

	if h := r.History; h != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "HISTORICAL DATA %d-%d\n", h.FirstYear, h.LastYear)
		fmt.Fprintf(&buf, "Stocks mean %s  Bonds mean %s  Inflation mean %s\n",
			statPercent(h.StockReturn.Mean), statPercent(h.BondReturn.Mean), statPercent(h.Inflation.Mean))
	}
	return buf.Bytes(), nil
}

func reachText(t domain.TargetResult) string {
	if !t.Reachable {
		return money.Unreachable
	}
	return fmt.Sprintf("in %s months (age %s, %s)", formatMonths(t.MonthsToTarget), formatMonths(t.TargetAge), formatDate(t.TargetDate))
}

func caseText(c *domain.CaseSummary) string {
	if c.Success {
		return fmt.Sprintf("survived, ended with %s", formatAmount(c.FinalPortfolioValue))
	}
	return fmt.Sprintf("ran out after %d years", c.YearsLasted)
}
