package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed, styled console report.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(r *Report) ([]byte, error) {
	if r.Empty() {
		return nil, ErrEmptyReport
	}
	var buf bytes.Buffer

	fmt.Fprintln(&buf, renderTitle("FIRE PROJECTION & HISTORICAL BACKTEST"))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, headerStyle.Render("KEY ASSUMPTIONS"))
	assumptions := r.Assumptions
	if len(assumptions) == 0 {
		assumptions = GenerateAssumptions(r)
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	if targets := targetsOf(r); len(targets) > 0 {
		writeTargets(&buf, targets)
	}
	if r.Projection != nil {
		for _, sp := range r.Projection.Scenarios {
			writeScenario(&buf, sp)
		}
	}
	if r.Simulation != nil {
		writeSimulation(&buf, r.Simulation)
	}
	if r.History != nil {
		writeHistory(&buf, r.History)
	}
	return buf.Bytes(), nil
}

func writeTargets(buf *bytes.Buffer, targets []domain.TargetResult) {
	rows := make([][]string, 0, len(targets))
	for _, t := range sortedTargets(targets) {
		reach := badStyle.Render("unreachable")
		if t.Reachable {
			reach = goodStyle.Render(formatDate(t.TargetDate))
		}
		rows = append(rows, []string{
			t.Scenario,
			formatFigure(t.TargetAmount),
			formatFigure(t.Shortfall),
			formatAmount(t.CurrentInvestmentIncome),
			formatMonths(t.YearsToTarget),
			formatMonths(t.TargetAge),
			reach,
		})
	}
	fmt.Fprint(buf, renderTable(table{
		Title:   "FI Targets",
		Headers: []string{"Scenario", "Target", "Shortfall", "Income Now", "Years", "Age", "Date"},
		Rows:    rows,
	}))
	if m := NextMilestone(targets); m.ScenarioName != "" {
		fmt.Fprintf(buf, "  Next milestone: %s, %s to go, in %s years\n",
			m.ScenarioName, FormatCurrency(m.Shortfall), m.YearsToTarget)
	}
	fmt.Fprintln(buf)
}

func writeScenario(buf *bytes.Buffer, sp domain.ScenarioProjection) {
	p := sp.Projection
	fmt.Fprintf(buf, "%s\n", headerStyle.Render("SCENARIO: "+strings.ToUpper(sp.Scenario.Name)))
	fmt.Fprintf(buf, "  Target %s  Coast FI number %s  Retirement age %d\n",
		formatFigure(p.TargetNumber), formatFigure(p.CoastFiNumber), p.RetirementAge)
	fmt.Fprintf(buf, "  FI age %s  Coast FI age %s  Depleted %s  Success %s\n",
		formatAge(p.FiAge), formatAge(p.CoastFiAge), formatAge(p.DepletedAge), styledRate(p.SuccessRate))

	rows := make([][]string, 0, len(p.Rows)/5+2)
	prev := domain.LifecycleStatus(0)
	for i, y := range p.Rows {
		if i%5 != 0 && y.Status == prev && i != len(p.Rows)-1 {
			continue
		}
		prev = y.Status
		rows = append(rows, []string{
			intToString(y.Year),
			intToString(y.Age),
			statusText(y.Status),
			formatAmount(y.PortfolioStart),
			formatAmount(y.Contributions),
			formatAmount(y.Growth),
			formatAmount(y.NetWithdrawal),
			formatAmount(y.PortfolioEnd),
		})
	}
	fmt.Fprint(buf, renderTable(table{
		Headers: []string{"Year", "Age", "Status", "Start", "Saved", "Growth", "Net Draw", "End"},
		Rows:    rows,
	}))

	for _, c := range []struct {
		label string
		res   *domain.CoastResult
	}{{"Coast from now", sp.CoastNow}, {"Coast after target", sp.CoastAfterTarget}} {
		if c.res == nil {
			continue
		}
		meets := warnStyle.Render("short of spend")
		if c.res.MeetsScenarioSpend {
			meets = goodStyle.Render("covers spend")
		}
		fmt.Fprintf(buf, "  %s: %s at age %d, spending power %s (%s)\n",
			c.label, formatAmount(c.res.PortfolioAtCoastAge), c.res.CoastAge, formatAmount(c.res.SpendingPower), meets)
	}
	fmt.Fprintln(buf)
}

func statusText(s domain.LifecycleStatus) string {
	switch s {
	case domain.StatusAccumulating:
		return mutedStyle.Render(s.String())
	case domain.StatusFiReached:
		return goodStyle.Render(s.String())
	case domain.StatusRetired:
		return headerStyle.Render(s.String())
	case domain.StatusDepleted:
		return badStyle.Render(s.String())
	}
	return s.String()
}

func writeSimulation(buf *bytes.Buffer, s *domain.SimulationResponse) {
	fmt.Fprintln(buf, headerStyle.Render("HISTORICAL BACKTEST"))
	fmt.Fprintf(buf, "  %d cycles, %d succeeded, %d failed: success rate %s\n",
		s.TotalSimulations, s.SuccessfulSimulations, s.FailedSimulations, styledRate(s.SuccessRate))
	fmt.Fprintf(buf, "  Median final %s  Mean final %s  Median withdrawal %s\n",
		formatAmount(s.MedianFinalPortfolio), formatAmount(s.MeanFinalPortfolio), formatAmount(s.MedianAnnualWithdrawal))

	pct := func(label string, p domain.PercentileRanges) []string {
		return []string{label, formatAmount(p.P10), formatAmount(p.P25), formatAmount(p.P50), formatAmount(p.P75), formatAmount(p.P90)}
	}
	fmt.Fprint(buf, renderTable(table{
		Headers: []string{"Successful cycles", "P10", "P25", "P50", "P75", "P90"},
		Rows: [][]string{
			pct("Final portfolio", s.FinalPortfolioPercentiles),
			pct("Avg withdrawal", s.WithdrawalPercentiles),
		},
	}))

	var cases [][]string
	for _, c := range []struct {
		label string
		sum   *domain.CaseSummary
	}{{"Worst", s.WorstCase}, {"Best", s.BestCase}, {"Smallest success", s.SmallestFinalPortfolio}} {
		if c.sum == nil {
			continue
		}
		cases = append(cases, []string{
			c.label,
			fmt.Sprintf("%d-%d", c.sum.StartYear, c.sum.EndYear),
			intToString(c.sum.YearsLasted),
			formatAmount(c.sum.FinalPortfolioValue),
			formatAmount(c.sum.FinalPortfolioReal),
		})
	}
	if len(cases) > 0 {
		fmt.Fprint(buf, renderTable(table{
			Headers: []string{"Case", "Years", "Lasted", "Final", "Final (real)"},
			Rows:    cases,
		}))
	}

	if len(s.Failures) > 0 {
		parts := make([]string, 0, len(s.Failures))
		for _, f := range s.Failures {
			parts = append(parts, fmt.Sprintf("%d (year %d)", f.StartYear, f.FailureYear))
		}
		fmt.Fprintf(buf, "  %s %s\n", badStyle.Render("Failed starts:"), strings.Join(parts, ", "))
	}
	fmt.Fprintln(buf)
}

func writeHistory(buf *bytes.Buffer, h *calculation.SeriesStatistics) {
	row := func(label string, st calculation.HistoricalStatistics) []string {
		return []string{label, statPercent(st.Mean), statPercent(st.Median), statPercent(st.StdDev), statPercent(st.Min), statPercent(st.Max)}
	}
	fmt.Fprint(buf, renderTable(table{
		Title:   fmt.Sprintf("Historical Data %d-%d", h.FirstYear, h.LastYear),
		Headers: []string{"Series", "Mean", "Median", "Std Dev", "Min", "Max"},
		Rows: [][]string{
			row("Stocks", h.StockReturn),
			row("Bonds", h.BondReturn),
			row("Inflation", h.Inflation),
		},
	}))
	fmt.Fprintln(buf)
}

// statPercent renders a fractional statistic as a percentage.
func statPercent(d decimal.Decimal) string {
	return FormatPercentage(d.Mul(decimal.NewFromInt(100)))
}
