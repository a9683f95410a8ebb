package calculation

import (
	"math"
	"time"

	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/rpgo/fire-engine/pkg/dateutil"
)

// MaxMonths is the search ceiling for month-stepping loops (100 years).
const MaxMonths = 1200

// TargetAmount is the portfolio that sustains spend at the given withdrawal
// rate. A non-positive rate yields +Inf.
func TargetAmount(spend, withdrawalRate float64) float64 {
	if withdrawalRate <= 0 {
		return math.Inf(1)
	}
	return spend / (withdrawalRate / 100)
}

// InvestmentIncome is the annual income a balance yields at a percentage rate.
func InvestmentIncome(savings, rate float64) float64 {
	return savings * (rate / 100)
}

// AdjustForInflation compounds an amount forward by ratePct for the given years.
func AdjustForInflation(amount float64, years int, ratePct float64) float64 {
	return amount * math.Pow(1+ratePct/100, float64(years))
}

// MonthsToTarget returns the fractional number of months until current grows
// to target with a monthly contribution and annual return (percent). The result
// is +Inf when the target can never be reached and is capped at MaxMonths.
func MonthsToTarget(current, target, monthlyContribution, annualReturn float64) float64 {
	if math.IsNaN(target) || math.IsInf(target, 1) {
		return math.Inf(1)
	}
	if current >= target {
		return 0
	}
	if annualReturn <= 0 {
		if monthlyContribution <= 0 {
			return math.Inf(1)
		}
		return (target - current) / monthlyContribution
	}

	monthlyRate := annualReturn / 100 / 12
	if monthlyContribution == 0 {
		if current <= 0 {
			return math.Inf(1)
		}
		return math.Min(math.Log(target/current)/math.Log(1+monthlyRate), MaxMonths)
	}

	balance := current
	for month := 1; month <= MaxMonths; month++ {
		prev := balance
		balance = balance*(1+monthlyRate) + monthlyContribution
		if balance >= target {
			return float64(month-1) + (target-prev)/(balance-prev)
		}
	}
	return MaxMonths
}

// PortfolioAtAge projects current forward month by month until targetAge.
func PortfolioAtAge(current, monthlyContribution, annualReturn float64, currentAge, targetAge int) float64 {
	months := int(math.Round(float64(targetAge-currentAge) * 12))
	return projectMonths(current, monthlyContribution, annualReturn, months)
}

func projectMonths(balance, monthlyContribution, annualReturn float64, months int) float64 {
	monthlyRate := annualReturn / 100 / 12
	for i := 0; i < months; i++ {
		balance = balance*(1+monthlyRate) + monthlyContribution
	}
	return balance
}

// EvaluateTarget compares a household's current position with a scenario's
// target number. asOf anchors the target date.
func EvaluateTarget(h domain.HouseholdInputs, s domain.Scenario, asOf time.Time) domain.TargetResult {
	if asOf.IsZero() {
		asOf = nowFunc()
	}
	target := TargetAmount(s.AnnualSpend, s.WithdrawalRate)
	months := MonthsToTarget(h.CurrentPortfolio, target, h.MonthlySavings(), s.ExpectedReturn)

	res := domain.TargetResult{
		Scenario:                s.Name,
		TargetAmount:            domain.Figure(target),
		Shortfall:               domain.Figure(math.Max(0, target-h.CurrentPortfolio)),
		CurrentInvestmentIncome: InvestmentIncome(h.CurrentPortfolio, s.ExpectedReturn),
		MonthsToTarget:          domain.Figure(months),
		YearsToTarget:           domain.Figure(months / 12),
		TargetAge:               domain.Figure(float64(h.AgeAt(asOf)) + months/12),
		Reachable:               finite(months) && months < MaxMonths,
	}
	if res.Reachable {
		if d, ok := dateutil.AddFractionalMonths(asOf, months); ok {
			res.TargetDate = &d
		}
	}
	return res
}
