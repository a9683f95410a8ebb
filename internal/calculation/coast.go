package calculation

import (
	"math"

	"github.com/rpgo/fire-engine/internal/domain"
)

// CoastFiNumber is the balance that grows to target by retirement with no
// further contributions.
func CoastFiNumber(target, annualReturn float64, currentAge, retirementAge int) float64 {
	years := retirementAge - currentAge
	if years <= 0 {
		return target
	}
	return target / math.Pow(1+annualReturn/100, float64(years))
}

// CoastInput holds what both coast projections need.
type CoastInput struct {
	CurrentPortfolio         float64
	CurrentAge               int
	CoastAge                 int
	MainMonthlyContribution  float64
	CoastMonthlyContribution float64
	AnnualReturn             float64
	WithdrawalRate           float64
	TargetAmount             float64
	AnnualSpend              float64
}

func (in CoastInput) monthsToCoast() int {
	m := int(math.Round(float64(in.CoastAge-in.CurrentAge) * 12))
	if m < 0 {
		return 0
	}
	return m
}

func (in CoastInput) result(portfolio float64) domain.CoastResult {
	power := InvestmentIncome(portfolio, in.WithdrawalRate)
	return domain.CoastResult{
		CoastAge:            in.CoastAge,
		MonthlyContribution: in.CoastMonthlyContribution,
		PortfolioAtCoastAge: portfolio,
		SpendingPower:       power,
		MeetsScenarioSpend:  power >= in.AnnualSpend,
	}
}

// CoastNow drops to the coast contribution immediately and projects to the coast age.
func CoastNow(in CoastInput) domain.CoastResult {
	months := in.monthsToCoast()
	portfolio := projectMonths(in.CurrentPortfolio, in.CoastMonthlyContribution, in.AnnualReturn, months)

	res := in.result(portfolio)
	res.PhaseOneMonths = domain.Figure(months)
	res.PhaseOneBalance = portfolio
	return res
}

// CoastAfterTarget saves at the main contribution until the target is met,
// then coasts at the reduced contribution until the coast age. If the target is
// not met before the coast age, the main contribution runs the whole way and
// there is no second phase.
func CoastAfterTarget(in CoastInput) domain.CoastResult {
	total := in.monthsToCoast()
	m1 := MonthsToTarget(in.CurrentPortfolio, in.TargetAmount, in.MainMonthlyContribution, in.AnnualReturn)

	if !finite(m1) || m1 >= float64(total) {
		portfolio := projectMonths(in.CurrentPortfolio, in.MainMonthlyContribution, in.AnnualReturn, total)
		res := in.result(portfolio)
		res.PhaseOneMonths = domain.Figure(total)
		res.PhaseOneBalance = portfolio
		return res
	}

	n1 := int(math.Ceil(m1))
	if n1 > total {
		n1 = total
	}
	phaseOne := projectMonths(in.CurrentPortfolio, in.MainMonthlyContribution, in.AnnualReturn, n1)
	phaseTwo := total - n1
	portfolio := projectMonths(phaseOne, in.CoastMonthlyContribution, in.AnnualReturn, phaseTwo)

	res := in.result(portfolio)
	res.PhaseOneMonths = domain.Figure(m1)
	res.PhaseOneBalance = phaseOne
	res.PhaseTwoMonths = phaseTwo
	res.TargetReachedFirst = true
	return res
}
