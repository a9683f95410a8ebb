package calculation

import (
	"math"
	"time"

	"github.com/rpgo/fire-engine/internal/domain"
)

// DefaultHorizonAge is used when a projection does not name a horizon.
const DefaultHorizonAge = 100

// ProjectionOptions controls a deterministic projection run.
type ProjectionOptions struct {
	HorizonAge int
	AsOf       time.Time
}

func (o ProjectionOptions) withDefaults() ProjectionOptions {
	if o.HorizonAge <= 0 {
		o.HorizonAge = DefaultHorizonAge
	}
	if o.AsOf.IsZero() {
		o.AsOf = nowFunc()
	}
	return o
}

// ProjectLifecycle walks one household/scenario pair year by year from the
// current age to the horizon age inclusive, stopping early on depletion.
func ProjectLifecycle(h domain.HouseholdInputs, s domain.Scenario, opts ProjectionOptions) domain.ProjectionResult {
	opts = opts.withDefaults()
	startAge := h.AgeAt(opts.AsOf)
	retirementAge := s.EffectiveRetirementAge(h)
	target := TargetAmount(s.AnnualSpend, s.WithdrawalRate)

	res := domain.ProjectionResult{
		Scenario:      s.Name,
		TargetNumber:  domain.Figure(target),
		RetirementAge: retirementAge,
		HorizonAge:    opts.HorizonAge,
		CoastFiNumber: domain.Figure(CoastFiNumber(target, s.ExpectedReturn, startAge, retirementAge)),
		SuccessRate:   100,
	}

	portfolio := h.CurrentPortfolio
	status := domain.StatusAccumulating
	for i := 0; startAge+i <= opts.HorizonAge; i++ {
		age := startAge + i
		retired := age >= retirementAge

		row := domain.YearlyProjection{
			YearIndex:           i,
			Year:                opts.AsOf.Year() + i,
			Age:                 age,
			PortfolioStart:      portfolio,
			Growth:              portfolio * s.ExpectedReturn / 100,
			AnnualSpendInflated: AdjustForInflation(s.AnnualSpend, i, s.InflationRate),
		}
		if !retired {
			row.Contributions = h.AnnualSavings
		} else {
			row.Withdrawal = row.AnnualSpendInflated
			row.StatePension = statePension(h, s, age)
			row.NetWithdrawal = math.Max(0, row.Withdrawal-row.StatePension)
		}
		row.PortfolioEnd = row.PortfolioStart + row.Contributions + row.Growth - row.NetWithdrawal

		// a zero balance ends the path whatever the phase
		if row.PortfolioEnd <= 0 {
			row.PortfolioEnd = 0
			status = domain.StatusDepleted
		} else {
			status = nextStatus(status, retired, finite(target) && row.PortfolioEnd >= target)
		}
		row.Status = status
		res.Rows = append(res.Rows, row)

		if res.CoastFiAge == nil && !retired && finite(target) &&
			row.PortfolioStart >= CoastFiNumber(target, s.ExpectedReturn, age, retirementAge) {
			res.CoastFiAge = intPtr(age)
		}
		if status == domain.StatusFiReached && res.FiAge == nil {
			res.FiAge = intPtr(age)
			res.FiYear = intPtr(row.Year)
			res.YearsToFi = intPtr(i)
		}
		if status.Terminal() {
			res.DepletedAge = intPtr(age)
			res.SuccessRate = 0
			break
		}
		portfolio = row.PortfolioEnd
	}
	return res
}

// nextStatus advances the lifecycle tag for a year that ends with a positive
// balance. FiReached holds until retirement.
func nextStatus(prev domain.LifecycleStatus, retired, atTarget bool) domain.LifecycleStatus {
	switch prev {
	case domain.StatusAccumulating, domain.StatusFiReached:
		if retired {
			return domain.StatusRetired
		}
		if atTarget || prev == domain.StatusFiReached {
			return domain.StatusFiReached
		}
		return domain.StatusAccumulating
	case domain.StatusRetired:
		return domain.StatusRetired
	case domain.StatusDepleted:
		return domain.StatusDepleted
	}
	return domain.StatusAccumulating
}

func statePension(h domain.HouseholdInputs, s domain.Scenario, age int) float64 {
	if !h.IncludeStatePension || s.StatePensionAge <= 0 || age < s.StatePensionAge {
		return 0
	}
	if h.PartnerStatePension {
		return s.StatePensionAnnual * 2
	}
	return s.StatePensionAnnual
}

// ProjectScenarios runs the target evaluation and lifecycle projection for every
// scenario, plus both coast projections when coast settings are given.
func ProjectScenarios(h domain.HouseholdInputs, scenarios []domain.Scenario, opts ProjectionOptions, coast *domain.CoastSettings) *domain.ProjectionBundle {
	opts = opts.withDefaults()
	bundle := &domain.ProjectionBundle{
		AsOf:      opts.AsOf,
		Household: h,
		Scenarios: make([]domain.ScenarioProjection, 0, len(scenarios)),
	}
	for _, s := range scenarios {
		sp := domain.ScenarioProjection{
			Scenario:   s,
			Target:     EvaluateTarget(h, s, opts.AsOf),
			Projection: ProjectLifecycle(h, s, opts),
		}
		if coast != nil {
			in := CoastInput{
				CurrentPortfolio:         h.CurrentPortfolio,
				CurrentAge:               h.AgeAt(opts.AsOf),
				CoastAge:                 coast.CoastAge,
				MainMonthlyContribution:  h.MonthlySavings(),
				CoastMonthlyContribution: coast.MonthlyContribution,
				AnnualReturn:             s.ExpectedReturn,
				WithdrawalRate:           s.WithdrawalRate,
				TargetAmount:             sp.Target.TargetAmount.Float(),
				AnnualSpend:              s.AnnualSpend,
			}
			now := CoastNow(in)
			after := CoastAfterTarget(in)
			sp.CoastNow = &now
			sp.CoastAfterTarget = &after
		}
		bundle.Scenarios = append(bundle.Scenarios, sp)
	}
	return bundle
}

func intPtr(v int) *int { return &v }
