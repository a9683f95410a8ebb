package domain

import (
	"time"

	"github.com/rpgo/fire-engine/pkg/dateutil"
)

// HouseholdInputs is the snapshot of a household's finances that the engine reads.
type HouseholdInputs struct {
	CurrentAge          int        `yaml:"current_age" json:"currentAge"`
	DateOfBirth         *time.Time `yaml:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	CurrentPortfolio    float64    `yaml:"current_portfolio" json:"currentPortfolio"`
	AnnualIncome        float64    `yaml:"annual_income" json:"annualIncome"`
	AnnualSavings       float64    `yaml:"annual_savings" json:"annualSavings"`
	TargetRetirementAge int        `yaml:"target_retirement_age" json:"targetRetirementAge"`

	IncludeStatePension bool `yaml:"include_state_pension" json:"includeStatePension"`
	PartnerStatePension bool `yaml:"partner_state_pension" json:"partnerStatePension"`
}

// AgeAt returns the household's age on the given date. A date of birth, when
// present, takes precedence over the stored current age.
func (h HouseholdInputs) AgeAt(at time.Time) int {
	if h.DateOfBirth != nil && !h.DateOfBirth.IsZero() {
		return dateutil.Age(*h.DateOfBirth, at)
	}
	return h.CurrentAge
}

// MonthlySavings spreads annual savings evenly across twelve months.
func (h HouseholdInputs) MonthlySavings() float64 {
	return h.AnnualSavings / 12
}

// SavingsRate is annual savings as a percentage of annual income.
func (h HouseholdInputs) SavingsRate() float64 {
	if h.AnnualIncome <= 0 {
		return 0
	}
	return h.AnnualSavings / h.AnnualIncome * 100
}

// Scenario is a named bundle of retirement assumptions. Rates are percentages.
type Scenario struct {
	Name               string  `yaml:"name" json:"name"`
	AnnualSpend        float64 `yaml:"annual_spend" json:"annualSpend"`
	WithdrawalRate     float64 `yaml:"withdrawal_rate" json:"withdrawalRate"`
	ExpectedReturn     float64 `yaml:"expected_return" json:"expectedReturn"`
	InflationRate      float64 `yaml:"inflation_rate" json:"inflationRate"`
	RetirementAge      int     `yaml:"retirement_age" json:"retirementAge"`
	StatePensionAge    int     `yaml:"state_pension_age" json:"statePensionAge"`
	StatePensionAnnual float64 `yaml:"state_pension_annual" json:"statePensionAnnual"`
}

// EffectiveRetirementAge falls back to the household target when the
// scenario does not override it.
func (s Scenario) EffectiveRetirementAge(h HouseholdInputs) int {
	if s.RetirementAge > 0 {
		return s.RetirementAge
	}
	return h.TargetRetirementAge
}

// CoastSettings configures the reduced-contribution coast phase.
type CoastSettings struct {
	CoastAge            int     `yaml:"coast_age" json:"coastAge"`
	MonthlyContribution float64 `yaml:"monthly_contribution" json:"monthlyContribution"`
}

// Plan is the root document of a plan file: one household, the scenarios to
// compare, and an optional historical simulation request.
type Plan struct {
	Household  HouseholdInputs `yaml:"household" json:"household"`
	Scenarios  []Scenario      `yaml:"scenarios" json:"scenarios"`
	HorizonAge int             `yaml:"horizon_age,omitempty" json:"horizonAge,omitempty"`
	Coast      *CoastSettings  `yaml:"coast,omitempty" json:"coast,omitempty"`
	Simulation *RunRequest     `yaml:"simulation,omitempty" json:"simulation,omitempty"`
}
