package domain

import "time"

// YearlyProjection is one row of a deterministic lifecycle projection.
// PortfolioEnd = PortfolioStart + Contributions + Growth - NetWithdrawal, floored at zero.
type YearlyProjection struct {
	YearIndex           int             `json:"yearIndex"`
	Year                int             `json:"year"`
	Age                 int             `json:"age"`
	PortfolioStart      float64         `json:"portfolioStart"`
	Contributions       float64         `json:"contributions"`
	Growth              float64         `json:"growth"`
	Withdrawal          float64         `json:"withdrawal"`
	StatePension        float64         `json:"statePension"`
	NetWithdrawal       float64         `json:"netWithdrawal"`
	AnnualSpendInflated float64         `json:"annualSpendInflated"`
	PortfolioEnd        float64         `json:"portfolioEnd"`
	Status              LifecycleStatus `json:"status"`
}

// ProjectionResult is the full single-path forecast of one household/scenario pair.
type ProjectionResult struct {
	Scenario      string             `json:"scenario"`
	TargetNumber  Figure             `json:"targetNumber"`
	RetirementAge int                `json:"retirementAge"`
	HorizonAge    int                `json:"horizonAge"`
	Rows          []YearlyProjection `json:"rows"`
	FiAge         *int               `json:"fiAge"`
	FiYear        *int               `json:"fiYear"`
	YearsToFi     *int               `json:"yearsToFi"`
	CoastFiAge    *int               `json:"coastFiAge"`
	CoastFiNumber Figure             `json:"coastFiNumber"`
	DepletedAge   *int               `json:"depletedAge"`
	SuccessRate   float64            `json:"successRate"`
}

// Final returns the last projected row, or false when there are none.
func (p ProjectionResult) Final() (YearlyProjection, bool) {
	if len(p.Rows) == 0 {
		return YearlyProjection{}, false
	}
	return p.Rows[len(p.Rows)-1], true
}

// TargetResult compares a household against one scenario's target number.
type TargetResult struct {
	Scenario                string     `json:"scenario"`
	TargetAmount            Figure     `json:"targetAmount"`
	Shortfall               Figure     `json:"shortfall"`
	CurrentInvestmentIncome float64    `json:"currentInvestmentIncome"`
	MonthsToTarget          Figure     `json:"monthsToTarget"`
	YearsToTarget           Figure     `json:"yearsToTarget"`
	TargetAge               Figure     `json:"targetAge"`
	TargetDate              *time.Time `json:"targetDate"`
	Reachable               bool       `json:"reachable"`
}

// CoastResult reports the balance reachable by the coast age and what it funds.
type CoastResult struct {
	CoastAge            int     `json:"coastAge"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	PortfolioAtCoastAge float64 `json:"portfolioAtCoastAge"`
	SpendingPower       float64 `json:"spendingPower"`
	PhaseOneMonths      Figure  `json:"phaseOneMonths"`
	PhaseOneBalance     float64 `json:"phaseOneBalance"`
	PhaseTwoMonths      int     `json:"phaseTwoMonths"`
	TargetReachedFirst  bool    `json:"targetReachedFirst"`
	MeetsScenarioSpend  bool    `json:"meetsScenarioSpend"`
}

// ScenarioProjection groups every calculation made for one scenario.
type ScenarioProjection struct {
	Scenario         Scenario         `json:"scenario"`
	Target           TargetResult     `json:"target"`
	Projection       ProjectionResult `json:"projection"`
	CoastNow         *CoastResult     `json:"coastNow,omitempty"`
	CoastAfterTarget *CoastResult     `json:"coastAfterTarget,omitempty"`
}

// ProjectionBundle is the deterministic output for one household and its scenarios.
type ProjectionBundle struct {
	AsOf      time.Time            `json:"asOf"`
	Household HouseholdInputs      `json:"household"`
	Scenarios []ScenarioProjection `json:"scenarios"`
}
