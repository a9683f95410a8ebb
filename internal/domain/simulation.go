package domain

import "fmt"

// WithdrawalStrategy selects how a cycle sizes its yearly withdrawal.
type WithdrawalStrategy string

const (
	// ConstantDollar withdraws the initial amount scaled by cumulative inflation.
	ConstantDollar WithdrawalStrategy = "constant_dollar"
	// PercentOfPortfolio withdraws a fixed share of each year's opening balance.
	PercentOfPortfolio WithdrawalStrategy = "percent_of_portfolio"
)

// Valid reports whether the strategy is one of the supported values.
func (w WithdrawalStrategy) Valid() bool {
	switch w {
	case ConstantDollar, PercentOfPortfolio:
		return true
	}
	return false
}

// ExtraIncomeSource is income received during retirement, expressed in today's money.
type ExtraIncomeSource struct {
	Name               string  `yaml:"name" json:"name"`
	AnnualAmount       float64 `yaml:"annual_amount" json:"annualAmount"`
	StartAge           int     `yaml:"start_age" json:"startAge"`
	EndAge             *int    `yaml:"end_age,omitempty" json:"endAge,omitempty"`
	AdjustForInflation bool    `yaml:"adjust_for_inflation" json:"adjustForInflation"`
}

// ActiveAt reports whether the source pays out at the given age. The window is inclusive.
func (e ExtraIncomeSource) ActiveAt(age int) bool {
	if age < e.StartAge {
		return false
	}
	return e.EndAge == nil || age <= *e.EndAge
}

// SimulationConfig describes one retirement plan to replay against history.
type SimulationConfig struct {
	RetirementDuration    int                 `yaml:"retirement_duration" json:"retirementDuration"`
	StockAllocation       float64             `yaml:"stock_allocation" json:"stockAllocation"`
	BondAllocation        float64             `yaml:"bond_allocation" json:"bondAllocation"`
	WithdrawalStrategy    WithdrawalStrategy  `yaml:"withdrawal_strategy" json:"withdrawalStrategy"`
	InitialWithdrawalRate float64             `yaml:"initial_withdrawal_rate" json:"initialWithdrawalRate"`
	FixedWithdrawal       *float64            `yaml:"fixed_withdrawal,omitempty" json:"fixedWithdrawal,omitempty"`
	InitialPortfolio      float64             `yaml:"initial_portfolio" json:"initialPortfolio"`
	ExtraIncome           []ExtraIncomeSource `yaml:"extra_income,omitempty" json:"extraIncome"`
	CurrentAge            int                 `yaml:"current_age" json:"currentAge"`
}

// InitialWithdrawal returns the first-year constant-dollar withdrawal. An
// explicit fixed amount wins over the rate.
func (c SimulationConfig) InitialWithdrawal() float64 {
	if c.FixedWithdrawal != nil {
		return *c.FixedWithdrawal
	}
	return c.InitialWithdrawalRate / 100 * c.InitialPortfolio
}

// String gives a compact description used in log lines.
func (c SimulationConfig) String() string {
	return fmt.Sprintf("%dy %.0f/%.0f %s", c.RetirementDuration, c.StockAllocation, c.BondAllocation, c.WithdrawalStrategy)
}

// RunRequest is the caller-facing input of a historical simulation.
type RunRequest struct {
	Config            SimulationConfig `yaml:"config" json:"config"`
	IncludeYearlyData bool             `yaml:"include_yearly_data" json:"includeYearlyData,omitempty"`
}

// YearlyCycleRecord is one simulated year of one historical cycle.
type YearlyCycleRecord struct {
	Year                int     `json:"year"`
	YearIndex           int     `json:"yearIndex"`
	Age                 int     `json:"age"`
	PortfolioStart      float64 `json:"portfolioStart"`
	Withdrawal          float64 `json:"withdrawal"`
	ExtraIncome         float64 `json:"extraIncome"`
	NetWithdrawal       float64 `json:"netWithdrawal"`
	StockReturn         float64 `json:"stockReturn"`
	BondReturn          float64 `json:"bondReturn"`
	BlendedReturn       float64 `json:"blendedReturn"`
	CumulativeInflation float64 `json:"cumulativeInflation"`
	PortfolioEnd        float64 `json:"portfolioEnd"`
}

// CycleResult summarises the replay of one historical start year.
type CycleResult struct {
	StartYear           int                 `json:"startYear"`
	EndYear             int                 `json:"endYear"`
	Success             bool                `json:"success"`
	FailureYear         *int                `json:"failureYear"`
	YearsLasted         int                 `json:"yearsLasted"`
	FinalPortfolioValue float64             `json:"finalPortfolioValue"`
	FinalPortfolioReal  float64             `json:"finalPortfolioReal"`
	MinPortfolioValue   float64             `json:"minPortfolioValue"`
	MinPortfolioYear    int                 `json:"minPortfolioYear"`
	TotalWithdrawals    float64             `json:"totalWithdrawals"`
	AverageWithdrawal   float64             `json:"averageWithdrawal"`
	YearlyData          []YearlyCycleRecord `json:"yearlyData,omitempty"`
}

// PercentileRanges holds the five reported percentiles of a distribution.
type PercentileRanges struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Ordered reports whether p10 ≤ p25 ≤ p50 ≤ p75 ≤ p90.
func (p PercentileRanges) Ordered() bool {
	return p.P10 <= p.P25 && p.P25 <= p.P50 && p.P50 <= p.P75 && p.P75 <= p.P90
}

// CaseSummary identifies a notable cycle without repeating its yearly rows.
type CaseSummary struct {
	StartYear           int     `json:"startYear"`
	EndYear             int     `json:"endYear"`
	Success             bool    `json:"success"`
	YearsLasted         int     `json:"yearsLasted"`
	FinalPortfolioValue float64 `json:"finalPortfolioValue"`
	FinalPortfolioReal  float64 `json:"finalPortfolioReal"`
}

// FailureSummary lists a failed cycle for diagnostic display.
type FailureSummary struct {
	StartYear   int `json:"startYear"`
	FailureYear int `json:"failureYear"`
	YearsLasted int `json:"yearsLasted"`
}

// YearPercentiles is one point of the fan-chart series.
type YearPercentiles struct {
	YearIndex int `json:"yearIndex"`
	Survivors int `json:"survivors"`
	PercentileRanges
}

// SimulationResponse is the aggregate result of replaying a config against every
// usable historical window.
type SimulationResponse struct {
	Config                    SimulationConfig  `json:"config"`
	Simulations               []CycleResult     `json:"simulations"`
	TotalSimulations          int               `json:"totalSimulations"`
	SuccessfulSimulations     int               `json:"successfulSimulations"`
	FailedSimulations         int               `json:"failedSimulations"`
	SuccessRate               float64           `json:"successRate"`
	MedianFinalPortfolio      float64           `json:"medianFinalPortfolio"`
	MeanFinalPortfolio        float64           `json:"meanFinalPortfolio"`
	FinalPortfolioPercentiles PercentileRanges  `json:"finalPortfolioPercentiles"`
	MedianAnnualWithdrawal    float64           `json:"medianAnnualWithdrawal"`
	WithdrawalPercentiles     PercentileRanges  `json:"withdrawalPercentiles"`
	Failures                  []FailureSummary  `json:"failures"`
	WorstCase                 *CaseSummary      `json:"worstCase"`
	BestCase                  *CaseSummary      `json:"bestCase"`
	SmallestFinalPortfolio    *CaseSummary      `json:"smallestFinalPortfolio"`
	PercentilesByYear         []YearPercentiles `json:"percentilesByYear"`
}

// StripYearlyData drops per-cycle yearly rows in place.
func (r *SimulationResponse) StripYearlyData() {
	for i := range r.Simulations {
		r.Simulations[i].YearlyData = nil
	}
}

// Summary builds the case summary of a cycle.
func (c CycleResult) Summary() *CaseSummary {
	return &CaseSummary{
		StartYear:           c.StartYear,
		EndYear:             c.EndYear,
		Success:             c.Success,
		YearsLasted:         c.YearsLasted,
		FinalPortfolioValue: c.FinalPortfolioValue,
		FinalPortfolioReal:  c.FinalPortfolioReal,
	}
}
