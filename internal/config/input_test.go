package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testPlanYAML = `household:
  current_age: 35
  current_portfolio: 100000
  annual_income: 60000
  annual_savings: 18000
  target_retirement_age: 55
  include_state_pension: true
  partner_state_pension: true
horizon_age: 95
scenarios:
  - name: normal
    annual_spend: 30000
    withdrawal_rate: 4
    expected_return: 7
    inflation_rate: 2.5
    state_pension_age: 67
    state_pension_annual: 11500
  - name: fat
    annual_spend: 60000
    withdrawal_rate: 3.5
    expected_return: 7
    inflation_rate: 2.5
coast:
  coast_age: 45
  monthly_contribution: 250
simulation:
  include_yearly_data: true
  config:
    retirement_duration: 30
    stock_allocation: 60
    bond_allocation: 40
    withdrawal_strategy: constant_dollar
    initial_withdrawal_rate: 4
    initial_portfolio: 1000000
    current_age: 55
    extra_income:
      - name: rental
        annual_amount: 6000
        start_age: 60
        end_age: 75
        adjust_for_inflation: true
`

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile(writePlan(t, testPlanYAML))
	require.NoError(t, err)

	assert.Equal(t, 35, plan.Household.CurrentAge)
	assert.True(t, plan.Household.PartnerStatePension)
	require.Len(t, plan.Scenarios, 2)
	assert.Equal(t, "fat", plan.Scenarios[1].Name)
	assert.Equal(t, 3.5, plan.Scenarios[1].WithdrawalRate)
	assert.Equal(t, 11500.0, plan.Scenarios[0].StatePensionAnnual)
	assert.Equal(t, 95, plan.HorizonAge)
	require.NotNil(t, plan.Coast)
	assert.Equal(t, 250.0, plan.Coast.MonthlyContribution)

	require.NotNil(t, plan.Simulation)
	assert.True(t, plan.Simulation.IncludeYearlyData)
	cfg := plan.Simulation.Config
	assert.Equal(t, domain.ConstantDollar, cfg.WithdrawalStrategy)
	require.Len(t, cfg.ExtraIncome, 1)
	require.NotNil(t, cfg.ExtraIncome[0].EndAge)
	assert.Equal(t, 75, *cfg.ExtraIncome[0].EndAge)
}

func TestLoadFromFile_DateOfBirth(t *testing.T) {
	body := `household:
  date_of_birth: 1990-06-15T00:00:00Z
  current_portfolio: 5000
  target_retirement_age: 60
scenarios:
  - name: normal
    annual_spend: 30000
    withdrawal_rate: 4
`
	plan, err := NewInputParser().LoadFromFile(writePlan(t, body))
	require.NoError(t, err)
	require.NotNil(t, plan.Household.DateOfBirth)
	assert.Equal(t, 1990, plan.Household.DateOfBirth.Year())
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")

	_, err = NewInputParser().LoadFromFile(writePlan(t, "household: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestValidatePlan(t *testing.T) {
	valid := func() *domain.Plan {
		var p domain.Plan
		require.NoError(t, yaml.Unmarshal([]byte(testPlanYAML), &p))
		return &p
	}

	tests := []struct {
		name   string
		mutate func(p *domain.Plan)
		want   string
	}{
		{"valid", func(p *domain.Plan) {}, ""},
		{"no age", func(p *domain.Plan) { p.Household.CurrentAge = 0 }, "current age or date of birth"},
		{"negative portfolio", func(p *domain.Plan) { p.Household.CurrentPortfolio = -1 }, "portfolio cannot be negative"},
		{"negative savings", func(p *domain.Plan) { p.Household.AnnualSavings = -1 }, "savings cannot be negative"},
		{"retirement before now", func(p *domain.Plan) { p.Household.TargetRetirementAge = 30 }, "before current age"},
		{"nothing to run", func(p *domain.Plan) { p.Scenarios, p.Simulation = nil, nil }, "no scenarios or simulation"},
		{"unnamed scenario", func(p *domain.Plan) { p.Scenarios[0].Name = "" }, "name is required"},
		{"duplicate scenario", func(p *domain.Plan) { p.Scenarios[1].Name = "normal" }, "duplicate name"},
		{"swr over 100", func(p *domain.Plan) { p.Scenarios[0].WithdrawalRate = 101 }, "between 0 and 100"},
		{"zero swr allowed", func(p *domain.Plan) { p.Scenarios[0].WithdrawalRate = 0 }, ""},
		{"pension without age", func(p *domain.Plan) { p.Scenarios[0].StatePensionAge = 0 }, "state pension age"},
		{"horizon too early", func(p *domain.Plan) { p.HorizonAge = 30 }, "horizon age"},
		{"bad coast age", func(p *domain.Plan) { p.Coast.CoastAge = 0 }, "coast age"},
		{"bad allocation", func(p *domain.Plan) { p.Simulation.Config.BondAllocation = 50 }, "sum to 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := NewInputParser().ValidatePlan(p)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidatePlanWrapsInvalidConfig(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(writePlan(t, `household:
  current_age: 55
  target_retirement_age: 55
simulation:
  config:
    retirement_duration: 30
    stock_allocation: 70
    bond_allocation: 40
    withdrawal_strategy: constant_dollar
    initial_withdrawal_rate: 4
    initial_portfolio: 1000000
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, calculation.ErrInvalidConfig))
}

func TestDefaultScenarios(t *testing.T) {
	d := DefaultSettings().Defaults
	scenarios := DefaultScenarios(d)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "normal", scenarios[0].Name)
	assert.Equal(t, d.NormalSpend, scenarios[0].AnnualSpend)
	assert.Equal(t, "fat", scenarios[1].Name)
	assert.Equal(t, d.FatSpend, scenarios[1].AnnualSpend)
	assert.Equal(t, d.WithdrawalRate, scenarios[1].WithdrawalRate)
}

func TestCreateExamplePlanIsValid(t *testing.T) {
	parser := NewInputParser()
	plan := parser.CreateExamplePlan(DefaultSettings().Defaults)
	require.NoError(t, parser.ValidatePlan(plan))

	data, err := yaml.Marshal(plan)
	require.NoError(t, err)
	reparsed, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, plan.Household, reparsed.Household)
}
