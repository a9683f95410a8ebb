package config

import (
	"fmt"
	"os"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML plan document
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateHousehold(&plan.Household); err != nil {
		return fmt.Errorf("household validation failed: %w", err)
	}

	if len(plan.Scenarios) == 0 && plan.Simulation == nil {
		return fmt.Errorf("no scenarios or simulation provided")
	}

	seen := make(map[string]bool, len(plan.Scenarios))
	for i, scenario := range plan.Scenarios {
		if err := ip.validateScenario(&scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, scenario.Name)
		}
		seen[scenario.Name] = true
	}

	if plan.HorizonAge != 0 && plan.HorizonAge <= plan.Household.CurrentAge {
		return fmt.Errorf("horizon age %d must be after current age %d", plan.HorizonAge, plan.Household.CurrentAge)
	}

	if plan.Coast != nil {
		if plan.Coast.CoastAge <= 0 {
			return fmt.Errorf("coast age must be positive")
		}
		if plan.Coast.MonthlyContribution < 0 {
			return fmt.Errorf("coast monthly contribution cannot be negative")
		}
	}

	if plan.Simulation != nil {
		if err := calculation.ValidateSimulationConfig(plan.Simulation.Config, 0); err != nil {
			return fmt.Errorf("simulation validation failed: %w", err)
		}
	}

	return nil
}

// validateHousehold validates the household snapshot
func (ip *InputParser) validateHousehold(h *domain.HouseholdInputs) error {
	if h.DateOfBirth == nil && h.CurrentAge <= 0 {
		return fmt.Errorf("current age or date of birth is required")
	}
	if h.CurrentAge < 0 || h.CurrentAge > 120 {
		return fmt.Errorf("current age must be between 0 and 120")
	}
	if h.CurrentPortfolio < 0 {
		return fmt.Errorf("current portfolio cannot be negative")
	}
	if h.AnnualIncome < 0 {
		return fmt.Errorf("annual income cannot be negative")
	}
	if h.AnnualSavings < 0 {
		return fmt.Errorf("annual savings cannot be negative")
	}
	if h.TargetRetirementAge <= 0 {
		return fmt.Errorf("target retirement age is required")
	}
	if h.DateOfBirth == nil && h.TargetRetirementAge < h.CurrentAge {
		return fmt.Errorf("target retirement age %d is before current age %d", h.TargetRetirementAge, h.CurrentAge)
	}
	return nil
}

// validateScenario validates a single scenario. A zero withdrawal rate is
// accepted; the calculators report its target as unreachable.
func (ip *InputParser) validateScenario(s *domain.Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.AnnualSpend < 0 {
		return fmt.Errorf("annual spend cannot be negative")
	}
	if s.WithdrawalRate < 0 || s.WithdrawalRate > 100 {
		return fmt.Errorf("withdrawal rate must be between 0 and 100")
	}
	if s.ExpectedReturn <= -100 {
		return fmt.Errorf("expected return must be above -100")
	}
	if s.InflationRate <= -100 {
		return fmt.Errorf("inflation rate must be above -100")
	}
	if s.RetirementAge < 0 {
		return fmt.Errorf("retirement age cannot be negative")
	}
	if s.StatePensionAnnual < 0 {
		return fmt.Errorf("state pension cannot be negative")
	}
	if s.StatePensionAnnual > 0 && s.StatePensionAge <= 0 {
		return fmt.Errorf("state pension age is required when a state pension is set")
	}
	return nil
}

// DefaultScenarios builds the normal and FAT scenarios from injected defaults.
func DefaultScenarios(d Defaults) []domain.Scenario {
	base := domain.Scenario{
		WithdrawalRate:     d.WithdrawalRate,
		ExpectedReturn:     d.ExpectedReturn,
		InflationRate:      d.InflationRate,
		StatePensionAge:    d.StatePensionAge,
		StatePensionAnnual: d.StatePensionAnnual,
	}
	normal, fat := base, base
	normal.Name, normal.AnnualSpend = "normal", d.NormalSpend
	fat.Name, fat.AnnualSpend = "fat", d.FatSpend
	return []domain.Scenario{normal, fat}
}

// CreateExamplePlan creates an example plan for documentation
func (ip *InputParser) CreateExamplePlan(d Defaults) *domain.Plan {
	return &domain.Plan{
		Household: domain.HouseholdInputs{
			CurrentAge:          35,
			CurrentPortfolio:    100000,
			AnnualIncome:        60000,
			AnnualSavings:       18000,
			TargetRetirementAge: 55,
			IncludeStatePension: true,
		},
		Scenarios:  DefaultScenarios(d),
		HorizonAge: d.HorizonAge,
		Coast: &domain.CoastSettings{
			CoastAge:            d.CoastAge,
			MonthlyContribution: d.CoastMonthlyContribution,
		},
		Simulation: &domain.RunRequest{
			Config: domain.SimulationConfig{
				RetirementDuration:    30,
				StockAllocation:       60,
				BondAllocation:        40,
				WithdrawalStrategy:    domain.ConstantDollar,
				InitialWithdrawalRate: d.WithdrawalRate,
				InitialPortfolio:      1000000,
				CurrentAge:            55,
			},
		},
	}
}
