package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHouseholdAgeAt(t *testing.T) {
	h := HouseholdInputs{CurrentAge: 40}
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 40, h.AgeAt(at))

	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	h.DateOfBirth = &dob
	assert.Equal(t, 34, h.AgeAt(at))
}

func TestHouseholdDerived(t *testing.T) {
	h := HouseholdInputs{AnnualIncome: 60000, AnnualSavings: 12000}
	assert.Equal(t, 1000.0, h.MonthlySavings())
	assert.Equal(t, 20.0, h.SavingsRate())
	assert.Equal(t, 0.0, HouseholdInputs{AnnualSavings: 1}.SavingsRate())
}

func TestScenarioRetirementAgeFallback(t *testing.T) {
	h := HouseholdInputs{TargetRetirementAge: 57}
	assert.Equal(t, 57, Scenario{}.EffectiveRetirementAge(h))
	assert.Equal(t, 60, Scenario{RetirementAge: 60}.EffectiveRetirementAge(h))
}

func TestExtraIncomeWindow(t *testing.T) {
	end := 70
	src := ExtraIncomeSource{StartAge: 60, EndAge: &end}
	assert.False(t, src.ActiveAt(59))
	assert.True(t, src.ActiveAt(60))
	assert.True(t, src.ActiveAt(70))
	assert.False(t, src.ActiveAt(71))

	open := ExtraIncomeSource{StartAge: 67}
	assert.True(t, open.ActiveAt(99))
}

func TestInitialWithdrawal(t *testing.T) {
	cfg := SimulationConfig{InitialWithdrawalRate: 4, InitialPortfolio: 1000000}
	assert.InDelta(t, 40000, cfg.InitialWithdrawal(), 1e-9)
	fixed := 25000.0
	cfg.FixedWithdrawal = &fixed
	assert.Equal(t, 25000.0, cfg.InitialWithdrawal())
}

func TestPercentileRangesOrdered(t *testing.T) {
	assert.True(t, PercentileRanges{1, 2, 3, 4, 5}.Ordered())
	assert.False(t, PercentileRanges{1, 3, 2, 4, 5}.Ordered())
}
