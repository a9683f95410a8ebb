package calculation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rpgo/fire-engine/internal/domain"
)

// ErrInvalidConfig is wrapped by every configuration error a caller can fix.
var ErrInvalidConfig = errors.New("invalid simulation config")

// allocationTolerance absorbs float noise in allocations such as 33.3/66.7.
const allocationTolerance = 1e-9

// ValidateSimulationConfig rejects configs that cannot be simulated. maxDuration
// is the length of the available series; zero or less skips the range check.
func ValidateSimulationConfig(cfg domain.SimulationConfig, maxDuration int) error {
	if cfg.StockAllocation < 0 || cfg.BondAllocation < 0 {
		return fmt.Errorf("%w: allocations cannot be negative", ErrInvalidConfig)
	}
	if sum := cfg.StockAllocation + cfg.BondAllocation; math.Abs(sum-100) > allocationTolerance {
		return fmt.Errorf("%w: stock and bond allocation must sum to 100, got %g", ErrInvalidConfig, sum)
	}
	if cfg.RetirementDuration <= 0 {
		return fmt.Errorf("%w: retirement duration must be positive", ErrInvalidConfig)
	}
	if maxDuration > 0 && cfg.RetirementDuration > maxDuration {
		return fmt.Errorf("%w: retirement duration %d exceeds the %d years of historical data",
			ErrInvalidConfig, cfg.RetirementDuration, maxDuration)
	}
	if cfg.InitialPortfolio <= 0 {
		return fmt.Errorf("%w: initial portfolio must be positive", ErrInvalidConfig)
	}
	if cfg.CurrentAge < 0 {
		return fmt.Errorf("%w: current age cannot be negative", ErrInvalidConfig)
	}

	switch cfg.WithdrawalStrategy {
	case domain.ConstantDollar:
		if cfg.FixedWithdrawal != nil {
			if *cfg.FixedWithdrawal < 0 {
				return fmt.Errorf("%w: fixed withdrawal cannot be negative", ErrInvalidConfig)
			}
		} else if cfg.InitialWithdrawalRate <= 0 {
			return fmt.Errorf("%w: withdrawal rate must be positive when no fixed amount is supplied", ErrInvalidConfig)
		}
	case domain.PercentOfPortfolio:
		if cfg.InitialWithdrawalRate <= 0 {
			return fmt.Errorf("%w: withdrawal rate must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown withdrawal strategy %q", ErrInvalidConfig, cfg.WithdrawalStrategy)
	}

	for i, src := range cfg.ExtraIncome {
		if src.AnnualAmount < 0 {
			return fmt.Errorf("%w: extra income %d (%s): amount cannot be negative", ErrInvalidConfig, i, src.Name)
		}
		if src.EndAge != nil && *src.EndAge < src.StartAge {
			return fmt.Errorf("%w: extra income %d (%s): end age before start age", ErrInvalidConfig, i, src.Name)
		}
	}
	return nil
}

// RunCycles validates cfg and replays it from every usable start year. Cycles
// run on a bounded pool and land in start-year order.
func (e *Engine) RunCycles(ctx context.Context, cfg domain.SimulationConfig) ([]domain.CycleResult, error) {
	if e.Series == nil {
		return nil, fmt.Errorf("historical series not loaded")
	}
	if err := ValidateSimulationConfig(cfg, e.MaxDuration()); err != nil {
		return nil, err
	}

	starts := e.Series.StartYears(cfg.RetirementDuration)
	results := make([]domain.CycleResult, len(starts))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, e.workers())

	for i, startYear := range starts {
		if err := ctxErr(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(idx, year int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = SimulateCycle(e.Series, cfg, year)
		}(i, startYear)
	}
	wg.Wait()

	if err := ctxErr(ctx); err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}
	e.logger().Debugf("replayed %d cycles from %d", len(results), e.Series.FirstYear())
	return results, nil
}

// SimulateCycle replays cfg starting in startYear. Each year withdraws first and
// then applies the blended return to the remainder. A balance at or below zero
// ends the cycle as failed, and that year records only what was left to draw.
// The series must cover the whole window.
func SimulateCycle(series *Series, cfg domain.SimulationConfig, startYear int) domain.CycleResult {
	res := domain.CycleResult{
		StartYear:         startYear,
		EndYear:           startYear + cfg.RetirementDuration - 1,
		Success:           true,
		YearsLasted:       cfg.RetirementDuration,
		MinPortfolioValue: math.Inf(1),
		YearlyData:        make([]domain.YearlyCycleRecord, 0, cfg.RetirementDuration),
	}

	initial := cfg.InitialWithdrawal()
	stockWeight := cfg.StockAllocation / 100
	bondWeight := cfg.BondAllocation / 100
	portfolio := cfg.InitialPortfolio
	inflation := 1.0

	for i := 0; i < cfg.RetirementDuration; i++ {
		year := startYear + i
		market, _ := series.At(year)
		age := cfg.CurrentAge + i

		var withdrawal float64
		switch cfg.WithdrawalStrategy {
		case domain.PercentOfPortfolio:
			withdrawal = cfg.InitialWithdrawalRate / 100 * portfolio
		case domain.ConstantDollar:
			withdrawal = initial * inflation
		}
		extra := extraIncome(cfg.ExtraIncome, age, inflation)
		net := math.Max(0, withdrawal-extra)
		blended := stockWeight*market.StockReturn + bondWeight*market.BondReturn

		end := (portfolio - net) * (1 + blended)
		failed := end <= 0
		if failed {
			// the last year pays out no more than the balance plus other income
			end = 0
			withdrawal = math.Min(withdrawal, portfolio+extra)
			net = math.Min(net, portfolio)
		}
		inflation *= 1 + market.Inflation

		res.YearlyData = append(res.YearlyData, domain.YearlyCycleRecord{
			Year:                year,
			YearIndex:           i,
			Age:                 age,
			PortfolioStart:      portfolio,
			Withdrawal:          withdrawal,
			ExtraIncome:         extra,
			NetWithdrawal:       net,
			StockReturn:         market.StockReturn,
			BondReturn:          market.BondReturn,
			BlendedReturn:       blended,
			CumulativeInflation: inflation,
			PortfolioEnd:        end,
		})
		res.TotalWithdrawals += withdrawal
		if end < res.MinPortfolioValue {
			res.MinPortfolioValue = end
			res.MinPortfolioYear = year
		}
		portfolio = end

		if failed {
			res.Success = false
			res.FailureYear = intPtr(year)
			res.YearsLasted = i
			break
		}
	}

	res.FinalPortfolioValue = portfolio
	res.FinalPortfolioReal = portfolio / inflation
	if n := len(res.YearlyData); n > 0 {
		res.AverageWithdrawal = res.TotalWithdrawals / float64(n)
	}
	if math.IsInf(res.MinPortfolioValue, 1) {
		res.MinPortfolioValue = cfg.InitialPortfolio
		res.MinPortfolioYear = startYear
	}
	return res
}

// extraIncome sums the sources paying out at age. Flagged sources scale with
// the cumulative inflation factor.
func extraIncome(sources []domain.ExtraIncomeSource, age int, inflation float64) float64 {
	var total float64
	for _, src := range sources {
		if !src.ActiveAt(age) {
			continue
		}
		if src.AdjustForInflation {
			total += src.AnnualAmount * inflation
		} else {
			total += src.AnnualAmount
		}
	}
	return total
}
