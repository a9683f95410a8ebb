package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Prints every simulated year of one historical cycle, e.g.
//
//	go run ./tools/print_cycle data/historical_returns.csv 1966 30
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: print_cycle <returns.csv> <start-year> [duration]")
		return
	}
	series, err := calculation.LoadSeriesCSV(os.Args[1])
	if err != nil {
		panic(err)
	}
	start, err := strconv.Atoi(os.Args[2])
	if err != nil {
		panic(err)
	}
	duration := 30
	if len(os.Args) > 3 {
		if duration, err = strconv.Atoi(os.Args[3]); err != nil {
			panic(err)
		}
	}

	cfg := domain.SimulationConfig{
		RetirementDuration:    duration,
		StockAllocation:       60,
		BondAllocation:        40,
		WithdrawalStrategy:    domain.ConstantDollar,
		InitialWithdrawalRate: 4,
		InitialPortfolio:      1000000,
		CurrentAge:            65,
	}
	if err := calculation.ValidateSimulationConfig(cfg, series.Len()); err != nil {
		panic(err)
	}
	if start < series.FirstYear() || start+duration-1 > series.LastYear() {
		fmt.Printf("start year %d with duration %d is outside %d-%d\n", start, duration, series.FirstYear(), series.LastYear())
		return
	}

	res := calculation.SimulateCycle(series, cfg, start)
	fmt.Println("Year,Age,Start,Withdrawal,Blended,Inflation,End")
	for _, y := range res.YearlyData {
		fmt.Printf("%d,%d,%s,%s,%s,%s,%s\n", y.Year, y.Age,
			fixed(y.PortfolioStart, 2), fixed(y.Withdrawal, 2), fixed(y.BlendedReturn, 4),
			fixed(y.CumulativeInflation, 4), fixed(y.PortfolioEnd, 2))
	}
	fmt.Printf("Success: %t  YearsLasted: %d  FinalReal: %s  Min: %s (%d)\n",
		res.Success, res.YearsLasted, fixed(res.FinalPortfolioReal, 2), fixed(res.MinPortfolioValue, 2), res.MinPortfolioYear)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
