package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/rpgo/fire-engine/internal/output"
)

var (
	flagDuration  int
	flagStocks    float64
	flagBonds     float64
	flagStrategy  string
	flagRate      float64
	flagFixed     float64
	flagPortfolio float64
	flagAge       int
	flagYearly    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan.yaml]",
	Short: "Backtest a retirement against every historical start year",
	Long: "Replays the withdrawal plan from every usable start year of the historical series.\n" +
		"The config comes from the plan's simulation section when a plan is given; flags override it.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.IntVar(&flagDuration, "duration", 30, "Retirement duration in years")
	f.Float64Var(&flagStocks, "stocks", 60, "Stock allocation (percent)")
	f.Float64Var(&flagBonds, "bonds", 40, "Bond allocation (percent)")
	f.StringVar(&flagStrategy, "strategy", string(domain.ConstantDollar), "Withdrawal strategy: constant_dollar or percent_of_portfolio")
	f.Float64Var(&flagRate, "rate", 4, "Initial withdrawal rate (percent)")
	f.Float64Var(&flagFixed, "fixed", 0, "Fixed first-year withdrawal, overrides --rate for constant_dollar")
	f.Float64Var(&flagPortfolio, "portfolio", 1000000, "Initial portfolio")
	f.IntVar(&flagAge, "age", 0, "Age at the start of retirement")
	f.BoolVar(&flagYearly, "yearly", false, "Include yearly rows for every cycle")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	req, err := simulationRequest(cmd, args)
	if err != nil {
		return err
	}

	series, err := loadSeries(cmd.Context())
	if err != nil {
		return err
	}
	svc, closeFn := newService(cmd.Context(), series)
	defer closeFn()

	run, err := svc.Simulate(cmd.Context(), req)
	if err != nil {
		return err
	}
	logger.Info().
		Str("run_id", run.Metadata.RunID).
		Bool("cache_hit", run.Metadata.CacheHit).
		Dur("elapsed", run.Metadata.Elapsed).
		Msg("simulation complete")

	return emit(cmd, &output.Report{Simulation: run.Response})
}

// simulationRequest starts from the plan's simulation section (if any) and
// applies every flag the user set explicitly.
func simulationRequest(cmd *cobra.Command, args []string) (domain.RunRequest, error) {
	req := domain.RunRequest{Config: domain.SimulationConfig{
		RetirementDuration:    flagDuration,
		StockAllocation:       flagStocks,
		BondAllocation:        flagBonds,
		WithdrawalStrategy:    domain.WithdrawalStrategy(flagStrategy),
		InitialWithdrawalRate: flagRate,
		InitialPortfolio:      flagPortfolio,
		CurrentAge:            flagAge,
	}}
	if len(args) == 1 {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return req, err
		}
		if plan.Simulation == nil {
			return req, fmt.Errorf("plan %s has no simulation section", args[0])
		}
		req = *plan.Simulation
	}

	f := cmd.Flags()
	cfg := &req.Config
	if f.Changed("duration") {
		cfg.RetirementDuration = flagDuration
	}
	if f.Changed("stocks") {
		cfg.StockAllocation = flagStocks
	}
	if f.Changed("bonds") {
		cfg.BondAllocation = flagBonds
	}
	if f.Changed("strategy") {
		cfg.WithdrawalStrategy = domain.WithdrawalStrategy(flagStrategy)
	}
	if f.Changed("rate") {
		cfg.InitialWithdrawalRate = flagRate
	}
	if f.Changed("fixed") {
		fixed := flagFixed
		cfg.FixedWithdrawal = &fixed
	}
	if f.Changed("portfolio") {
		cfg.InitialPortfolio = flagPortfolio
	}
	if f.Changed("age") {
		cfg.CurrentAge = flagAge
	}
	if f.Changed("yearly") {
		req.IncludeYearlyData = flagYearly
	}
	return req, nil
}
