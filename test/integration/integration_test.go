package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fire-engine/internal/cache"
	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/rpgo/fire-engine/internal/service"
	"github.com/rpgo/fire-engine/internal/store"
)

const (
	examplePlan    = "../testdata/example_plan.yaml"
	invalidPlan    = "../testdata/invalid_plan.yaml"
	sampleReturns  = "../testdata/returns_1990_2009.csv"
	bundledReturns = "../../data/historical_returns.csv"
)

var asOf = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T, series *calculation.Series) *service.Service {
	t.Helper()
	return service.New(calculation.NewEngine(series), service.Options{
		Cache:    cache.NewMemoryCache(16),
		CacheTTL: time.Minute,
		Defaults: config.DefaultSettings().Defaults,
	})
}

func TestEndToEndProjection(t *testing.T) {
	// Test that we can load a plan and project every scenario
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile(examplePlan)
	require.NoError(t, err)
	require.Len(t, plan.Scenarios, 3)

	svc := newService(t, nil)
	bundle, err := svc.ProjectPlan(context.Background(), plan, &asOf)
	require.NoError(t, err)
	require.Len(t, bundle.Scenarios, 3)

	wantTargets := map[string]float64{"lean": 500000, "normal": 750000, "fat": 50000 / 0.035}
	for _, sp := range bundle.Scenarios {
		want, ok := wantTargets[sp.Scenario.Name]
		require.True(t, ok, sp.Scenario.Name)
		assert.InDelta(t, want, sp.Target.TargetAmount.Float(), 0.01, sp.Scenario.Name)
		assert.True(t, sp.Target.Reachable, sp.Scenario.Name)
		require.NotNil(t, sp.CoastNow, sp.Scenario.Name)
		require.NotNil(t, sp.CoastAfterTarget, sp.Scenario.Name)

		rows := sp.Projection.Rows
		require.NotEmpty(t, rows)
		assert.Equal(t, 35, rows[0].Age)
		assert.Equal(t, 2025, rows[0].Year)
		for i := 1; i < len(rows); i++ {
			prev, cur := rows[i-1].Status, rows[i].Status
			assert.True(t, prev == cur || prev.CanTransition(cur), "%s: %s -> %s", sp.Scenario.Name, prev, cur)
			assert.Equal(t, rows[i-1].PortfolioEnd, rows[i].PortfolioStart)
		}
		last := rows[len(rows)-1]
		if sp.Projection.DepletedAge != nil {
			assert.Equal(t, domain.StatusDepleted, last.Status)
			assert.Zero(t, last.PortfolioEnd)
		} else {
			assert.Equal(t, 95, last.Age)
		}
	}
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	plan, err := parser.LoadFromFile(examplePlan)
	require.NoError(t, err)
	assert.NoError(t, parser.ValidatePlan(plan))

	_, err = parser.LoadFromFile(invalidPlan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current portfolio cannot be negative")
}

func TestEndToEndHistoricalBacktest(t *testing.T) {
	series, err := calculation.LoadSeriesCSV(bundledReturns)
	require.NoError(t, err)
	assert.Equal(t, 1928, series.FirstYear())
	assert.Equal(t, 2024, series.LastYear())

	plan, err := config.NewInputParser().LoadFromFile(examplePlan)
	require.NoError(t, err)
	require.NotNil(t, plan.Simulation)

	req := *plan.Simulation
	req.Config.RetirementDuration = 30
	svc := newService(t, series)

	run, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	resp := run.Response

	assert.Equal(t, series.Len()-30+1, resp.TotalSimulations)
	assert.Len(t, resp.Simulations, resp.TotalSimulations)
	assert.Equal(t, resp.TotalSimulations, resp.SuccessfulSimulations+resp.FailedSimulations)
	assert.Len(t, resp.Failures, resp.FailedSimulations)
	assert.InDelta(t, float64(resp.SuccessfulSimulations)/float64(resp.TotalSimulations)*100, resp.SuccessRate, 1e-9)
	assert.True(t, resp.FinalPortfolioPercentiles.Ordered())
	assert.True(t, resp.WithdrawalPercentiles.Ordered())
	assert.Len(t, resp.PercentilesByYear, 30)
	require.NotNil(t, resp.WorstCase)
	require.NotNil(t, resp.BestCase)
	assert.LessOrEqual(t, resp.WorstCase.YearsLasted, resp.BestCase.YearsLasted)

	for i, c := range resp.Simulations {
		assert.Equal(t, 1928+i, c.StartYear)
		assert.Empty(t, c.YearlyData)
		if !c.Success {
			require.NotNil(t, c.FailureYear)
			assert.Equal(t, c.StartYear+c.YearsLasted, *c.FailureYear)
		}
	}

	again, err := svc.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, again.Metadata.CacheHit)
	assert.Equal(t, run.Metadata.CacheKey, again.Metadata.CacheKey)
	assert.Equal(t, resp.SuccessRate, again.Response.SuccessRate)
}

func TestHistoricalSeriesThroughStore(t *testing.T) {
	series, err := calculation.LoadSeriesCSV(sampleReturns)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "series.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.ImportSeries(ctx, "us", "returns_1990_2009.csv", series))

	loaded, err := st.LoadSeries(ctx, "us")
	require.NoError(t, err)
	assert.Equal(t, series.Years(), loaded.Years())

	req := domain.RunRequest{Config: domain.SimulationConfig{
		RetirementDuration:    15,
		StockAllocation:       60,
		BondAllocation:        40,
		WithdrawalStrategy:    domain.PercentOfPortfolio,
		InitialWithdrawalRate: 5,
		InitialPortfolio:      500000,
		CurrentAge:            60,
	}}
	fromCSV, err := newService(t, series).Simulate(ctx, req)
	require.NoError(t, err)
	fromStore, err := newService(t, loaded).Simulate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 6, fromStore.Response.TotalSimulations)
	assert.Equal(t, fromCSV.Metadata.CacheKey, fromStore.Metadata.CacheKey)
	assert.Equal(t, fromCSV.Response.SuccessRate, fromStore.Response.SuccessRate)
	// percent-of-portfolio never withdraws the whole balance
	assert.Equal(t, 100.0, fromStore.Response.SuccessRate)
}
