package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/fire-engine/internal/domain"
)

// defaultWorkers bounds the number of cycles replayed concurrently.
const defaultWorkers = 10

// Engine runs historical cycle simulations against one shared series.
type Engine struct {
	Series  *Series
	Workers int
	Logger  Logger
}

// NewEngine creates an engine over a loaded series.
func NewEngine(series *Series) *Engine {
	return &Engine{
		Series:  series,
		Workers: defaultWorkers,
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	e.Logger = loggerOrNop(l)
}

// MaxDuration is the longest retirement the series can replay.
func (e *Engine) MaxDuration() int {
	if e.Series == nil {
		return 0
	}
	return e.Series.Len()
}

// Simulate validates the request, replays every usable start year and reduces
// the batch into a response. Yearly rows are dropped unless requested.
func (e *Engine) Simulate(ctx context.Context, req domain.RunRequest) (*domain.SimulationResponse, error) {
	start := time.Now()
	cycles, err := e.RunCycles(ctx, req.Config)
	if err != nil {
		return nil, err
	}

	resp := Aggregate(req.Config, cycles)
	if !req.IncludeYearlyData {
		resp.StripYearlyData()
	}

	e.logger().Infof("simulated %d cycles (%s): success rate %.1f%% in %s",
		resp.TotalSimulations, req.Config, resp.SuccessRate, time.Since(start))
	return resp, nil
}

// Project runs the deterministic projection for every scenario of a plan.
func (e *Engine) Project(h domain.HouseholdInputs, scenarios []domain.Scenario, opts ProjectionOptions, coast *domain.CoastSettings) (*domain.ProjectionBundle, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario is required")
	}
	bundle := ProjectScenarios(h, scenarios, opts, coast)
	for _, sp := range bundle.Scenarios {
		if !sp.Target.Reachable {
			e.logger().Warnf("scenario %q: target %s not reachable within %d years",
				sp.Scenario.Name, figureString(sp.Target.TargetAmount), MaxMonths/12)
		}
	}
	return bundle, nil
}

func (e *Engine) logger() Logger {
	return loggerOrNop(e.Logger)
}

func (e *Engine) workers() int {
	if e.Workers <= 0 {
		return defaultWorkers
	}
	return e.Workers
}

func figureString(f domain.Figure) string {
	if !f.Finite() {
		return "unreachable"
	}
	return fmt.Sprintf("%.2f", f.Float())
}

// ctxErr reports a cancelled context without blocking.
func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
