// Package service sits between the transports (CLI, HTTP) and the
// calculation engine. It validates requests, fills in default assumptions,
// caches simulation results and stamps run metadata.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/rpgo/fire-engine/internal/cache"
	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/domain"
)

var (
	// ErrInvalidRequest wraps household and scenario validation failures.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoSeries is returned by historical operations when no series is loaded.
	ErrNoSeries = errors.New("historical series not loaded")
)

// Options configures a Service.
type Options struct {
	Cache    cache.ResultCache
	CacheTTL time.Duration
	Defaults config.Defaults
	Logger   calculation.Logger
}

// Service runs projections and simulations on behalf of the CLI and API.
type Service struct {
	engine   *calculation.Engine
	cache    cache.ResultCache
	ttl      time.Duration
	defaults config.Defaults
	parser   *config.InputParser
	logger   calculation.Logger
	now      func() time.Time
}

// New creates a service. A nil cache disables result caching; a nil engine
// supports projections only.
func New(engine *calculation.Engine, opts Options) *Service {
	if engine == nil {
		engine = calculation.NewEngine(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Service{
		engine:   engine,
		cache:    opts.Cache,
		ttl:      opts.CacheTTL,
		defaults: opts.Defaults,
		parser:   config.NewInputParser(),
		logger:   logger,
		now:      time.Now,
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *calculation.Engine { return s.engine }

// RunMetadata describes one simulation call.
type RunMetadata struct {
	RunID    string        `json:"runId"`
	CacheKey string        `json:"cacheKey"`
	CacheHit bool          `json:"cacheHit"`
	Elapsed  time.Duration `json:"elapsed"`
}

// SimulationRun pairs a simulation response with its run metadata.
type SimulationRun struct {
	Metadata RunMetadata
	Response *domain.SimulationResponse
}

// Simulate replays req against the loaded series, serving repeated requests
// from the cache.
func (s *Service) Simulate(ctx context.Context, req domain.RunRequest) (*SimulationRun, error) {
	start := time.Now()
	if s.engine.Series == nil {
		return nil, ErrNoSeries
	}
	if err := calculation.ValidateSimulationConfig(req.Config, s.engine.MaxDuration()); err != nil {
		return nil, err
	}

	key, err := CacheKey(req, s.engine.Series)
	if err != nil {
		return nil, err
	}
	run := &SimulationRun{Metadata: RunMetadata{RunID: uuid.NewString(), CacheKey: key}}

	if resp, ok := s.cached(ctx, key); ok {
		run.Response = resp
		run.Metadata.CacheHit = true
		run.Metadata.Elapsed = time.Since(start)
		s.logger.Debugf("run %s served from cache %s", run.Metadata.RunID, key)
		return run, nil
	}

	resp, err := s.engine.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	run.Response = resp
	s.store(ctx, key, resp)
	run.Metadata.Elapsed = time.Since(start)
	return run, nil
}

func (s *Service) cached(ctx context.Context, key string) (*domain.SimulationResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warnf("cache read %s failed: %v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp domain.SimulationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warnf("cache entry %s is corrupt: %v", key, err)
		return nil, false
	}
	return &resp, true
}

func (s *Service) store(ctx context.Context, key string, resp *domain.SimulationResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warnf("encoding response for cache failed: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warnf("cache write %s failed: %v", key, err)
	}
}

// CacheKey identifies a request against a particular series range.
func CacheKey(req domain.RunRequest, series *calculation.Series) (string, error) {
	payload := struct {
		Request   domain.RunRequest `json:"request"`
		FirstYear int               `json:"firstYear"`
		LastYear  int               `json:"lastYear"`
	}{Request: req}
	if series != nil {
		payload.FirstYear, payload.LastYear = series.FirstYear(), series.LastYear()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	return fmt.Sprintf("sim:%016x", xxhash.Sum64(data)), nil
}

// ProjectionRequest asks for a deterministic projection of one household.
// Empty scenarios fall back to the configured normal and FAT scenarios.
type ProjectionRequest struct {
	Household  domain.HouseholdInputs `json:"household"`
	Scenarios  []domain.Scenario      `json:"scenarios,omitempty"`
	HorizonAge int                    `json:"horizonAge,omitempty"`
	Coast      *domain.CoastSettings  `json:"coast,omitempty"`
	AsOf       *time.Time             `json:"asOf,omitempty"`
}

// Project runs the lifecycle projection, target evaluation and coast
// calculations for every scenario.
func (s *Service) Project(_ context.Context, req ProjectionRequest) (*domain.ProjectionBundle, error) {
	plan := s.plan(req.Household, req.Scenarios, req.HorizonAge, req.Coast)
	if err := s.parser.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	opts := calculation.ProjectionOptions{HorizonAge: plan.HorizonAge, AsOf: s.asOf(req.AsOf)}
	return s.engine.Project(plan.Household, plan.Scenarios, opts, plan.Coast)
}

// ProjectPlan projects a loaded plan file.
func (s *Service) ProjectPlan(ctx context.Context, plan *domain.Plan, asOf *time.Time) (*domain.ProjectionBundle, error) {
	return s.Project(ctx, ProjectionRequest{
		Household:  plan.Household,
		Scenarios:  plan.Scenarios,
		HorizonAge: plan.HorizonAge,
		Coast:      plan.Coast,
		AsOf:       asOf,
	})
}

// TargetsRequest asks for the target evaluation of one household.
type TargetsRequest struct {
	Household domain.HouseholdInputs `json:"household"`
	Scenarios []domain.Scenario      `json:"scenarios,omitempty"`
	AsOf      *time.Time             `json:"asOf,omitempty"`
}

// TargetsResponse holds one target result per scenario.
type TargetsResponse struct {
	AsOf    time.Time             `json:"asOf"`
	Results []domain.TargetResult `json:"results"`
}

// Targets evaluates how far the household is from each scenario's target.
func (s *Service) Targets(_ context.Context, req TargetsRequest) (*TargetsResponse, error) {
	plan := s.plan(req.Household, req.Scenarios, 0, nil)
	if err := s.parser.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	asOf := s.asOf(req.AsOf)
	resp := &TargetsResponse{AsOf: asOf, Results: make([]domain.TargetResult, 0, len(plan.Scenarios))}
	for _, sc := range plan.Scenarios {
		resp.Results = append(resp.Results, calculation.EvaluateTarget(plan.Household, sc, asOf))
	}
	return resp, nil
}

// HistoryResponse describes the loaded historical series.
type HistoryResponse struct {
	FirstYear   int                          `json:"firstYear"`
	LastYear    int                          `json:"lastYear"`
	Years       int                          `json:"years"`
	MaxDuration int                          `json:"maxDuration"`
	Statistics  calculation.SeriesStatistics `json:"statistics"`
	Series      []calculation.MarketYear     `json:"series,omitempty"`
}

// History summarises the loaded series, optionally including every row.
func (s *Service) History(_ context.Context, includeSeries bool) (*HistoryResponse, error) {
	if s.engine.Series == nil {
		return nil, ErrNoSeries
	}
	series := s.engine.Series
	resp := &HistoryResponse{
		FirstYear:   series.FirstYear(),
		LastYear:    series.LastYear(),
		Years:       series.Len(),
		MaxDuration: s.engine.MaxDuration(),
		Statistics:  series.Statistics(),
	}
	if includeSeries {
		resp.Series = series.Years()
	}
	return resp, nil
}

func (s *Service) plan(h domain.HouseholdInputs, scenarios []domain.Scenario, horizon int, coast *domain.CoastSettings) *domain.Plan {
	if len(scenarios) == 0 {
		scenarios = config.DefaultScenarios(s.defaults)
	}
	if horizon == 0 {
		horizon = s.defaults.HorizonAge
	}
	return &domain.Plan{
		Household:  h,
		Scenarios:  scenarios,
		HorizonAge: horizon,
		Coast:      coast,
	}
}

func (s *Service) asOf(t *time.Time) time.Time {
	if t != nil && !t.IsZero() {
		return *t
	}
	return s.now()
}
