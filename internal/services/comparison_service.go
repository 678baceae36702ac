// Package services holds the orchestration layer shared by the HTTP API and the CLI.
package services

import (
	"context"

	"github.com/aristath/breakeven/internal/modules/recommendation"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/rs/zerolog"
)

// ResultCacheInterface defines the contract for simulation result caching
type ResultCacheInterface interface {
	Get(ctx context.Context, params simulation.Parameters) (simulation.Result, bool)
	Set(ctx context.Context, params simulation.Parameters, result simulation.Result)
}

// RunStoreInterface defines the contract for persisting completed runs
type RunStoreInterface interface {
	Save(ctx context.Context, params simulation.Parameters, result simulation.Result, recommendation string) (string, error)
}

// AnalyzerInterface defines the contract for deposit rate sweeps
type AnalyzerInterface interface {
	AnalyzeWithProgress(base simulation.Parameters, rates []float64, progress sensitivity.ProgressCallback) (sensitivity.Result, error)
}

// Outcome is a simulation result together with its interpretation
type Outcome struct {
	RunID          string                        `json:"run_id,omitempty"`
	Params         simulation.Parameters         `json:"params"`
	Years          []simulation.YearRecord       `json:"years"`
	BreakEvenYear  *int                          `json:"break_even_year"`
	Recommendation recommendation.Recommendation `json:"recommendation"`
	Message        string                        `json:"message"`
	Cached         bool                          `json:"cached"`
}

// Result returns the simulation result part of the outcome
func (o Outcome) Result() simulation.Result {
	return simulation.Result{Years: o.Years, BreakEvenYear: o.BreakEvenYear}
}

// ComparisonService runs simulations and sweeps with caching and run history.
// The cache and the run store are optional.
type ComparisonService struct {
	cache     ResultCacheInterface
	store     RunStoreInterface
	analyzer  AnalyzerInterface
	threshold int
	log       zerolog.Logger
}

// NewComparisonService creates a new comparison service
func NewComparisonService(
	cache ResultCacheInterface,
	store RunStoreInterface,
	analyzer AnalyzerInterface,
	thresholdYears int,
	log zerolog.Logger,
) *ComparisonService {
	if thresholdYears < 1 {
		thresholdYears = recommendation.DefaultThresholdYears
	}
	return &ComparisonService{
		cache:     cache,
		store:     store,
		analyzer:  analyzer,
		threshold: thresholdYears,
		log:       log.With().Str("service", "comparison").Logger(),
	}
}

// Threshold returns the configured recommendation threshold in years
func (s *ComparisonService) Threshold() int {
	return s.threshold
}

// Simulate validates params, runs (or reuses) the simulation and records the run.
// A failure to record the run is logged and does not fail the call.
func (s *ComparisonService) Simulate(ctx context.Context, params simulation.Parameters) (*Outcome, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result simulation.Result
		cached bool
	)
	if s.cache != nil {
		result, cached = s.cache.Get(ctx, params)
	}
	if !cached {
		var err error
		if result, err = simulation.Simulate(params); err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(ctx, params, result)
		}
	}

	rec := recommendation.Recommend(result.BreakEvenYear, s.threshold)
	outcome := &Outcome{
		Params:         params,
		Years:          result.Years,
		BreakEvenYear:  result.BreakEvenYear,
		Recommendation: rec,
		Message:        recommendation.BreakEvenMessage(result.BreakEvenYear),
		Cached:         cached,
	}

	if s.store != nil {
		id, err := s.store.Save(ctx, params, result, rec.String())
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to record simulation run")
		} else {
			outcome.RunID = id
		}
	}

	s.log.Debug().
		Bool("cached", cached).
		Str("recommendation", rec.String()).
		Msg("Simulation completed")

	return outcome, nil
}

// Analyze sweeps the deposit rate over rates, or the default range when rates is empty
func (s *ComparisonService) Analyze(ctx context.Context, params simulation.Parameters, rates []float64) (sensitivity.Result, error) {
	return s.AnalyzeWithProgress(ctx, params, rates, nil)
}

// AnalyzeWithProgress is Analyze with a progress callback
func (s *ComparisonService) AnalyzeWithProgress(
	ctx context.Context,
	params simulation.Parameters,
	rates []float64,
	progress sensitivity.ProgressCallback,
) (sensitivity.Result, error) {
	if err := ctx.Err(); err != nil {
		return sensitivity.Result{}, err
	}
	if len(rates) == 0 {
		rates = sensitivity.DefaultRates()
	}
	return s.analyzer.AnalyzeWithProgress(params, rates, progress)
}

// Recommend maps a break-even year to a recommendation.
// A threshold below 1 uses the configured threshold.
func (s *ComparisonService) Recommend(breakEvenYear *int, thresholdYears int) recommendation.Recommendation {
	if thresholdYears < 1 {
		thresholdYears = s.threshold
	}
	return recommendation.Recommend(breakEvenYear, thresholdYears)
}
