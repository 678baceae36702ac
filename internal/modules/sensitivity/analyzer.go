// Package sensitivity sweeps the deposit rate and records how the break-even
// year responds.
package sensitivity

import (
	"errors"
	"fmt"
	"math"

	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/aristath/breakeven/internal/utils"
	"github.com/aristath/breakeven/pkg/formulas"
	"github.com/rs/zerolog"
)

// Default sweep: 10 evenly spaced deposit rates over [5%, 25%]
const (
	DefaultRateFrom = 0.05
	DefaultRateTo   = 0.25
	DefaultSamples  = 10
	MaxSamples      = 1000
)

// ErrInvalidRates is wrapped by every rejected rate sequence
var ErrInvalidRates = errors.New("invalid rate samples")

// Entry is the break-even year observed for one sampled deposit rate
type Entry struct {
	Rate          float64 `json:"rate"`
	BreakEvenYear *int    `json:"break_even_year"`
}

// Result holds one entry per sampled rate, in sampled (ascending) order
type Result struct {
	Entries []Entry `json:"entries"`
}

// Len returns the number of sampled rates
func (r Result) Len() int {
	return len(r.Entries)
}

// Rates returns the sampled rates in order
func (r Result) Rates() []float64 {
	rates := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		rates[i] = e.Rate
	}
	return rates
}

// Lookup returns the break-even year recorded for rate
func (r Result) Lookup(rate float64) (*int, bool) {
	for _, e := range r.Entries {
		if e.Rate == rate {
			return e.BreakEvenYear, true
		}
	}
	return nil, false
}

// DefaultRates returns the default sweep
func DefaultRates() []float64 {
	rates, _ := formulas.Linspace(DefaultRateFrom, DefaultRateTo, DefaultSamples)
	return rates
}

// RateRange builds an evenly spaced sweep and validates it
func RateRange(from, to float64, samples int) ([]float64, error) {
	if samples > MaxSamples {
		return nil, fmt.Errorf("%w: at most %d samples, got %d", ErrInvalidRates, MaxSamples, samples)
	}
	rates, err := formulas.Linspace(from, to, samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRates, err)
	}
	if err := ValidateRates(rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// ValidateRates requires a non-empty, finite, strictly increasing sequence
func ValidateRates(rates []float64) error {
	if len(rates) == 0 {
		return fmt.Errorf("%w: no rates given", ErrInvalidRates)
	}
	if len(rates) > MaxSamples {
		return fmt.Errorf("%w: at most %d samples, got %d", ErrInvalidRates, MaxSamples, len(rates))
	}
	for i, r := range rates {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: rate at index %d is not finite", ErrInvalidRates, i)
		}
		if i > 0 && r <= rates[i-1] {
			return fmt.Errorf("%w: rates must be strictly increasing (index %d: %v after %v)", ErrInvalidRates, i, r, rates[i-1])
		}
	}
	return nil
}

// Analyzer runs deposit-rate sweeps
type Analyzer struct {
	pool *WorkerPool
	log  zerolog.Logger
}

// NewAnalyzer creates an analyzer backed by a pool of the given size
func NewAnalyzer(workers int, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		pool: NewWorkerPool(workers),
		log:  log.With().Str("service", "sensitivity").Logger(),
	}
}

// Analyze re-runs the simulation once per rate with every other parameter
// held at its base value. Parameters and rates are validated once up front;
// after that the sweep cannot fail.
func (a *Analyzer) Analyze(base simulation.Parameters, rates []float64) (Result, error) {
	return a.AnalyzeWithProgress(base, rates, nil)
}

// AnalyzeWithProgress is Analyze with a per-sample progress callback
func (a *Analyzer) AnalyzeWithProgress(base simulation.Parameters, rates []float64, progress ProgressCallback) (Result, error) {
	if err := base.Validate(); err != nil {
		return Result{}, err
	}
	if err := ValidateRates(rates); err != nil {
		return Result{}, err
	}

	sw := utils.StartStopwatch("sensitivity_sweep", a.log)
	results := a.pool.SimulateRates(base, rates, progress)
	sw.Done(func(e *zerolog.Event) {
		e.Int("samples", len(rates)).Int("workers", a.pool.Workers())
	})

	entries := make([]Entry, len(rates))
	for i, rate := range rates {
		entries[i] = Entry{
			Rate:          rate,
			BreakEvenYear: results[i].BreakEvenYear,
		}
	}

	return Result{Entries: entries}, nil
}
