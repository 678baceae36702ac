package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aristath/breakeven/internal/modules/recommendation"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	entries map[string]simulation.Result
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]simulation.Result)}
}

func (c *fakeCache) Get(_ context.Context, p simulation.Parameters) (simulation.Result, bool) {
	c.gets++
	r, ok := c.entries[p.Key()]
	return r, ok
}

func (c *fakeCache) Set(_ context.Context, p simulation.Parameters, r simulation.Result) {
	c.sets++
	c.entries[p.Key()] = r
}

type fakeStore struct {
	ctx   context.Context
	saved []string
	err   error
}

func (s *fakeStore) Save(ctx context.Context, _ simulation.Parameters, _ simulation.Result, rec string) (string, error) {
	s.ctx = ctx
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, rec)
	return "run-" + string(rune('0'+len(s.saved))), nil
}

func newService(cache ResultCacheInterface, store RunStoreInterface) *ComparisonService {
	return NewComparisonService(cache, store, sensitivity.NewAnalyzer(2, zerolog.Nop()), 5, zerolog.Nop())
}

func TestSimulate_Defaults(t *testing.T) {
	store := &fakeStore{}
	svc := newService(newFakeCache(), store)

	outcome, err := svc.Simulate(context.Background(), simulation.DefaultParameters())
	require.NoError(t, err)

	assert.Len(t, outcome.Years, 10)
	assert.Nil(t, outcome.BreakEvenYear)
	assert.Equal(t, recommendation.FavorDeposit, outcome.Recommendation)
	assert.Equal(t, "Break-even is not reached within the horizon.", outcome.Message)
	assert.False(t, outcome.Cached)
	assert.Equal(t, "run-1", outcome.RunID)
	assert.Equal(t, []string{"favor deposit"}, store.saved)
}

func TestSimulate_UsesCache(t *testing.T) {
	cache := newFakeCache()
	svc := newService(cache, nil)
	params := simulation.DefaultParameters().WithDepositRate(0.5)

	first, err := svc.Simulate(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Simulate(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.Result(), second.Result())

	require.NotNil(t, second.BreakEvenYear)
	assert.Equal(t, 3, *second.BreakEvenYear)
	assert.Equal(t, recommendation.FavorRealEstate, second.Recommendation)
	assert.Equal(t, "Break-even reached after 3 years.", second.Message)
	assert.Empty(t, second.RunID)
}

func TestSimulate_StoreFailureIsNotFatal(t *testing.T) {
	svc := newService(nil, &fakeStore{err: errors.New("database is locked")})

	outcome, err := svc.Simulate(context.Background(), simulation.DefaultParameters())
	require.NoError(t, err)
	assert.Empty(t, outcome.RunID)
	assert.Len(t, outcome.Years, 10)
}

func TestSimulate_InvalidParameters(t *testing.T) {
	cache := newFakeCache()
	store := &fakeStore{}
	svc := newService(cache, store)

	params := simulation.DefaultParameters()
	params.InvestmentHorizonYears = 0

	outcome, err := svc.Simulate(context.Background(), params)
	require.Error(t, err)
	assert.ErrorIs(t, err, simulation.ErrInvalidParameter)
	assert.Nil(t, outcome)
	assert.Zero(t, cache.gets)
	assert.Empty(t, store.saved)
}

func TestSimulate_OverflowIsNotCachedOrStored(t *testing.T) {
	cache := newFakeCache()
	store := &fakeStore{}
	svc := newService(cache, store)

	params := simulation.DefaultParameters().WithDepositRate(1e300)

	outcome, err := svc.Simulate(context.Background(), params)
	require.Error(t, err)
	assert.ErrorIs(t, err, simulation.ErrInvalidParameter)
	assert.Nil(t, outcome)
	assert.Zero(t, cache.sets)
	assert.Empty(t, store.saved)
}

type ctxKey struct{}

func TestSimulate_PassesContextToStore(t *testing.T) {
	store := &fakeStore{}
	svc := newService(nil, store)

	ctx := context.WithValue(context.Background(), ctxKey{}, "request-42")
	_, err := svc.Simulate(ctx, simulation.DefaultParameters())
	require.NoError(t, err)

	require.NotNil(t, store.ctx)
	assert.Equal(t, "request-42", store.ctx.Value(ctxKey{}))
}

func TestSimulate_CancelledContext(t *testing.T) {
	svc := newService(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Simulate(ctx, simulation.DefaultParameters())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_DefaultRates(t *testing.T) {
	svc := newService(nil, nil)

	result, err := svc.Analyze(context.Background(), simulation.DefaultParameters(), nil)
	require.NoError(t, err)
	assert.Equal(t, sensitivity.DefaultRates(), result.Rates())
}

func TestAnalyze_ExplicitRates(t *testing.T) {
	svc := newService(nil, nil)

	result, err := svc.Analyze(context.Background(), simulation.DefaultParameters(), []float64{0.25, 0.5})
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())

	year, ok := result.Lookup(0.5)
	require.True(t, ok)
	require.NotNil(t, year)
	assert.Equal(t, 3, *year)
}

func TestAnalyze_InvalidRates(t *testing.T) {
	svc := newService(nil, nil)

	_, err := svc.Analyze(context.Background(), simulation.DefaultParameters(), []float64{0.2, 0.1})
	assert.ErrorIs(t, err, sensitivity.ErrInvalidRates)
}

func TestRecommend(t *testing.T) {
	svc := newService(nil, nil)
	four, five, seven := 4, 5, 7

	assert.Equal(t, recommendation.FavorRealEstate, svc.Recommend(&four, 0))
	assert.Equal(t, recommendation.FurtherRiskAnalysis, svc.Recommend(&five, 0))
	assert.Equal(t, recommendation.FavorDeposit, svc.Recommend(&seven, 0))
	assert.Equal(t, recommendation.FavorRealEstate, svc.Recommend(&seven, 8))
	assert.Equal(t, recommendation.FavorDeposit, svc.Recommend(nil, 0))
}

func TestNewComparisonService_DefaultThreshold(t *testing.T) {
	svc := NewComparisonService(nil, nil, sensitivity.NewAnalyzer(1, zerolog.Nop()), 0, zerolog.Nop())
	assert.Equal(t, recommendation.DefaultThresholdYears, svc.Threshold())
}
