package cache

import (
	"context"
	"time"

	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const simulationKeyPrefix = "sim:"

// SimulationCache stores simulation results keyed by their parameters.
// Backend failures are logged and treated as misses.
type SimulationCache struct {
	backend Cache
	ttl     time.Duration
	log     zerolog.Logger
}

// NewSimulationCache wraps backend with msgpack encoding of simulation results
func NewSimulationCache(backend Cache, ttl time.Duration, log zerolog.Logger) *SimulationCache {
	return &SimulationCache{
		backend: backend,
		ttl:     ttl,
		log:     log.With().Str("component", "simulation_cache").Logger(),
	}
}

// Key returns the cache key for params
func Key(params simulation.Parameters) string {
	return simulationKeyPrefix + params.Key()
}

// Get returns the cached result for params
func (c *SimulationCache) Get(ctx context.Context, params simulation.Parameters) (simulation.Result, bool) {
	key := Key(params)

	data, found, err := c.backend.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return simulation.Result{}, false
	}
	if !found {
		return simulation.Result{}, false
	}

	var result simulation.Result
	if err := msgpack.Unmarshal(data, &result); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return simulation.Result{}, false
	}

	return result, true
}

// Set stores result for params
func (c *SimulationCache) Set(ctx context.Context, params simulation.Parameters, result simulation.Result) {
	key := Key(params)

	data, err := msgpack.Marshal(result)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to encode result for cache")
		return
	}

	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
