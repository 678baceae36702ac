package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/breakeven/internal/config"
	"github.com/aristath/breakeven/internal/modules/cache"
	"github.com/aristath/breakeven/internal/modules/report"
	"github.com/aristath/breakeven/internal/modules/runs"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/services"
	"github.com/rs/zerolog"
)

const redisPingTimeout = 2 * time.Second

// InitializeServices creates repositories, the cache, and the services built on them
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.HistoryDB == nil {
		return fmt.Errorf("history database must be initialized first")
	}

	container.RunsRepo = runs.NewRepository(container.HistoryDB.Conn(), log)

	initializeCache(container, cfg, log)
	container.SimulationCache = cache.NewSimulationCache(container.Cache, cfg.CacheTTL, log)

	container.Analyzer = sensitivity.NewAnalyzer(cfg.SensitivityWorkers, log)
	container.ComparisonService = services.NewComparisonService(
		container.SimulationCache,
		container.RunsRepo,
		container.Analyzer,
		cfg.RecommendationThreshold,
		log,
	)

	if cfg.Archive.Bucket != "" {
		archiver, err := report.NewS3Archiver(context.Background(), report.ArchiveConfig{
			Endpoint:        cfg.Archive.Endpoint,
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize report archiver: %w", err)
		}
		container.Archiver = archiver
	}

	log.Info().
		Str("cache", container.CacheBackend).
		Bool("archive", container.Archiver != nil).
		Msg("Services initialized")

	return nil
}

// initializeCache prefers Redis and falls back to the in-memory cache when
// Redis is not configured or does not answer.
func initializeCache(container *Container, cfg *config.Config, log zerolog.Logger) {
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr)

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err := redisCache.Ping(ctx)
		cancel()

		if err == nil {
			container.Cache = redisCache
			container.CacheBackend = CacheBackendRedis
			container.closers = append(container.closers, redisCache.Close)
			return
		}

		log.Warn().
			Err(err).
			Str("addr", cfg.RedisAddr).
			Msg("Redis unavailable, using in-memory cache")
		_ = redisCache.Close()
	}

	container.Cache = cache.NewMemoryCache()
	container.CacheBackend = CacheBackendMemory
}
