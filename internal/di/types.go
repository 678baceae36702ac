/**
 * Package di provides dependency injection type definitions.
 *
 * The Container holds every long-lived instance of the application and is
 * shared by the HTTP server and the CLI commands.
 */
package di

import (
	"github.com/aristath/breakeven/internal/database"
	"github.com/aristath/breakeven/internal/modules/cache"
	"github.com/aristath/breakeven/internal/modules/report"
	"github.com/aristath/breakeven/internal/modules/runs"
	"github.com/aristath/breakeven/internal/modules/sensitivity"
	"github.com/aristath/breakeven/internal/scheduler"
	"github.com/aristath/breakeven/internal/services"
)

// Cache backend names reported by the container
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	HistoryDB *database.DB // history.db - simulation runs and yearly series

	// Repositories
	RunsRepo *runs.Repository

	// Caching
	Cache           cache.Cache // Redis when configured and reachable, in-memory otherwise
	CacheBackend    string
	SimulationCache *cache.SimulationCache

	// Services
	Analyzer          *sensitivity.Analyzer
	ComparisonService *services.ComparisonService
	Archiver          *report.Archiver // nil when no archive bucket is configured

	// Background jobs
	Scheduler *scheduler.Scheduler
	PruneJob  *runs.PruneJob

	closers []func() error
}
