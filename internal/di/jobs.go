package di

import (
	"fmt"

	"github.com/aristath/breakeven/internal/config"
	"github.com/aristath/breakeven/internal/modules/runs"
	"github.com/aristath/breakeven/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the scheduler and registers background jobs.
// The scheduler is not started here.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Scheduler = scheduler.New(log)

	if cfg.RunRetentionDays <= 0 {
		log.Info().Msg("Run retention disabled, history is kept forever")
		return nil
	}

	container.PruneJob = runs.NewPruneJob(container.RunsRepo, cfg.RunRetentionDays, log)
	if err := container.Scheduler.AddJob(cfg.CleanupSchedule, container.PruneJob); err != nil {
		return fmt.Errorf("failed to register prune job: %w", err)
	}

	return nil
}
