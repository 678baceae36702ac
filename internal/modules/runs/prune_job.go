package runs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const pruneTimeout = time.Minute

// PruneJob deletes runs older than the retention window
type PruneJob struct {
	repo      RepositoryInterface
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewPruneJob creates a prune job keeping retentionDays of history
func NewPruneJob(repo RepositoryInterface, retentionDays int, log zerolog.Logger) *PruneJob {
	return &PruneJob{
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
		log:       log.With().Str("job", "prune_runs").Logger(),
	}
}

// Name returns the job name
func (j *PruneJob) Name() string {
	return "prune_runs"
}

// Run executes the prune
func (j *PruneJob) Run() error {
	if j.retention <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Pruned old runs")
	}

	return nil
}
