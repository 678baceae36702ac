// Package runs keeps the history of simulation runs in the history database.
package runs

import (
	"context"
	"time"

	"github.com/aristath/breakeven/internal/modules/simulation"
)

// Run is one persisted simulation run.
// Years is only populated when a single run is loaded by ID.
type Run struct {
	ID             string                  `json:"id"`
	ParamsHash     string                  `json:"params_hash"`
	Params         simulation.Parameters   `json:"params"`
	BreakEvenYear  *int                    `json:"break_even_year"`
	Recommendation string                  `json:"recommendation"`
	CreatedAt      time.Time               `json:"created_at"`
	Years          []simulation.YearRecord `json:"years,omitempty"`
}

// RepositoryInterface defines the contract for run history persistence
type RepositoryInterface interface {
	Save(ctx context.Context, params simulation.Parameters, result simulation.Result, recommendation string) (string, error)
	GetByID(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Compile-time check that Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
