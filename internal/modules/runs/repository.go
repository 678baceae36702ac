package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aristath/breakeven/internal/database"
	"github.com/aristath/breakeven/internal/modules/simulation"
	"github.com/aristath/breakeven/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultListLimit is used when List is called without a positive limit
	DefaultListLimit = 50
	// MaxListLimit caps a single page of runs
	MaxListLimit = 500
)

// Repository handles run history persistence
// Database: history.db (simulation_runs, simulation_years tables)
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates a new run history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repository", "runs").Logger(),
	}
}

// Save stores a run and its yearly series in one transaction and returns the new run ID
func (r *Repository) Save(ctx context.Context, params simulation.Parameters, result simulation.Result, recommendation string) (string, error) {
	defer utils.MeasureQuery("runs.save", r.log)(int64(len(result.Years)))

	encoded, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}

	id := uuid.New().String()
	createdAt := r.now().Unix()

	var breakEven sql.NullInt64
	if result.BreakEvenYear != nil {
		breakEven = sql.NullInt64{Int64: int64(*result.BreakEvenYear), Valid: true}
	}

	err = database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO simulation_runs
			(id, params_hash, params, break_even_year, recommendation, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, params.Key(), string(encoded), breakEven, recommendation, createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO simulation_years
			(run_id, year, deposit_balance, property_equity, rental_cash_flow, mortgage_expense)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare year insert: %w", err)
		}
		defer stmt.Close()

		for _, y := range result.Years {
			if _, err := stmt.ExecContext(ctx, id, y.Year, y.DepositBalance, y.PropertyEquity, y.RentalCashFlow, y.MortgageExpense); err != nil {
				return fmt.Errorf("failed to insert year %d: %w", y.Year, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.log.Debug().
		Str("run_id", id).
		Int("years", len(result.Years)).
		Msg("Run saved")

	return id, nil
}

// GetByID loads a run with its yearly series.
// Returns nil, nil when the run does not exist.
func (r *Repository) GetByID(ctx context.Context, id string) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, params_hash, params, break_even_year, recommendation, created_at
		FROM simulation_runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT year, deposit_balance, property_equity, rental_cash_flow, mortgage_expense
		FROM simulation_years
		WHERE run_id = ?
		ORDER BY year ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query years for run %s: %w", id, err)
	}
	defer rows.Close()

	run.Years = []simulation.YearRecord{}
	for rows.Next() {
		var y simulation.YearRecord
		if err := rows.Scan(&y.Year, &y.DepositBalance, &y.PropertyEquity, &y.RentalCashFlow, &y.MortgageExpense); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		run.Years = append(run.Years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating years: %w", err)
	}

	return run, nil
}

// List returns the most recent runs first, without their yearly series
func (r *Repository) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, params_hash, params, break_even_year, recommendation, created_at
		FROM simulation_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteOlderThan removes runs created before cutoff and returns how many were removed
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM simulation_years
			WHERE run_id IN (SELECT id FROM simulation_runs WHERE created_at < ?)
		`, cutoff.Unix())
		if err != nil {
			return fmt.Errorf("failed to delete years: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM simulation_runs WHERE created_at < ?`, cutoff.Unix())
		if err != nil {
			return fmt.Errorf("failed to delete runs: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		params    string
		breakEven sql.NullInt64
		createdAt int64
	)

	if err := row.Scan(&run.ID, &run.ParamsHash, &params, &breakEven, &run.Recommendation, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, fmt.Errorf("failed to decode parameters of run %s: %w", run.ID, err)
	}
	if breakEven.Valid {
		year := int(breakEven.Int64)
		run.BreakEvenYear = &year
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &run, nil
}
