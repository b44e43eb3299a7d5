package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/steady-better/internal/database"
	"github.com/yourusername/steady-better/internal/models"
)

const errScanRunResult = "failed to scan run result: %w"

// runResultColumns is the column list shared by every SELECT so scans stay
// in sync with the insert.
const runResultColumns = `id, policy_id, dataset, selection_policy, filter_policy,
		filter_low, filter_high, initial_bankroll, base_stake,
		matches_loaded, matches_played, wins, losses,
		total_profit, roi, win_ratio, final_balance,
		max_stake, max_win_streak, max_lose_streak, created_at`

const insertRunResult = `
	INSERT INTO backtest_runs (
		id, policy_id, dataset, selection_policy, filter_policy,
		filter_low, filter_high, initial_bankroll, base_stake,
		matches_loaded, matches_played, wins, losses,
		total_profit, roi, win_ratio, final_balance,
		max_stake, max_win_streak, max_lose_streak, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
`

// PostgresRunResultRepository implements RunResultRepository for PostgreSQL
type PostgresRunResultRepository struct {
	db *database.DB
}

// NewPostgresRunResultRepository creates a new run result repository
func NewPostgresRunResultRepository(db *database.DB) RunResultRepository {
	return &PostgresRunResultRepository{db: db}
}

func runResultArgs(run *models.RunResult) []interface{} {
	return []interface{}{
		run.ID, run.PolicyID, run.Dataset, run.SelectionPolicy, run.FilterPolicy,
		run.FilterLow, run.FilterHigh, run.InitialBankroll, run.BaseStake,
		run.MatchesLoaded, run.MatchesPlayed, run.Wins, run.Losses,
		run.TotalProfit, run.ROI, run.WinRatio, run.FinalBalance,
		run.MaxStake, run.MaxWinStreak, run.MaxLoseStreak, run.CreatedAt,
	}
}

// Save inserts a completed run
func (r *PostgresRunResultRepository) Save(ctx context.Context, run *models.RunResult) error {
	_, err := r.db.GetPool().Exec(ctx, insertRunResult, runResultArgs(run)...)
	if err != nil {
		return fmt.Errorf("failed to save run result: %w", err)
	}
	return nil
}

// SaveBatch inserts a set of runs in a single transaction so a sweep is
// persisted all-or-nothing.
func (r *PostgresRunResultRepository) SaveBatch(ctx context.Context, runs []*models.RunResult) error {
	if len(runs) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, run := range runs {
			if _, err := tx.Exec(ctx, insertRunResult, runResultArgs(run)...); err != nil {
				return fmt.Errorf("failed to save run result %s: %w", run.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a run by ID
func (r *PostgresRunResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RunResult, error) {
	query := `SELECT ` + runResultColumns + ` FROM backtest_runs WHERE id = $1`

	run := &models.RunResult{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.PolicyID, &run.Dataset, &run.SelectionPolicy, &run.FilterPolicy,
		&run.FilterLow, &run.FilterHigh, &run.InitialBankroll, &run.BaseStake,
		&run.MatchesLoaded, &run.MatchesPlayed, &run.Wins, &run.Losses,
		&run.TotalProfit, &run.ROI, &run.WinRatio, &run.FinalBalance,
		&run.MaxStake, &run.MaxWinStreak, &run.MaxLoseStreak, &run.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run result: %w", err)
	}

	return run, nil
}

// GetByPolicyID retrieves runs for a selection/filter policy pair, newest first
func (r *PostgresRunResultRepository) GetByPolicyID(ctx context.Context, policyID uuid.UUID, limit int) ([]*models.RunResult, error) {
	query := `SELECT ` + runResultColumns + `
		FROM backtest_runs WHERE policy_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryRunResults(ctx, query, policyID, limit)
}

// GetByDataset retrieves runs over a dataset, newest first
func (r *PostgresRunResultRepository) GetByDataset(ctx context.Context, dataset string, limit int) ([]*models.RunResult, error) {
	query := `SELECT ` + runResultColumns + `
		FROM backtest_runs WHERE dataset = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryRunResults(ctx, query, dataset, limit)
}

// GetLatest retrieves the most recent runs
func (r *PostgresRunResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.RunResult, error) {
	query := `SELECT ` + runResultColumns + `
		FROM backtest_runs ORDER BY created_at DESC LIMIT $1`
	return r.queryRunResults(ctx, query, limit)
}

// GetTopByROI retrieves the best performing runs by ROI
func (r *PostgresRunResultRepository) GetTopByROI(ctx context.Context, limit int) ([]*models.RunResult, error) {
	query := `SELECT ` + runResultColumns + `
		FROM backtest_runs ORDER BY roi DESC, created_at DESC LIMIT $1`
	return r.queryRunResults(ctx, query, limit)
}

func (r *PostgresRunResultRepository) queryRunResults(ctx context.Context, query string, args ...interface{}) ([]*models.RunResult, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query run results: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunResult
	for rows.Next() {
		run := &models.RunResult{}
		if err := rows.Scan(
			&run.ID, &run.PolicyID, &run.Dataset, &run.SelectionPolicy, &run.FilterPolicy,
			&run.FilterLow, &run.FilterHigh, &run.InitialBankroll, &run.BaseStake,
			&run.MatchesLoaded, &run.MatchesPlayed, &run.Wins, &run.Losses,
			&run.TotalProfit, &run.ROI, &run.WinRatio, &run.FinalBalance,
			&run.MaxStake, &run.MaxWinStreak, &run.MaxLoseStreak, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanRunResult, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
