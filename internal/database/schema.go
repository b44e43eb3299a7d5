package database

import (
	"context"
	"fmt"

	"github.com/yourusername/steady-better/internal/config"
)

// createRunsTable holds every column the results sink writes for a completed
// run. Columns mirror the db tags on models.RunResult.
const createRunsTable = `
	CREATE TABLE IF NOT EXISTS backtest_runs (
		id UUID PRIMARY KEY,
		policy_id UUID NOT NULL,
		dataset TEXT NOT NULL,
		selection_policy TEXT NOT NULL,
		filter_policy TEXT NOT NULL,
		filter_low DOUBLE PRECISION NOT NULL,
		filter_high DOUBLE PRECISION,
		initial_bankroll DOUBLE PRECISION NOT NULL,
		base_stake DOUBLE PRECISION NOT NULL,
		matches_loaded INTEGER NOT NULL,
		matches_played INTEGER NOT NULL,
		wins INTEGER NOT NULL,
		losses INTEGER NOT NULL,
		total_profit DOUBLE PRECISION NOT NULL,
		roi DOUBLE PRECISION NOT NULL,
		win_ratio DOUBLE PRECISION NOT NULL,
		final_balance DOUBLE PRECISION NOT NULL,
		max_stake DOUBLE PRECISION NOT NULL,
		max_win_streak INTEGER NOT NULL,
		max_lose_streak INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`

var createRunsIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_backtest_runs_policy ON backtest_runs (policy_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_backtest_runs_dataset ON backtest_runs (dataset, created_at DESC)`,
}

// Initialize creates a database connection pool and ensures the results
// schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the backtest_runs table and its indexes if they do
// not exist yet. Safe to call on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("failed to create backtest_runs table: %w", err)
	}

	for _, stmt := range createRunsIndexes {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
