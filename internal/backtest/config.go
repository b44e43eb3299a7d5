package backtest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/steady-better/internal/config"
	"github.com/yourusername/steady-better/internal/strategy"
)

// RunConfig carries the parameters for one simulation run
type RunConfig struct {
	RunID                uuid.UUID
	Dataset              string
	SelectionPolicy      strategy.SelectionPolicy
	Filter               strategy.Filter
	InitialBankroll      float64
	BaseStake            float64
	StakeWarnMultiple    float64
	MonteCarloIterations int
	Seed                 int64
}

// FromConfig converts app config into a run config for one dataset
func FromConfig(cfg *config.Config, dataset string) (RunConfig, error) {
	if cfg == nil {
		return RunConfig{}, fmt.Errorf("config is required")
	}

	selection, err := strategy.ParseSelectionPolicy(cfg.Strategy.Selection)
	if err != nil {
		return RunConfig{}, fmt.Errorf("invalid selection policy: %w", err)
	}
	filterPolicy, err := strategy.ParseFilterPolicy(cfg.Strategy.Filter.Policy)
	if err != nil {
		return RunConfig{}, fmt.Errorf("invalid filter policy: %w", err)
	}
	filter, err := strategy.NewFilter(filterPolicy, cfg.Strategy.Filter.Low, cfg.Strategy.Filter.High)
	if err != nil {
		return RunConfig{}, fmt.Errorf("invalid filter: %w", err)
	}

	rc := RunConfig{
		RunID:                uuid.New(),
		Dataset:              dataset,
		SelectionPolicy:      selection,
		Filter:               filter,
		InitialBankroll:      cfg.Simulation.InitialBankroll,
		BaseStake:            cfg.Simulation.BaseStake,
		StakeWarnMultiple:    cfg.Simulation.StakeWarnMultiple,
		MonteCarloIterations: cfg.Simulation.MonteCarloIterations,
		Seed:                 cfg.Simulation.Seed,
	}

	return rc, rc.Validate()
}

// Validate validates run config parameters
func (r RunConfig) Validate() error {
	if r.Dataset == "" {
		return fmt.Errorf("dataset label is required")
	}
	if r.InitialBankroll <= 0 {
		return fmt.Errorf("initial bankroll must be positive")
	}
	if r.BaseStake <= 0 {
		return fmt.Errorf("base stake must be positive")
	}
	if r.StakeWarnMultiple < 0 {
		return fmt.Errorf("stake warn multiple cannot be negative")
	}
	if r.MonteCarloIterations < 0 {
		return fmt.Errorf("monte carlo iterations cannot be negative")
	}
	return nil
}
