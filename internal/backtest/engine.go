package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/steady-better/internal/logger"
	"github.com/yourusername/steady-better/internal/metrics"
	"github.com/yourusername/steady-better/internal/models"
	"github.com/yourusername/steady-better/internal/staking"
	"github.com/yourusername/steady-better/internal/strategy"
)

// Result represents one completed simulation run. Matches, Decisions and
// Steps align by index: entry i of each describes the same wager.
type Result struct {
	Config     RunConfig
	RunResult  models.RunResult
	Matches    []models.MatchRecord
	Decisions  []models.WagerDecision
	Steps      []staking.Step
	Statistics staking.Statistics
	Curve      BankrollCurve
	Extended   ExtendedMetrics
	MonteCarlo *MonteCarloResult
	Duration   time.Duration
}

// Engine orchestrates simulation runs
type Engine struct {
	simulator *staking.Simulator
	logger    *logger.RunLogger
}

// NewEngine creates a new simulation engine. A nil simulator defaults to the
// D'Alembert progression, a nil logger to a fresh logrus logger.
func NewEngine(simulator *staking.Simulator, baseLogger *logrus.Logger) *Engine {
	if simulator == nil {
		simulator = staking.NewSimulator(nil)
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	return &Engine{
		simulator: simulator,
		logger:    logger.NewRunLogger(baseLogger),
	}
}

// Logger returns the engine run logger
func (e *Engine) Logger() *logger.RunLogger {
	return e.logger
}

// Run executes one simulation over the given season records
func (e *Engine) Run(ctx context.Context, cfg RunConfig, records []models.MatchRecord) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RunID == uuid.Nil {
		cfg.RunID = uuid.New()
	}

	started := time.Now()
	runID := cfg.RunID.String()
	e.logger.LogRunStarted(runID, cfg.Dataset, cfg.SelectionPolicy.String(), cfg.Filter.String(), len(records))
	metrics.RecordMatchesLoaded(len(records))

	playable := cfg.Filter.Apply(records)
	e.logger.LogFilterApplied(runID, cfg.Filter.String(), len(records), len(playable))
	metrics.RecordMatchesFiltered(len(records) - len(playable))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decisions, err := strategy.SelectAll(playable, cfg.SelectionPolicy)
	if err != nil {
		metrics.RecordRun(cfg.SelectionPolicy.String(), string(cfg.Filter.Policy), "failed")
		return nil, fmt.Errorf("bet selection failed: %w", err)
	}

	steps, _, err := e.simulator.Run(decisions, cfg.InitialBankroll, cfg.BaseStake)
	if err != nil {
		metrics.RecordRun(cfg.SelectionPolicy.String(), string(cfg.Filter.Policy), "failed")
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	metrics.RecordWagersSimulated(len(steps))

	e.warnOnRiskEvents(runID, cfg, steps)

	stats := staking.Summarize(steps, cfg.InitialBankroll)
	curve := NewBankrollCurve(cfg.InitialBankroll, steps)

	result := &Result{
		Config:     cfg,
		Matches:    playable,
		Decisions:  decisions,
		Steps:      steps,
		Statistics: stats,
		Curve:      curve,
		Extended:   CalculateExtendedMetrics(curve, steps, cfg.InitialBankroll),
	}

	if cfg.MonteCarloIterations > 0 && len(decisions) > 0 {
		mc, err := RunMonteCarlo(ctx, decisions, MonteCarloConfig{
			Iterations:      cfg.MonteCarloIterations,
			Seed:            cfg.Seed,
			InitialBankroll: cfg.InitialBankroll,
			BaseStake:       cfg.BaseStake,
		})
		if err != nil {
			return nil, fmt.Errorf("monte carlo resampling failed: %w", err)
		}
		result.MonteCarlo = &mc
	}

	result.Duration = time.Since(started)
	result.RunResult = buildRunResult(cfg, len(records), steps, stats)

	status := "completed"
	if stats.WentBankrupt {
		status = "bankrupt"
	}
	metrics.RecordRun(cfg.SelectionPolicy.String(), string(cfg.Filter.Policy), status)
	metrics.RecordRunDuration(result.Duration.Seconds())
	metrics.RecordRunOutcome(cfg.SelectionPolicy.String(), stats.ROI, stats.FinalBalance)

	e.logger.LogRunCompleted(runID, cfg.Dataset, len(steps),
		stats.TotalProfit, stats.ROI, stats.WinRatio, stats.FinalBalance,
		float64(result.Duration.Microseconds())/1000.0)

	return result, nil
}

// warnOnRiskEvents surfaces the first stake escalation past the configured
// multiple, and the first step where the bankroll went negative. One warning
// each per run keeps long losing streaks from flooding the log.
func (e *Engine) warnOnRiskEvents(runID string, cfg RunConfig, steps []staking.Step) {
	warnedStake := cfg.StakeWarnMultiple <= 0
	warnedBankrupt := false
	for i, st := range steps {
		if !warnedStake && st.StakeUsed >= cfg.StakeWarnMultiple*cfg.BaseStake {
			e.logger.LogStakeEscalation(runID, st.StakeUsed, cfg.BaseStake, st.LoseStreak)
			warnedStake = true
		}
		if !warnedBankrupt && st.Bankroll < 0 {
			e.logger.LogBankruptcy(runID, cfg.Dataset, st.Bankroll, i+1)
			warnedBankrupt = true
		}
		if warnedStake && warnedBankrupt {
			return
		}
	}
}

func buildRunResult(cfg RunConfig, matchesLoaded int, steps []staking.Step, stats staking.Statistics) models.RunResult {
	return models.RunResult{
		ID:              cfg.RunID,
		PolicyID:        models.DerivePolicyID(cfg.SelectionPolicy.String(), string(cfg.Filter.Policy)),
		Dataset:         cfg.Dataset,
		SelectionPolicy: cfg.SelectionPolicy.String(),
		FilterPolicy:    string(cfg.Filter.Policy),
		FilterLow:       cfg.Filter.Low,
		FilterHigh:      cfg.Filter.High,
		InitialBankroll: cfg.InitialBankroll,
		BaseStake:       cfg.BaseStake,
		MatchesLoaded:   matchesLoaded,
		MatchesPlayed:   len(steps),
		Wins:            stats.Wins,
		Losses:          stats.Losses,
		TotalProfit:     stats.TotalProfit,
		ROI:             stats.ROI,
		WinRatio:        stats.WinRatio,
		FinalBalance:    stats.FinalBalance,
		MaxStake:        stats.MaxStake,
		MaxWinStreak:    stats.MaxWinStreak,
		MaxLoseStreak:   stats.MaxLoseStreak,
		CreatedAt:       time.Now().UTC(),
	}
}
