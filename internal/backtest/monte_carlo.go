package backtest

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/steady-better/internal/models"
	"github.com/yourusername/steady-better/internal/staking"
)

// MonteCarloConfig configures wager-order resampling
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	InitialBankroll float64
	BaseStake       float64
}

// MonteCarloResult represents resampling outcomes. VaR figures are final
// balance returns at the 5th and 1st percentile of the distribution.
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
	Distribution        []float64          `json:"distribution"`
}

// RunMonteCarlo bootstraps the wager sequence to estimate how sensitive the
// progression is to outcome order. Each iteration resamples the decisions
// with replacement and replays them through the staking plan. Ruin counts
// any iteration whose bankroll dipped below zero, not just those that
// finished there.
func RunMonteCarlo(ctx context.Context, decisions []models.WagerDecision, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.InitialBankroll <= 0 {
		return MonteCarloResult{}, fmt.Errorf("initial bankroll must be positive")
	}
	if cfg.BaseStake <= 0 {
		return MonteCarloResult{}, fmt.Errorf("base stake must be positive")
	}
	if len(decisions) == 0 {
		return MonteCarloResult{Iterations: cfg.Iterations}, nil
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	simulator := staking.NewSimulator(nil)
	resampled := make([]models.WagerDecision, len(decisions))
	distribution := make([]float64, cfg.Iterations)
	ruins := 0

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return MonteCarloResult{}, err
		}
		for j := range resampled {
			resampled[j] = decisions[rng.Intn(len(decisions))]
		}
		steps, state, err := simulator.Run(resampled, cfg.InitialBankroll, cfg.BaseStake)
		if err != nil {
			return MonteCarloResult{}, err
		}
		for _, st := range steps {
			if st.Bankroll < 0 {
				ruins++
				break
			}
		}
		distribution[i] = state.Bankroll
	}

	mean, std := meanStd(distribution)
	var95 := percentile(distribution, 0.05)
	var99 := percentile(distribution, 0.01)

	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanReturn:          (mean - cfg.InitialBankroll) / cfg.InitialBankroll,
		StdReturn:           std / cfg.InitialBankroll,
		VaR95:               (var95 - cfg.InitialBankroll) / cfg.InitialBankroll,
		VaR99:               (var99 - cfg.InitialBankroll) / cfg.InitialBankroll,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   float64(ruins) / float64(cfg.Iterations),
		ConfidenceIntervals: CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99}),
		Distribution:        distribution,
	}

	return result, nil
}

// CalculateConfidenceIntervals computes interval widths for the given
// confidence levels, keyed "90%", "95%" and so on
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := percentile(distribution, p)
		high := percentile(distribution, 1.0-p)
		results[fmt.Sprintf("%.0f%%", level*100)] = high - low
	}
	return results
}

func meanStd(values []float64) (float64, float64) {
	return average(values), stddev(values)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
