package staking

import (
	"fmt"

	"github.com/yourusername/steady-better/internal/models"
)

// State is the mutable simulation state. Exactly one instance exists per
// run, owned by the simulator and updated once per decision in sequence.
type State struct {
	Bankroll   float64 `json:"bankroll"`
	Stake      float64 `json:"stake"`
	WinStreak  int     `json:"win_streak"`
	LoseStreak int     `json:"lose_streak"`
}

// Step is the snapshot emitted after applying one decision. StakeUsed is
// the amount actually risked (the stake as it stood before the update);
// Bankroll is the balance after settling the wager.
type Step struct {
	StakeUsed   float64 `json:"stake_used"`
	Bankroll    float64 `json:"bankroll"`
	WinStreak   int     `json:"win_streak"`
	LoseStreak  int     `json:"lose_streak"`
	Won         bool    `json:"won"`
	Coefficient float64 `json:"coefficient"`
}

// Simulator folds wager decisions through a staking plan. It performs no
// I/O and holds no state of its own, so a single instance is safe to use
// from concurrent runs.
type Simulator struct {
	plan Plan
}

// NewSimulator creates a simulator for the given plan. A nil plan defaults
// to the D'Alembert progression.
func NewSimulator(plan Plan) *Simulator {
	if plan == nil {
		plan = DAlembert{}
	}
	return &Simulator{plan: plan}
}

// Plan returns the configured staking plan.
func (s *Simulator) Plan() Plan {
	return s.plan
}

// Run applies the decisions in order starting from initialBankroll and
// baseStake. It returns one Step per decision plus the final state. The
// input slice is never modified. An empty input is not an error: it yields
// no steps and the unchanged initial state.
//
// Per decision: the stake as it stands is the amount risked. A win pays
// stake × (coefficient − 1) into the bankroll and extends the winning
// streak; a loss subtracts the stake and extends the losing streak. The
// plan then sets the next stake. Streaks are mutually exclusive: growing
// one zeroes the other.
func (s *Simulator) Run(decisions []models.WagerDecision, initialBankroll, baseStake float64) ([]Step, State, error) {
	if baseStake <= 0 {
		return nil, State{}, fmt.Errorf("%w: base stake must be positive, got %v", models.ErrInvalidInput, baseStake)
	}

	state := State{Bankroll: initialBankroll, Stake: baseStake}
	steps := make([]Step, 0, len(decisions))

	for _, d := range decisions {
		stakeUsed := state.Stake

		if d.Won {
			state.Bankroll += stakeUsed * (d.Coefficient - 1)
			state.WinStreak++
			state.LoseStreak = 0
		} else {
			state.Bankroll -= stakeUsed
			state.LoseStreak++
			state.WinStreak = 0
		}
		state.Stake = s.plan.NextStake(stakeUsed, baseStake, d.Won)

		steps = append(steps, Step{
			StakeUsed:   stakeUsed,
			Bankroll:    state.Bankroll,
			WinStreak:   state.WinStreak,
			LoseStreak:  state.LoseStreak,
			Won:         d.Won,
			Coefficient: d.Coefficient,
		})
	}

	return steps, state, nil
}
