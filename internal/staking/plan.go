// Package staking implements the staking-plan simulator: a strict
// sequential fold over wager decisions that tracks bankroll, stake size
// and win/loss streaks.
package staking

import "math"

// Plan is a substitutable stake-update rule. NextStake returns the stake
// for the next wager given the stake just risked and whether it won.
type Plan interface {
	Name() string
	NextStake(current, base float64, won bool) float64
}

// DAlembert is the classic unit progression: one base unit down after a
// win, never below the base stake; one base unit up after a loss, with no
// upper bound.
type DAlembert struct{}

// Name returns the plan name.
func (DAlembert) Name() string {
	return "dalembert"
}

// NextStake applies the progression rule.
func (DAlembert) NextStake(current, base float64, won bool) float64 {
	if won {
		return math.Max(base, current-base)
	}
	return current + base
}
