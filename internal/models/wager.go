package models

// WagerDecision is the outcome chosen for one match under a selection
// policy, with the odds backing it ("coefficient"), the margin-free win
// probability of that outcome, and whether the wager would have won.
// Created once per match record, immutable afterwards.
type WagerDecision struct {
	Outcome     Outcome `json:"outcome"`
	Coefficient float64 `json:"coefficient"`
	Probability float64 `json:"probability"`
	Won         bool    `json:"won"`
	Policy      string  `json:"policy"`
}
