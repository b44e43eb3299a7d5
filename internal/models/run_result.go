package models

import (
	"time"

	"github.com/google/uuid"
)

// RunResult represents one completed backtest run, in the shape used for
// exports and for the optional database sink.
type RunResult struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PolicyID        uuid.UUID `db:"policy_id" json:"policy_id"`
	Dataset         string    `db:"dataset" json:"dataset"`
	SelectionPolicy string    `db:"selection_policy" json:"selection_policy"`
	FilterPolicy    string    `db:"filter_policy" json:"filter_policy"`
	FilterLow       float64   `db:"filter_low" json:"filter_low"`
	FilterHigh      *float64  `db:"filter_high" json:"filter_high"`
	InitialBankroll float64   `db:"initial_bankroll" json:"initial_bankroll"`
	BaseStake       float64   `db:"base_stake" json:"base_stake"`
	MatchesLoaded   int       `db:"matches_loaded" json:"matches_loaded"`
	MatchesPlayed   int       `db:"matches_played" json:"matches_played"`
	Wins            int       `db:"wins" json:"wins"`
	Losses          int       `db:"losses" json:"losses"`
	TotalProfit     float64   `db:"total_profit" json:"total_profit"`
	ROI             float64   `db:"roi" json:"roi"`
	WinRatio        float64   `db:"win_ratio" json:"win_ratio"`
	FinalBalance    float64   `db:"final_balance" json:"final_balance"`
	MaxStake        float64   `db:"max_stake" json:"max_stake"`
	MaxWinStreak    int       `db:"max_win_streak" json:"max_win_streak"`
	MaxLoseStreak   int       `db:"max_lose_streak" json:"max_lose_streak"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// DerivePolicyID derives a stable identifier for a selection/filter policy
// pair so repeated runs of the same configuration can be grouped.
func DerivePolicyID(selectionPolicy, filterPolicy string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(selectionPolicy+"/"+filterPolicy))
}
