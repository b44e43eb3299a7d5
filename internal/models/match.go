package models

import "fmt"

// Outcome represents a wagerable match outcome using the usual betting
// codes: "1" home win, "X" draw, "2" away win.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// ParseResultCode maps a full-time result code (H, D or A) to an Outcome.
func ParseResultCode(code string) (Outcome, error) {
	switch code {
	case "H":
		return OutcomeHome, nil
	case "D":
		return OutcomeDraw, nil
	case "A":
		return OutcomeAway, nil
	default:
		return "", fmt.Errorf("%w: unknown result code %q", ErrInvalidInput, code)
	}
}

// String returns the betting code for the outcome.
func (o Outcome) String() string {
	return string(o)
}

// MatchRecord is one historical match: closing odds for the three outcomes,
// the final score and the full-time result. Immutable after load.
type MatchRecord struct {
	HomeOdds  float64 `json:"home_odds" validate:"required,gt=0"`
	DrawOdds  float64 `json:"draw_odds" validate:"required,gt=0"`
	AwayOdds  float64 `json:"away_odds" validate:"required,gt=0"`
	HomeGoals int     `json:"home_goals" validate:"gte=0"`
	AwayGoals int     `json:"away_goals" validate:"gte=0"`
	Result    Outcome `json:"result" validate:"required,oneof=1 X 2"`
}

// Odds returns the three odds in home, draw, away order.
func (m MatchRecord) Odds() [3]float64 {
	return [3]float64{m.HomeOdds, m.DrawOdds, m.AwayOdds}
}

// OddsFor returns the odds value backing the given outcome.
func (m MatchRecord) OddsFor(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return m.HomeOdds
	case OutcomeDraw:
		return m.DrawOdds
	case OutcomeAway:
		return m.AwayOdds
	}
	return 0
}

// Validate checks the record holds usable values.
func (m MatchRecord) Validate() error {
	if m.HomeOdds <= 0 || m.DrawOdds <= 0 || m.AwayOdds <= 0 {
		return fmt.Errorf("%w: odds must be positive", ErrInvalidInput)
	}
	if m.HomeGoals < 0 || m.AwayGoals < 0 {
		return fmt.Errorf("%w: goal counts cannot be negative", ErrInvalidInput)
	}
	switch m.Result {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return nil
	}
	return fmt.Errorf("%w: result must be one of 1, X, 2", ErrInvalidInput)
}
