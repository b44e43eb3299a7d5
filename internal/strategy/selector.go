package strategy

import (
	"fmt"

	"github.com/yourusername/steady-better/internal/models"
	"github.com/yourusername/steady-better/internal/odds"
)

// outcomeOrder fixes the home, draw, away scan order. Extremal-odds ties
// resolve to the earliest entry, so home beats draw beats away.
var outcomeOrder = [3]models.Outcome{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway}

// Select picks the outcome to wager on for one match record under the given
// policy, attaches the odds backing it and its margin-free win probability,
// and reports whether that wager would have won.
func Select(rec models.MatchRecord, policy SelectionPolicy) (models.WagerDecision, error) {
	probs, err := odds.ForRecord(rec)
	if err != nil {
		return models.WagerDecision{}, err
	}

	idx, err := chooseIndex(rec, policy)
	if err != nil {
		return models.WagerDecision{}, err
	}

	o := rec.Odds()
	outcome := outcomeOrder[idx]
	return models.WagerDecision{
		Outcome:     outcome,
		Coefficient: o[idx],
		Probability: probs[idx],
		Won:         outcome == rec.Result,
		Policy:      string(policy),
	}, nil
}

// SelectAll maps Select over a record sequence, preserving order.
func SelectAll(records []models.MatchRecord, policy SelectionPolicy) ([]models.WagerDecision, error) {
	decisions := make([]models.WagerDecision, 0, len(records))
	for i, rec := range records {
		d, err := Select(rec, policy)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

func chooseIndex(rec models.MatchRecord, policy SelectionPolicy) (int, error) {
	o := rec.Odds()
	switch policy {
	case SelectHome:
		return 0, nil
	case SelectDraw:
		return 1, nil
	case SelectAway:
		return 2, nil
	case SelectMinCoef:
		best := 0
		for i := 1; i < len(o); i++ {
			if o[i] < o[best] {
				best = i
			}
		}
		return best, nil
	case SelectMaxCoef:
		best := 0
		for i := 1; i < len(o); i++ {
			if o[i] > o[best] {
				best = i
			}
		}
		return best, nil
	}
	return 0, fmt.Errorf("%w: unknown selection policy %q", models.ErrInvalidInput, policy)
}
