// Package odds converts bookmaker decimal odds into margin-free win
// probabilities.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/steady-better/internal/models"
)

// Probabilities converts a sequence of decimal odds into implied win
// probabilities with the bookmaker margin removed. Each odds value maps to
// 1/odds, the implied values are normalized to sum to one, and each result
// is rounded to four decimal places.
func Probabilities(odds []float64) ([]float64, error) {
	if len(odds) == 0 {
		return nil, fmt.Errorf("%w: empty odds sequence", models.ErrInvalidInput)
	}

	implied := make([]float64, len(odds))
	total := 0.0
	for i, o := range odds {
		if o <= 0 {
			return nil, fmt.Errorf("%w: odds must be positive, got %v at index %d", models.ErrInvalidInput, o, i)
		}
		implied[i] = 1.0 / o
		total += implied[i]
	}

	probs := make([]float64, len(odds))
	for i, p := range implied {
		probs[i] = roundTo4(p / total)
	}
	return probs, nil
}

// ForRecord returns margin-free probabilities for a match record in home,
// draw, away order.
func ForRecord(rec models.MatchRecord) ([]float64, error) {
	o := rec.Odds()
	return Probabilities(o[:])
}

// Overround returns the bookmaker margin baked into a set of decimal odds:
// the amount by which the summed implied probabilities exceed one. A fair
// book has overround zero.
func Overround(odds []float64) (float64, error) {
	if len(odds) == 0 {
		return 0, fmt.Errorf("%w: empty odds sequence", models.ErrInvalidInput)
	}
	total := 0.0
	for i, o := range odds {
		if o <= 0 {
			return 0, fmt.Errorf("%w: odds must be positive, got %v at index %d", models.ErrInvalidInput, o, i)
		}
		total += 1.0 / o
	}
	return total - 1.0, nil
}

func roundTo4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
