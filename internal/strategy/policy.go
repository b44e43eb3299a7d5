// Package strategy implements the wager selection policies and the row
// filters applied to historical match records before simulation.
package strategy

import (
	"fmt"

	"github.com/yourusername/steady-better/internal/models"
)

// SelectionPolicy names a deterministic rule for choosing which of the three
// match outcomes to wager on.
type SelectionPolicy string

const (
	// SelectMinCoef wagers on the outcome with the lowest odds (the favourite).
	SelectMinCoef SelectionPolicy = "min_coef"
	// SelectMaxCoef wagers on the outcome with the highest odds (the long shot).
	SelectMaxCoef SelectionPolicy = "max_coef"
	// SelectDraw always wagers on the draw.
	SelectDraw SelectionPolicy = "draw"
	// SelectHome always wagers on the home side.
	SelectHome SelectionPolicy = "home"
	// SelectAway always wagers on the away side.
	SelectAway SelectionPolicy = "away"
)

// SelectionPolicies returns every recognized selection policy.
func SelectionPolicies() []SelectionPolicy {
	return []SelectionPolicy{SelectMinCoef, SelectMaxCoef, SelectDraw, SelectHome, SelectAway}
}

// ParseSelectionPolicy validates a selection policy name.
func ParseSelectionPolicy(name string) (SelectionPolicy, error) {
	switch p := SelectionPolicy(name); p {
	case SelectMinCoef, SelectMaxCoef, SelectDraw, SelectHome, SelectAway:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown selection policy %q", models.ErrInvalidInput, name)
}

// String returns the policy name.
func (p SelectionPolicy) String() string {
	return string(p)
}
