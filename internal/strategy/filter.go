package strategy

import (
	"fmt"

	"github.com/yourusername/steady-better/internal/models"
)

// FilterPolicy names a rule deciding which match records enter a run.
type FilterPolicy string

const (
	// FilterMinCoef keeps records whose three odds are all at or above a floor.
	FilterMinCoef FilterPolicy = "min_coef"
	// FilterRangeCoef keeps records with at least one odds value inside a
	// closed [low, high] interval. Note the "any" semantics: this is not the
	// counterpart of FilterMinCoef's "all".
	FilterRangeCoef FilterPolicy = "range_coef"
)

// FilterPolicies returns every recognized filter policy.
func FilterPolicies() []FilterPolicy {
	return []FilterPolicy{FilterMinCoef, FilterRangeCoef}
}

// ParseFilterPolicy validates a filter policy name.
func ParseFilterPolicy(name string) (FilterPolicy, error) {
	switch p := FilterPolicy(name); p {
	case FilterMinCoef, FilterRangeCoef:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown filter policy %q", models.ErrInvalidInput, name)
}

// Filter is a configured row filter.
type Filter struct {
	Policy FilterPolicy
	Low    float64
	High   *float64
}

// NewFilter builds a row filter. FilterRangeCoef requires a high threshold;
// FilterMinCoef ignores one.
func NewFilter(policy FilterPolicy, low float64, high *float64) (Filter, error) {
	switch policy {
	case FilterMinCoef:
		return Filter{Policy: policy, Low: low}, nil
	case FilterRangeCoef:
		if high == nil {
			return Filter{}, fmt.Errorf("%w: range_coef filter requires a high bound", models.ErrMissingThreshold)
		}
		if *high < low {
			return Filter{}, fmt.Errorf("%w: high threshold %v below low %v", models.ErrInvalidInput, *high, low)
		}
		return Filter{Policy: policy, Low: low, High: high}, nil
	}
	return Filter{}, fmt.Errorf("%w: unknown filter policy %q", models.ErrInvalidInput, policy)
}

// Accepts reports whether the record passes the filter.
func (f Filter) Accepts(rec models.MatchRecord) bool {
	o := rec.Odds()
	switch f.Policy {
	case FilterMinCoef:
		return o[0] >= f.Low && o[1] >= f.Low && o[2] >= f.Low
	case FilterRangeCoef:
		for _, v := range o {
			if v >= f.Low && v <= *f.High {
				return true
			}
		}
		return false
	}
	return false
}

// Apply returns the accepted records as a new slice, preserving order.
func (f Filter) Apply(records []models.MatchRecord) []models.MatchRecord {
	kept := make([]models.MatchRecord, 0, len(records))
	for _, rec := range records {
		if f.Accepts(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

// String describes the configured filter.
func (f Filter) String() string {
	if f.Policy == FilterRangeCoef && f.High != nil {
		return fmt.Sprintf("%s[%.2f,%.2f]", f.Policy, f.Low, *f.High)
	}
	return fmt.Sprintf("%s[%.2f,)", f.Policy, f.Low)
}
