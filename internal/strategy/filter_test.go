package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/steady-better/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestFilterMinCoefRequiresAllOdds(t *testing.T) {
	f, err := NewFilter(FilterMinCoef, 2.0, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		rec  models.MatchRecord
		want bool
	}{
		{
			name: "all above floor",
			rec:  models.MatchRecord{HomeOdds: 2.5, DrawOdds: 2.6, AwayOdds: 3.0, Result: models.OutcomeHome},
			want: true,
		},
		{
			name: "floor is inclusive",
			rec:  models.MatchRecord{HomeOdds: 2.0, DrawOdds: 2.0, AwayOdds: 2.0, Result: models.OutcomeDraw},
			want: true,
		},
		{
			name: "one short leg rejects the row",
			rec:  models.MatchRecord{HomeOdds: 1.8, DrawOdds: 3.4, AwayOdds: 4.2, Result: models.OutcomeHome},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Accepts(tt.rec))
		})
	}
}

func TestFilterRangeCoefAcceptsAnyLegInRange(t *testing.T) {
	f, err := NewFilter(FilterRangeCoef, 1.8, floatPtr(2.2))
	require.NoError(t, err)

	tests := []struct {
		name string
		rec  models.MatchRecord
		want bool
	}{
		{
			name: "home leg in range is enough",
			rec:  models.MatchRecord{HomeOdds: 1.8, DrawOdds: 3.4, AwayOdds: 4.2, Result: models.OutcomeHome},
			want: true,
		},
		{
			name: "no leg in range",
			rec:  models.MatchRecord{HomeOdds: 2.5, DrawOdds: 2.6, AwayOdds: 3.0, Result: models.OutcomeAway},
			want: false,
		},
		{
			name: "upper bound inclusive",
			rec:  models.MatchRecord{HomeOdds: 3.1, DrawOdds: 2.2, AwayOdds: 2.5, Result: models.OutcomeDraw},
			want: true,
		},
		{
			name: "just outside upper bound",
			rec:  models.MatchRecord{HomeOdds: 3.1, DrawOdds: 2.21, AwayOdds: 2.5, Result: models.OutcomeDraw},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Accepts(tt.rec))
		})
	}
}

func TestFilterApplyPreservesOrder(t *testing.T) {
	f, err := NewFilter(FilterRangeCoef, 1.8, floatPtr(2.2))
	require.NoError(t, err)

	records := []models.MatchRecord{
		{HomeOdds: 1.8, DrawOdds: 3.4, AwayOdds: 4.2, Result: models.OutcomeHome},
		{HomeOdds: 2.5, DrawOdds: 2.6, AwayOdds: 3.0, Result: models.OutcomeAway},
		{HomeOdds: 2.0, DrawOdds: 3.2, AwayOdds: 3.8, Result: models.OutcomeDraw},
	}

	kept := f.Apply(records)
	require.Len(t, kept, 2)
	assert.Equal(t, records[0], kept[0])
	assert.Equal(t, records[2], kept[1])

	// Input is untouched.
	assert.Len(t, records, 3)
}

func TestNewFilterValidation(t *testing.T) {
	_, err := NewFilter(FilterRangeCoef, 1.8, nil)
	assert.ErrorIs(t, err, models.ErrMissingThreshold, "range filter without high bound")
	assert.ErrorIs(t, err, models.ErrInvalidInput, "missing threshold is an invalid-input case")

	_, err = NewFilter(FilterRangeCoef, 2.2, floatPtr(1.8))
	assert.ErrorIs(t, err, models.ErrInvalidInput, "inverted range")

	_, err = NewFilter(FilterPolicy("above"), 2.0, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput, "unknown policy")

	_, err = ParseFilterPolicy("between")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestFilterString(t *testing.T) {
	rangeFilter, err := NewFilter(FilterRangeCoef, 1.5, floatPtr(1.99))
	require.NoError(t, err)
	assert.Equal(t, "range_coef[1.50,1.99]", rangeFilter.String())

	minFilter, err := NewFilter(FilterMinCoef, 2.3, nil)
	require.NoError(t, err)
	assert.Equal(t, "min_coef[2.30,)", minFilter.String())
}
