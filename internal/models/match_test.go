package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    Outcome
		wantErr bool
	}{
		{name: "home win", code: "H", want: OutcomeHome},
		{name: "draw", code: "D", want: OutcomeDraw},
		{name: "away win", code: "A", want: OutcomeAway},
		{name: "lowercase rejected", code: "h", wantErr: true},
		{name: "empty rejected", code: "", wantErr: true},
		{name: "garbage rejected", code: "HD", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResultCode(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchRecordOddsFor(t *testing.T) {
	rec := MatchRecord{HomeOdds: 1.8, DrawOdds: 3.4, AwayOdds: 4.2, Result: OutcomeHome}

	assert.Equal(t, 1.8, rec.OddsFor(OutcomeHome))
	assert.Equal(t, 3.4, rec.OddsFor(OutcomeDraw))
	assert.Equal(t, 4.2, rec.OddsFor(OutcomeAway))
	assert.Equal(t, [3]float64{1.8, 3.4, 4.2}, rec.Odds())
}

func TestMatchRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     MatchRecord
		wantErr bool
	}{
		{
			name: "valid record",
			rec:  MatchRecord{HomeOdds: 2.1, DrawOdds: 3.2, AwayOdds: 2.9, HomeGoals: 2, AwayGoals: 1, Result: OutcomeHome},
		},
		{
			name:    "zero odds",
			rec:     MatchRecord{HomeOdds: 0, DrawOdds: 3.2, AwayOdds: 2.9, Result: OutcomeHome},
			wantErr: true,
		},
		{
			name:    "negative odds",
			rec:     MatchRecord{HomeOdds: 2.1, DrawOdds: -3.2, AwayOdds: 2.9, Result: OutcomeDraw},
			wantErr: true,
		},
		{
			name:    "negative goals",
			rec:     MatchRecord{HomeOdds: 2.1, DrawOdds: 3.2, AwayOdds: 2.9, HomeGoals: -1, Result: OutcomeAway},
			wantErr: true,
		},
		{
			name:    "missing result",
			rec:     MatchRecord{HomeOdds: 2.1, DrawOdds: 3.2, AwayOdds: 2.9},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDerivePolicyID(t *testing.T) {
	a := DerivePolicyID("min_coef", "range_coef")
	b := DerivePolicyID("min_coef", "range_coef")
	c := DerivePolicyID("max_coef", "range_coef")

	assert.Equal(t, a, b, "same policies must derive the same ID")
	assert.NotEqual(t, a, c, "different policies must derive different IDs")
}
