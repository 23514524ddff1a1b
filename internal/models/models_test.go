package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchOutcome(t *testing.T) {
	cases := []struct {
		name       string
		home, away int
		want       Outcome
		homePts    int
		awayPts    int
		btts       bool
	}{
		{"home win", 3, 1, OutcomeHomeWin, 3, 0, true},
		{"away win", 0, 2, OutcomeAwayWin, 0, 3, false},
		{"draw", 1, 1, OutcomeDraw, 1, 1, true},
		{"scoreless draw", 0, 0, OutcomeDraw, 1, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Match{HomeGoals: tc.home, AwayGoals: tc.away}
			assert.Equal(t, tc.want, m.Outcome())
			assert.Equal(t, tc.homePts, m.HomePoints())
			assert.Equal(t, tc.awayPts, m.AwayPoints())
			assert.Equal(t, tc.btts, m.BothTeamsScored())
		})
	}
}

func TestImpliedProbability(t *testing.T) {
	odd := 2.0
	assert.Equal(t, 0.5, ImpliedProbability(&odd))

	low := 1.0
	assert.Zero(t, ImpliedProbability(&low))
	assert.Zero(t, ImpliedProbability(nil))

	negative := -2.0
	assert.Zero(t, ImpliedProbability(&negative))
}

func TestOddsQuote(t *testing.T) {
	home, draw, away := 2.10, 3.40, 3.20
	full := OddsQuote{HomeOdd: &home, DrawOdd: &draw, AwayOdd: &away}
	assert.True(t, full.HasFullMarket())
	assert.InDelta(t, 0.0833, full.Overround(), 0.001)

	partial := OddsQuote{HomeOdd: &home}
	assert.False(t, partial.HasFullMarket())
	assert.Zero(t, partial.Overround())
	assert.Zero(t, partial.GetAwayOdd())
}

func TestValidateSchema(t *testing.T) {
	assert.NoError(t, ValidateSchema(FeatureSchema))

	reordered := make([]string, len(FeatureSchema))
	copy(reordered, FeatureSchema)
	reordered[0], reordered[1] = reordered[1], reordered[0]
	assert.ErrorIs(t, ValidateSchema(reordered), ErrSchemaMismatch)

	assert.ErrorIs(t, ValidateSchema(FeatureSchema[:10]), ErrSchemaMismatch)
}
