package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestAggregatesBackwardLooking(t *testing.T) {
	state := NewState(DefaultParams())

	// No history: zero values, not an error
	agg := state.Aggregates("Everton")
	assert.Zero(t, agg.GoalsFor)
	assert.Zero(t, agg.Form)
	assert.Zero(t, agg.Matches)

	state.Record("Everton", day(0), 2, 1) // win
	state.Record("Everton", day(3), 0, 0) // draw
	state.Record("Everton", day(6), 1, 3) // loss

	agg = state.Aggregates("Everton")
	assert.Equal(t, 3, agg.Matches)
	assert.InDelta(t, 1.0, agg.GoalsFor, 1e-9)
	assert.InDelta(t, 4.0/3.0, agg.GoalsAgainst, 1e-9)
	assert.InDelta(t, 4.0/3.0, agg.Form, 1e-9) // (3+1+0)/3
	assert.InDelta(t, 1.0/3.0, agg.BTTSRate, 1e-9)
}

func TestAggregatesWindowing(t *testing.T) {
	state := NewState(Params{Window: 2, RestDayCap: 30, RestDayFallback: 7})

	state.Record("Porto", day(0), 5, 0)
	state.Record("Porto", day(3), 1, 0)
	state.Record("Porto", day(6), 1, 0)

	// Only the last two matches count
	agg := state.Aggregates("Porto")
	assert.Equal(t, 2, agg.Matches)
	assert.InDelta(t, 1.0, agg.GoalsFor, 1e-9)
}

func TestRestDays(t *testing.T) {
	params := DefaultParams()
	state := NewState(params)

	t.Run("fallback without history", func(t *testing.T) {
		assert.Equal(t, params.RestDayFallback, state.RestDays("Ajax", day(10)))
	})

	state.Record("Ajax", day(0), 1, 0)

	t.Run("whole days between matches", func(t *testing.T) {
		assert.Equal(t, 4.0, state.RestDays("Ajax", day(4)))
	})

	t.Run("clipped at the cap", func(t *testing.T) {
		assert.Equal(t, params.RestDayCap, state.RestDays("Ajax", day(90)))
	})

	t.Run("never negative", func(t *testing.T) {
		assert.Equal(t, 0.0, state.RestDays("Ajax", day(-5)))
	})
}

func TestSnapshotIsolation(t *testing.T) {
	state := NewState(DefaultParams())
	state.Record("Genk", day(0), 2, 2)

	snap := state.Snapshot()
	require.True(t, snap.Has("Genk"))
	assert.Equal(t, 1, snap.Aggregates("Genk").Matches)

	// Recording after the snapshot must not change it
	state.Record("Genk", day(3), 0, 1)
	assert.Equal(t, 1, snap.Aggregates("Genk").Matches)

	assert.False(t, snap.Has("Gent"))
	assert.Zero(t, snap.Aggregates("Gent").Matches)
	assert.Equal(t, DefaultParams().RestDayFallback, snap.RestDays("Gent", day(5)))
}

func TestLastMatchDate(t *testing.T) {
	state := NewState(DefaultParams())

	_, ok := state.LastMatchDate("Betis")
	assert.False(t, ok)

	state.Record("Betis", day(2), 1, 1)
	last, ok := state.LastMatchDate("Betis")
	require.True(t, ok)
	assert.Equal(t, day(2), last)
}
