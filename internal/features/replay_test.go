package features

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-sniper/internal/form"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/rating"
)

func match(daysFromEpoch int, home, away string, homeGoals, awayGoals int) models.Match {
	return models.Match{
		ID:        uuid.New(),
		LeagueID:  39,
		MatchDate: time.Date(2024, 8, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, daysFromEpoch),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}
}

func TestReplayNoLeakage(t *testing.T) {
	matches := []models.Match{
		match(0, "A", "B", 3, 0),
		match(7, "A", "B", 1, 1),
	}

	result := Replay(matches, rating.DefaultParams(), form.DefaultParams())
	require.Len(t, result.Rows, 2)

	// First match: both teams at defaults, outcome unknown to its own row
	first := result.Rows[0].Features
	assert.Equal(t, rating.DefaultRating, first.HomeElo)
	assert.Equal(t, rating.DefaultRating, first.AwayElo)
	assert.Zero(t, first.HomeRollingGoals)

	// Second match sees only the first match's outcome
	second := result.Rows[1].Features
	assert.Greater(t, second.HomeElo, rating.DefaultRating)
	assert.Less(t, second.AwayElo, rating.DefaultRating)
	assert.InDelta(t, 3.0, second.HomeRollingGoals, 1e-9)
	assert.InDelta(t, 0.0, second.AwayRollingGoals, 1e-9)
	assert.InDelta(t, 7.0, second.HomeRestDays, 1e-9)

	assert.Equal(t, models.OutcomeHomeWin, result.Rows[0].Target)
	assert.Equal(t, models.OutcomeDraw, result.Rows[1].Target)
}

func TestReplaySortsByDate(t *testing.T) {
	// Deliberately out of order on input
	matches := []models.Match{
		match(14, "X", "Y", 0, 2),
		match(0, "X", "Y", 2, 0),
	}

	result := Replay(matches, rating.DefaultParams(), form.DefaultParams())
	require.Len(t, result.Rows, 2)

	// The later match must reflect the earlier one, proving the sort ran
	assert.Equal(t, matches[1].ID.String(), result.Rows[0].MatchID)
	assert.Greater(t, result.Rows[1].Features.HomeElo, rating.DefaultRating)
}

func TestReplayZeroDefaultsForTrainingRows(t *testing.T) {
	// Training rows keep raw zero aggregates for debut teams; the goal-rate
	// fallback applies only at prediction time.
	result := Replay([]models.Match{match(0, "New1", "New2", 1, 0)}, rating.DefaultParams(), form.DefaultParams())
	require.Len(t, result.Rows, 1)
	assert.Zero(t, result.Rows[0].Features.HomeRollingGoals)
	assert.Zero(t, result.Rows[0].Features.AwayRollingConceded)
	assert.Equal(t, form.DefaultParams().RestDayFallback, result.Rows[0].Features.HomeRestDays)
}

func TestReplaySnapshots(t *testing.T) {
	result := Replay([]models.Match{
		match(0, "A", "B", 2, 1),
		match(7, "B", "C", 0, 0),
	}, rating.DefaultParams(), form.DefaultParams())

	assert.Equal(t, 3, result.Ratings.Len())
	assert.True(t, result.Forms.Has("A"))
	assert.True(t, result.Forms.Has("C"))
	assert.Equal(t, 2, result.Forms.Aggregates("B").Matches)

	total := result.Ratings.Get("A") + result.Ratings.Get("B") + result.Ratings.Get("C")
	assert.InDelta(t, 3*rating.DefaultRating, total, 1e-6)
}

func TestReplayEmptyInput(t *testing.T) {
	result := Replay(nil, rating.DefaultParams(), form.DefaultParams())
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.Ratings.Len())
}
