package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/value-sniper/internal/form"
	"github.com/yourusername/value-sniper/internal/rating"
)

func TestBuildColdStart(t *testing.T) {
	assembler := NewAssembler(DefaultParams())
	ratings := rating.NewRatings(rating.DefaultParams()).Snapshot()
	forms := form.NewState(form.DefaultParams()).Snapshot()

	vector := assembler.Build("Newco", "Other", time.Now(), 39, ratings, forms)

	// Teams with no history get defaults, never an error
	assert.Equal(t, 39.0, vector.LeagueID)
	assert.Equal(t, rating.DefaultRating, vector.HomeElo)
	assert.Equal(t, rating.DefaultRating, vector.AwayElo)
	assert.Zero(t, vector.EloDiff)
	assert.Equal(t, 1.3, vector.HomeRollingGoals)
	assert.Equal(t, 1.3, vector.AwayRollingConceded)
	assert.Zero(t, vector.FormDiff)
	assert.Zero(t, vector.HomeBTTSRate)
	assert.Equal(t, 7.0, vector.HomeRestDays)
	assert.Equal(t, 7.0, vector.AwayRestDays)
	assert.Zero(t, vector.RestDiff)
}

func TestBuildDerivedFields(t *testing.T) {
	assembler := NewAssembler(DefaultParams())

	ratingState := rating.NewRatings(rating.Params{KFactor: 30, HomeAdvantage: 0})
	ratingState.Apply("Strong", "Weak", 4, 0)

	matchDate := time.Date(2024, 9, 1, 15, 0, 0, 0, time.UTC)
	formState := form.NewState(form.DefaultParams())
	formState.Record("Strong", matchDate.AddDate(0, 0, -3), 4, 1)
	formState.Record("Weak", matchDate.AddDate(0, 0, -10), 0, 4)

	vector := assembler.Build("Strong", "Weak", matchDate, 39, ratingState.Snapshot(), formState.Snapshot())

	assert.Positive(t, vector.EloDiff)
	assert.InDelta(t, vector.HomeElo-vector.AwayElo, vector.EloDiff, 1e-9)
	assert.InDelta(t, 3.0, vector.FormDiff, 1e-9) // 3 points vs 0
	assert.InDelta(t, vector.HomeBTTSRate*vector.AwayBTTSRate, vector.BTTSInteraction, 1e-9)
	assert.InDelta(t, 3.0, vector.HomeRestDays, 1e-9)
	assert.InDelta(t, 10.0, vector.AwayRestDays, 1e-9)
	assert.InDelta(t, -7.0, vector.RestDiff, 1e-9)
}

func TestBuildFallbackOnlyForUnknownTeams(t *testing.T) {
	assembler := NewAssembler(Params{FallbackGoalRate: 2.5})
	ratings := rating.NewRatings(rating.DefaultParams()).Snapshot()

	formState := form.NewState(form.DefaultParams())
	formState.Record("Known", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), 0, 0)

	vector := assembler.Build("Known", "Unknown", time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC), 1, ratings, formState.Snapshot())

	// A recorded scoreless match is real data, not a gap to fill
	assert.Zero(t, vector.HomeRollingGoals)
	assert.Equal(t, 2.5, vector.AwayRollingGoals)
}
