package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	t.Run("equal ratings give even chances", func(t *testing.T) {
		assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
	})

	t.Run("complementary for the two sides", func(t *testing.T) {
		a := ExpectedScore(1600, 1450)
		b := ExpectedScore(1450, 1600)
		assert.InDelta(t, 1.0, a+b, 1e-9)
		assert.Greater(t, a, 0.5)
	})

	t.Run("400 point gap is roughly 10 to 1", func(t *testing.T) {
		assert.InDelta(t, 10.0/11.0, ExpectedScore(1900, 1500), 1e-9)
	})
}

func TestDelta(t *testing.T) {
	t.Run("four goal home win at equal ratings", func(t *testing.T) {
		params := Params{KFactor: 30, HomeAdvantage: 0}
		delta := Delta(params, 1500, 1500, 4, 0)
		// mov = ln(5), expected = 0.5
		assert.InDelta(t, 30*math.Log(5)*0.5, delta, 1e-9)
		assert.InDelta(t, 24.1, delta, 0.1)
	})

	t.Run("one goal margin has no mov boost", func(t *testing.T) {
		params := Params{KFactor: 30, HomeAdvantage: 0}
		assert.InDelta(t, 15.0, Delta(params, 1500, 1500, 1, 0), 1e-9)
	})

	t.Run("draw moves the favorite down", func(t *testing.T) {
		params := Params{KFactor: 30, HomeAdvantage: 0}
		delta := Delta(params, 1600, 1400, 1, 1)
		assert.Negative(t, delta)
	})

	t.Run("home advantage shifts the expected score", func(t *testing.T) {
		with := Delta(DefaultParams(), 1500, 1500, 1, 0)
		without := Delta(Params{KFactor: 30}, 1500, 1500, 1, 0)
		// Home win is less surprising with the advantage applied
		assert.Less(t, with, without)
	})

	t.Run("away blowout mirrors home blowout", func(t *testing.T) {
		params := Params{KFactor: 30, HomeAdvantage: 0}
		home := Delta(params, 1500, 1500, 3, 0)
		away := Delta(params, 1500, 1500, 0, 3)
		assert.InDelta(t, home, -away, 1e-9)
	})
}

func TestRatingsApply(t *testing.T) {
	t.Run("zero sum across any sequence", func(t *testing.T) {
		ratings := NewRatings(DefaultParams())
		ratings.Apply("Arsenal", "Chelsea", 2, 0)
		ratings.Apply("Chelsea", "Spurs", 1, 1)
		ratings.Apply("Spurs", "Arsenal", 0, 3)

		total := ratings.Get("Arsenal") + ratings.Get("Chelsea") + ratings.Get("Spurs")
		assert.InDelta(t, 3*DefaultRating, total, 1e-6)
	})

	t.Run("unseen teams default", func(t *testing.T) {
		ratings := NewRatings(DefaultParams())
		assert.Equal(t, DefaultRating, ratings.Get("Nobody"))
		assert.Equal(t, 0, ratings.Len())
	})

	t.Run("winner gains loser drops", func(t *testing.T) {
		ratings := NewRatings(DefaultParams())
		delta := ratings.Apply("Leeds", "Derby", 3, 1)
		require.Positive(t, delta)
		assert.Greater(t, ratings.Get("Leeds"), DefaultRating)
		assert.Less(t, ratings.Get("Derby"), DefaultRating)
	})
}

func TestSnapshot(t *testing.T) {
	ratings := NewRatings(DefaultParams())
	ratings.Apply("Lyon", "Lille", 2, 1)

	snap := ratings.Snapshot()
	require.True(t, snap.Has("Lyon"))
	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, ratings.Get("Lyon"), snap.Get("Lyon"))
	assert.Equal(t, DefaultRating, snap.Get("Nantes"))
	assert.False(t, snap.Has("Nantes"))

	// Later updates must not leak into an existing snapshot
	before := snap.Get("Lyon")
	ratings.Apply("Lyon", "Lille", 0, 4)
	assert.Equal(t, before, snap.Get("Lyon"))
}
