package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoissonPMF(t *testing.T) {
	t.Run("sums close to one over a wide range", func(t *testing.T) {
		total := 0.0
		for k := 0; k <= 30; k++ {
			total += PoissonPMF(k, 2.5)
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	})

	t.Run("known value", func(t *testing.T) {
		// P(X=0) for lambda 1.5 is e^-1.5
		assert.InDelta(t, math.Exp(-1.5), PoissonPMF(0, 1.5), 1e-12)
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Zero(t, PoissonPMF(-1, 1.5))
		assert.Equal(t, 1.0, PoissonPMF(0, 0))
		assert.Zero(t, PoissonPMF(3, 0))
	})
}

func TestDrawProbability(t *testing.T) {
	t.Run("equal attack rates land in the risk band", func(t *testing.T) {
		// lambda 1.5 vs 1.5 over a football-depth matrix
		draw := DrawProbability(1.5, 1.5, 6)
		assert.Greater(t, draw, 0.22)
		assert.Less(t, draw, 0.25)
	})

	t.Run("symmetric in its arguments", func(t *testing.T) {
		assert.InDelta(t, DrawProbability(1.2, 2.4, 6), DrawProbability(2.4, 1.2, 6), 1e-12)
	})

	t.Run("lopsided matches draw less", func(t *testing.T) {
		assert.Less(t, DrawProbability(3.0, 0.5, 6), DrawProbability(1.5, 1.5, 6))
	})
}

func TestSimulate(t *testing.T) {
	t.Run("outcome probabilities cover the matrix", func(t *testing.T) {
		sim := Simulate(1.5, 1.2, 6)
		total := sim.HomeWin + sim.Draw + sim.AwayWin
		assert.Greater(t, total, 0.98)
		assert.LessOrEqual(t, total, 1.0)
		assert.Greater(t, sim.HomeWin, sim.AwayWin)
	})

	t.Run("most likely score for low scoring sides", func(t *testing.T) {
		sim := Simulate(0.8, 0.6, 6)
		assert.Equal(t, 0, sim.LikelyScore.Home)
		assert.Equal(t, 0, sim.LikelyScore.Away)
	})

	t.Run("draw matches DrawProbability", func(t *testing.T) {
		sim := Simulate(1.5, 1.5, 6)
		assert.InDelta(t, DrawProbability(1.5, 1.5, 6), sim.Draw, 1e-12)
	})
}

func TestExpectedGoals(t *testing.T) {
	assert.InDelta(t, 1.5, ExpectedGoals(1.2, 1.8), 1e-9)
	// Missing opponent rate falls back to the raw scoring average
	assert.InDelta(t, 1.2, ExpectedGoals(1.2, 0), 1e-9)
	assert.Zero(t, ExpectedGoals(0, 0))
}
