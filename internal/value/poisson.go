// Package value implements the value/edge decision engine: implied
// probabilities, Poisson draw-risk estimation, Kelly staking and the
// bet/skip/caution decision policy.
package value

import (
	"math"

	"github.com/yourusername/value-sniper/internal/models"
)

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda).
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0
	}
	// Log space keeps larger k stable.
	logProb := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logProb)
}

func logFactorial(n int) float64 {
	result := 0.0
	for i := 2; i <= n; i++ {
		result += math.Log(float64(i))
	}
	return result
}

// DrawProbability approximates P(draw) as the sum over k = 0..depth of
// PMF(k, lambdaHome) * PMF(k, lambdaAway). Symmetric in its lambda arguments.
func DrawProbability(lambdaHome, lambdaAway float64, depth int) float64 {
	prob := 0.0
	for k := 0; k <= depth; k++ {
		prob += PoissonPMF(k, lambdaHome) * PoissonPMF(k, lambdaAway)
	}
	return prob
}

// Simulation holds the outcome probabilities of a full score-matrix sweep.
type Simulation struct {
	HomeWin     float64
	Draw        float64
	AwayWin     float64
	LikelyScore models.Score
}

// Simulate sweeps the (home, away) score matrix over [0..depth]^2,
// accumulating outcome probabilities and tracking the most likely exact
// score. Ties keep the first score encountered in ascending enumeration
// order (strict > comparison).
func Simulate(lambdaHome, lambdaAway float64, depth int) Simulation {
	var sim Simulation
	maxProb := 0.0

	for h := 0; h <= depth; h++ {
		probHome := PoissonPMF(h, lambdaHome)
		for a := 0; a <= depth; a++ {
			probScore := probHome * PoissonPMF(a, lambdaAway)

			switch {
			case h > a:
				sim.HomeWin += probScore
			case a > h:
				sim.AwayWin += probScore
			default:
				sim.Draw += probScore
			}

			if probScore > maxProb {
				maxProb = probScore
				sim.LikelyScore = models.Score{Home: h, Away: a}
			}
		}
	}

	return sim
}

// ExpectedGoals derives a side's goal expectation from its scoring average
// and the opponent's conceding average, falling back to the raw scoring
// average when the opponent rate is unavailable.
func ExpectedGoals(scored, opponentConceded float64) float64 {
	if scored > 0 && opponentConceded > 0 {
		return (scored + opponentConceded) / 2
	}
	return scored
}
