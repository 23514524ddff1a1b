package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-sniper/internal/models"
)

func odds(home, draw, away float64) models.OddsQuote {
	return models.OddsQuote{HomeOdd: &home, DrawOdd: &draw, AwayOdd: &away}
}

func TestEdge(t *testing.T) {
	// 52% at 2.10 is a 9.2% edge
	assert.InDelta(t, 9.2, Edge(0.52, 2.10), 1e-9)
	assert.Negative(t, Edge(0.40, 2.00))
	assert.Zero(t, Edge(0.50, 2.00))
}

func TestDoubleChanceOdd(t *testing.T) {
	dc := DoubleChanceOdd(2.10, 3.20)
	assert.InDelta(t, 1.0/(1/2.10+1/3.20), dc, 1e-9)
	assert.Less(t, dc, 2.10)

	// Division errors collapse to zero, never panic
	assert.Zero(t, DoubleChanceOdd(0, 3.20))
	assert.Zero(t, DoubleChanceOdd(2.10, 0))
	assert.Zero(t, DoubleChanceOdd(-1.5, 2.0))
}

func TestKellyStake(t *testing.T) {
	t.Run("published example", func(t *testing.T) {
		// b=1.10, p=0.52: f* = (1.10*0.52-0.48)/1.10, quarter Kelly
		stake := KellyStake(2.10, 0.52, 0.25)
		assert.InDelta(t, 2.09, stake, 0.02)
	})

	t.Run("never negative", func(t *testing.T) {
		assert.Zero(t, KellyStake(2.00, 0.30, 0.25))
		assert.Zero(t, KellyStake(1.00, 0.60, 0.25))
		assert.Zero(t, KellyStake(2.00, 0, 0.25))
	})
}

func TestNormalizeProbs(t *testing.T) {
	t.Run("percentages divided by 100", func(t *testing.T) {
		p := NormalizeProbs(models.Probabilities{Home: 52, Draw: 20, Away: 28})
		assert.InDelta(t, 0.52, p.Home, 1e-9)
		assert.InDelta(t, 0.28, p.Away, 1e-9)
	})

	t.Run("fractions untouched", func(t *testing.T) {
		p := NormalizeProbs(models.Probabilities{Home: 0.52, Draw: 0.20, Away: 0.28})
		assert.Equal(t, 0.52, p.Home)
	})

	t.Run("probability of exactly one passes through", func(t *testing.T) {
		p := NormalizeProbs(models.Probabilities{Home: 1.0, Draw: 0, Away: 0})
		assert.Equal(t, 1.0, p.Home)
	})
}

func TestEvaluateBetHome(t *testing.T) {
	engine := NewEngine(DefaultParams())

	verdict := engine.Evaluate(Candidate{
		ModelProbs: models.Probabilities{Home: 0.52, Draw: 0.20, Away: 0.28},
		Odds:       odds(2.10, 3.40, 3.20),
	})

	require.Equal(t, models.DecisionBet, verdict.Decision)
	assert.Equal(t, models.BetOutcomeHome, verdict.Outcome)
	assert.InDelta(t, 9.2, verdict.EdgePercent, 1e-9)
	assert.Equal(t, 2.10, verdict.DecisionOdd)
	assert.InDelta(t, 2.09, verdict.StakePercent, 0.02)
	assert.InDelta(t, 0.52, verdict.Confidence, 1e-9)
}

func TestEvaluateDoubleChanceBeforeSingles(t *testing.T) {
	engine := NewEngine(DefaultParams())

	// Heavy no-draw lean against soft home/away prices on both legs
	verdict := engine.Evaluate(Candidate{
		ModelProbs: models.Probabilities{Home: 0.48, Draw: 0.07, Away: 0.45},
		Odds:       odds(2.40, 3.60, 2.60),
	})

	require.Equal(t, models.DecisionBet, verdict.Decision)
	assert.Equal(t, models.BetOutcomeDoubleChance, verdict.Outcome)
	assert.InDelta(t, 0.93, verdict.Confidence, 1e-9)
	assert.Positive(t, verdict.StakePercent)
}

func TestEvaluateCautionOnDrawRisk(t *testing.T) {
	params := DefaultParams()
	params.DrawRiskThreshold = 0.22
	engine := NewEngine(params)

	// Equal lambdas put the Poisson draw above a 0.22 threshold
	verdict := engine.Evaluate(Candidate{
		ModelProbs:       models.Probabilities{Home: 0.40, Draw: 0.30, Away: 0.30},
		Odds:             odds(2.50, 3.10, 2.90),
		HomeGoalsFor:     1.5,
		HomeGoalsAgainst: 1.5,
		AwayGoalsFor:     1.5,
		AwayGoalsAgainst: 1.5,
	})

	assert.Equal(t, models.DecisionCaution, verdict.Decision)
	assert.Equal(t, models.BetOutcomeNone, verdict.Outcome)
	assert.Greater(t, verdict.PoissonDrawProb, 0.22)
	assert.Contains(t, verdict.RiskFlags, models.RiskHighDrawProbability)
}

func TestEvaluateSkipWithoutValue(t *testing.T) {
	engine := NewEngine(DefaultParams())

	// Market prices match the model: no edge anywhere
	verdict := engine.Evaluate(Candidate{
		ModelProbs: models.Probabilities{Home: 0.45, Draw: 0.25, Away: 0.30},
		Odds:       odds(2.10, 3.40, 3.20),
	})

	assert.Equal(t, models.DecisionSkip, verdict.Decision)
	assert.Zero(t, verdict.StakePercent)
}

func TestEvaluateRiskFlags(t *testing.T) {
	engine := NewEngine(DefaultParams())

	t.Run("even match", func(t *testing.T) {
		verdict := engine.Evaluate(Candidate{
			ModelProbs: models.Probabilities{Home: 0.38, Draw: 0.24, Away: 0.38},
			Odds:       odds(2.60, 3.30, 2.60),
		})
		assert.Contains(t, verdict.RiskFlags, models.RiskEvenlyMatched)
	})

	t.Run("fat market margin", func(t *testing.T) {
		verdict := engine.Evaluate(Candidate{
			ModelProbs: models.Probabilities{Home: 0.50, Draw: 0.20, Away: 0.30},
			Odds:       odds(1.80, 3.00, 3.00),
		})
		assert.Contains(t, verdict.RiskFlags, models.RiskHighMarketMargin)
	})

	t.Run("injuries", func(t *testing.T) {
		verdict := engine.Evaluate(Candidate{
			ModelProbs:  models.Probabilities{Home: 0.50, Draw: 0.20, Away: 0.30},
			Odds:        odds(2.10, 3.40, 3.20),
			InjuryCount: 2,
		})
		assert.Contains(t, verdict.RiskFlags, models.RiskInjuries)
	})
}

func TestEvaluatePercentageInputs(t *testing.T) {
	engine := NewEngine(DefaultParams())

	// Percentage-style model output must produce the same verdict as its
	// fractional equivalent
	fromPercent := engine.Evaluate(Candidate{
		ModelProbs: models.Probabilities{Home: 52, Draw: 20, Away: 28},
		Odds:       odds(2.10, 3.40, 3.20),
	})
	fromFraction := engine.Evaluate(Candidate{
		ModelProbs: models.Probabilities{Home: 0.52, Draw: 0.20, Away: 0.28},
		Odds:       odds(2.10, 3.40, 3.20),
	})

	assert.Equal(t, fromFraction.Decision, fromPercent.Decision)
	assert.InDelta(t, fromFraction.EdgePercent, fromPercent.EdgePercent, 1e-9)
}
