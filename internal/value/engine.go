package value

import (
	"fmt"
	"math"

	"github.com/yourusername/value-sniper/internal/models"
)

// Params holds the decision thresholds. All values are externally settable
// through configuration; the defaults mirror the football presets.
type Params struct {
	SimulationDepth     int     // score matrix sweeps [0..depth]
	DrawRiskThreshold   float64 // poisson/model draw prob above this -> caution
	MinDoubleChanceEdge float64 // percent edge to back the 12 market
	MinSingleEdge       float64 // percent edge to back home/away outright
	KellyFraction       float64 // conservatism multiplier on full Kelly
	MaxMarketMargin     float64 // overround above this flags bad odds
	EvenMatchThreshold  float64 // |pHome - pAway| below this flags a coin flip
}

// DefaultParams returns the standard football thresholds.
func DefaultParams() Params {
	return Params{
		SimulationDepth:     6,
		DrawRiskThreshold:   0.25,
		MinDoubleChanceEdge: 2.0,
		MinSingleEdge:       5.0,
		KellyFraction:       0.25,
		MaxMarketMargin:     0.08,
		EvenMatchThreshold:  0.10,
	}
}

// Candidate is one prediction to evaluate: model probabilities, market odds
// and optional supporting stats. Goal rates of 0 mean "unavailable".
type Candidate struct {
	ModelProbs       models.Probabilities
	Odds             models.OddsQuote
	HomeGoalsFor     float64
	HomeGoalsAgainst float64
	AwayGoalsFor     float64
	AwayGoalsAgainst float64
	InjuryCount      int
}

// Verdict is the engine's evaluation of a candidate. Absence of a bet is a
// normal terminal state, never an error.
type Verdict struct {
	Decision        models.Decision
	Outcome         models.BetOutcome
	Confidence      float64
	EdgePercent     float64
	StakePercent    float64
	DecisionOdd     float64
	PoissonDrawProb float64
	LikelyScore     models.Score
	RiskFlags       []string
	Reasoning       string
}

// Engine applies the decision policy. Stateless and deterministic: identical
// inputs always produce the same verdict.
type Engine struct {
	params Params
}

// NewEngine creates a decision engine with the given thresholds.
func NewEngine(params Params) *Engine {
	if params.SimulationDepth <= 0 {
		params.SimulationDepth = DefaultParams().SimulationDepth
	}
	return &Engine{params: params}
}

// Edge returns the value edge of backing an outcome at the given odd, as a
// percentage: (prob * odd - 1) * 100.
func Edge(prob, odd float64) float64 {
	return (prob*odd - 1) * 100
}

// DoubleChanceOdd derives the synthetic bookmaker odd for "home or away"
// (no draw) from the 1X2 legs: 1 / (1/home + 1/away). Returns 0 when the
// legs cannot produce a finite odd.
func DoubleChanceOdd(homeOdd, awayOdd float64) float64 {
	if homeOdd <= 0 || awayOdd <= 0 {
		return 0
	}
	combined := 1/homeOdd + 1/awayOdd
	if combined <= 0 {
		return 0
	}
	return 1 / combined
}

// KellyStake returns the suggested stake as a percentage of bankroll using
// the fractional Kelly criterion. Zero for invalid odds or probability;
// never negative.
func KellyStake(odd, probWin, fraction float64) float64 {
	if odd <= 1 || probWin <= 0 {
		return 0
	}
	b := odd - 1
	q := 1 - probWin
	f := (b*probWin - q) / b
	return math.Max(0, f*fraction*100)
}

// NormalizeProbs applies the percentage-entry heuristic: when any component
// exceeds 1 the whole distribution is treated as percentages and divided by
// 100. Documented source behavior, kept as-is (a genuine probability of
// exactly 1.0 passes through untouched).
func NormalizeProbs(p models.Probabilities) models.Probabilities {
	if p.Home > 1 || p.Draw > 1 || p.Away > 1 {
		p.Home /= 100
		p.Draw /= 100
		p.Away /= 100
	}
	return p
}

// Evaluate runs the full decision policy over one candidate.
func (e *Engine) Evaluate(c Candidate) Verdict {
	probs := NormalizeProbs(c.ModelProbs)

	lambdaHome := ExpectedGoals(c.HomeGoalsFor, c.AwayGoalsAgainst)
	lambdaAway := ExpectedGoals(c.AwayGoalsFor, c.HomeGoalsAgainst)

	// Poisson cross-check, independent of the classifier. Without goal
	// rates the model's own draw probability gates the draw risk.
	drawRisk := probs.Draw
	var sim Simulation
	if lambdaHome > 0 || lambdaAway > 0 {
		drawRisk = DrawProbability(lambdaHome, lambdaAway, e.params.SimulationDepth)
		sim = Simulate(lambdaHome, lambdaAway, e.params.SimulationDepth)
	}

	verdict := Verdict{
		Decision:        models.DecisionSkip,
		Outcome:         models.BetOutcomeNone,
		Confidence:      math.Max(probs.Home, probs.Away),
		PoissonDrawProb: drawRisk,
		LikelyScore:     sim.LikelyScore,
		RiskFlags:       e.riskFlags(probs, c, drawRisk),
	}

	homeOdd := c.Odds.GetHomeOdd()
	awayOdd := c.Odds.GetAwayOdd()
	dcOdd := DoubleChanceOdd(homeOdd, awayOdd)

	edgeHome := Edge(probs.Home, homeOdd)
	edgeAway := Edge(probs.Away, awayOdd)
	noDrawProb := probs.Home + probs.Away
	edgeDC := Edge(noDrawProb, dcOdd)

	// Decision hierarchy: first match wins.
	switch {
	case drawRisk > e.params.DrawRiskThreshold:
		verdict.Decision = models.DecisionCaution
		verdict.Reasoning = fmt.Sprintf("draw probability %.1f%% exceeds %.1f%% threshold", drawRisk*100, e.params.DrawRiskThreshold*100)

	case dcOdd > 1 && edgeDC > e.params.MinDoubleChanceEdge:
		verdict.Decision = models.DecisionBet
		verdict.Outcome = models.BetOutcomeDoubleChance
		verdict.Confidence = noDrawProb
		verdict.EdgePercent = edgeDC
		verdict.DecisionOdd = dcOdd
		verdict.StakePercent = KellyStake(dcOdd, noDrawProb, e.params.KellyFraction)
		verdict.Reasoning = "no-draw probability exceeds what the 12 market implies"

	case homeOdd > 1 && edgeHome > e.params.MinSingleEdge:
		verdict.Decision = models.DecisionBet
		verdict.Outcome = models.BetOutcomeHome
		verdict.Confidence = probs.Home
		verdict.EdgePercent = edgeHome
		verdict.DecisionOdd = homeOdd
		verdict.StakePercent = KellyStake(homeOdd, probs.Home, e.params.KellyFraction)
		verdict.Reasoning = "home win priced below model probability"

	case awayOdd > 1 && edgeAway > e.params.MinSingleEdge:
		verdict.Decision = models.DecisionBet
		verdict.Outcome = models.BetOutcomeAway
		verdict.Confidence = probs.Away
		verdict.EdgePercent = edgeAway
		verdict.DecisionOdd = awayOdd
		verdict.StakePercent = KellyStake(awayOdd, probs.Away, e.params.KellyFraction)
		verdict.Reasoning = "away win priced below model probability"

	default:
		verdict.Reasoning = "no statistical value found"
	}

	return verdict
}

func (e *Engine) riskFlags(probs models.Probabilities, c Candidate, drawRisk float64) []string {
	var flags []string
	if drawRisk > e.params.DrawRiskThreshold {
		flags = append(flags, models.RiskHighDrawProbability)
	}
	if math.Abs(probs.Home-probs.Away) < e.params.EvenMatchThreshold {
		flags = append(flags, models.RiskEvenlyMatched)
	}
	if c.Odds.Overround() > e.params.MaxMarketMargin {
		flags = append(flags, models.RiskHighMarketMargin)
	}
	if c.InjuryCount > 0 {
		flags = append(flags, models.RiskInjuries)
	}
	return flags
}
