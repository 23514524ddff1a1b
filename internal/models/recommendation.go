package models

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the terminal state of the value engine for one candidate.
type Decision string

const (
	DecisionBet     Decision = "BET"
	DecisionSkip    Decision = "SKIP"
	DecisionCaution Decision = "CAUTION"
)

// BetOutcome identifies which market leg a recommendation targets.
type BetOutcome string

const (
	BetOutcomeHome         BetOutcome = "HOME"
	BetOutcomeAway         BetOutcome = "AWAY"
	BetOutcomeDoubleChance BetOutcome = "12"
	BetOutcomeNone         BetOutcome = "NONE"
)

// Risk flag labels attached to recommendations. Advisory only: they never
// change the decision on their own.
const (
	RiskHighDrawProbability = "high_draw_probability"
	RiskEvenlyMatched       = "teams_evenly_matched"
	RiskHighMarketMargin    = "high_bookmaker_margin"
	RiskInjuries            = "injury_concerns"
)

// Probabilities holds a 3-outcome probability distribution.
type Probabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Score is an exact scoreline.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Recommendation is the final output for one fixture: decision, edge,
// suggested stake and risk context. Ephemeral per prediction run.
type Recommendation struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	FixtureID       uuid.UUID     `db:"fixture_id" json:"fixture_id"`
	HomeTeam        string        `db:"home_team" json:"home_team"`
	AwayTeam        string        `db:"away_team" json:"away_team"`
	Decision        Decision      `db:"decision" json:"decision"`
	Outcome         BetOutcome    `db:"outcome" json:"outcome"`
	Confidence      float64       `db:"confidence" json:"confidence"`
	ModelProbs      Probabilities `db:"-" json:"model_probabilities"`
	PoissonDrawProb float64       `db:"poisson_draw_prob" json:"poisson_draw_prob"`
	EdgePercent     float64       `db:"edge_percent" json:"edge_percent"`
	StakePercent    float64       `db:"stake_percent" json:"stake_percent"`
	DecisionOdd     float64       `db:"decision_odd" json:"decision_odd"`
	LikelyScore     Score         `db:"-" json:"most_likely_score"`
	RiskFlags       []string      `db:"-" json:"risk_flags"`
	Reasoning       string        `db:"reasoning" json:"reasoning"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// IsBet reports whether the engine recommends placing a bet.
func (r *Recommendation) IsBet() bool {
	return r.Decision == DecisionBet
}

// HasRisk reports whether a given risk flag is attached.
func (r *Recommendation) HasRisk(flag string) bool {
	for _, f := range r.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}
