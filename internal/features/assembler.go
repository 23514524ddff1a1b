// Package features assembles model feature vectors from rating and form
// state, for both the historical replay and prediction-time fixtures.
package features

import (
	"time"

	"github.com/yourusername/value-sniper/internal/form"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/rating"
)

// Params controls fallbacks for teams without history.
type Params struct {
	// FallbackGoalRate substitutes rolling goals for/against when a team has
	// no recorded matches. Roughly the league-average goals per game.
	FallbackGoalRate float64
}

// DefaultParams returns the standard football parameters.
func DefaultParams() Params {
	return Params{FallbackGoalRate: 1.3}
}

// Assembler builds fixed-order feature vectors from immutable state
// snapshots. Pure lookup and arithmetic; safe for concurrent use.
type Assembler struct {
	params Params
}

// NewAssembler creates a feature assembler.
func NewAssembler(params Params) *Assembler {
	if params.FallbackGoalRate <= 0 {
		params.FallbackGoalRate = DefaultParams().FallbackGoalRate
	}
	return &Assembler{params: params}
}

// Build produces the feature vector for a (home, away, date, league) tuple
// using the latest known per-team state. Unknown teams resolve to documented
// defaults; a cold start still yields a valid all-default vector.
func (a *Assembler) Build(homeTeam, awayTeam string, matchDate time.Time, leagueID int, ratings rating.Snapshot, forms form.Snapshot) models.FeatureVector {
	homeAgg := a.resolveAggregates(forms, homeTeam)
	awayAgg := a.resolveAggregates(forms, awayTeam)

	homeRest := forms.RestDays(homeTeam, matchDate)
	awayRest := forms.RestDays(awayTeam, matchDate)

	return assemble(leagueID, ratings.Get(homeTeam), ratings.Get(awayTeam), homeAgg, awayAgg, homeRest, awayRest)
}

func (a *Assembler) resolveAggregates(forms form.Snapshot, team string) form.Aggregates {
	agg := forms.Aggregates(team)
	if agg.Matches == 0 {
		agg.GoalsFor = a.params.FallbackGoalRate
		agg.GoalsAgainst = a.params.FallbackGoalRate
	}
	return agg
}

// assemble fills the vector and its derived interaction fields. Field order
// follows models.FeatureSchema exactly.
func assemble(leagueID int, homeElo, awayElo float64, homeAgg, awayAgg form.Aggregates, homeRest, awayRest float64) models.FeatureVector {
	return models.FeatureVector{
		LeagueID:            float64(leagueID),
		HomeElo:             homeElo,
		AwayElo:             awayElo,
		EloDiff:             homeElo - awayElo,
		HomeRollingGoals:    homeAgg.GoalsFor,
		AwayRollingGoals:    awayAgg.GoalsFor,
		HomeRollingConceded: homeAgg.GoalsAgainst,
		AwayRollingConceded: awayAgg.GoalsAgainst,
		FormDiff:            homeAgg.Form - awayAgg.Form,
		DefensiveDiff:       homeAgg.GoalsAgainst - awayAgg.GoalsAgainst,
		HomeBTTSRate:        homeAgg.BTTSRate,
		AwayBTTSRate:        awayAgg.BTTSRate,
		BTTSInteraction:     homeAgg.BTTSRate * awayAgg.BTTSRate,
		HomeRestDays:        homeRest,
		AwayRestDays:        awayRest,
		RestDiff:            homeRest - awayRest,
	}
}
