// Package rating implements the incremental Elo rating engine.
package rating

import "math"

// DefaultRating is the rating assigned to a team before its first match.
const DefaultRating = 1500.0

// Params controls the Elo update.
type Params struct {
	KFactor       float64
	HomeAdvantage float64
}

// DefaultParams returns the standard football parameters.
func DefaultParams() Params {
	return Params{KFactor: 30, HomeAdvantage: 100}
}

// ExpectedScore returns the logistic expected score for side A against side B.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// Delta computes the rating change for the home side. The away side moves by
// the exact negative (zero-sum). Margin of victory scales the update
// logarithmically once the winning margin exceeds one goal.
func Delta(p Params, homeRating, awayRating float64, homeGoals, awayGoals int) float64 {
	var actual float64
	switch {
	case homeGoals > awayGoals:
		actual = 1.0
	case homeGoals == awayGoals:
		actual = 0.5
	default:
		actual = 0.0
	}

	expected := ExpectedScore(homeRating+p.HomeAdvantage, awayRating)

	goalDiff := homeGoals - awayGoals
	if goalDiff < 0 {
		goalDiff = -goalDiff
	}
	movMultiplier := 1.0
	if goalDiff > 1 {
		movMultiplier = math.Log(float64(goalDiff) + 1)
	}

	return p.KFactor * movMultiplier * (actual - expected)
}

// Ratings holds the current rating per team. It is exclusively owned by the
// replay pass while matches are applied; prediction-time readers must use a
// Snapshot taken after the replay completes.
type Ratings struct {
	params  Params
	ratings map[string]float64
}

// NewRatings creates an empty rating state.
func NewRatings(params Params) *Ratings {
	return &Ratings{
		params:  params,
		ratings: make(map[string]float64),
	}
}

// Get returns the current rating for a team, defaulting for unseen teams.
func (r *Ratings) Get(team string) float64 {
	if rating, ok := r.ratings[team]; ok {
		return rating
	}
	return DefaultRating
}

// Apply updates both teams' ratings for a finished match. Matches must be
// applied in ascending date order; the caller owns that ordering. The
// returned delta is the home side's rating change.
func (r *Ratings) Apply(homeTeam, awayTeam string, homeGoals, awayGoals int) float64 {
	homeRating := r.Get(homeTeam)
	awayRating := r.Get(awayTeam)

	delta := Delta(r.params, homeRating, awayRating, homeGoals, awayGoals)

	r.ratings[homeTeam] = homeRating + delta
	r.ratings[awayTeam] = awayRating - delta

	return delta
}

// Snapshot returns an immutable read-only view of the current ratings.
func (r *Ratings) Snapshot() Snapshot {
	copied := make(map[string]float64, len(r.ratings))
	for team, rating := range r.ratings {
		copied[team] = rating
	}
	return Snapshot{ratings: copied}
}

// Len returns the number of rated teams.
func (r *Ratings) Len() int {
	return len(r.ratings)
}

// Snapshot is a read-only view of rating state, safe to share across
// concurrent prediction calls.
type Snapshot struct {
	ratings map[string]float64
}

// Get returns the rating for a team, defaulting for unseen teams.
func (s Snapshot) Get(team string) float64 {
	if rating, ok := s.ratings[team]; ok {
		return rating
	}
	return DefaultRating
}

// Has reports whether the team has played at least one rated match.
func (s Snapshot) Has(team string) bool {
	_, ok := s.ratings[team]
	return ok
}

// Len returns the number of rated teams in the snapshot.
func (s Snapshot) Len() int {
	return len(s.ratings)
}
