package features

import (
	"sort"

	"github.com/yourusername/value-sniper/internal/form"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/rating"
)

// ReplayResult carries the feature rows from a historical replay along with
// read-only snapshots of the final rating and form state, used for
// prediction-time feature assembly until the next replay.
type ReplayResult struct {
	Rows    []models.FeatureRow
	Ratings rating.Snapshot
	Forms   form.Snapshot
}

// Replay runs the single chronological pass over finished matches: for each
// match it reads pre-match rating and form state into a feature row, then
// applies the match outcome to both engines. Input is sorted defensively by
// date; ties keep their relative order.
//
// Pre-match values are read strictly before state is updated, so a match's
// own outcome never leaks into its feature row.
func Replay(matches []models.Match, ratingParams rating.Params, formParams form.Params) ReplayResult {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchDate.Before(sorted[j].MatchDate)
	})

	ratings := rating.NewRatings(ratingParams)
	forms := form.NewState(formParams)

	rows := make([]models.FeatureRow, 0, len(sorted))
	for _, m := range sorted {
		homeAgg := forms.Aggregates(m.HomeTeam)
		awayAgg := forms.Aggregates(m.AwayTeam)
		homeRest := forms.RestDays(m.HomeTeam, m.MatchDate)
		awayRest := forms.RestDays(m.AwayTeam, m.MatchDate)

		vector := assemble(m.LeagueID, ratings.Get(m.HomeTeam), ratings.Get(m.AwayTeam), homeAgg, awayAgg, homeRest, awayRest)

		rows = append(rows, models.FeatureRow{
			MatchID:  m.ID.String(),
			Features: vector,
			Target:   m.Outcome(),
		})

		ratings.Apply(m.HomeTeam, m.AwayTeam, m.HomeGoals, m.AwayGoals)
		forms.Record(m.HomeTeam, m.MatchDate, m.HomeGoals, m.AwayGoals)
		forms.Record(m.AwayTeam, m.MatchDate, m.AwayGoals, m.HomeGoals)
	}

	return ReplayResult{
		Rows:    rows,
		Ratings: ratings.Snapshot(),
		Forms:   forms.Snapshot(),
	}
}
