package models

import "fmt"

// FeatureSchema is the ordered list of feature columns the classifier was
// trained with. The order is a contract shared by the assembler and the
// inference boundary; it must never be reordered without retraining.
var FeatureSchema = []string{
	"league_id",
	"home_elo", "away_elo", "elo_diff",
	"home_rolling_goals", "away_rolling_goals",
	"home_rolling_conceded", "away_rolling_conceded",
	"form_diff", "defensive_diff",
	"home_btts_rate", "away_btts_rate", "btts_interaction",
	"home_rest_days", "away_rest_days", "rest_diff",
}

// FeatureVector is a fixed-order numeric record describing one
// (home, away, date, league) tuple. Unresolvable fields default to 0.
type FeatureVector struct {
	LeagueID            float64 `json:"league_id"`
	HomeElo             float64 `json:"home_elo"`
	AwayElo             float64 `json:"away_elo"`
	EloDiff             float64 `json:"elo_diff"`
	HomeRollingGoals    float64 `json:"home_rolling_goals"`
	AwayRollingGoals    float64 `json:"away_rolling_goals"`
	HomeRollingConceded float64 `json:"home_rolling_conceded"`
	AwayRollingConceded float64 `json:"away_rolling_conceded"`
	FormDiff            float64 `json:"form_diff"`
	DefensiveDiff       float64 `json:"defensive_diff"`
	HomeBTTSRate        float64 `json:"home_btts_rate"`
	AwayBTTSRate        float64 `json:"away_btts_rate"`
	BTTSInteraction     float64 `json:"btts_interaction"`
	HomeRestDays        float64 `json:"home_rest_days"`
	AwayRestDays        float64 `json:"away_rest_days"`
	RestDiff            float64 `json:"rest_diff"`
}

// Values returns the feature values in schema order.
func (v *FeatureVector) Values() []float64 {
	return []float64{
		v.LeagueID,
		v.HomeElo, v.AwayElo, v.EloDiff,
		v.HomeRollingGoals, v.AwayRollingGoals,
		v.HomeRollingConceded, v.AwayRollingConceded,
		v.FormDiff, v.DefensiveDiff,
		v.HomeBTTSRate, v.AwayBTTSRate, v.BTTSInteraction,
		v.HomeRestDays, v.AwayRestDays, v.RestDiff,
	}
}

// ValidateSchema checks a column list loaded from the model artifact against
// the compiled-in schema. A mismatch means the classifier was trained with a
// different feature layout and predictions would be garbage.
func ValidateSchema(columns []string) error {
	if len(columns) != len(FeatureSchema) {
		return fmt.Errorf("%w: expected %d columns, got %d", ErrSchemaMismatch, len(FeatureSchema), len(columns))
	}
	for i, col := range columns {
		if col != FeatureSchema[i] {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrSchemaMismatch, i, col, FeatureSchema[i])
		}
	}
	return nil
}

// FeatureRow pairs a feature vector with the match it was derived from and
// the training target label. Produced by the historical replay pass.
type FeatureRow struct {
	MatchID  string        `json:"match_id"`
	Features FeatureVector `json:"features"`
	Target   Outcome       `json:"target"`
}
