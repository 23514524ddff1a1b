package models

import (
	"time"

	"github.com/google/uuid"
)

// OddsQuote holds the 1X2 decimal odds offered for a fixture.
// Any leg may be absent; implied probability treats odds at or below
// 1.0 as "no market data" rather than an error.
type OddsQuote struct {
	HomeOdd *float64 `db:"home_odd" json:"home_odd"`
	DrawOdd *float64 `db:"draw_odd" json:"draw_odd"`
	AwayOdd *float64 `db:"away_odd" json:"away_odd"`
}

// Fixture represents an upcoming match to predict, with optional market data.
type Fixture struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	LeagueID    int       `db:"league_id" json:"league_id"`
	MatchDate   time.Time `db:"match_date" json:"match_date" validate:"required"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
	Odds        OddsQuote `db:"-" json:"odds"`
	InjuryCount int       `db:"injury_count" json:"injury_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ImpliedProbability converts a decimal odd to the market's implied
// probability. Returns 0 for nil or invalid odds.
func ImpliedProbability(odd *float64) float64 {
	if odd == nil || *odd <= 1.0 {
		return 0
	}
	return 1.0 / *odd
}

// GetHomeOdd returns the home odd or 0 if absent.
func (q *OddsQuote) GetHomeOdd() float64 {
	if q.HomeOdd == nil {
		return 0
	}
	return *q.HomeOdd
}

// GetDrawOdd returns the draw odd or 0 if absent.
func (q *OddsQuote) GetDrawOdd() float64 {
	if q.DrawOdd == nil {
		return 0
	}
	return *q.DrawOdd
}

// GetAwayOdd returns the away odd or 0 if absent.
func (q *OddsQuote) GetAwayOdd() float64 {
	if q.AwayOdd == nil {
		return 0
	}
	return *q.AwayOdd
}

// HasFullMarket reports whether all three legs of the 1X2 market are quoted.
func (q *OddsQuote) HasFullMarket() bool {
	return q.GetHomeOdd() > 1.0 && q.GetDrawOdd() > 1.0 && q.GetAwayOdd() > 1.0
}

// Overround returns the bookmaker margin: sum of implied probabilities
// minus 1.0. Returns 0 when the market is incomplete.
func (q *OddsQuote) Overround() float64 {
	if !q.HasFullMarket() {
		return 0
	}
	return ImpliedProbability(q.HomeOdd) + ImpliedProbability(q.DrawOdd) + ImpliedProbability(q.AwayOdd) - 1.0
}
