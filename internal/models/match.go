package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents the result of a match from the home side's perspective.
// The encoding matches the classifier's target labels.
type Outcome int

const (
	OutcomeAwayWin Outcome = 0
	OutcomeDraw    Outcome = 1
	OutcomeHomeWin Outcome = 2
)

// Match represents a finished match loaded from the match store.
// It is the source of truth for the replay pass and is never mutated.
type Match struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	LeagueID  int       `db:"league_id" json:"league_id"`
	MatchDate time.Time `db:"match_date" json:"match_date" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals int       `db:"home_goals" json:"home_goals" validate:"gte=0"`
	AwayGoals int       `db:"away_goals" json:"away_goals" validate:"gte=0"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Outcome returns the 3-way result label for this match.
func (m *Match) Outcome() Outcome {
	switch {
	case m.HomeGoals > m.AwayGoals:
		return OutcomeHomeWin
	case m.HomeGoals < m.AwayGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// HomePoints returns the league points earned by the home side (3/1/0).
func (m *Match) HomePoints() int {
	return pointsFor(m.HomeGoals, m.AwayGoals)
}

// AwayPoints returns the league points earned by the away side (3/1/0).
func (m *Match) AwayPoints() int {
	return pointsFor(m.AwayGoals, m.HomeGoals)
}

// BothTeamsScored reports whether both sides scored at least once.
func (m *Match) BothTeamsScored() bool {
	return m.HomeGoals > 0 && m.AwayGoals > 0
}

func pointsFor(goalsFor, goalsAgainst int) int {
	switch {
	case goalsFor > goalsAgainst:
		return 3
	case goalsFor == goalsAgainst:
		return 1
	default:
		return 0
	}
}
