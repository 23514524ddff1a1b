// Package form implements the rolling form engine: trailing per-team windows
// of recent match outcomes and their backward-looking aggregates.
package form

import "time"

// Params controls windowing and rest-day handling.
type Params struct {
	Window          int
	RestDayCap      float64
	RestDayFallback float64
}

// DefaultParams returns the standard football parameters.
func DefaultParams() Params {
	return Params{Window: 5, RestDayCap: 30, RestDayFallback: 7}
}

// Aggregates holds the rolling view of a team's recent form. A team with no
// history gets the zero value (all rates 0, Matches 0).
type Aggregates struct {
	GoalsFor     float64
	GoalsAgainst float64
	Form         float64
	BTTSRate     float64
	Matches      int
}

type entry struct {
	date         time.Time
	goalsFor     int
	goalsAgainst int
	points       int
	bothScored   int
	restDays     float64
}

// State accumulates per-team match timelines during the historical replay.
// Append-only: aggregates are derived views, never stored. Owned exclusively
// by the replay pass; prediction-time readers use a Snapshot.
type State struct {
	params  Params
	history map[string][]entry
}

// NewState creates an empty form state.
func NewState(params Params) *State {
	if params.Window <= 0 {
		params.Window = DefaultParams().Window
	}
	return &State{
		params:  params,
		history: make(map[string][]entry),
	}
}

// Record appends one match outcome to a team's timeline. The caller feeds
// matches in ascending date order, once from each side's perspective.
func (s *State) Record(team string, date time.Time, goalsFor, goalsAgainst int) {
	points := 0
	switch {
	case goalsFor > goalsAgainst:
		points = 3
	case goalsFor == goalsAgainst:
		points = 1
	}

	bothScored := 0
	if goalsFor > 0 && goalsAgainst > 0 {
		bothScored = 1
	}

	s.history[team] = append(s.history[team], entry{
		date:         date,
		goalsFor:     goalsFor,
		goalsAgainst: goalsAgainst,
		points:       points,
		bothScored:   bothScored,
		restDays:     s.RestDays(team, date),
	})
}

// Aggregates computes rolling means over the team's most recent matches, at
// most Window of them. Called before Record for the same match, this yields
// strictly backward-looking values (the current match never contributes to
// its own features).
func (s *State) Aggregates(team string) Aggregates {
	return aggregate(s.history[team], s.params.Window)
}

// RestDays returns the days between the given date and the team's latest
// recorded match, clipped to [0, cap]. Teams without history get the
// configured fallback.
func (s *State) RestDays(team string, date time.Time) float64 {
	entries := s.history[team]
	if len(entries) == 0 {
		return s.params.RestDayFallback
	}
	return clipRest(date.Sub(entries[len(entries)-1].date), s.params.RestDayCap)
}

// LastMatchDate returns the date of the team's most recent recorded match.
func (s *State) LastMatchDate(team string) (time.Time, bool) {
	entries := s.history[team]
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[len(entries)-1].date, true
}

// Snapshot returns an immutable read-only view carrying, per team, the
// trailing window needed for prediction-time lookups.
func (s *State) Snapshot() Snapshot {
	teams := make(map[string]teamView, len(s.history))
	for team, entries := range s.history {
		window := entries
		if len(window) > s.params.Window {
			window = window[len(window)-s.params.Window:]
		}
		copied := make([]entry, len(window))
		copy(copied, window)
		teams[team] = teamView{
			entries:  copied,
			lastDate: entries[len(entries)-1].date,
		}
	}
	return Snapshot{params: s.params, teams: teams}
}

type teamView struct {
	entries  []entry
	lastDate time.Time
}

// Snapshot is a read-only view of form state, safe to share across
// concurrent prediction calls.
type Snapshot struct {
	params Params
	teams  map[string]teamView
}

// Has reports whether the team has any recorded history.
func (s Snapshot) Has(team string) bool {
	_, ok := s.teams[team]
	return ok
}

// Aggregates returns the team's rolling aggregates as of the snapshot.
func (s Snapshot) Aggregates(team string) Aggregates {
	view, ok := s.teams[team]
	if !ok {
		return Aggregates{}
	}
	return aggregate(view.entries, s.params.Window)
}

// RestDays returns days of rest before a fixture on the given date, clipped
// to [0, cap], with the configured fallback for unknown teams.
func (s Snapshot) RestDays(team string, date time.Time) float64 {
	view, ok := s.teams[team]
	if !ok {
		return s.params.RestDayFallback
	}
	return clipRest(date.Sub(view.lastDate), s.params.RestDayCap)
}

func aggregate(entries []entry, window int) Aggregates {
	if len(entries) == 0 {
		return Aggregates{}
	}
	if len(entries) > window {
		entries = entries[len(entries)-window:]
	}

	var agg Aggregates
	for _, e := range entries {
		agg.GoalsFor += float64(e.goalsFor)
		agg.GoalsAgainst += float64(e.goalsAgainst)
		agg.Form += float64(e.points)
		agg.BTTSRate += float64(e.bothScored)
	}
	n := float64(len(entries))
	agg.GoalsFor /= n
	agg.GoalsAgainst /= n
	agg.Form /= n
	agg.BTTSRate /= n
	agg.Matches = len(entries)
	return agg
}

func clipRest(since time.Duration, capDays float64) float64 {
	days := float64(int(since.Hours() / 24))
	if days < 0 {
		return 0
	}
	if days > capDays {
		return capDays
	}
	return days
}
