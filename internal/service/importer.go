package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/repository"
)

// csvDateLayouts are tried in order when parsing match dates. Exported
// history files disagree on formats even within one provider.
var csvDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02/01/06",
	time.RFC3339,
}

// ImportService loads finished matches from CSV history files into the
// match store. Duplicate rows are ignored by the repository's conflict
// handling, so re-importing an overlapping file is safe.
type ImportService struct {
	matches repository.MatchRepository
	logger  *logrus.Logger
}

// NewImportService creates a CSV import service
func NewImportService(matches repository.MatchRepository, logger *logrus.Logger) *ImportService {
	return &ImportService{matches: matches, logger: logger}
}

// ImportFile reads one CSV file and inserts its matches. Expected header:
// date, home_team, away_team, home_goals, away_goals and optionally
// league_id. Returns the number of rows parsed.
func (s *ImportService) ImportFile(ctx context.Context, path string, defaultLeagueID int) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	matches, err := s.parse(file, defaultLeagueID)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("no matches found in %s", path)
	}

	if err := s.matches.InsertBatch(ctx, matches); err != nil {
		return 0, fmt.Errorf("failed to store matches: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file":    path,
		"matches": len(matches),
	}).Info("History file imported")

	return len(matches), nil
}

func (s *ImportService) parse(r io.Reader, defaultLeagueID int) ([]*models.Match, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "home_team", "away_team", "home_goals", "away_goals"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var matches []*models.Match
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		match, err := s.parseRow(record, cols, defaultLeagueID)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"line":  line,
				"error": err,
			}).Warn("Skipping malformed history row")
			continue
		}
		matches = append(matches, match)
	}

	return matches, nil
}

func (s *ImportService) parseRow(record []string, cols map[string]int, defaultLeagueID int) (*models.Match, error) {
	date, err := parseCSVDate(record[cols["date"]])
	if err != nil {
		return nil, err
	}

	homeGoals, err := strconv.Atoi(strings.TrimSpace(record[cols["home_goals"]]))
	if err != nil {
		return nil, fmt.Errorf("bad home goals: %w", err)
	}
	awayGoals, err := strconv.Atoi(strings.TrimSpace(record[cols["away_goals"]]))
	if err != nil {
		return nil, fmt.Errorf("bad away goals: %w", err)
	}
	if homeGoals < 0 || awayGoals < 0 {
		return nil, fmt.Errorf("negative goal count")
	}

	homeTeam := strings.TrimSpace(record[cols["home_team"]])
	awayTeam := strings.TrimSpace(record[cols["away_team"]])
	if homeTeam == "" || awayTeam == "" {
		return nil, fmt.Errorf("empty team name")
	}

	leagueID := defaultLeagueID
	if idx, ok := cols["league_id"]; ok && idx < len(record) && strings.TrimSpace(record[idx]) != "" {
		leagueID, err = strconv.Atoi(strings.TrimSpace(record[idx]))
		if err != nil {
			return nil, fmt.Errorf("bad league id: %w", err)
		}
	}

	return &models.Match{
		ID:        uuid.New(),
		LeagueID:  leagueID,
		MatchDate: date,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}, nil
}

func parseCSVDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
