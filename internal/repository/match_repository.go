package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-sniper/internal/database"
	"github.com/yourusername/value-sniper/internal/models"
)

const errScanMatch = "failed to scan match: %w"

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a single finished match
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, league_id, match_date, home_team, away_team, home_goals, away_goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.LeagueID, match.MatchDate, match.HomeTeam, match.AwayTeam,
		match.HomeGoals, match.AwayGoals,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// InsertBatch inserts matches in a single transaction, skipping duplicates
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO matches (id, league_id, match_date, home_team, away_team, home_goals, away_goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_date, home_team, away_team) DO NOTHING
	`
	for _, m := range matches {
		batch.Queue(query, m.ID, m.LeagueID, m.MatchDate, m.HomeTeam, m.AwayTeam, m.HomeGoals, m.AwayGoals)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range matches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert match batch: %w", err)
		}
	}

	return nil
}

// GetAllOrdered retrieves all matches sorted by date ascending, the order
// the replay pass requires
func (r *PostgresMatchRepository) GetAllOrdered(ctx context.Context) ([]models.Match, error) {
	query := `
		SELECT id, league_id, match_date, home_team, away_team, home_goals, away_goals, created_at
		FROM matches
		ORDER BY match_date ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetByDateRange retrieves matches within a date range sorted ascending
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	query := `
		SELECT id, league_id, match_date, home_team, away_team, home_goals, away_goals, created_at
		FROM matches
		WHERE match_date >= $1 AND match_date <= $2
		ORDER BY match_date ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by date range: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// Count returns the number of stored matches
func (r *PostgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM matches").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func scanMatches(rows pgx.Rows) ([]models.Match, error) {
	var matches []models.Match
	for rows.Next() {
		var m models.Match
		err := rows.Scan(
			&m.ID, &m.LeagueID, &m.MatchDate, &m.HomeTeam, &m.AwayTeam,
			&m.HomeGoals, &m.AwayGoals, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
