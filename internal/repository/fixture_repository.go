package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-sniper/internal/database"
	"github.com/yourusername/value-sniper/internal/models"
)

const errScanFixture = "failed to scan fixture: %w"

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// Upsert inserts a fixture or refreshes its odds and injury count when the
// provider re-sends it
func (r *PostgresFixtureRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	query := `
		INSERT INTO fixtures (id, league_id, match_date, home_team, away_team, home_odd, draw_odd, away_odd, injury_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (match_date, home_team, away_team) DO UPDATE
		SET home_odd = EXCLUDED.home_odd,
		    draw_odd = EXCLUDED.draw_odd,
		    away_odd = EXCLUDED.away_odd,
		    injury_count = EXCLUDED.injury_count,
		    updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.LeagueID, fixture.MatchDate, fixture.HomeTeam, fixture.AwayTeam,
		fixture.Odds.HomeOdd, fixture.Odds.DrawOdd, fixture.Odds.AwayOdd, fixture.InjuryCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}

	return nil
}

// GetByID retrieves a fixture by ID
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	query := `
		SELECT id, league_id, match_date, home_team, away_team, home_odd, draw_odd, away_odd,
		       injury_count, created_at, updated_at
		FROM fixtures WHERE id = $1
	`

	f := &models.Fixture{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&f.ID, &f.LeagueID, &f.MatchDate, &f.HomeTeam, &f.AwayTeam,
		&f.Odds.HomeOdd, &f.Odds.DrawOdd, &f.Odds.AwayOdd,
		&f.InjuryCount, &f.CreatedAt, &f.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	return f, nil
}

// GetUpcoming retrieves fixtures from the given time onward, soonest first
func (r *PostgresFixtureRepository) GetUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Fixture, error) {
	query := `
		SELECT id, league_id, match_date, home_team, away_team, home_odd, draw_odd, away_odd,
		       injury_count, created_at, updated_at
		FROM fixtures
		WHERE match_date >= $1
		ORDER BY match_date ASC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		f := &models.Fixture{}
		err := rows.Scan(
			&f.ID, &f.LeagueID, &f.MatchDate, &f.HomeTeam, &f.AwayTeam,
			&f.Odds.HomeOdd, &f.Odds.DrawOdd, &f.Odds.AwayOdd,
			&f.InjuryCount, &f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanFixture, err)
		}
		fixtures = append(fixtures, f)
	}

	return fixtures, rows.Err()
}

// UpdateOdds refreshes the 1X2 quote for a fixture, used by the live odds
// stream between daily syncs
func (r *PostgresFixtureRepository) UpdateOdds(ctx context.Context, fixtureID uuid.UUID, odds models.OddsQuote) error {
	query := `
		UPDATE fixtures
		SET home_odd = $2, draw_odd = $3, away_odd = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query, fixtureID, odds.HomeOdd, odds.DrawOdd, odds.AwayOdd)
	if err != nil {
		return fmt.Errorf("failed to update fixture odds: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateInjuryCount sets the number of reported injuries for a fixture
func (r *PostgresFixtureRepository) UpdateInjuryCount(ctx context.Context, fixtureID uuid.UUID, count int) error {
	query := `UPDATE fixtures SET injury_count = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.GetPool().Exec(ctx, query, fixtureID, count)
	if err != nil {
		return fmt.Errorf("failed to update injury count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
