package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-sniper/internal/database"
	"github.com/yourusername/value-sniper/internal/models"
)

// PostgresFeatureRepository implements FeatureRepository for PostgreSQL.
// Feature rows are regenerated wholesale by each replay, so writes replace
// the full table instead of merging.
type PostgresFeatureRepository struct {
	db *database.DB
}

// NewPostgresFeatureRepository creates a new feature repository
func NewPostgresFeatureRepository(db *database.DB) FeatureRepository {
	return &PostgresFeatureRepository{db: db}
}

// ReplaceAll atomically swaps the stored feature rows for a fresh replay output
func (r *PostgresFeatureRepository) ReplaceAll(ctx context.Context, featureRows []models.FeatureRow) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin feature replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE feature_rows"); err != nil {
		return fmt.Errorf("failed to truncate feature rows: %w", err)
	}

	query := `
		INSERT INTO feature_rows (
			match_id, league_id, home_elo, away_elo, elo_diff,
			home_rolling_goals, away_rolling_goals, home_rolling_conceded, away_rolling_conceded,
			form_diff, defensive_diff, home_btts_rate, away_btts_rate, btts_interaction,
			home_rest_days, away_rest_days, rest_diff, target
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	batch := &pgx.Batch{}
	for _, row := range featureRows {
		v := row.Features
		batch.Queue(query,
			row.MatchID, v.LeagueID, v.HomeElo, v.AwayElo, v.EloDiff,
			v.HomeRollingGoals, v.AwayRollingGoals, v.HomeRollingConceded, v.AwayRollingConceded,
			v.FormDiff, v.DefensiveDiff, v.HomeBTTSRate, v.AwayBTTSRate, v.BTTSInteraction,
			v.HomeRestDays, v.AwayRestDays, v.RestDiff, int(row.Target),
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range featureRows {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert feature row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close feature batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit feature replace: %w", err)
	}

	return nil
}

// GetAll retrieves every stored feature row in match order
func (r *PostgresFeatureRepository) GetAll(ctx context.Context) ([]models.FeatureRow, error) {
	query := `
		SELECT match_id, league_id, home_elo, away_elo, elo_diff,
		       home_rolling_goals, away_rolling_goals, home_rolling_conceded, away_rolling_conceded,
		       form_diff, defensive_diff, home_btts_rate, away_btts_rate, btts_interaction,
		       home_rest_days, away_rest_days, rest_diff, target
		FROM feature_rows
		ORDER BY id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature rows: %w", err)
	}
	defer rows.Close()

	var featureRows []models.FeatureRow
	for rows.Next() {
		var row models.FeatureRow
		var target int
		v := &row.Features
		err := rows.Scan(
			&row.MatchID, &v.LeagueID, &v.HomeElo, &v.AwayElo, &v.EloDiff,
			&v.HomeRollingGoals, &v.AwayRollingGoals, &v.HomeRollingConceded, &v.AwayRollingConceded,
			&v.FormDiff, &v.DefensiveDiff, &v.HomeBTTSRate, &v.AwayBTTSRate, &v.BTTSInteraction,
			&v.HomeRestDays, &v.AwayRestDays, &v.RestDiff, &target,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		row.Target = models.Outcome(target)
		featureRows = append(featureRows, row)
	}

	return featureRows, rows.Err()
}

// Count returns the number of stored feature rows
func (r *PostgresFeatureRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM feature_rows").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feature rows: %w", err)
	}
	return count, nil
}
