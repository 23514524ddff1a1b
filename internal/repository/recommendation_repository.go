package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/value-sniper/internal/database"
	"github.com/yourusername/value-sniper/internal/models"
)

// PostgresRecommendationRepository implements RecommendationRepository for PostgreSQL
type PostgresRecommendationRepository struct {
	db *database.DB
}

// NewPostgresRecommendationRepository creates a new recommendation repository
func NewPostgresRecommendationRepository(db *database.DB) RecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// InsertBatch stores the output of one prediction run
func (r *PostgresRecommendationRepository) InsertBatch(ctx context.Context, recommendations []*models.Recommendation) error {
	if len(recommendations) == 0 {
		return nil
	}

	query := `
		INSERT INTO recommendations (
			id, fixture_id, home_team, away_team, decision, outcome, confidence,
			poisson_draw_prob, edge_percent, stake_percent, decision_odd,
			likely_score_home, likely_score_away, risk_flags, reasoning
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	batch := &pgx.Batch{}
	for _, rec := range recommendations {
		batch.Queue(query,
			rec.ID, rec.FixtureID, rec.HomeTeam, rec.AwayTeam, string(rec.Decision), string(rec.Outcome),
			rec.Confidence, rec.PoissonDrawProb, rec.EdgePercent, rec.StakePercent, rec.DecisionOdd,
			rec.LikelyScore.Home, rec.LikelyScore.Away, strings.Join(rec.RiskFlags, ","), rec.Reasoning,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range recommendations {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	return nil
}

// GetByDate retrieves recommendations created on the given day, highest
// confidence first
func (r *PostgresRecommendationRepository) GetByDate(ctx context.Context, day time.Time) ([]*models.Recommendation, error) {
	query := `
		SELECT id, fixture_id, home_team, away_team, decision, outcome, confidence,
		       poisson_draw_prob, edge_percent, stake_percent, decision_odd,
		       likely_score_home, likely_score_away, risk_flags, reasoning, created_at
		FROM recommendations
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY confidence DESC
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rows, err := r.db.GetPool().Query(ctx, query, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recommendations []*models.Recommendation
	for rows.Next() {
		rec := &models.Recommendation{}
		var decision, outcome, riskFlags string
		err := rows.Scan(
			&rec.ID, &rec.FixtureID, &rec.HomeTeam, &rec.AwayTeam, &decision, &outcome, &rec.Confidence,
			&rec.PoissonDrawProb, &rec.EdgePercent, &rec.StakePercent, &rec.DecisionOdd,
			&rec.LikelyScore.Home, &rec.LikelyScore.Away, &riskFlags, &rec.Reasoning, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		rec.Decision = models.Decision(decision)
		rec.Outcome = models.BetOutcome(outcome)
		if riskFlags != "" {
			rec.RiskFlags = strings.Split(riskFlags, ",")
		}
		recommendations = append(recommendations, rec)
	}

	return recommendations, rows.Err()
}
