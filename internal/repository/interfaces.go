// Package repository provides data access for matches, fixtures, features
// and recommendations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/value-sniper/internal/models"
)

// MatchRepository defines the interface for finished-match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	InsertBatch(ctx context.Context, matches []*models.Match) error
	GetAllOrdered(ctx context.Context) ([]models.Match, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error)
	Count(ctx context.Context) (int, error)
}

// FixtureRepository defines the interface for upcoming-fixture data access
type FixtureRepository interface {
	Upsert(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error)
	GetUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Fixture, error)
	UpdateOdds(ctx context.Context, fixtureID uuid.UUID, odds models.OddsQuote) error
	UpdateInjuryCount(ctx context.Context, fixtureID uuid.UUID, count int) error
}

// FeatureRepository defines the interface for persisted feature rows
type FeatureRepository interface {
	ReplaceAll(ctx context.Context, rows []models.FeatureRow) error
	GetAll(ctx context.Context) ([]models.FeatureRow, error)
	Count(ctx context.Context) (int, error)
}

// RecommendationRepository defines the interface for prediction outputs
type RecommendationRepository interface {
	InsertBatch(ctx context.Context, recommendations []*models.Recommendation) error
	GetByDate(ctx context.Context, day time.Time) ([]*models.Recommendation, error)
}
