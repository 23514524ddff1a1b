package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/datasource"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/repository"
)

// SyncService pulls upcoming fixtures and current odds from the data
// provider into the fixture store. Live odds pushed by the stream client
// land through the same UpdateOdds path.
type SyncService struct {
	provider *datasource.SportsAPIClient
	fixtures repository.FixtureRepository
	logger   *logrus.Logger
}

// NewSyncService creates a fixture sync service
func NewSyncService(provider *datasource.SportsAPIClient, fixtures repository.FixtureRepository, logger *logrus.Logger) *SyncService {
	return &SyncService{provider: provider, fixtures: fixtures, logger: logger}
}

// SyncFixtures fetches fixtures within the horizon and upserts them. Odds
// and injury counts arrive on the same payload, so one sync refreshes
// everything the prediction run needs.
func (s *SyncService) SyncFixtures(ctx context.Context, horizon time.Duration) (int, error) {
	fixtures, err := s.provider.FetchUpcomingFixtures(ctx, horizon)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	stored := 0
	for _, fixture := range fixtures {
		if err := s.fixtures.Upsert(ctx, fixture); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"home": fixture.HomeTeam,
				"away": fixture.AwayTeam,
			}).Warn("Failed to upsert fixture")
			continue
		}
		stored++
	}

	s.logger.WithFields(logrus.Fields{
		"fetched": len(fixtures),
		"stored":  stored,
	}).Info("Fixture sync completed")

	return stored, nil
}

// HandleOddsUpdate applies one live odds update from the stream. Satisfies
// datasource.OddsHandler via a closure in the daemon wiring.
func (s *SyncService) HandleOddsUpdate(ctx context.Context, update datasource.OddsUpdate) error {
	fixtureID := datasource.FixtureID(update.FixtureExternalID)

	if err := s.fixtures.UpdateOdds(ctx, fixtureID, update.Odds); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Streams cover more fixtures than we track
			return nil
		}
		return fmt.Errorf("failed to update odds for %s: %w", update.FixtureExternalID, err)
	}

	return nil
}
