package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-sniper/internal/models"
)

type fakeFeatureRepo struct {
	rows []models.FeatureRow
}

func (f *fakeFeatureRepo) ReplaceAll(ctx context.Context, rows []models.FeatureRow) error {
	f.rows = rows
	return nil
}
func (f *fakeFeatureRepo) GetAll(ctx context.Context) ([]models.FeatureRow, error) {
	return f.rows, nil
}
func (f *fakeFeatureRepo) Count(ctx context.Context) (int, error) {
	return len(f.rows), nil
}

func finishedMatch(daysAgo int, home, away string, homeGoals, awayGoals int) *models.Match {
	return &models.Match{
		ID:        uuid.New(),
		LeagueID:  39,
		MatchDate: time.Now().AddDate(0, 0, -daysAgo),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}
}

func TestReplayServiceRun(t *testing.T) {
	matchRepo := &fakeMatchRepo{matches: []*models.Match{
		finishedMatch(21, "Arsenal", "Chelsea", 2, 0),
		finishedMatch(14, "Chelsea", "Spurs", 1, 1),
		finishedMatch(7, "Spurs", "Arsenal", 0, 3),
	}}
	featRepo := &fakeFeatureRepo{}
	snapshots := &SnapshotProvider{}

	svc := NewReplayService(matchRepo, featRepo, snapshots, testSportParams(), quietLogger())

	rows, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Len(t, featRepo.rows, 3)

	ratings, forms, ready := snapshots.Get()
	require.True(t, ready)
	assert.Equal(t, 3, ratings.Len())
	assert.True(t, forms.Has("Spurs"))
	assert.Greater(t, ratings.Get("Arsenal"), ratings.Get("Spurs"))
}

func TestReplayServiceEmptyHistory(t *testing.T) {
	svc := NewReplayService(&fakeMatchRepo{}, &fakeFeatureRepo{}, &SnapshotProvider{}, testSportParams(), quietLogger())

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrEmptyHistory)
}
