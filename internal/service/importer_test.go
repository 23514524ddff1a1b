package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-sniper/internal/models"
)

type fakeMatchRepo struct {
	matches []*models.Match
}

func (f *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	f.matches = append(f.matches, match)
	return nil
}
func (f *fakeMatchRepo) InsertBatch(ctx context.Context, matches []*models.Match) error {
	f.matches = append(f.matches, matches...)
	return nil
}
func (f *fakeMatchRepo) GetAllOrdered(ctx context.Context) ([]models.Match, error) {
	out := make([]models.Match, len(f.matches))
	for i, m := range f.matches {
		out[i] = *m
	}
	return out, nil
}
func (f *fakeMatchRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	return nil, nil
}
func (f *fakeMatchRepo) Count(ctx context.Context) (int, error) {
	return len(f.matches), nil
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportFile(t *testing.T) {
	repo := &fakeMatchRepo{}
	importer := NewImportService(repo, quietLogger())

	path := writeCSV(t, `date,home_team,away_team,home_goals,away_goals,league_id
2024-08-17,Arsenal,Wolves,2,0,39
2024-08-17,Everton,Brighton,0,3,39
17/08/2024,Ipswich,Liverpool,0,2,
`)

	n, err := importer.ImportFile(context.Background(), path, 99)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, repo.matches, 3)

	assert.Equal(t, "Arsenal", repo.matches[0].HomeTeam)
	assert.Equal(t, 39, repo.matches[0].LeagueID)
	assert.Equal(t, 3, repo.matches[1].AwayGoals)
	// Blank league_id falls back to the flag value
	assert.Equal(t, 99, repo.matches[2].LeagueID)
	assert.Equal(t, time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC), repo.matches[2].MatchDate)
}

func TestImportSkipsMalformedRows(t *testing.T) {
	repo := &fakeMatchRepo{}
	importer := NewImportService(repo, quietLogger())

	path := writeCSV(t, `date,home_team,away_team,home_goals,away_goals
2024-08-17,Arsenal,Wolves,2,0
not-a-date,Everton,Brighton,0,3
2024-08-18,,Brighton,1,1
2024-08-19,Fulham,Spurs,x,3
2024-08-20,Villa,Palace,-1,0
`)

	n, err := importer.ImportFile(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImportMissingColumn(t *testing.T) {
	importer := NewImportService(&fakeMatchRepo{}, quietLogger())

	path := writeCSV(t, `date,home_team,away_team,home_goals
2024-08-17,Arsenal,Wolves,2
`)

	_, err := importer.ImportFile(context.Background(), path, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "away_goals")
}

func TestImportEmptyFile(t *testing.T) {
	importer := NewImportService(&fakeMatchRepo{}, quietLogger())

	path := writeCSV(t, `date,home_team,away_team,home_goals,away_goals
`)

	_, err := importer.ImportFile(context.Background(), path, 1)
	assert.Error(t, err)
}
