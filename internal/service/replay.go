// Package service orchestrates the pipeline stages: historical replay, CSV
// import, fixture sync and prediction runs.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/features"
	"github.com/yourusername/value-sniper/internal/form"
	"github.com/yourusername/value-sniper/internal/metrics"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/rating"
	"github.com/yourusername/value-sniper/internal/repository"
)

// SnapshotProvider hands out the rating and form snapshots produced by the
// most recent replay. Prediction reads through this so a replay finishing
// mid-run swaps state atomically.
type SnapshotProvider struct {
	mu      sync.RWMutex
	ratings rating.Snapshot
	forms   form.Snapshot
	ready   bool
}

// Set stores fresh snapshots from a completed replay
func (p *SnapshotProvider) Set(ratings rating.Snapshot, forms form.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ratings = ratings
	p.forms = forms
	p.ready = true
}

// Get returns the current snapshots. ok is false before the first replay.
func (p *SnapshotProvider) Get() (rating.Snapshot, form.Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ratings, p.forms, p.ready
}

// ReplayService rebuilds the training feature set from the full match
// history and refreshes the in-memory state snapshots.
type ReplayService struct {
	matches   repository.MatchRepository
	featRepo  repository.FeatureRepository
	snapshots *SnapshotProvider
	sport     config.SportParams
	logger    *logrus.Logger
}

// NewReplayService creates a replay service
func NewReplayService(
	matches repository.MatchRepository,
	featRepo repository.FeatureRepository,
	snapshots *SnapshotProvider,
	sport config.SportParams,
	logger *logrus.Logger,
) *ReplayService {
	return &ReplayService{
		matches:   matches,
		featRepo:  featRepo,
		snapshots: snapshots,
		sport:     sport,
		logger:    logger,
	}
}

// Run executes one full replay: load the ordered match history, make the
// single chronological pass, persist the regenerated feature rows and
// publish the resulting snapshots.
func (s *ReplayService) Run(ctx context.Context) (int, error) {
	start := time.Now()

	history, err := s.matches.GetAllOrdered(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load match history: %w", err)
	}
	if len(history) == 0 {
		return 0, models.ErrEmptyHistory
	}

	result := features.Replay(history, s.ratingParams(), s.formParams())

	if err := s.featRepo.ReplaceAll(ctx, result.Rows); err != nil {
		return 0, fmt.Errorf("failed to persist feature rows: %w", err)
	}

	s.snapshots.Set(result.Ratings, result.Forms)

	metrics.ReplayRunsTotal.Inc()
	metrics.FeatureRowsBuiltTotal.Add(float64(len(result.Rows)))
	metrics.LastReplayMatches.Set(float64(len(history)))
	metrics.RatedTeams.Set(float64(result.Ratings.Len()))
	metrics.ReplayDuration.Observe(time.Since(start).Seconds())

	s.logger.WithFields(logrus.Fields{
		"matches":  len(history),
		"rows":     len(result.Rows),
		"teams":    result.Ratings.Len(),
		"duration": time.Since(start),
	}).Info("Replay completed")

	return len(result.Rows), nil
}

func (s *ReplayService) ratingParams() rating.Params {
	return rating.Params{
		KFactor:       s.sport.EloKFactor,
		HomeAdvantage: s.sport.EloHomeAdvantage,
	}
}

func (s *ReplayService) formParams() form.Params {
	return form.Params{
		Window:          s.sport.RollingWindow,
		RestDayCap:      s.sport.RestDayCap,
		RestDayFallback: s.sport.RestDayFallback,
	}
}
