// Package scheduler runs the recurring pipeline jobs: nightly replay,
// fixture sync and prediction sweeps.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/service"
	"github.com/yourusername/value-sniper/internal/tracing"
)

// predictionHorizon bounds how far ahead fixtures are evaluated. Odds more
// than two days out move too much to be worth pricing.
const (
	predictionHorizon = 48 * time.Hour
	syncHorizon       = 72 * time.Hour
	predictionLimit   = 200
)

// Scheduler owns the cron runner and its job set
type Scheduler struct {
	cron         *cron.Cron
	replay       *service.ReplayService
	prediction   *service.PredictionService
	sync         *service.SyncService
	cfg          config.SchedulerConfig
	traceEnabled bool
	logger       *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler wired to the pipeline services
func NewScheduler(
	replay *service.ReplayService,
	prediction *service.PredictionService,
	syncSvc *service.SyncService,
	cfg config.SchedulerConfig,
	traceEnabled bool,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		replay:       replay,
		prediction:   prediction,
		sync:         syncSvc,
		cfg:          cfg,
		traceEnabled: traceEnabled,
		logger:       logger,
	}
}

// ScheduleAll registers the replay, fixture sync and prediction jobs from
// configuration. Must be called before Start.
func (s *Scheduler) ScheduleAll() error {
	if err := s.schedule("replay", s.cfg.ReplayCron, s.runReplay); err != nil {
		return err
	}
	if err := s.schedule("odds_sync", s.cfg.OddsSyncCron, s.runSync); err != nil {
		return err
	}
	if err := s.schedule("prediction", s.cfg.PredictionCron, s.runPrediction); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) schedule(name, expression string, job func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule %s while scheduler is running", name)
	}

	timeout := time.Duration(s.cfg.JobTimeoutHours) * time.Hour
	entryID, err := s.cron.AddFunc(expression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"cron": expression,
	}).Info("Job scheduled")

	return nil
}

func (s *Scheduler) runReplay(ctx context.Context) {
	err := tracing.TraceJob(ctx, "replay", s.traceEnabled, func(ctx context.Context) error {
		rows, err := s.replay.Run(ctx)
		if err != nil {
			return err
		}
		tracing.AddMetadata(ctx, "feature_rows", rows)
		s.logger.WithField("rows", rows).Info("Scheduled replay completed")
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Scheduled replay failed")
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	err := tracing.TraceJob(ctx, "fixture_sync", s.traceEnabled, func(ctx context.Context) error {
		stored, err := s.sync.SyncFixtures(ctx, syncHorizon)
		if err != nil {
			return err
		}
		s.logger.WithField("fixtures", stored).Info("Scheduled fixture sync completed")
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Scheduled fixture sync failed")
	}
}

func (s *Scheduler) runPrediction(ctx context.Context) {
	err := tracing.TraceJob(ctx, "prediction", s.traceEnabled, func(ctx context.Context) error {
		recs, err := s.prediction.Run(ctx, predictionHorizon, predictionLimit)
		if err != nil {
			return err
		}
		tracing.AddMetadata(ctx, "recommendations", len(recs))
		s.logger.WithField("recommendations", len(recs)).Info("Scheduled prediction run completed")
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Scheduled prediction run failed")
	}
}

// Start begins executing scheduled jobs
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs to finish and halts the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning reports whether the scheduler is currently active
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job execution time
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
