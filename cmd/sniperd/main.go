// Package main provides the value-sniper daemon: scheduled replay,
// fixture sync and prediction jobs, a live odds stream and health plus
// metrics endpoints.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/database"
	"github.com/yourusername/value-sniper/internal/datasource"
	"github.com/yourusername/value-sniper/internal/health"
	"github.com/yourusername/value-sniper/internal/logger"
	"github.com/yourusername/value-sniper/internal/metrics"
	"github.com/yourusername/value-sniper/internal/ml"
	"github.com/yourusername/value-sniper/internal/repository"
	"github.com/yourusername/value-sniper/internal/scheduler"
	"github.com/yourusername/value-sniper/internal/service"
	"github.com/yourusername/value-sniper/internal/tracing"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	sport, err := cfg.ActiveSportParams()
	if err != nil {
		log.Fatalf("Invalid sport configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"sport":       cfg.Engine.ActiveSport,
		"version":     version,
	}).Info("Value sniper daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	matchRepo := repository.NewPostgresMatchRepository(db)
	fixtureRepo := repository.NewPostgresFixtureRepository(db)
	featureRepo := repository.NewPostgresFeatureRepository(db)
	recRepo := repository.NewPostgresRecommendationRepository(db)

	classifier := ml.NewCachedClassifier(
		ml.NewClient(&cfg.MLService, appLog),
		time.Duration(cfg.MLService.CacheTTLSeconds)*time.Second,
		cfg.MLService.CacheMaxSize,
	)

	snapshots := &service.SnapshotProvider{}
	replaySvc := service.NewReplayService(matchRepo, featureRepo, snapshots, sport, appLog)
	predictionSvc := service.NewPredictionService(fixtureRepo, recRepo, classifier, snapshots, sport, appLog)

	provider := datasource.NewSportsAPIClient(&cfg.SportsAPI, appLog)
	defer provider.Close()
	syncSvc := service.NewSyncService(provider, fixtureRepo, appLog)

	if err := predictionSvc.ValidateSchema(ctx); err != nil {
		appLog.WithError(err).Fatal("Classifier schema validation failed")
	}

	// First replay runs inline so predictions have snapshots from the start
	if _, err := replaySvc.Run(ctx); err != nil {
		appLog.WithError(err).Warn("Initial replay failed, predictions deferred until first scheduled replay")
	} else {
		classifier.Flush()
	}

	if err := tracing.Initialize(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		DaemonAddr:   cfg.Tracing.DaemonAddr,
		SamplingRate: cfg.Tracing.SamplingRate,
	}, appLog); err != nil {
		appLog.WithError(err).Warn("Tracing initialization failed, continuing without it")
	}

	sched := scheduler.NewScheduler(replaySvc, predictionSvc, syncSvc, cfg.Scheduler, cfg.Tracing.Enabled, appLog)
	if err := sched.ScheduleAll(); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule jobs")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Scheduler shutdown failed")
		}
	}()

	if cfg.SportsAPI.StreamURL != "" {
		stream := datasource.NewOddsStreamClient(cfg.SportsAPI.StreamURL, cfg.SportsAPI.APIKey, appLog)
		stream.AddHandler(func(update datasource.OddsUpdate) error {
			updateCtx, updateCancel := context.WithTimeout(ctx, 10*time.Second)
			defer updateCancel()
			return syncSvc.HandleOddsUpdate(updateCtx, update)
		})
		go func() {
			if err := stream.Run(ctx, cfg.SportsAPI.LeagueIDs); err != nil && ctx.Err() == nil {
				appLog.WithError(err).Error("Odds stream terminated")
			}
		}()
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			if err := metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	healthSrv := health.NewServer(cfg.App.Name, version, healthPort(), appLog)
	healthSrv.RegisterCheck("database", db.HealthCheck)
	healthSrv.RegisterCheck("snapshots", func(context.Context) error {
		if _, _, ready := snapshots.Get(); !ready {
			return fmt.Errorf("no replay has completed yet")
		}
		return nil
	})
	if err := healthSrv.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthSrv.SetReady(true)

	appLog.Info("Daemon running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLog.WithField("signal", sig.String()).Info("Shutting down")
	healthSrv.SetReady(false)
	cancel()
}

func configPathFromEnv() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config/config.yaml"
}

func healthPort() int {
	if raw := os.Getenv("HEALTH_PORT"); raw != "" {
		var port int
		if _, err := fmt.Sscanf(raw, "%d", &port); err == nil && port > 0 {
			return port
		}
	}
	return 8080
}
