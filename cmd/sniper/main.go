// Package main provides the value-sniper CLI for one-off pipeline runs:
// importing match history, replaying it into features and producing
// recommendations on demand.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/database"
	"github.com/yourusername/value-sniper/internal/logger"
	"github.com/yourusername/value-sniper/internal/ml"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/repository"
	"github.com/yourusername/value-sniper/internal/service"
	"github.com/yourusername/value-sniper/internal/value"
)

var configPath string

// app bundles the dependencies shared by every subcommand
type app struct {
	cfg   *config.Config
	sport config.SportParams
	log   *logrus.Logger
	db    *database.DB
	repos *appRepos
}

type appRepos struct {
	matches  repository.MatchRepository
	fixtures repository.FixtureRepository
	features repository.FeatureRepository
	recs     repository.RecommendationRepository
}

func main() {
	root := &cobra.Command{
		Use:   "sniper",
		Short: "Value betting pipeline: ratings, form features and market edge detection",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "path to configuration file")

	root.AddCommand(newImportCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newPredictCmd())
	root.AddCommand(newRecommendationsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	sport, err := cfg.ActiveSportParams()
	if err != nil {
		return nil, err
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{
		cfg:   cfg,
		sport: sport,
		log:   appLog,
		db:    db,
		repos: &appRepos{
			matches:  repository.NewPostgresMatchRepository(db),
			fixtures: repository.NewPostgresFixtureRepository(db),
			features: repository.NewPostgresFeatureRepository(db),
			recs:     repository.NewPostgresRecommendationRepository(db),
		},
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

func newImportCmd() *cobra.Command {
	var leagueID int

	cmd := &cobra.Command{
		Use:   "import <file.csv> [file2.csv ...]",
		Short: "Import finished matches from CSV history files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			importer := service.NewImportService(a.repos.matches, a.log)
			total := 0
			for _, path := range args {
				n, err := importer.ImportFile(ctx, path, leagueID)
				if err != nil {
					return err
				}
				total += n
			}

			fmt.Printf("Imported %d matches from %d file(s)\n", total, len(args))
			return nil
		},
	}

	cmd.Flags().IntVar(&leagueID, "league", 0, "league id for rows without a league_id column")
	return cmd
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the training feature set from the full match history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			snapshots := &service.SnapshotProvider{}
			replay := service.NewReplayService(a.repos.matches, a.repos.features, snapshots, a.sport, a.log)

			rows, err := replay.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Replay complete: %d feature rows\n", rows)
			return nil
		},
	}
}

func newPredictCmd() *cobra.Command {
	var (
		horizonHours int
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Evaluate upcoming fixtures and print recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			// One-off runs replay in-process first; only the daemon keeps
			// long-lived snapshots.
			snapshots := &service.SnapshotProvider{}
			replay := service.NewReplayService(a.repos.matches, a.repos.features, snapshots, a.sport, a.log)
			if _, err := replay.Run(ctx); err != nil {
				return fmt.Errorf("replay before prediction failed: %w", err)
			}

			classifier := ml.NewClient(&a.cfg.MLService, a.log)
			prediction := service.NewPredictionService(a.repos.fixtures, a.repos.recs, classifier, snapshots, a.sport, a.log)

			if err := prediction.ValidateSchema(ctx); err != nil {
				return err
			}

			recs, err := prediction.Run(ctx, time.Duration(horizonHours)*time.Hour, limit)
			if err != nil {
				return err
			}

			printRecommendations(recs, a.cfg.Engine.BankrollAmount)
			return nil
		},
	}

	cmd.Flags().IntVar(&horizonHours, "horizon", 48, "prediction horizon in hours")
	cmd.Flags().IntVar(&limit, "limit", 200, "maximum fixtures to evaluate")
	return cmd
}

func newRecommendationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommendations",
		Short: "Show today's stored recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			recs, err := a.repos.recs.GetByDate(ctx, time.Now())
			if err != nil {
				return err
			}

			printRecommendations(recs, a.cfg.Engine.BankrollAmount)
			return nil
		},
	}
}

func printRecommendations(recs []*models.Recommendation, bankroll float64) {
	if len(recs) == 0 {
		fmt.Println("No recommendations")
		return
	}

	bank := value.Bankroll(bankroll)
	for _, rec := range recs {
		switch rec.Decision {
		case models.DecisionBet:
			stake := value.StakeAmount(bank, rec.StakePercent)
			fmt.Printf("BET %-4s %s vs %s @ %.2f edge %.1f%% stake %.2f%% (%s units)\n",
				rec.Outcome, rec.HomeTeam, rec.AwayTeam, rec.DecisionOdd, rec.EdgePercent, rec.StakePercent, stake.String())
		case models.DecisionCaution:
			fmt.Printf("CAUTION %s vs %s: %s\n", rec.HomeTeam, rec.AwayTeam, rec.Reasoning)
		default:
			fmt.Printf("SKIP %s vs %s: %s\n", rec.HomeTeam, rec.AwayTeam, rec.Reasoning)
		}
		if len(rec.RiskFlags) > 0 {
			fmt.Printf("  risks: %v\n", rec.RiskFlags)
		}
	}
}

func init() {
	// cobra prints its own errors; the default log prefix would double up
	log.SetFlags(0)
}
