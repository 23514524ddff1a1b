package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/features"
	"github.com/yourusername/value-sniper/internal/form"
	"github.com/yourusername/value-sniper/internal/metrics"
	"github.com/yourusername/value-sniper/internal/ml"
	"github.com/yourusername/value-sniper/internal/models"
	"github.com/yourusername/value-sniper/internal/repository"
	"github.com/yourusername/value-sniper/internal/value"
)

// Fixture skip reasons, used as metric labels and log fields
const (
	skipNoSnapshot    = "no_replay_snapshot"
	skipDrawLikely    = "draw_most_likely"
	skipLowConfidence = "low_confidence"
	skipMarketDraw    = "market_draw_heavy"
	skipMissingMarket = "missing_market"
)

// PredictionService runs the per-fixture pipeline: assemble features,
// classify, filter out draw-prone and low-confidence fixtures, then hand the
// survivors to the value engine.
type PredictionService struct {
	fixtures   repository.FixtureRepository
	recs       repository.RecommendationRepository
	classifier ml.Classifier
	snapshots  *SnapshotProvider
	assembler  *features.Assembler
	engine     *value.Engine
	sport      config.SportParams
	logger     *logrus.Logger
}

// NewPredictionService creates a prediction service
func NewPredictionService(
	fixtures repository.FixtureRepository,
	recs repository.RecommendationRepository,
	classifier ml.Classifier,
	snapshots *SnapshotProvider,
	sport config.SportParams,
	logger *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		fixtures:   fixtures,
		recs:       recs,
		classifier: classifier,
		snapshots:  snapshots,
		assembler:  features.NewAssembler(features.Params{FallbackGoalRate: sport.FallbackGoalRate}),
		engine: value.NewEngine(value.Params{
			SimulationDepth:     sport.SimulationDepth,
			DrawRiskThreshold:   sport.DrawRiskThreshold,
			MinDoubleChanceEdge: sport.MinDoubleChanceEdge,
			MinSingleEdge:       sport.MinSingleEdge,
			KellyFraction:       sport.KellyFraction,
			MaxMarketMargin:     sport.MaxMarketMargin,
			EvenMatchThreshold:  sport.EvenMatchThreshold,
		}),
		sport:  sport,
		logger: logger,
	}
}

// ValidateSchema checks the deployed model's feature columns against the
// compiled-in schema. Run at startup; a drifted schema makes every
// prediction silently wrong.
func (s *PredictionService) ValidateSchema(ctx context.Context) error {
	columns, err := s.classifier.GetSchema(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch classifier schema: %w", err)
	}
	return models.ValidateSchema(columns)
}

// Run evaluates all upcoming fixtures within the horizon and persists the
// resulting recommendations, highest confidence first.
func (s *PredictionService) Run(ctx context.Context, horizon time.Duration, limit int) ([]*models.Recommendation, error) {
	ratings, forms, ready := s.snapshots.Get()
	if !ready {
		metrics.FixturesSkippedTotal.WithLabelValues(skipNoSnapshot).Inc()
		return nil, fmt.Errorf("prediction requires a completed replay: %w", models.ErrEmptyHistory)
	}

	now := time.Now()
	fixtures, err := s.fixtures.GetUpcoming(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming fixtures: %w", err)
	}

	var within []*models.Fixture
	for _, f := range fixtures {
		if f.MatchDate.Before(now.Add(horizon)) {
			within = append(within, f)
		}
	}
	if len(within) == 0 {
		s.logger.Info("No fixtures within prediction horizon")
		return nil, nil
	}

	vectors := make([]models.FeatureVector, len(within))
	for i, f := range within {
		vectors[i] = s.assembler.Build(f.HomeTeam, f.AwayTeam, f.MatchDate, f.LeagueID, ratings, forms)
	}

	distributions, err := s.classifier.Predict(ctx, vectors)
	if err != nil {
		return nil, fmt.Errorf("classifier prediction failed: %w", err)
	}

	var recommendations []*models.Recommendation
	for i, fixture := range within {
		rec, skipReason := s.evaluate(fixture, distributions[i], forms)
		if skipReason != "" {
			metrics.FixturesSkippedTotal.WithLabelValues(skipReason).Inc()
			s.logger.WithFields(logrus.Fields{
				"fixture": fixture.ID,
				"home":    fixture.HomeTeam,
				"away":    fixture.AwayTeam,
				"reason":  skipReason,
			}).Debug("Fixture filtered out")
			continue
		}
		recommendations = append(recommendations, rec)
		metrics.RecordRecommendation(string(rec.Decision), rec.EdgePercent, rec.IsBet())
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Confidence > recommendations[j].Confidence
	})

	if len(recommendations) > 0 {
		if err := s.recs.InsertBatch(ctx, recommendations); err != nil {
			return nil, fmt.Errorf("failed to persist recommendations: %w", err)
		}
	}

	metrics.PredictionRunsTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"fixtures":        len(within),
		"recommendations": len(recommendations),
	}).Info("Prediction run completed")

	return recommendations, nil
}

// evaluate runs one fixture through the pre-filters and the value engine.
// An empty skip reason means the recommendation stands.
func (s *PredictionService) evaluate(fixture *models.Fixture, dist models.Probabilities, forms form.Snapshot) (*models.Recommendation, string) {
	probs := value.NormalizeProbs(dist)

	if !fixture.Odds.HasFullMarket() {
		return nil, skipMissingMarket
	}

	// Draw-shaped fixtures are unbettable in this strategy regardless of
	// edge, so they never reach the engine.
	if probs.Draw > probs.Home && probs.Draw > probs.Away {
		return nil, skipDrawLikely
	}
	if s.sport.MaxDrawImplied > 0 && models.ImpliedProbability(fixture.Odds.DrawOdd) > s.sport.MaxDrawImplied {
		return nil, skipMarketDraw
	}
	if math.Max(probs.Home, probs.Away) < s.sport.MinConfidence {
		return nil, skipLowConfidence
	}

	// Injury haircut: shave the win probabilities before pricing. The
	// provider does not say which squad is hit, so both sides pay.
	if fixture.InjuryCount > 0 && s.sport.InjuryPenalty > 0 {
		factor := 1 - s.sport.InjuryPenalty*math.Min(float64(fixture.InjuryCount), 5)
		if factor < 0 {
			factor = 0
		}
		probs.Home *= factor
		probs.Away *= factor
	}

	homeAgg := forms.Aggregates(fixture.HomeTeam)
	awayAgg := forms.Aggregates(fixture.AwayTeam)

	verdict := s.engine.Evaluate(value.Candidate{
		ModelProbs:       probs,
		Odds:             fixture.Odds,
		HomeGoalsFor:     homeAgg.GoalsFor,
		HomeGoalsAgainst: homeAgg.GoalsAgainst,
		AwayGoalsFor:     awayAgg.GoalsFor,
		AwayGoalsAgainst: awayAgg.GoalsAgainst,
		InjuryCount:      fixture.InjuryCount,
	})

	return &models.Recommendation{
		ID:              uuid.New(),
		FixtureID:       fixture.ID,
		HomeTeam:        fixture.HomeTeam,
		AwayTeam:        fixture.AwayTeam,
		Decision:        verdict.Decision,
		Outcome:         verdict.Outcome,
		Confidence:      verdict.Confidence,
		ModelProbs:      probs,
		PoissonDrawProb: verdict.PoissonDrawProb,
		EdgePercent:     verdict.EdgePercent,
		StakePercent:    verdict.StakePercent,
		DecisionOdd:     verdict.DecisionOdd,
		LikelyScore:     verdict.LikelyScore,
		RiskFlags:       verdict.RiskFlags,
		Reasoning:       verdict.Reasoning,
		CreatedAt:       time.Now(),
	}, ""
}
