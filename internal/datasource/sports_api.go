package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/models"
)

// Provider errors
var (
	ErrProviderUnavailable = errors.New("sports data provider unavailable")
	ErrBadProviderResponse = errors.New("sports data provider returned an unexpected response")
)

// FixtureID derives the stable internal UUID for a provider fixture ID.
// Fixture rows and stream updates both use this derivation, so the two
// sides agree without a lookup table.
func FixtureID(externalID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(externalID))
}

// SportsAPIClient fetches fixtures, match odds and injury reports for the
// configured leagues.
type SportsAPIClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	leagues []int
	logger  *logrus.Logger
}

// NewSportsAPIClient creates a provider client from configuration
func NewSportsAPIClient(cfg *config.SportsAPIConfig, logger *logrus.Logger) *SportsAPIClient {
	return &SportsAPIClient{
		http: NewRateLimitedHTTPClient(
			cfg.RateLimitPerSecond,
			time.Duration(cfg.TimeoutSeconds)*time.Second,
			cfg.RetryAttempts,
			logger,
		),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		leagues: cfg.LeagueIDs,
		logger:  logger,
	}
}

type fixtureResponse struct {
	Fixtures []struct {
		ExternalID  string   `json:"fixture_id"`
		LeagueID    int      `json:"league_id"`
		Kickoff     string   `json:"kickoff_utc"`
		HomeTeam    string   `json:"home_team"`
		AwayTeam    string   `json:"away_team"`
		HomeOdd     *float64 `json:"home_odd"`
		DrawOdd     *float64 `json:"draw_odd"`
		AwayOdd     *float64 `json:"away_odd"`
		InjuryCount int      `json:"injury_count"`
	} `json:"fixtures"`
}

type injuryResponse struct {
	Injuries []struct {
		Team   string `json:"team"`
		Player string `json:"player"`
		Status string `json:"status"`
	} `json:"injuries"`
}

// FetchUpcomingFixtures retrieves fixtures kicking off within the horizon
// for every configured league.
func (c *SportsAPIClient) FetchUpcomingFixtures(ctx context.Context, horizon time.Duration) ([]*models.Fixture, error) {
	var fixtures []*models.Fixture

	for _, leagueID := range c.leagues {
		url := fmt.Sprintf("%s/fixtures?league=%d&from=%s&to=%s",
			c.baseURL, leagueID,
			time.Now().UTC().Format("2006-01-02"),
			time.Now().UTC().Add(horizon).Format("2006-01-02"),
		)

		var parsed fixtureResponse
		if err := c.getJSON(ctx, url, &parsed); err != nil {
			return nil, fmt.Errorf("league %d: %w", leagueID, err)
		}

		for _, f := range parsed.Fixtures {
			kickoff, err := time.Parse(time.RFC3339, f.Kickoff)
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"fixture": f.ExternalID,
					"kickoff": f.Kickoff,
				}).Warn("Skipping fixture with unparseable kickoff")
				continue
			}

			fixtures = append(fixtures, &models.Fixture{
				ID:        FixtureID(f.ExternalID),
				LeagueID:  f.LeagueID,
				MatchDate: kickoff,
				HomeTeam:  f.HomeTeam,
				AwayTeam:  f.AwayTeam,
				Odds: models.OddsQuote{
					HomeOdd: f.HomeOdd,
					DrawOdd: f.DrawOdd,
					AwayOdd: f.AwayOdd,
				},
				InjuryCount: f.InjuryCount,
			})
		}
	}

	c.logger.WithFields(logrus.Fields{
		"fixtures": len(fixtures),
		"leagues":  len(c.leagues),
	}).Info("Fetched upcoming fixtures")

	return fixtures, nil
}

// FetchOdds retrieves the current 1X2 quote for a single fixture
func (c *SportsAPIClient) FetchOdds(ctx context.Context, fixtureExternalID string) (models.OddsQuote, error) {
	url := fmt.Sprintf("%s/odds?fixture=%s", c.baseURL, fixtureExternalID)

	var parsed struct {
		HomeOdd *float64 `json:"home_odd"`
		DrawOdd *float64 `json:"draw_odd"`
		AwayOdd *float64 `json:"away_odd"`
	}
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return models.OddsQuote{}, err
	}

	return models.OddsQuote{HomeOdd: parsed.HomeOdd, DrawOdd: parsed.DrawOdd, AwayOdd: parsed.AwayOdd}, nil
}

// FetchInjuryCount retrieves the number of listed injuries across both squads
// of a fixture. Providers without injury coverage return an empty list, which
// maps cleanly to zero.
func (c *SportsAPIClient) FetchInjuryCount(ctx context.Context, fixtureExternalID string) (int, error) {
	url := fmt.Sprintf("%s/injuries?fixture=%s", c.baseURL, fixtureExternalID)

	var parsed injuryResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return 0, err
	}

	return len(parsed.Injuries), nil
}

func (c *SportsAPIClient) getJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.http.Get(ctx, url, map[string]string{
		"X-API-Key": c.apiKey,
		"Accept":    "application/json",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d for %s", ErrBadProviderResponse, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadProviderResponse, err)
	}

	return nil
}

// Close releases the underlying HTTP client
func (c *SportsAPIClient) Close() error {
	return c.http.Close()
}
