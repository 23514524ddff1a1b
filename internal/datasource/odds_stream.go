package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/metrics"
	"github.com/yourusername/value-sniper/internal/models"
)

// OddsUpdate is one live price change pushed by the provider stream
type OddsUpdate struct {
	FixtureExternalID string           `json:"fixture_id"`
	Odds              models.OddsQuote `json:"odds"`
	ReceivedAt        time.Time        `json:"-"`
}

// OddsHandler is called for every odds update received from the stream
type OddsHandler func(update OddsUpdate) error

// ReconnectConfig controls stream reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns the default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// OddsStreamClient maintains a WebSocket connection to the provider's live
// odds feed. Updates land between polling cycles so recommendations are
// priced off fresher quotes than the REST snapshots alone would give.
type OddsStreamClient struct {
	streamURL       string
	apiKey          string
	reconnectConfig ReconnectConfig
	logger          *logrus.Logger

	mu              sync.RWMutex
	conn            *websocket.Conn
	isConnected     bool
	handlers        []OddsHandler
	lastMessageTime time.Time
}

// NewOddsStreamClient creates a stream client. Call Run to start consuming.
func NewOddsStreamClient(streamURL, apiKey string, logger *logrus.Logger) *OddsStreamClient {
	return &OddsStreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// AddHandler registers a handler invoked for every odds update
func (s *OddsStreamClient) AddHandler(handler OddsHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Run connects and consumes the stream until the context is cancelled,
// reconnecting with exponential backoff on failure.
func (s *OddsStreamClient) Run(ctx context.Context, leagueIDs []int) error {
	backoff := s.reconnectConfig.InitialBackoff
	retries := 0

	for {
		if err := s.connect(ctx, leagueIDs); err != nil {
			retries++
			if retries > s.reconnectConfig.MaxRetries {
				return fmt.Errorf("odds stream gave up after %d attempts: %w", retries-1, err)
			}

			s.logger.WithFields(logrus.Fields{
				"attempt": retries,
				"backoff": backoff,
			}).Warn("Odds stream connection failed, retrying")
			metrics.OddsStreamReconnectsTotal.Inc()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
			if backoff > s.reconnectConfig.MaxBackoff {
				backoff = s.reconnectConfig.MaxBackoff
			}
			continue
		}

		// Connected; a successful session resets the backoff schedule
		retries = 0
		backoff = s.reconnectConfig.InitialBackoff

		if err := s.readLoop(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WithError(err).Warn("Odds stream read loop ended, reconnecting")
			metrics.OddsStreamReconnectsTotal.Inc()
		}
	}
}

func (s *OddsStreamClient) connect(ctx context.Context, leagueIDs []int) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial odds stream: %w", err)
	}

	subscribe := map[string]interface{}{
		"op":      "subscribe",
		"api_key": s.apiKey,
		"leagues": leagueIDs,
		"markets": []string{"1X2"},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to subscribe to odds stream: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()
	s.mu.Unlock()

	s.logger.WithField("leagues", len(leagueIDs)).Info("Connected to odds stream")
	return nil
}

func (s *OddsStreamClient) readLoop(ctx context.Context) error {
	defer s.Close()

	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	// Unblock the reader when the context is cancelled
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var raw json.RawMessage
		if err := conn.ReadJSON(&raw); err != nil {
			return fmt.Errorf("odds stream read failed: %w", err)
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var update OddsUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			s.logger.WithError(err).Debug("Ignoring unparseable stream message")
			continue
		}
		if update.FixtureExternalID == "" {
			// Heartbeat or control frame
			continue
		}
		update.ReceivedAt = time.Now()

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(update); err != nil {
				s.logger.WithError(err).WithField("fixture", update.FixtureExternalID).Warn("Odds handler failed")
			}
		}
	}
}

// IsConnected reports whether the stream currently holds a live connection
func (s *OddsStreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns when the stream last received any frame
func (s *OddsStreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close tears down the current connection
func (s *OddsStreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isConnected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
