package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-sniper/internal/config"
	"github.com/yourusername/value-sniper/internal/metrics"
	"github.com/yourusername/value-sniper/internal/models"
)

// Classifier produces 3-outcome probabilities for feature vectors. The
// training side lives in an external service; this is the inference boundary.
type Classifier interface {
	Predict(ctx context.Context, vectors []models.FeatureVector) ([]models.Probabilities, error)
	GetSchema(ctx context.Context) ([]string, error)
}

// Client is the HTTP JSON client for the classifier service
type Client struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewClient creates a new classifier client
func NewClient(cfg *config.MLServiceConfig, logger *logrus.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: cfg.HTTPAddress,
		logger:  logger,
	}
}

// PredictRequest is the prediction request payload. Rows carry values in
// schema column order.
type PredictRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// PredictResponse is the prediction response payload
type PredictResponse struct {
	Probabilities []models.Probabilities `json:"probabilities"`
	ModelVersion  string                 `json:"model_version"`
}

// SchemaResponse is the feature schema the deployed model was trained with
type SchemaResponse struct {
	Columns []string `json:"columns"`
}

// Predict posts feature vectors and returns per-outcome probabilities,
// one distribution per input row.
func (c *Client) Predict(ctx context.Context, vectors []models.FeatureVector) ([]models.Probabilities, error) {
	start := time.Now()

	reqBody := PredictRequest{
		Columns: models.FeatureSchema,
		Rows:    make([][]float64, len(vectors)),
	}
	for i := range vectors {
		reqBody.Rows[i] = vectors[i].Values()
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/predict", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		metrics.ClassifierRequestsTotal.WithLabelValues("http_error").Inc()
		return nil, fmt.Errorf("prediction request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var predictResp PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(predictResp.Probabilities) != len(vectors) {
		metrics.ClassifierRequestsTotal.WithLabelValues("shape_error").Inc()
		return nil, fmt.Errorf("%w: expected %d distributions, got %d", ErrInvalidResponse, len(vectors), len(predictResp.Probabilities))
	}

	metrics.ClassifierRequestsTotal.WithLabelValues("ok").Inc()
	metrics.ClassifierLatency.Observe(time.Since(start).Seconds())

	c.logger.WithFields(logrus.Fields{
		"rows":          len(vectors),
		"model_version": predictResp.ModelVersion,
		"duration":      time.Since(start),
	}).Debug("Classifier prediction completed")

	return predictResp.Probabilities, nil
}

// GetSchema fetches the feature column list the deployed model expects.
// Callers validate it against the compiled-in schema before predicting.
func (c *Client) GetSchema(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/schema", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSchemaUnavailable, resp.StatusCode)
	}

	var schemaResp SchemaResponse
	if err := json.NewDecoder(resp.Body).Decode(&schemaResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return schemaResp.Columns, nil
}
