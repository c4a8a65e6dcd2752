package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	maxResponseBytes = 10 << 20
	healthTimeout    = 5 * time.Second
)

// Point is one historical transaction as the prediction engine expects it
type Point struct {
	Date   string  `json:"Date"`
	Amount float64 `json:"Amount"`
	Type   string  `json:"Type"`
}

// Request is the body posted to the prediction engine
type Request struct {
	Transactions []Point `json:"transactions"`
	Mode         string  `json:"mode"`
	UserID       int64   `json:"userId"`
}

// Metadata describes the data a forecast was computed from
type Metadata struct {
	UserID         int64           `json:"user_id"`
	Mode           string          `json:"mode"`
	DataPointsUsed int             `json:"data_points_used"`
	IncomeCount    int             `json:"income_count"`
	ExpenseCount   int             `json:"expense_count"`
	ProcessingTime string          `json:"processing_time"`
	Cached         bool            `json:"cached"`
	Upstream       json.RawMessage `json:"upstream,omitempty"`
}

// Result is the forecast returned to API clients. The engine-owned parts stay opaque.
type Result struct {
	Forecast           json.RawMessage `json:"forecast"`
	Metrics            json.RawMessage `json:"metrics"`
	Summary            json.RawMessage `json:"summary"`
	AuditTable         json.RawMessage `json:"audit_table,omitempty"`
	PredictionVsActual json.RawMessage `json:"prediction_vs_actual,omitempty"`
	Metadata           *Metadata       `json:"metadata,omitempty"`
}

// upstreamResult shadows Result.Metadata so the engine's own metadata is captured raw
type upstreamResult struct {
	Result
	Metadata json.RawMessage `json:"metadata"`
}

// Client handles integration with the prediction engine
type Client struct {
	url       string
	healthURL string
	client    *http.Client
	log       *logrus.Logger
}

// NewClient initializes a new prediction engine client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:       cfg.ForecastURL,
		healthURL: cfg.ForecastHealthURL,
		client: &http.Client{
			Timeout: cfg.ForecastTimeout,
		},
		log: log,
	}
}

// sendRequest posts the payload and returns the raw response body
func (c *Client) sendRequest(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	c.log.Debugf("Forecast engine response: %d bytes", len(body))
	return body, nil
}

// parseResponse decodes the engine reply and checks the required sections are present
func (c *Client) parseResponse(body []byte) (*Result, error) {
	var raw upstreamResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	for name, part := range map[string]json.RawMessage{
		"forecast": raw.Forecast,
		"metrics":  raw.Metrics,
		"summary":  raw.Summary,
	} {
		if isEmpty(part) {
			return nil, fmt.Errorf("incomplete response: missing %s", name)
		}
	}

	result := raw.Result
	result.Metadata = &Metadata{}
	if !isEmpty(raw.Metadata) {
		result.Metadata.Upstream = raw.Metadata
	}
	return &result, nil
}

func isEmpty(part json.RawMessage) bool {
	trimmed := bytes.TrimSpace(part)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Analyze requests a forecast for the given history
func (c *Client) Analyze(ctx context.Context, req Request) (*Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := c.sendRequest(ctx, payload)
	if err != nil {
		return nil, err
	}

	result, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"user_id":     req.UserID,
		"mode":        req.Mode,
		"data_points": len(req.Transactions),
	}).Info("Forecast computed")
	return result, nil
}

// Health probes the engine's health endpoint
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}
	return body, nil
}
