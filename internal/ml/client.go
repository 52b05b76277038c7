package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/config"
)

// Client calls the external risk scoring service. The service hosts the
// trained model; this process only consumes its probability output.
type Client struct {
	baseURL    string
	httpClient *http.Client
	enabled    bool
}

// NewClient creates a new scorer client
func NewClient(cfg config.ScorerConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		enabled: cfg.Enabled,
	}
}

// Enabled reports whether the external scorer is configured
func (c *Client) Enabled() bool {
	return c.enabled
}

type scoreRequest struct {
	Panel   domain.LipidPanel     `json:"panel"`
	Context domain.PatientContext `json:"context"`
}

type scoreResponse struct {
	Probability float64 `json:"probability"`
}

// Probability asks the scorer for an event probability in [0,1]. A disabled
// or unreachable scorer yields (nil, nil): classification proceeds on the
// rule engine alone rather than failing the screening.
func (c *Client) Probability(ctx context.Context, panel domain.LipidPanel, pctx domain.PatientContext) (*float64, error) {
	if !c.enabled {
		return nil, nil
	}

	body, err := json.Marshal(scoreRequest{Panel: panel, Context: pctx})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Scorer unavailable - degrade to rule-only classification
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode score response: %w", err)
	}

	if result.Probability < 0 || result.Probability > 1 {
		// Out-of-range output is ignored, not propagated
		return nil, nil
	}
	return &result.Probability, nil
}

// Health checks the scorer service
func (c *Client) Health(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scorer unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
