// Package worker provides a client for the peer price computation service
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
	"github.com/ticker-kit/risk-api/internal/models"
)

const DefaultTimeout = 10 * time.Second

// Verify interface compliance
var _ interfaces.PriceWorkerClient = (*Client)(nil)

// Client calls the peer risk-worker service. It forms the middle stage of
// the latest-price fallback chain, between the cache and the direct source
// fetch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new worker client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type priceResponse struct {
	Price float64 `json:"price"`
}

// GetLatestPrice implements interfaces.PriceWorkerClient. Each request
// carries a fresh X-Request-ID so failures can be correlated across the two
// services' logs.
func (c *Client) GetLatestPrice(ctx context.Context, ticker string) (float64, error) {
	reqURL := fmt.Sprintf("%s/latest-price/%s", c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", models.ErrSourceUnavailable, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug().Str("ticker", ticker).Str("request_id", requestID).Msg("Worker price request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: worker request failed: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: worker has no price for %s", models.ErrNotFound, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: worker returned status %d: %s", models.ErrSourceUnavailable, resp.StatusCode, string(body))
	}

	var price priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&price); err != nil {
		return 0, fmt.Errorf("%w: failed to decode worker response: %v", models.ErrSourceUnavailable, err)
	}
	if price.Price <= 0 {
		return 0, fmt.Errorf("%w: worker returned non-positive price for %s", models.ErrNotFound, ticker)
	}

	return price.Price, nil
}
