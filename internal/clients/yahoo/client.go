// Package yahoo provides a client for the Yahoo Finance public API
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
	"github.com/ticker-kit/risk-api/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// Yahoo rejects requests without a browser-ish user agent.
	userAgent = "Mozilla/5.0"
)

// Verify interface compliance
var _ interfaces.MarketDataSource = (*Client)(nil)

// Client implements the MarketDataSource interface against the Yahoo
// Finance chart, quote, and search endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-OK response from the Yahoo API. It unwraps to
// the source-unavailable sentinel so callers can branch with errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	return models.ErrSourceUnavailable
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", models.ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", models.ErrSourceUnavailable, err)
	}

	return nil
}

// chartResponse is the v8 chart API envelope. Price arrays use pointers
// because Yahoo emits null for holidays and halts.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistory implements interfaces.MarketDataSource.
func (c *Client) GetHistory(ctx context.Context, symbol, period string, opts ...interfaces.HistoryOption) ([]models.PriceBar, error) {
	options := interfaces.NewHistoryOptions(opts...)

	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", period)
	params.Set("events", "div,splits")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var chart chartResponse
	if err := c.get(ctx, path, params, &chart); err != nil {
		return nil, err
	}

	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: no chart data for %s", models.ErrNotFound, symbol)
		}
		return nil, fmt.Errorf("%w: chart error for %s: %s", models.ErrSourceUnavailable, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no chart data for %s", models.ErrNotFound, symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	// Prefer adjusted closes when requested and present.
	var adjClose []*float64
	if options.Adjusted && len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bars on holidays
		}

		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if adjClose != nil && i < len(adjClose) && adjClose[i] != nil {
			bar.Close = *adjClose[i]
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// GetBulkHistory implements interfaces.MarketDataSource. The chart endpoint
// is single-symbol, so symbols are fetched in sequence under the shared rate
// limiter. Symbols the source has no data for are skipped.
func (c *Client) GetBulkHistory(ctx context.Context, symbols []string, period string, opts ...interfaces.HistoryOption) (map[string][]models.PriceBar, error) {
	out := make(map[string][]models.PriceBar, len(symbols))
	for _, symbol := range symbols {
		bars, err := c.GetHistory(ctx, symbol, period, opts...)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.logger.Debug().Str("symbol", symbol).Msg("No history in bulk fetch")
				continue
			}
			return nil, err
		}
		out[symbol] = bars
	}
	return out, nil
}

// quoteResponse is the v7 quote API envelope.
type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string   `json:"symbol"`
			LongName                   string   `json:"longName"`
			ShortName                  string   `json:"shortName"`
			Currency                   string   `json:"currency"`
			FullExchangeName           string   `json:"fullExchangeName"`
			QuoteType                  string   `json:"quoteType"`
			RegularMarketPrice         *float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
			MarketCap                  *float64 `json:"marketCap"`
			TrailingPE                 *float64 `json:"trailingPE"`
			TrailingAnnualDividendRate *float64 `json:"trailingAnnualDividendRate"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// GetInfo implements interfaces.MarketDataSource.
func (c *Client) GetInfo(ctx context.Context, symbol string) (*models.TickerInfo, error) {
	params := url.Values{}
	params.Set("symbols", symbol)

	var quote quoteResponse
	if err := c.get(ctx, "/v7/finance/quote", params, &quote); err != nil {
		return nil, err
	}

	if quote.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("%w: quote error for %s: %s", models.ErrSourceUnavailable, symbol, quote.QuoteResponse.Error.Description)
	}
	if len(quote.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: no quote for %s", models.ErrNotFound, symbol)
	}

	r := quote.QuoteResponse.Result[0]
	if r.Symbol == "" {
		return nil, fmt.Errorf("%w: quote for %s missing symbol", models.ErrNotFound, symbol)
	}

	return &models.TickerInfo{
		Symbol:       r.Symbol,
		LongName:     r.LongName,
		ShortName:    r.ShortName,
		Currency:     r.Currency,
		Exchange:     r.FullExchangeName,
		QuoteType:    r.QuoteType,
		MarketPrice:  r.RegularMarketPrice,
		PrevClose:    r.RegularMarketPreviousClose,
		MarketCap:    r.MarketCap,
		TrailingPE:   r.TrailingPE,
		DividendRate: r.TrailingAnnualDividendRate,
	}, nil
}

// searchResponse is the v1 search API envelope.
type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
		Score     int64  `json:"score"`
	} `json:"quotes"`
}

// Search implements interfaces.MarketDataSource.
func (c *Client) Search(ctx context.Context, query string, maxResults int, fuzzy bool) ([]models.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", fmt.Sprintf("%d", maxResults))
	params.Set("newsCount", "0")
	params.Set("enableFuzzyQuery", strconv.FormatBool(fuzzy))

	var search searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &search); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(search.Quotes))
	for _, q := range search.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		results = append(results, models.SearchResult{
			Symbol:    q.Symbol,
			Name:      name,
			Exchange:  q.Exchange,
			QuoteType: q.QuoteType,
			Score:     q.Score,
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}
