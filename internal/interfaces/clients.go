package interfaces

import (
	"context"

	"github.com/ticker-kit/risk-api/internal/models"
)

// HistoryOptions carries optional parameters for history fetches.
type HistoryOptions struct {
	Adjusted bool
}

// HistoryOption mutates HistoryOptions.
type HistoryOption func(*HistoryOptions)

// WithAdjusted requests split/dividend-adjusted closes.
func WithAdjusted(adjusted bool) HistoryOption {
	return func(o *HistoryOptions) {
		o.Adjusted = adjusted
	}
}

// NewHistoryOptions applies opts over the defaults (adjusted on).
func NewHistoryOptions(opts ...HistoryOption) *HistoryOptions {
	o := &HistoryOptions{Adjusted: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MarketDataSource is the single component allowed to reach the external
// market data provider. Transport, timeout, and parse failures are returned
// wrapping models.ErrSourceUnavailable; a well-formed request the provider
// has no data for wraps models.ErrNotFound.
type MarketDataSource interface {
	// GetInfo fetches metadata for a symbol.
	GetInfo(ctx context.Context, symbol string) (*models.TickerInfo, error)

	// GetHistory fetches OHLCV bars for a symbol over a period from the
	// allow-list in models.ValidPeriods.
	GetHistory(ctx context.Context, symbol, period string, opts ...HistoryOption) ([]models.PriceBar, error)

	// GetBulkHistory fetches histories for several symbols. Symbols with
	// no data are absent from the result; the call fails only when the
	// provider itself is unreachable.
	GetBulkHistory(ctx context.Context, symbols []string, period string, opts ...HistoryOption) (map[string][]models.PriceBar, error)

	// Search performs a free-text symbol search. fuzzy asks the provider
	// for approximate matches.
	Search(ctx context.Context, query string, maxResults int, fuzzy bool) ([]models.SearchResult, error)
}

// PriceWorkerClient talks to the peer computation service used as the middle
// stage of the latest-price fallback chain.
type PriceWorkerClient interface {
	// GetLatestPrice fetches the peer's latest price for a ticker.
	GetLatestPrice(ctx context.Context, ticker string) (float64, error)
}
