package interfaces

import (
	"context"

	"github.com/ticker-kit/risk-api/internal/models"
)

// TickerService is the cache-first data fetch layer sitting between callers
// and the MarketDataSource.
type TickerService interface {
	// ValidateTicker normalizes a raw symbol and resolves it against the
	// source, returning the source's canonical spelling. Results are
	// cached so repeat validations skip the network.
	ValidateTicker(ctx context.Context, raw string) (string, error)

	// GetTickerInfo returns metadata for a symbol, cache-first.
	GetTickerInfo(ctx context.Context, symbol string) (*models.TickerInfo, error)

	// GetHistoricalData returns the price history for a symbol and
	// period, cache-first. An empty history is a NotFound condition and
	// is negatively cached.
	GetHistoricalData(ctx context.Context, symbol, period string) (*models.HistoricalColumns, error)

	// GetBulkHistoricalData returns histories for several symbols under a
	// single order-independent cache key.
	GetBulkHistoricalData(ctx context.Context, symbols []string, period string) (*models.BulkHistorical, error)

	// GetLatestPrice resolves a latest price through the fallback chain:
	// cache, then the peer worker, then the source's info endpoint.
	GetLatestPrice(ctx context.Context, symbol string) (*models.LatestPrice, error)

	// SearchTickers performs a cached free-text symbol search. The cache
	// holds the full fetched candidate list; maxResults trims per request.
	SearchTickers(ctx context.Context, query string, maxResults int, fuzzy bool) ([]models.SearchResult, error)
}

// AnalysisService produces full ticker analyses and their cacheable form.
type AnalysisService interface {
	// AnalyzeTicker fetches data for a symbol and computes the full
	// analysis. Invalid and unknown symbols come back as an analysis
	// carrying an error message, not as an error return.
	AnalyzeTicker(ctx context.Context, raw, period string) (*models.TickerAnalysis, error)

	// RenderChart renders a PNG of the close series and fitted trend.
	RenderChart(ctx context.Context, raw, period string) ([]byte, error)
}
