// Package cache provides the cache key grammar and store backends
package cache

import (
	"sort"
	"strconv"
	"strings"
)

// Cache keys are deterministic colon-joined strings: an operation tag
// followed by normalized arguments. Multi-symbol keys sort their symbols so
// key identity is independent of input order.

// TickerInfoKey returns the cache key for ticker metadata.
func TickerInfoKey(symbol string) string {
	return "ticker_info:" + symbol
}

// HistoricalKey returns the cache key for one symbol's price history.
func HistoricalKey(symbol, period string, adjusted bool) string {
	return "historical:" + symbol + ":" + period + ":" + strconv.FormatBool(adjusted)
}

// BulkHistoricalKey returns the cache key for a multi-symbol history fetch.
func BulkHistoricalKey(symbols []string, period string) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return "bulk_historical:" + strings.Join(sorted, ":") + ":" + period
}

// SearchKey returns the cache key for a free-text symbol search. Fuzzy and
// exact searches cache independently.
func SearchKey(query string, fuzzy bool) string {
	return "search:" + strings.ToUpper(strings.TrimSpace(query)) + ":" + strconv.FormatBool(fuzzy)
}

// LatestPriceKey returns the cache key for the latest-price fallback chain.
func LatestPriceKey(symbol string) string {
	return "latest_price:" + symbol
}

// AnalysisKey returns the cache key for an assembled analysis payload.
func AnalysisKey(symbol, period string) string {
	return "analysis:" + symbol + ":" + period
}

// NotFoundSentinel is the value cached for negative results. It rate-limits
// repeated upstream calls for known-bad symbols within the TTL window.
const NotFoundSentinel = "ERROR"
