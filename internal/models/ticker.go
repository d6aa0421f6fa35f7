package models

import (
	"fmt"
	"strings"
)

// maxTickerLen bounds normalized symbols. Yahoo symbols top out well under
// this, anything longer is garbage input.
const maxTickerLen = 10

// NormalizeTicker trims, uppercases, and validates a ticker symbol.
// Valid symbols are 1-10 characters drawn from [A-Z0-9.^-].
func NormalizeTicker(raw string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return "", fmt.Errorf("%w: empty ticker", ErrInvalidInput)
	}
	if len(sym) > maxTickerLen {
		return "", fmt.Errorf("%w: ticker %q exceeds %d characters", ErrInvalidInput, sym, maxTickerLen)
	}
	for _, r := range sym {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '^' || r == '-':
		default:
			return "", fmt.Errorf("%w: ticker %q contains invalid character %q", ErrInvalidInput, sym, r)
		}
	}
	return sym, nil
}

// TickerInfo holds the metadata returned by the source for a validated
// symbol. Symbol is the source's canonical spelling, which may differ from
// what the caller asked for.
type TickerInfo struct {
	Symbol       string   `json:"symbol"`
	LongName     string   `json:"longName,omitempty"`
	ShortName    string   `json:"shortName,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Exchange     string   `json:"exchange,omitempty"`
	QuoteType    string   `json:"quoteType,omitempty"`
	MarketPrice  *float64 `json:"regularMarketPrice,omitempty"`
	PrevClose    *float64 `json:"regularMarketPreviousClose,omitempty"`
	MarketCap    *float64 `json:"marketCap,omitempty"`
	TrailingPE   *float64 `json:"trailingPE,omitempty"`
	DividendRate *float64 `json:"dividendRate,omitempty"`
}

// DisplayName returns the best human-readable name available.
func (t *TickerInfo) DisplayName() string {
	if t.LongName != "" {
		return t.LongName
	}
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.Symbol
}

// SearchResult is one entry from a free-text symbol search.
type SearchResult struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	QuoteType string `json:"quoteType,omitempty"`
	Score     int64  `json:"score,omitempty"`
}

// LatestPrice is the output of the price fallback chain. Source records
// which stage produced it: "cache", "worker", or "info".
type LatestPrice struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}
