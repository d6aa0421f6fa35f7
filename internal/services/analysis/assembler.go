package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/ticker-kit/risk-api/internal/models"
)

// The cache stores only the minimal raw material of an analysis: the close
// series with its dates and the ticker info, or an error message — never
// both. Reading a payload back re-runs the full computation, so the derived
// analytics live in one place and the cache entry stays small.

// ToCachePayload builds the cacheable form of an analysis input.
func ToCachePayload(ticker string, dates []string, closes []float64, info *models.TickerInfo, errorMsg string) *models.AnalysisPayload {
	if errorMsg != "" {
		return &models.AnalysisPayload{Ticker: ticker, ErrorMsg: errorMsg}
	}
	return &models.AnalysisPayload{
		Ticker: ticker,
		Dates:  dates,
		Close:  closes,
		Info:   info,
	}
}

// FromCachePayload reconstructs a full analysis from a cached payload. An
// error payload becomes an error-only result without recomputation; a data
// payload goes back through the full analytics pipeline.
func FromCachePayload(payload *models.AnalysisPayload) *models.TickerAnalysis {
	if payload.ErrorMsg != "" {
		return &models.TickerAnalysis{Ticker: payload.Ticker, ErrorMsg: payload.ErrorMsg}
	}
	return Compute(payload.Ticker, payload.Info, payload.Dates, payload.Close)
}

// MarshalPayload serializes a payload for the cache.
func MarshalPayload(payload *models.AnalysisPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis payload: %w", err)
	}
	return string(data), nil
}

// UnmarshalPayload deserializes a cached payload.
func UnmarshalPayload(value string) (*models.AnalysisPayload, error) {
	var payload models.AnalysisPayload
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis payload: %w", err)
	}
	if payload.Ticker == "" {
		return nil, fmt.Errorf("analysis payload missing ticker")
	}
	return &payload, nil
}
