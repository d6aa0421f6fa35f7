package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ticker-kit/risk-api/internal/cache"
	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
	"github.com/ticker-kit/risk-api/internal/models"
)

// Verify interface compliance
var _ interfaces.AnalysisService = (*Service)(nil)

// Service produces ticker analyses. Assembled payloads are cached so repeat
// requests within the TTL skip the data fetch; the analytics themselves are
// always recomputed from the cached raw series.
type Service struct {
	tickers interfaces.TickerService
	store   interfaces.CacheStore
	logger  *common.Logger
}

// NewService creates an analysis service with explicit dependencies.
func NewService(tickers interfaces.TickerService, store interfaces.CacheStore, logger *common.Logger) *Service {
	return &Service{
		tickers: tickers,
		store:   store,
		logger:  logger,
	}
}

// AnalyzeTicker implements interfaces.AnalysisService. Invalid input and
// unknown symbols come back as an analysis carrying an error message;
// only source outages with no fallback surface as errors.
func (s *Service) AnalyzeTicker(ctx context.Context, raw, period string) (*models.TickerAnalysis, error) {
	normalized, err := models.NormalizeTicker(raw)
	if err != nil {
		return &models.TickerAnalysis{Ticker: raw, ErrorMsg: err.Error()}, nil
	}
	normPeriod, err := models.NormalizePeriod(period)
	if err != nil {
		return &models.TickerAnalysis{Ticker: normalized, ErrorMsg: err.Error()}, nil
	}

	resolved, err := s.tickers.ValidateTicker(ctx, normalized)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidInput) {
			return &models.TickerAnalysis{Ticker: normalized, ErrorMsg: err.Error()}, nil
		}
		return nil, err
	}

	key := cache.AnalysisKey(resolved, normPeriod)
	if value, ok, err := s.store.Get(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
	} else if ok {
		if payload, err := UnmarshalPayload(value); err == nil {
			return FromCachePayload(payload), nil
		}
		s.logger.Warn().Str("key", key).Msg("Discarding unreadable cached analysis payload")
	}

	cols, err := s.tickers.GetHistoricalData(ctx, resolved, normPeriod)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			msg := fmt.Sprintf("no price data for %s over %s", resolved, normPeriod)
			s.cachePayload(ctx, key, ToCachePayload(resolved, nil, nil, nil, msg), common.TTLNotFound)
			return &models.TickerAnalysis{Ticker: resolved, ErrorMsg: msg}, nil
		}
		return nil, err
	}

	info, err := s.tickers.GetTickerInfo(ctx, resolved)
	if err != nil {
		// The analysis still stands without metadata.
		s.logger.Warn().Err(err).Str("symbol", resolved).Msg("Ticker info unavailable for analysis")
		info = nil
	}

	payload := ToCachePayload(resolved, cols.Index, cols.Close, info, "")
	s.cachePayload(ctx, key, payload, common.TTLHistorical)

	return FromCachePayload(payload), nil
}

func (s *Service) cachePayload(ctx context.Context, key string, payload *models.AnalysisPayload, ttl time.Duration) {
	value, err := MarshalPayload(payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal analysis payload")
		return
	}
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed")
	}
}

// RenderChart implements interfaces.AnalysisService.
func (s *Service) RenderChart(ctx context.Context, raw, period string) ([]byte, error) {
	result, err := s.AnalyzeTicker(ctx, raw, period)
	if err != nil {
		return nil, err
	}
	if result.IsError() {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, result.ErrorMsg)
	}
	return RenderAnalysisChart(result)
}
