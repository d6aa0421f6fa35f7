// Package ticker implements the cache-first market data fetch layer
package ticker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticker-kit/risk-api/internal/cache"
	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
	"github.com/ticker-kit/risk-api/internal/models"
)

// Verify interface compliance
var _ interfaces.TickerService = (*Service)(nil)

// Service sits between callers and the market data source. Every read goes
// cache-first; cache failures are logged and treated as misses, never
// surfaced. The worker client is optional: when nil, the fallback chain
// skips straight from cache to the source.
type Service struct {
	store  interfaces.CacheStore
	source interfaces.MarketDataSource
	worker interfaces.PriceWorkerClient
	logger *common.Logger
}

// NewService creates a ticker service with explicit dependencies.
func NewService(store interfaces.CacheStore, source interfaces.MarketDataSource, worker interfaces.PriceWorkerClient, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		source: source,
		worker: worker,
		logger: logger,
	}
}

// cacheGet reads a key, degrading backend failures to misses.
func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		return "", false
	}
	return value, ok
}

// cacheSet writes a key, logging backend failures without propagating them.
func (s *Service) cacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed")
	}
}

// ValidateTicker implements interfaces.TickerService. The info fetched
// during validation is cached under the resolved symbol, which may differ
// from the requested one when the source corrects an exchange suffix.
func (s *Service) ValidateTicker(ctx context.Context, raw string) (string, error) {
	normalized, err := models.NormalizeTicker(raw)
	if err != nil {
		return "", err
	}

	key := cache.TickerInfoKey(normalized)
	if value, ok := s.cacheGet(ctx, key); ok {
		if value == cache.NotFoundSentinel {
			return "", fmt.Errorf("%w: ticker %s", models.ErrNotFound, normalized)
		}
		var info models.TickerInfo
		if err := json.Unmarshal([]byte(value), &info); err == nil && info.Symbol != "" {
			return info.Symbol, nil
		}
		// Corrupt entry, fall through to a fresh fetch.
		s.logger.Warn().Str("key", key).Msg("Discarding unreadable cached ticker info")
	}

	info, err := s.fetchAndCacheInfo(ctx, normalized)
	if err != nil {
		return "", err
	}
	return info.Symbol, nil
}

// GetTickerInfo implements interfaces.TickerService.
func (s *Service) GetTickerInfo(ctx context.Context, symbol string) (*models.TickerInfo, error) {
	normalized, err := models.NormalizeTicker(symbol)
	if err != nil {
		return nil, err
	}

	key := cache.TickerInfoKey(normalized)
	if value, ok := s.cacheGet(ctx, key); ok {
		if value == cache.NotFoundSentinel {
			return nil, fmt.Errorf("%w: ticker %s", models.ErrNotFound, normalized)
		}
		var info models.TickerInfo
		if err := json.Unmarshal([]byte(value), &info); err == nil && info.Symbol != "" {
			return &info, nil
		}
		s.logger.Warn().Str("key", key).Msg("Discarding unreadable cached ticker info")
	}

	return s.fetchAndCacheInfo(ctx, normalized)
}

// fetchAndCacheInfo fetches info from the source and writes it through.
// NotFound is negatively cached under the requested symbol; source outages
// are never cached.
func (s *Service) fetchAndCacheInfo(ctx context.Context, symbol string) (*models.TickerInfo, error) {
	info, err := s.source.GetInfo(ctx, symbol)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.cacheSet(ctx, cache.TickerInfoKey(symbol), cache.NotFoundSentinel, common.TTLNotFound)
			return nil, fmt.Errorf("%w: ticker %s", models.ErrNotFound, symbol)
		}
		return nil, err
	}
	if info.Symbol == "" {
		s.cacheSet(ctx, cache.TickerInfoKey(symbol), cache.NotFoundSentinel, common.TTLNotFound)
		return nil, fmt.Errorf("%w: ticker %s returned no symbol", models.ErrNotFound, symbol)
	}

	if data, err := json.Marshal(info); err == nil {
		s.cacheSet(ctx, cache.TickerInfoKey(info.Symbol), string(data), common.TTLTickerInfo)
	}
	return info, nil
}

// GetHistoricalData implements interfaces.TickerService. The ticker is
// validated first so the info cache is warm and the resolved symbol keys
// the history entry. An empty history is negatively cached.
func (s *Service) GetHistoricalData(ctx context.Context, symbol, period string) (*models.HistoricalColumns, error) {
	resolved, err := s.ValidateTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}
	normPeriod, err := models.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	key := cache.HistoricalKey(resolved, normPeriod, true)
	if value, ok := s.cacheGet(ctx, key); ok {
		if value == cache.NotFoundSentinel {
			return nil, fmt.Errorf("%w: no history for %s over %s", models.ErrNotFound, resolved, normPeriod)
		}
		var cols models.HistoricalColumns
		if err := json.Unmarshal([]byte(value), &cols); err == nil && cols.Len() > 0 {
			return &cols, nil
		}
		s.logger.Warn().Str("key", key).Msg("Discarding unreadable cached history")
	}

	bars, err := s.source.GetHistory(ctx, resolved, normPeriod)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.cacheSet(ctx, key, cache.NotFoundSentinel, common.TTLNotFound)
			return nil, fmt.Errorf("%w: no history for %s over %s", models.ErrNotFound, resolved, normPeriod)
		}
		return nil, err
	}
	if len(bars) == 0 {
		s.cacheSet(ctx, key, cache.NotFoundSentinel, common.TTLNotFound)
		return nil, fmt.Errorf("%w: empty history for %s over %s", models.ErrNotFound, resolved, normPeriod)
	}

	cols := models.ColumnsFromBars(bars)
	if data, err := json.Marshal(cols); err == nil {
		s.cacheSet(ctx, key, string(data), common.TTLHistorical)
	}
	return cols, nil
}

// GetBulkHistoricalData implements interfaces.TickerService. The cache key
// sorts the symbols, so fetches for the same set hit regardless of order.
func (s *Service) GetBulkHistoricalData(ctx context.Context, symbols []string, period string) (*models.BulkHistorical, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", models.ErrInvalidInput)
	}
	normalized := make([]string, 0, len(symbols))
	for _, raw := range symbols {
		sym, err := models.NormalizeTicker(raw)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, sym)
	}
	normPeriod, err := models.NormalizePeriod(period)
	if err != nil {
		return nil, err
	}

	key := cache.BulkHistoricalKey(normalized, normPeriod)
	if value, ok := s.cacheGet(ctx, key); ok {
		if value == cache.NotFoundSentinel {
			return nil, fmt.Errorf("%w: no bulk history for %v", models.ErrNotFound, normalized)
		}
		var bulk models.BulkHistorical
		if err := json.Unmarshal([]byte(value), &bulk); err == nil && len(bulk.Series) > 0 {
			return &bulk, nil
		}
		s.logger.Warn().Str("key", key).Msg("Discarding unreadable cached bulk history")
	}

	histories, err := s.source.GetBulkHistory(ctx, normalized, normPeriod)
	if err != nil {
		return nil, err
	}

	bulk := &models.BulkHistorical{
		Period: normPeriod,
		Series: make(map[string]*models.HistoricalColumns, len(histories)),
	}
	for sym, bars := range histories {
		if len(bars) == 0 {
			continue
		}
		bulk.Series[sym] = models.ColumnsFromBars(bars)
	}

	if len(bulk.Series) == 0 {
		s.cacheSet(ctx, key, cache.NotFoundSentinel, common.TTLNotFound)
		return nil, fmt.Errorf("%w: no bulk history for %v", models.ErrNotFound, normalized)
	}

	if data, err := json.Marshal(bulk); err == nil {
		s.cacheSet(ctx, key, string(data), common.TTLBulkHistorical)
	}
	return bulk, nil
}

// GetLatestPrice implements interfaces.TickerService. The chain tries
// cache, then the peer worker, then the source's quote endpoint; every
// stage failure is logged and means try the next stage. A non-cache
// success is written back before being returned.
func (s *Service) GetLatestPrice(ctx context.Context, symbol string) (*models.LatestPrice, error) {
	normalized, err := models.NormalizeTicker(symbol)
	if err != nil {
		return nil, err
	}

	chainID := uuid.NewString()
	key := cache.LatestPriceKey(normalized)

	if value, ok := s.cacheGet(ctx, key); ok {
		if price, err := strconv.ParseFloat(value, 64); err == nil && price > 0 {
			return &models.LatestPrice{Symbol: normalized, Price: price, Source: "cache"}, nil
		}
		s.logger.Warn().Str("key", key).Str("chain_id", chainID).Msg("Discarding unreadable cached price")
	}

	if s.worker != nil {
		price, err := s.worker.GetLatestPrice(ctx, normalized)
		if err == nil {
			s.cacheSet(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), common.TTLLatestPrice)
			return &models.LatestPrice{Symbol: normalized, Price: price, Source: "worker"}, nil
		}
		s.logger.Warn().Err(err).
			Str("symbol", normalized).
			Str("chain_id", chainID).
			Msg("Worker price lookup failed, trying source")
	}

	info, err := s.source.GetInfo(ctx, normalized)
	if err == nil {
		price := 0.0
		switch {
		case info.MarketPrice != nil && *info.MarketPrice > 0:
			price = *info.MarketPrice
		case info.PrevClose != nil && *info.PrevClose > 0:
			price = *info.PrevClose
		}
		if price > 0 {
			s.cacheSet(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), common.TTLLatestPrice)
			return &models.LatestPrice{Symbol: normalized, Price: price, Source: "info"}, nil
		}
		err = fmt.Errorf("%w: quote for %s has no usable price", models.ErrNotFound, normalized)
	}
	s.logger.Warn().Err(err).
		Str("symbol", normalized).
		Str("chain_id", chainID).
		Msg("Source price lookup failed")

	return nil, fmt.Errorf("%w: no price source succeeded for %s", models.ErrServiceUnavailable, normalized)
}

// searchFetchLimit is how many candidates one upstream search fetches. The
// cache holds the full fetched list; per-request limits trim on read.
const searchFetchLimit = 25

// SearchTickers implements interfaces.TickerService.
func (s *Service) SearchTickers(ctx context.Context, query string, maxResults int, fuzzy bool) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", models.ErrInvalidInput)
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	key := cache.SearchKey(query, fuzzy)
	if value, ok := s.cacheGet(ctx, key); ok {
		var results []models.SearchResult
		if err := json.Unmarshal([]byte(value), &results); err == nil {
			return trimResults(results, maxResults), nil
		}
		s.logger.Warn().Str("key", key).Msg("Discarding unreadable cached search results")
	}

	results, err := s.source.Search(ctx, query, searchFetchLimit, fuzzy)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		s.cacheSet(ctx, key, string(data), common.TTLSearch)
	}
	return trimResults(results, maxResults), nil
}

func trimResults(results []models.SearchResult, maxResults int) []models.SearchResult {
	if len(results) > maxResults {
		return results[:maxResults]
	}
	return results
}
