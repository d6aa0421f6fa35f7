package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticker-kit/risk-api/internal/cache"
	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/models"
)

// fakeTickers is a scripted TickerService.
type fakeTickers struct {
	resolved string
	cols     *models.HistoricalColumns
	info     *models.TickerInfo
	failWith error

	validateCalls int
	historyCalls  int
}

func (f *fakeTickers) ValidateTicker(ctx context.Context, raw string) (string, error) {
	f.validateCalls++
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.resolved, nil
}

func (f *fakeTickers) GetTickerInfo(ctx context.Context, symbol string) (*models.TickerInfo, error) {
	if f.info == nil {
		return nil, fmt.Errorf("%w: no info", models.ErrNotFound)
	}
	return f.info, nil
}

func (f *fakeTickers) GetHistoricalData(ctx context.Context, symbol, period string) (*models.HistoricalColumns, error) {
	f.historyCalls++
	if f.cols == nil {
		return nil, fmt.Errorf("%w: no history", models.ErrNotFound)
	}
	return f.cols, nil
}

func (f *fakeTickers) GetBulkHistoricalData(ctx context.Context, symbols []string, period string) (*models.BulkHistorical, error) {
	return nil, fmt.Errorf("%w: not scripted", models.ErrNotFound)
}

func (f *fakeTickers) GetLatestPrice(ctx context.Context, symbol string) (*models.LatestPrice, error) {
	return nil, fmt.Errorf("%w: not scripted", models.ErrServiceUnavailable)
}

func (f *fakeTickers) SearchTickers(ctx context.Context, query string, maxResults int, fuzzy bool) ([]models.SearchResult, error) {
	return nil, nil
}

func testColumns() *models.HistoricalColumns {
	return &models.HistoricalColumns{
		Index: scenarioDates(),
		Close: []float64{100, 102, 101, 105, 103},
	}
}

func newTestAnalysisService(t *testing.T, tickers *fakeTickers) (*Service, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore(common.NewSilentLogger())
	t.Cleanup(func() { store.Close() })
	return NewService(tickers, store, common.NewSilentLogger()), store
}

func TestAnalyzeTicker(t *testing.T) {
	tickers := &fakeTickers{
		resolved: "TEST",
		cols:     testColumns(),
		info:     &models.TickerInfo{Symbol: "TEST", LongName: "Test Corp"},
	}
	svc, _ := newTestAnalysisService(t, tickers)

	result, err := svc.AnalyzeTicker(context.Background(), "test", "1y")
	require.NoError(t, err)
	require.False(t, result.IsError())
	assert.Equal(t, "TEST", result.Ticker)
	require.NotNil(t, result.Info)
	assert.Equal(t, "Test Corp", result.Info.LongName)
	require.NotNil(t, result.MaxDrawdown)
	assert.InDelta(t, -0.019, *result.MaxDrawdown, 1e-9)
}

func TestAnalyzeTickerCachesPayload(t *testing.T) {
	tickers := &fakeTickers{resolved: "TEST", cols: testColumns()}
	svc, _ := newTestAnalysisService(t, tickers)
	ctx := context.Background()

	_, err := svc.AnalyzeTicker(ctx, "TEST", "1y")
	require.NoError(t, err)
	assert.Equal(t, 1, tickers.historyCalls)

	// The second request is served from the cached payload.
	result, err := svc.AnalyzeTicker(ctx, "TEST", "1y")
	require.NoError(t, err)
	require.False(t, result.IsError())
	assert.Equal(t, 1, tickers.historyCalls)
	require.NotNil(t, result.ReturnMean, "cached payloads are fully recomputed")
}

func TestAnalyzeTickerInvalidInput(t *testing.T) {
	tickers := &fakeTickers{}
	svc, _ := newTestAnalysisService(t, tickers)

	result, err := svc.AnalyzeTicker(context.Background(), "not a ticker!", "1y")
	require.NoError(t, err, "invalid input is a result, not an error")
	assert.True(t, result.IsError())
	assert.Zero(t, tickers.validateCalls)
}

func TestAnalyzeTickerInvalidPeriod(t *testing.T) {
	tickers := &fakeTickers{resolved: "TEST"}
	svc, _ := newTestAnalysisService(t, tickers)

	result, err := svc.AnalyzeTicker(context.Background(), "TEST", "decade")
	require.NoError(t, err)
	assert.True(t, result.IsError())
}

func TestAnalyzeTickerUnknownSymbol(t *testing.T) {
	tickers := &fakeTickers{failWith: fmt.Errorf("%w: nope", models.ErrNotFound)}
	svc, _ := newTestAnalysisService(t, tickers)

	result, err := svc.AnalyzeTicker(context.Background(), "NOPE", "1y")
	require.NoError(t, err)
	assert.True(t, result.IsError())
}

func TestAnalyzeTickerSourceOutagePropagates(t *testing.T) {
	tickers := &fakeTickers{failWith: fmt.Errorf("%w: down", models.ErrSourceUnavailable)}
	svc, _ := newTestAnalysisService(t, tickers)

	_, err := svc.AnalyzeTicker(context.Background(), "TEST", "1y")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}

func TestAnalyzeTickerMissingHistoryCachedAsError(t *testing.T) {
	tickers := &fakeTickers{resolved: "TEST", cols: nil}
	svc, _ := newTestAnalysisService(t, tickers)
	ctx := context.Background()

	result, err := svc.AnalyzeTicker(ctx, "TEST", "1y")
	require.NoError(t, err)
	assert.True(t, result.IsError())
	assert.Equal(t, 1, tickers.historyCalls)

	// The error payload is cached and replayed without refetching.
	result, err = svc.AnalyzeTicker(ctx, "TEST", "1y")
	require.NoError(t, err)
	assert.True(t, result.IsError())
	assert.Equal(t, 1, tickers.historyCalls)
}

func TestAnalyzeTickerMissingInfoStillAnalyzes(t *testing.T) {
	tickers := &fakeTickers{resolved: "TEST", cols: testColumns(), info: nil}
	svc, _ := newTestAnalysisService(t, tickers)

	result, err := svc.AnalyzeTicker(context.Background(), "TEST", "1y")
	require.NoError(t, err)
	require.False(t, result.IsError())
	assert.Nil(t, result.Info)
	require.NotNil(t, result.MaxDrawdown)
}

func TestRenderChart(t *testing.T) {
	tickers := &fakeTickers{resolved: "TEST", cols: testColumns()}
	svc, _ := newTestAnalysisService(t, tickers)

	png, err := svc.RenderChart(context.Background(), "TEST", "1y")
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderChartErrorResult(t *testing.T) {
	tickers := &fakeTickers{failWith: fmt.Errorf("%w: nope", models.ErrNotFound)}
	svc, _ := newTestAnalysisService(t, tickers)

	_, err := svc.RenderChart(context.Background(), "NOPE", "1y")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
