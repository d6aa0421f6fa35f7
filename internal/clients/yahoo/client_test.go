package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticker-kit/risk-api/internal/interfaces"
	"github.com/ticker-kit/risk-api/internal/models"
)

const chartFixture = `{
	"chart": {
		"result": [{
			"timestamp": [1704153600, 1704240000, 1704326400],
			"indicators": {
				"quote": [{
					"open": [99.0, 100.5, null],
					"high": [101.0, 103.0, null],
					"low": [98.0, 100.0, null],
					"close": [100.0, 102.0, null],
					"volume": [1000, 1200, null]
				}],
				"adjclose": [{
					"adjclose": [99.5, 101.5, null]
				}]
			}
		}],
		"error": null
	}
}`

const quoteFixture = `{
	"quoteResponse": {
		"result": [{
			"symbol": "AAPL",
			"longName": "Apple Inc.",
			"shortName": "Apple",
			"currency": "USD",
			"fullExchangeName": "NasdaqGS",
			"quoteType": "EQUITY",
			"regularMarketPrice": 195.5,
			"regularMarketPreviousClose": 194.2
		}],
		"error": null
	}
}`

const searchFixture = `{
	"quotes": [
		{"symbol": "AAPL", "longname": "Apple Inc.", "exchange": "NMS", "quoteType": "EQUITY", "score": 99999},
		{"symbol": "APLE", "shortname": "Apple Hospitality", "exchange": "NYQ", "quoteType": "EQUITY", "score": 1000},
		{"symbol": "", "shortname": "junk entry"}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithRateLimit(1000))
}

func TestGetHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(chartFixture))
	})

	bars, err := client.GetHistory(context.Background(), "AAPL", "1y")
	require.NoError(t, err)
	require.Len(t, bars, 2, "null bar must be skipped")

	// Adjusted closes are the default.
	assert.Equal(t, 99.5, bars[0].Close)
	assert.Equal(t, 101.5, bars[1].Close)
	assert.Equal(t, 99.0, bars[0].Open)
	assert.Equal(t, int64(1000), bars[0].Volume)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
}

func TestGetHistoryUnadjusted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})

	bars, err := client.GetHistory(context.Background(), "AAPL", "1y", interfaces.WithAdjusted(false))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 102.0, bars[1].Close)
}

func TestGetHistoryNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := client.GetHistory(context.Background(), "NOPE", "1y")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetHistoryServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetHistory(context.Background(), "AAPL", "1y")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestGetHistoryEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	_, err := client.GetHistory(context.Background(), "AAPL", "1y")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetBulkHistorySkipsMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v8/finance/chart/NOPE" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(chartFixture))
	})

	out, err := client.GetBulkHistory(context.Background(), []string{"AAPL", "NOPE", "MSFT"}, "1y")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "MSFT")
	assert.NotContains(t, out, "NOPE")
}

func TestGetInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		w.Write([]byte(quoteFixture))
	})

	info, err := client.GetInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", info.Symbol)
	assert.Equal(t, "Apple Inc.", info.LongName)
	assert.Equal(t, "USD", info.Currency)
	require.NotNil(t, info.MarketPrice)
	assert.Equal(t, 195.5, *info.MarketPrice)
}

func TestGetInfoNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	})

	_, err := client.GetInfo(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/finance/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		assert.Equal(t, "false", r.URL.Query().Get("enableFuzzyQuery"))
		w.Write([]byte(searchFixture))
	})

	results, err := client.Search(context.Background(), "apple", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 2, "entry without a symbol must be dropped")
	assert.Equal(t, "AAPL", results[0].Symbol)
	assert.Equal(t, "Apple Inc.", results[0].Name)
	assert.Equal(t, "Apple Hospitality", results[1].Name)
}

func TestSearchMaxResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchFixture))
	})

	results, err := client.Search(context.Background(), "apple", 1, false)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchFuzzy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("enableFuzzyQuery"))
		w.Write([]byte(searchFixture))
	})

	_, err := client.Search(context.Background(), "appel", 10, true)
	require.NoError(t, err)
}

func TestAPIErrorUnwrap(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Endpoint: "/x"}
	assert.ErrorIs(t, notFound, models.ErrNotFound)

	unavailable := &APIError{StatusCode: http.StatusBadGateway, Endpoint: "/x"}
	assert.ErrorIs(t, unavailable, models.ErrSourceUnavailable)
}
