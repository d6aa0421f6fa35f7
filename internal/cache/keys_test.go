package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyGrammar(t *testing.T) {
	assert.Equal(t, "ticker_info:AAPL", TickerInfoKey("AAPL"))
	assert.Equal(t, "historical:AAPL:1y:true", HistoricalKey("AAPL", "1y", true))
	assert.Equal(t, "historical:AAPL:1y:false", HistoricalKey("AAPL", "1y", false))
	assert.Equal(t, "search:APPLE:false", SearchKey(" apple ", false))
	assert.Equal(t, "search:APPLE:true", SearchKey("apple", true))
	assert.Equal(t, "latest_price:AAPL", LatestPriceKey("AAPL"))
	assert.Equal(t, "analysis:AAPL:1y", AnalysisKey("AAPL", "1y"))
}

func TestBulkHistoricalKeyOrderIndependent(t *testing.T) {
	a := BulkHistoricalKey([]string{"AAPL", "MSFT"}, "1y")
	b := BulkHistoricalKey([]string{"MSFT", "AAPL"}, "1y")

	assert.Equal(t, a, b)
	assert.Equal(t, "bulk_historical:AAPL:MSFT:1y", a)
}

func TestBulkHistoricalKeyDoesNotMutateInput(t *testing.T) {
	symbols := []string{"MSFT", "AAPL"}
	BulkHistoricalKey(symbols, "1y")
	assert.Equal(t, []string{"MSFT", "AAPL"}, symbols)
}
