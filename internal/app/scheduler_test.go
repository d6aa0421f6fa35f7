package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/models"
)

type fakeAnalyses struct {
	calls    []string
	failWith error
	errorMsg string
}

func (f *fakeAnalyses) AnalyzeTicker(ctx context.Context, raw, period string) (*models.TickerAnalysis, error) {
	f.calls = append(f.calls, raw)
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &models.TickerAnalysis{Ticker: raw, ErrorMsg: f.errorMsg}, nil
}

func (f *fakeAnalyses) RenderChart(ctx context.Context, raw, period string) ([]byte, error) {
	return nil, fmt.Errorf("not scripted")
}

func TestSchedulerRegisterBadSpec(t *testing.T) {
	s := NewScheduler(&fakeAnalyses{}, common.NewSilentLogger(), common.SchedulerConfig{
		Spec: "not a cron spec",
	})
	require.Error(t, s.Register())
}

func TestSchedulerWarm(t *testing.T) {
	analyses := &fakeAnalyses{}
	s := NewScheduler(analyses, common.NewSilentLogger(), common.SchedulerConfig{
		Spec:    "*/15 * * * *",
		Tickers: []string{"AAPL", "MSFT"},
		Period:  "1y",
	})

	s.warm()
	assert.Equal(t, []string{"AAPL", "MSFT"}, analyses.calls)
}

func TestSchedulerWarmContinuesPastFailures(t *testing.T) {
	analyses := &fakeAnalyses{failWith: fmt.Errorf("%w: down", models.ErrSourceUnavailable)}
	s := NewScheduler(analyses, common.NewSilentLogger(), common.SchedulerConfig{
		Spec:    "*/15 * * * *",
		Tickers: []string{"AAPL", "MSFT", "GOOG"},
		Period:  "1y",
	})

	// A failing backend must not stop the pass.
	s.warm()
	assert.Len(t, analyses.calls, 3)
}
