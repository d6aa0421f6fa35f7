// Package analysis implements the ticker analysis pipeline and its
// cacheable payload form
package analysis

import (
	"math"
	"time"

	"github.com/ticker-kit/risk-api/internal/analytics"
	"github.com/ticker-kit/risk-api/internal/models"
)

// Compute runs the full analytics pipeline over a close series. The fit and
// everything derived from it are gated out when any close is non-positive;
// the remaining metrics are still produced where defined.
func Compute(ticker string, info *models.TickerInfo, dates []string, closes []float64) *models.TickerAnalysis {
	result := &models.TickerAnalysis{
		Ticker: ticker,
		Info:   info,
	}
	if len(closes) == 0 || len(dates) != len(closes) {
		result.ErrorMsg = "no price data available"
		return result
	}

	parsed := parseDates(dates)
	ap := models.NewAssetPeriod(parsed)
	result.Period = ap

	ts := &models.TimeSeriesData{
		Dates: dates,
		Close: closes,
	}
	result.TimeSeries = ts

	logReturns := analytics.LogReturns(closes)
	ts.LogReturns = models.NewNullableSeries(logReturns)

	result.HasNonPositiveClose = !allPositive(closes)
	fitAllowed := len(parsed) == len(closes) && !result.HasNonPositiveClose

	if fitAllowed {
		if fitted, _, _, ok := analytics.FitExponential(closes); ok {
			deviations := analytics.Deviations(closes, fitted)
			ts.Fitted = models.NewNullableSeries(fitted)
			ts.Deviation = models.NewNullableSeries(deviations)
			ts.DeviationZ = models.NewNullableSeries(analytics.ZScores(deviations))

			result.RMSE = roundPtr4(analytics.RMSE(deviations))
			result.RMSENormalized = roundPtr4(analytics.NormalizedRMSE(deviations))
			result.CAGRFitted = roundPtr4(analytics.CAGR(fitted[0], fitted[len(fitted)-1], ap.Years))
		}
		result.CAGR = roundPtr4(analytics.CAGR(closes[0], closes[len(closes)-1], ap.Years))
	}

	ts.RollingWeek = rollingSet(logReturns, ap.PointsPerWeek)
	ts.RollingMonth = rollingSet(logReturns, ap.PointsPerMonth)
	ts.RollingYear = rollingSet(logReturns, ap.PointsPerYear)

	simple := analytics.SimpleReturns(closes)
	if len(simple) > 0 {
		mean := analytics.Mean(simple)
		stdev := analytics.SampleStdev(simple)

		result.ReturnMean = roundPtr4(mean)
		result.ReturnStdev = roundPtr4(stdev)
		result.AnnualReturn = roundPtr4(analytics.AnnualizeReturn(mean, ap.PointsPerYear))
		result.AnnualVolatility = roundPtr4(analytics.AnnualizeVolatility(stdev, ap.PointsPerYear))
		result.CoefVariation = roundPtr4(analytics.CoefVariation(mean, stdev))
		result.Sharpe = roundPtr2(analytics.SharpeRatio(mean, stdev))
	}
	result.MaxDrawdown = roundPtr4(analytics.MaxDrawdown(closes))

	return result
}

// rollingSet computes one horizon's rolling returns and z-scores.
func rollingSet(logReturns []float64, pointsPerHorizon float64) *models.RollingReturns {
	window := models.WindowSize(pointsPerHorizon)
	returns := analytics.RollingReturn(logReturns, window)
	return &models.RollingReturns{
		Window:  window,
		Returns: models.NewNullableSeries(returns),
		ZScores: models.NewNullableSeries(analytics.ZScores(returns)),
	}
}

func parseDates(dates []string) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func allPositive(values []float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}
	return true
}

// roundPtr4 rounds to 4 decimals and converts undefined values to nil.
func roundPtr4(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := analytics.Round4(v)
	return &r
}

// roundPtr2 rounds to 2 decimals and converts undefined values to nil.
func roundPtr2(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := analytics.Round2(v)
	return &r
}
