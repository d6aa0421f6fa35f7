package analytics

import "math"

// DivZeroSentinel stands in for ratio metrics whose denominator is zero.
// A finite sentinel keeps the value JSON-safe where infinity would not be.
const DivZeroSentinel = 999.0

// CoefVariation returns stdev/mean. A zero stdev marks a degenerate flat
// series and gets the sentinel, as does a zero mean.
func CoefVariation(mean, stdev float64) float64 {
	if math.IsNaN(mean) || math.IsNaN(stdev) {
		return math.NaN()
	}
	if stdev == 0 || mean == 0 {
		return DivZeroSentinel
	}
	return stdev / mean
}

// SharpeRatio returns mean/stdev (no risk-free adjustment), or the sentinel
// when the stdev is zero.
func SharpeRatio(mean, stdev float64) float64 {
	if math.IsNaN(mean) || math.IsNaN(stdev) {
		return math.NaN()
	}
	if stdev == 0 {
		return DivZeroSentinel
	}
	return mean / stdev
}

// MaxDrawdown returns min(price / running-max(price) - 1) over the series.
// Zero for a series that never falls below a prior peak.
func MaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return math.NaN()
	}

	peak := prices[0]
	minDD := 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		dd := p/peak - 1
		if dd < minDD {
			minDD = dd
		}
	}
	return minDD
}

// AnnualizeReturn scales a per-point mean return to a yearly figure using
// the series' sampling rate.
func AnnualizeReturn(meanReturn, pointsPerYear float64) float64 {
	return meanReturn * pointsPerYear
}

// AnnualizeVolatility scales a per-point return stdev to a yearly figure.
func AnnualizeVolatility(stdev, pointsPerYear float64) float64 {
	if pointsPerYear < 0 {
		return math.NaN()
	}
	return stdev * math.Sqrt(pointsPerYear)
}

// Round4 rounds ratio-type metrics to 4 decimal places.
func Round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*10000) / 10000
}

// Round2 rounds ratio-of-ratio metrics (Sharpe-like values) to 2 decimal
// places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}
