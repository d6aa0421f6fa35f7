// Package analytics implements the time-series math for ticker analysis.
// All functions are pure: they take price or return slices and produce
// derived slices or scalars, with NaN marking undefined points.
package analytics

import "math"

// FitExponential fits log(price) = a + b*t by ordinary least squares over
// t = 0..n-1 and returns the fitted price series exp(a + b*t) with the
// coefficients. The fit requires at least two strictly positive prices;
// otherwise ok is false and the fitted series is nil.
func FitExponential(prices []float64) (fitted []float64, a, b float64, ok bool) {
	n := len(prices)
	if n < 2 {
		return nil, 0, 0, false
	}
	for _, p := range prices {
		if p <= 0 {
			return nil, 0, 0, false
		}
	}

	// OLS on (t, log p).
	var sumT, sumY, sumTY, sumTT float64
	for t, p := range prices {
		ft := float64(t)
		y := math.Log(p)
		sumT += ft
		sumY += y
		sumTY += ft * y
		sumTT += ft * ft
	}

	fn := float64(n)
	denom := fn*sumTT - sumT*sumT
	if denom == 0 {
		return nil, 0, 0, false
	}
	b = (fn*sumTY - sumT*sumY) / denom
	a = (sumY - b*sumT) / fn

	fitted = make([]float64, n)
	for t := range fitted {
		fitted[t] = math.Exp(a + b*float64(t))
	}
	return fitted, a, b, true
}

// Deviations returns price/fitted - 1 per point.
func Deviations(prices, fitted []float64) []float64 {
	out := make([]float64, len(prices))
	for i := range prices {
		out[i] = prices[i]/fitted[i] - 1
	}
	return out
}

// RMSE returns the root mean square of the deviations.
func RMSE(deviations []float64) float64 {
	if len(deviations) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, d := range deviations {
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(deviations)))
}

// NormalizedRMSE returns RMSE divided by the mean absolute deviation. NaN
// when the denominator is zero.
func NormalizedRMSE(deviations []float64) float64 {
	if len(deviations) == 0 {
		return math.NaN()
	}
	var sumAbs float64
	for _, d := range deviations {
		sumAbs += math.Abs(d)
	}
	meanAbs := sumAbs / float64(len(deviations))
	if meanAbs == 0 {
		return math.NaN()
	}
	return RMSE(deviations) / meanAbs
}

// CAGR returns the compound annual growth rate between the endpoints of a
// series spanning the given number of years. NaN when the inputs cannot
// support the computation.
func CAGR(first, last, years float64) float64 {
	if first <= 0 || last <= 0 || years <= 0 {
		return math.NaN()
	}
	return math.Pow(last/first, 1/years) - 1
}
