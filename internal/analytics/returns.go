package analytics

import "math"

// LogReturns returns ln(p_t / p_{t-1}) aligned to the price index. The
// first element is NaN: there is no prior price.
func LogReturns(prices []float64) []float64 {
	out := make([]float64, len(prices))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(prices); i++ {
		out[i] = math.Log(prices[i] / prices[i-1])
	}
	return out
}

// SimpleReturns returns p_t / p_{t-1} - 1, length n-1 for n prices.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = prices[i]/prices[i-1] - 1
	}
	return out
}

// RollingReturn converts a log-return series into rolling simple returns:
// exp(sum of the last window log returns) - 1, aligned to the input index.
// Positions whose window would include the undefined first log return, or
// run off the start of the series, are NaN.
func RollingReturn(logReturns []float64, window int) []float64 {
	out := make([]float64, len(logReturns))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 || len(logReturns) == 0 {
		return out
	}

	for i := window; i < len(logReturns); i++ {
		sum := 0.0
		valid := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(logReturns[j]) || math.IsInf(logReturns[j], 0) {
				valid = false
				break
			}
			sum += logReturns[j]
		}
		if valid {
			out[i] = math.Exp(sum) - 1
		}
	}
	return out
}

// Mean returns the arithmetic mean. NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdev returns the sample standard deviation (n-1 denominator). NaN
// for fewer than two values. This is the single stdev definition used by
// every z-score and volatility figure in the package.
func SampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// ZScores standardizes a series against its own mean and sample stdev,
// skipping undefined entries: they stay NaN in the output and do not
// contribute to the moments. A zero or undefined stdev makes every z-score
// NaN.
func ZScores(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}

	mean := Mean(valid)
	stdev := SampleStdev(valid)

	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(stdev) || stdev == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (v - mean) / stdev
	}
	return out
}
