package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReturns(t *testing.T) {
	prices := []float64{100, 102, 101}
	lr := LogReturns(prices)

	require.Len(t, lr, 3)
	assert.True(t, math.IsNaN(lr[0]), "first log return has no prior price")
	assert.InDelta(t, math.Log(102.0/100.0), lr[1], 1e-12)
	assert.InDelta(t, math.Log(101.0/102.0), lr[2], 1e-12)
}

func TestSimpleReturns(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103}
	returns := SimpleReturns(prices)

	require.Len(t, returns, 4)
	assert.InDelta(t, 0.02, returns[0], 1e-9)
	assert.InDelta(t, -0.0098039216, returns[1], 1e-9)
	assert.InDelta(t, 0.0396039604, returns[2], 1e-9)
	assert.InDelta(t, -0.0190476190, returns[3], 1e-9)

	assert.Nil(t, SimpleReturns([]float64{100}))
	assert.Nil(t, SimpleReturns(nil))
}

func TestRollingReturn(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103}
	lr := LogReturns(prices)

	out := RollingReturn(lr, 2)
	require.Len(t, out, 5)

	// Index 0 has no log return; index 1's window would include it.
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))

	// A 2-window rolling return is the simple return over two steps.
	assert.InDelta(t, 101.0/100.0-1, out[2], 1e-9)
	assert.InDelta(t, 105.0/102.0-1, out[3], 1e-9)
	assert.InDelta(t, 103.0/101.0-1, out[4], 1e-9)
}

func TestRollingReturnWindowTooLarge(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103}
	lr := LogReturns(prices)

	// Windows up to the full series length produce NaN, never a panic.
	for window := len(prices); window <= len(prices)+2; window++ {
		out := RollingReturn(lr, window)
		require.Len(t, out, len(prices))
		for i, v := range out {
			assert.True(t, math.IsNaN(v), "window %d index %d", window, i)
		}
	}
}

func TestRollingReturnSingleWindow(t *testing.T) {
	prices := []float64{100, 102, 101}
	lr := LogReturns(prices)

	out := RollingReturn(lr, 1)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 0.02, out[1], 1e-9)
	assert.InDelta(t, 101.0/102.0-1, out[2], 1e-9)
}

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestSampleStdev(t *testing.T) {
	// Sample (n-1) definition: stdev of {1,2,3,4} is sqrt(5/3).
	assert.InDelta(t, math.Sqrt(5.0/3.0), SampleStdev([]float64{1, 2, 3, 4}), 1e-9)
	assert.InDelta(t, 0.0, SampleStdev([]float64{3, 3, 3}), 1e-9)
	assert.True(t, math.IsNaN(SampleStdev([]float64{1})))
	assert.True(t, math.IsNaN(SampleStdev(nil)))
}

func TestZScores(t *testing.T) {
	values := []float64{1, 2, 3}
	z := ZScores(values)

	require.Len(t, z, 3)
	assert.InDelta(t, -1.0, z[0], 1e-9)
	assert.InDelta(t, 0.0, z[1], 1e-9)
	assert.InDelta(t, 1.0, z[2], 1e-9)
}

func TestZScoresSkipNaN(t *testing.T) {
	values := []float64{math.NaN(), 1, 2, 3}
	z := ZScores(values)

	require.Len(t, z, 4)
	assert.True(t, math.IsNaN(z[0]))
	// Moments come from the valid entries only.
	assert.InDelta(t, -1.0, z[1], 1e-9)
	assert.InDelta(t, 0.0, z[2], 1e-9)
	assert.InDelta(t, 1.0, z[3], 1e-9)
}

func TestZScoresZeroStdev(t *testing.T) {
	z := ZScores([]float64{5, 5, 5})
	for _, v := range z {
		assert.True(t, math.IsNaN(v), "zero stdev leaves z-scores undefined")
	}
}
