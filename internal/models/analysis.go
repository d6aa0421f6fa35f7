package models

import "math"

// NullableSeries is a float series where individual points may be undefined
// (leading log return, incomplete rolling windows, gated fits). Undefined
// points marshal as JSON null.
type NullableSeries []*float64

// NewNullableSeries wraps a raw float slice, converting non-finite entries
// to nulls so the result stays JSON-safe.
func NewNullableSeries(values []float64) NullableSeries {
	out := make(NullableSeries, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		val := v
		out[i] = &val
	}
	return out
}

// Floats converts back to a raw slice with NaN for null entries.
func (s NullableSeries) Floats() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		if p == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *p
		}
	}
	return out
}

// RollingReturns holds one horizon's rolling simple-return series and its
// z-scores, aligned to the price index. Entries before the first complete
// window are null.
type RollingReturns struct {
	Window  int            `json:"window"`
	Returns NullableSeries `json:"returns"`
	ZScores NullableSeries `json:"z_scores"`
}

// TimeSeriesData bundles the per-point derived series for one analysis.
// Fit-dependent fields are nil when the fit was gated out by non-positive
// closes.
type TimeSeriesData struct {
	Dates      []string       `json:"dates"`
	Close      []float64      `json:"close"`
	Fitted     NullableSeries `json:"fitted,omitempty"`
	Deviation  NullableSeries `json:"deviation,omitempty"`
	DeviationZ NullableSeries `json:"deviation_z,omitempty"`
	LogReturns NullableSeries `json:"log_returns"`

	RollingWeek  *RollingReturns `json:"rolling_week,omitempty"`
	RollingMonth *RollingReturns `json:"rolling_month,omitempty"`
	RollingYear  *RollingReturns `json:"rolling_year,omitempty"`
}

// TickerAnalysis is the externally visible analysis aggregate. Exactly one
// of the populated metrics or ErrorMsg is set.
type TickerAnalysis struct {
	Ticker string       `json:"ticker"`
	Info   *TickerInfo  `json:"info,omitempty"`
	Period *AssetPeriod `json:"period,omitempty"`

	TimeSeries *TimeSeriesData `json:"time_series,omitempty"`

	// HasNonPositiveClose marks series containing zero or negative closes.
	// The exponential fit and its derived metrics are withheld for those.
	HasNonPositiveClose bool `json:"has_non_positive_close,omitempty"`

	CAGR           *float64 `json:"cagr,omitempty"`
	CAGRFitted     *float64 `json:"cagr_fitted,omitempty"`
	RMSE           *float64 `json:"rmse,omitempty"`
	RMSENormalized *float64 `json:"rmse_normalized,omitempty"`

	ReturnMean       *float64 `json:"return_mean,omitempty"`
	ReturnStdev      *float64 `json:"return_stdev,omitempty"`
	AnnualReturn     *float64 `json:"annual_return,omitempty"`
	AnnualVolatility *float64 `json:"annual_volatility,omitempty"`
	CoefVariation    *float64 `json:"coef_variation,omitempty"`
	Sharpe           *float64 `json:"sharpe,omitempty"`
	MaxDrawdown      *float64 `json:"max_drawdown,omitempty"`

	ErrorMsg string `json:"error_msg,omitempty"`
}

// IsError reports whether the analysis carries an error instead of metrics.
func (a *TickerAnalysis) IsError() bool {
	return a.ErrorMsg != ""
}

// AnalysisPayload is the minimal cache-serializable form of an analysis:
// the raw close series plus info, or just an error message — never both.
// Derived analytics are recomputed on read so the cache stays small and the
// math lives in one place.
type AnalysisPayload struct {
	Ticker   string      `json:"ticker"`
	Dates    []string    `json:"dates,omitempty"`
	Close    []float64   `json:"close,omitempty"`
	Info     *TickerInfo `json:"info,omitempty"`
	ErrorMsg string      `json:"error_msg,omitempty"`
}
