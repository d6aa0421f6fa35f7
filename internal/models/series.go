package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// ValidPeriods is the allow-list of history period strings accepted by the
// fetch layer, mirroring the source API's range parameter.
var ValidPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// NormalizePeriod lowercases and validates a history period string.
func NormalizePeriod(raw string) (string, error) {
	period := strings.ToLower(strings.TrimSpace(raw))
	if period == "" {
		return "", fmt.Errorf("%w: empty period", ErrInvalidInput)
	}
	if !ValidPeriods[period] {
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidInput, period)
	}
	return period, nil
}

// PriceBar is one OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoricalColumns is the column-oriented wire form of a price history,
// keyed the way downstream consumers expect: an "index" of dates plus one
// array per field. All arrays share the index length.
type HistoricalColumns struct {
	Index  []string  `json:"index"`
	Open   []float64 `json:"Open"`
	High   []float64 `json:"High"`
	Low    []float64 `json:"Low"`
	Close  []float64 `json:"Close"`
	Volume []int64   `json:"Volume"`
}

// indexDateLayout is the date format used in the columns index.
const indexDateLayout = "2006-01-02"

// ColumnsFromBars converts a bar slice to column form.
func ColumnsFromBars(bars []PriceBar) *HistoricalColumns {
	cols := &HistoricalColumns{
		Index:  make([]string, 0, len(bars)),
		Open:   make([]float64, 0, len(bars)),
		High:   make([]float64, 0, len(bars)),
		Low:    make([]float64, 0, len(bars)),
		Close:  make([]float64, 0, len(bars)),
		Volume: make([]int64, 0, len(bars)),
	}
	for _, b := range bars {
		cols.Index = append(cols.Index, b.Date.UTC().Format(indexDateLayout))
		cols.Open = append(cols.Open, b.Open)
		cols.High = append(cols.High, b.High)
		cols.Low = append(cols.Low, b.Low)
		cols.Close = append(cols.Close, b.Close)
		cols.Volume = append(cols.Volume, b.Volume)
	}
	return cols
}

// Len returns the number of observations.
func (c *HistoricalColumns) Len() int {
	return len(c.Index)
}

// Dates parses the index back into times. Invalid entries are skipped.
func (c *HistoricalColumns) Dates() []time.Time {
	dates := make([]time.Time, 0, len(c.Index))
	for _, s := range c.Index {
		t, err := time.Parse(indexDateLayout, s)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	return dates
}

// HasNonPositiveClose reports whether any close is zero or negative, which
// rules out the log-domain analytics.
func (c *HistoricalColumns) HasNonPositiveClose() bool {
	for _, v := range c.Close {
		if v <= 0 {
			return true
		}
	}
	return false
}

// BulkHistorical maps symbols to their histories for a single period. Symbols
// with no data are absent.
type BulkHistorical struct {
	Period string                        `json:"period"`
	Series map[string]*HistoricalColumns `json:"series"`
}

// SortedSymbols returns the symbols in the bulk set in ascending order,
// matching the ordering used to build the bulk cache key.
func (b *BulkHistorical) SortedSymbols() []string {
	syms := make([]string, 0, len(b.Series))
	for s := range b.Series {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// daysPerYear matches the calendar-average convention used throughout the
// period math.
const daysPerYear = 365.25

// AssetPeriod describes the sampling density of a price history: how many
// observations it holds, how much calendar time it spans, and the derived
// points-per-horizon counts the rolling analytics window on.
type AssetPeriod struct {
	Points         int     `json:"points"`
	TotalDays      int     `json:"total_days"`
	Years          float64 `json:"years"`
	PointsPerDay   float64 `json:"points_per_day"`
	PointsPerWeek  float64 `json:"points_per_week"`
	PointsPerMonth float64 `json:"points_per_month"`
	PointsPerYear  float64 `json:"points_per_year"`
}

// NewAssetPeriod computes the sampling profile of a date index. The span is
// inclusive of both endpoints; a single observation spans one day.
func NewAssetPeriod(dates []time.Time) *AssetPeriod {
	ap := &AssetPeriod{Points: len(dates)}
	if len(dates) == 0 {
		return ap
	}

	first, last := dates[0], dates[len(dates)-1]
	ap.TotalDays = int(last.Sub(first).Hours()/24) + 1
	ap.Years = float64(ap.TotalDays) / daysPerYear
	ap.PointsPerDay = float64(ap.Points) / float64(ap.TotalDays)
	ap.PointsPerWeek = ap.PointsPerDay * 7
	ap.PointsPerMonth = ap.PointsPerDay * daysPerYear / 12
	ap.PointsPerYear = ap.PointsPerDay * daysPerYear
	return ap
}

// WindowSize returns the rolling window length for a horizon expressed in
// points, rounded to the nearest whole observation with a floor of 1.
func WindowSize(pointsPerHorizon float64) int {
	w := int(math.Round(pointsPerHorizon))
	if w < 1 {
		w = 1
	}
	return w
}
