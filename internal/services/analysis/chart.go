package analysis

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ticker-kit/risk-api/internal/models"
)

// RenderAnalysisChart renders a PNG of the close series with the fitted
// exponential trend overlaid when the fit was computed. Returns raw PNG
// bytes.
func RenderAnalysisChart(result *models.TickerAnalysis) ([]byte, error) {
	ts := result.TimeSeries
	if ts == nil || len(ts.Close) < 2 {
		return nil, fmt.Errorf("need at least 2 data points to chart %s", result.Ticker)
	}

	xValues := make([]time.Time, 0, len(ts.Dates))
	closeY := make([]float64, 0, len(ts.Dates))
	fittedY := make([]float64, 0, len(ts.Dates))
	hasFit := len(ts.Fitted) == len(ts.Close)

	for i, s := range ts.Dates {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			continue
		}
		if hasFit && ts.Fitted[i] == nil {
			continue
		}
		xValues = append(xValues, t)
		closeY = append(closeY, ts.Close[i])
		if hasFit {
			fittedY = append(fittedY, *ts.Fitted[i])
		}
	}
	if len(xValues) < 2 {
		return nil, fmt.Errorf("not enough usable data points to chart %s", result.Ticker)
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: "Close",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
				StrokeWidth: 2.0,
			},
			XValues: xValues,
			YValues: closeY,
		},
	}
	if hasFit {
		series = append(series, chart.TimeSeries{
			Name: "Fitted Trend",
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			XValues: xValues,
			YValues: fittedY,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Price & Trend", result.Ticker),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
