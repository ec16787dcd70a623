package research

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/prism/internal/interfaces"
	"github.com/bobmcallan/prism/internal/models"
)

const chartLookbackDays = 365

// RenderPriceChart renders a PNG line chart of closing price with
// 20/50/200 day moving average overlays.
func (s *Service) RenderPriceChart(ctx context.Context, ticker string) ([]byte, error) {
	if s.market == nil {
		return nil, fmt.Errorf("market data client not configured")
	}

	data, err := s.collect(ctx, ticker, interfaces.ResearchOptions{})
	if err != nil {
		return nil, err
	}
	return renderPriceChart(ticker, data.EOD)
}

func renderPriceChart(ticker string, bars []models.EODBar) ([]byte, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 bars, got %d", len(bars))
	}

	// Bars arrive most recent first; the chart wants oldest first
	ordered := make([]models.EODBar, len(bars))
	for i, b := range bars {
		ordered[len(bars)-1-i] = b
	}

	sma20 := rollingMean(ordered, 20)
	sma50 := rollingMean(ordered, 50)
	sma200 := rollingMean(ordered, 200)

	cutoff := ordered[len(ordered)-1].Date.AddDate(0, 0, -chartLookbackDays)
	start := 0
	for start < len(ordered) && ordered[start].Date.Before(cutoff) {
		start++
	}
	if len(ordered)-start < 2 {
		start = 0
	}

	xValues := make([]time.Time, 0, len(ordered)-start)
	closeY := make([]float64, 0, len(ordered)-start)
	for _, b := range ordered[start:] {
		xValues = append(xValues, b.Date)
		closeY = append(closeY, b.AdjClose)
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: ticker,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
				StrokeWidth: 2.0,
			},
			XValues: xValues,
			YValues: closeY,
		},
	}

	overlays := []struct {
		name   string
		values []float64
		color  string
	}{
		{"SMA 20", sma20, "f59e0b"},  // amber-500
		{"SMA 50", sma50, "10b981"},  // emerald-500
		{"SMA 200", sma200, "9ca3af"}, // gray-400
	}

	for _, o := range overlays {
		xs := make([]time.Time, 0, len(xValues))
		ys := make([]float64, 0, len(xValues))
		for i := start; i < len(ordered); i++ {
			if o.values[i] == 0 {
				continue
			}
			xs = append(xs, ordered[i].Date)
			ys = append(ys, o.values[i])
		}
		if len(xs) < 2 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name: o.name,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(o.color),
				StrokeWidth: 1.25,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Price", ticker),
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
					return fmt.Sprintf("$%.2f", f)
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

// rollingMean computes an SMA over oldest-first bars. Positions without
// enough history are left at zero.
func rollingMean(bars []models.EODBar, period int) []float64 {
	out := make([]float64, len(bars))
	var sum float64
	for i, b := range bars {
		sum += b.AdjClose
		if i >= period {
			sum -= bars[i-period].AdjClose
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
