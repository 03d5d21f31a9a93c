// Package chart draws comparison and history charts as PNG images.
package chart

import (
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"StockLens/internal/apperr"
	"StockLens/internal/calculator"
	"StockLens/internal/compare"
	"StockLens/internal/model"
)

const (
	ContentType = "image/png"

	Width  = 1024
	Height = 512
)

// Compare draws one line per symbol over the aligned frame. Missing
// observations are skipped, so a line bridges non-trading days.
func Compare(w io.Writer, res *compare.Result) error {
	if res == nil || res.Frame == nil || len(res.Frame.Dates) < 2 {
		return apperr.Validation("not enough data points to draw a chart")
	}
	yName := "Close"
	if res.Mode == model.ModeNormalized {
		yName = fmt.Sprintf("Normalized (start = %.0f)", calculator.Base)
	}

	series := make([]gochart.Series, 0, len(res.Frame.Labels))
	for i, label := range res.Frame.Labels {
		xs, ys := dense(res.Frame.Dates, res.Frame.Column(label))
		if len(xs) == 0 {
			continue
		}
		series = append(series, gochart.TimeSeries{
			Name:    label,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(gochart.GetDefaultColor(i)),
		})
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s ~ %s", res.Start, res.End),
		Width:  Width,
		Height: Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  gochart.XAxis{Name: "Date", ValueFormatter: gochart.TimeDateValueFormatter},
		YAxis:  gochart.YAxis{Name: yName},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, w)
}

// History draws the close line with its moving averages, the high, low and
// last markers, and volume on the secondary axis when the provider reports it.
func History(w io.Writer, h *compare.History) error {
	if h == nil || h.Series == nil || len(h.Series.Records) < 2 {
		return apperr.Validation("not enough data points to draw a chart")
	}
	records := h.Series.Records
	dates := make([]time.Time, len(records))
	closes := make([]float64, len(records))
	for i, r := range records {
		dates[i] = r.Date
		closes[i] = r.Close
	}

	series := []gochart.Series{
		gochart.TimeSeries{
			Name:    "Close",
			XValues: dates,
			YValues: closes,
			Style:   lineStyle(gochart.GetDefaultColor(0)),
		},
	}
	for i, window := range calculator.DefaultWindows {
		xs, ys := dense(dates, h.MovingAverages[window])
		if len(xs) < 2 {
			continue
		}
		style := lineStyle(gochart.GetDefaultColor(i + 1))
		style.StrokeDashArray = []float64{5, 3}
		series = append(series, gochart.TimeSeries{
			Name:    fmt.Sprintf("MA%d", window),
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	series = append(series, gochart.AnnotationSeries{
		Annotations: []gochart.Value2{
			marker("High", h.Extremes.High),
			marker("Low", h.Extremes.Low),
			marker("Last", h.Extremes.Last),
		},
	})

	if h.HasVolume() {
		var xs []time.Time
		var ys []float64
		for _, r := range records {
			if r.Volume == nil {
				continue
			}
			xs = append(xs, r.Date)
			ys = append(ys, *r.Volume)
		}
		series = append(series, gochart.TimeSeries{
			Name:    "Volume",
			YAxis:   gochart.YAxisSecondary,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: drawing.ColorFromHex("9e9e9e").WithAlpha(120),
				FillColor:   drawing.ColorFromHex("9e9e9e").WithAlpha(60),
			},
		})
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s (%s)", h.Label, h.Code),
		Width:  Width,
		Height: Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  gochart.XAxis{Name: "Date", ValueFormatter: gochart.TimeDateValueFormatter},
		YAxis:  gochart.YAxis{Name: "Close"},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, w)
}

func marker(name string, e model.Extreme) gochart.Value2 {
	return gochart.Value2{
		XValue: gochart.TimeToFloat64(e.Date),
		YValue: e.Close,
		Label:  fmt.Sprintf("%s %s %.0f", name, e.Date.Format(time.DateOnly), e.Close),
	}
}

func lineStyle(c drawing.Color) gochart.Style {
	return gochart.Style{StrokeColor: c, StrokeWidth: 2}
}

// dense pairs dates with the non-nil values.
func dense(dates []time.Time, values []*float64) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if v == nil || i >= len(dates) {
			continue
		}
		xs = append(xs, dates[i])
		ys = append(ys, *v)
	}
	return xs, ys
}
