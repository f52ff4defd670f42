// Package charts draws the dashboard charts as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/2beens/irontracker/internal/gymstats/stats"
)

var ErrNoData = errors.New("not enough data to draw the chart")

const (
	width  = 800
	height = 400
)

var (
	colorPush = drawing.ColorFromHex("ff4b4b")
	colorPull = drawing.ColorFromHex("00c853")

	statusColors = map[stats.RecoveryStatus]drawing.Color{
		stats.StatusRecovering: drawing.ColorFromHex("ff4b4b"),
		stats.StatusPrime:      drawing.ColorFromHex("00c853"),
		stats.StatusCold:       drawing.ColorFromHex("29b5e8"),
	}
)

// Balance draws push and pull volume as a pie.
func Balance(w io.Writer, b stats.Balance) error {
	var values []chart.Value
	if b.PushVolume > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Push %.0f kg", b.PushVolume),
			Value: b.PushVolume,
			Style: chart.Style{FillColor: colorPush, StrokeColor: colorPush},
		})
	}
	if b.PullVolume > 0 {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Pull %.0f kg", b.PullVolume),
			Value: b.PullVolume,
			Style: chart.Style{FillColor: colorPull, StrokeColor: colorPull},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Push / Pull Volume",
		Width:  height,
		Height: height,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

// Trend draws the estimated 1RM of one exercise over time.
func Trend(w io.Writer, exercise string, points []stats.TrendPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	minY, maxY := points[0].EstimatedOneRepMax, points[0].EstimatedOneRepMax
	for _, p := range points {
		xs = append(xs, p.Date)
		ys = append(ys, p.EstimatedOneRepMax)
		minY = min(minY, p.EstimatedOneRepMax)
		maxY = max(maxY, p.EstimatedOneRepMax)
	}
	// go-chart needs two distinct x values
	if !xs[len(xs)-1].After(xs[0]) {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[len(ys)-1])
	}

	ch := chart.Chart{
		Title:  exercise + " Est. 1RM",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "kg",
			Range: &chart.ContinuousRange{Min: max(0, minY*0.9-1), Max: maxY*1.1 + 1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    exercise,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: colorPush,
					StrokeWidth: 3,
					DotColor:    colorPush,
					DotWidth:    4,
				},
			},
		},
	}
	return ch.Render(chart.PNG, w)
}

// Recovery draws the days since each muscle group was last trained,
// colored by recovery status.
func Recovery(w io.Writer, matrix []stats.MuscleRecovery) error {
	if len(matrix) == 0 {
		return ErrNoData
	}

	maxDays := 1
	bars := make([]chart.Value, 0, len(matrix))
	for _, m := range matrix {
		c := statusColors[m.Status]
		bars = append(bars, chart.Value{
			Label: m.MuscleGroup,
			Value: float64(m.DaysSince),
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
		maxDays = max(maxDays, m.DaysSince)
	}

	bc := chart.BarChart{
		Title:    "Days Since Last Trained",
		Width:    width,
		Height:   height,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxDays + 1)},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}
