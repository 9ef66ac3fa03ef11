// Package charts renders season and head-to-head data as SVG using go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"race-delta/normalize"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no chart data")

const (
	DefaultWidth  = 720
	DefaultHeight = 320

	fallbackPrimary   = "#E10600"
	fallbackSecondary = "#9CA3AF"
)

// Options controls chart size and series colours (hex, with or without '#').
type Options struct {
	Width     int
	Height    int
	Primary   string
	Secondary string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Primary == "" {
		o.Primary = fallbackPrimary
	}
	if o.Secondary == "" || strings.EqualFold(o.Secondary, o.Primary) {
		o.Secondary = fallbackSecondary
	}
	return o
}

func hexColour(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

func lineStyle(col drawing.Color, dashed bool) chart.Style {
	st := chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
	if dashed {
		st.StrokeDashArray = []float64{5, 3}
	}
	return st
}

// roundAxis returns x values and ticks for a list of rounds. Missing round
// numbers fall back to the row position.
func roundAxis(rows []normalize.RacePoints) ([]float64, []chart.Tick) {
	xs := make([]float64, len(rows))
	ticks := make([]chart.Tick, 0, len(rows))
	for i, r := range rows {
		x := float64(r.Round)
		if r.Round <= 0 {
			x = float64(i + 1)
		}
		xs[i] = x
		ticks = append(ticks, chart.Tick{Value: x, Label: "R" + strconv.Itoa(int(x))})
	}
	return xs, ticks
}

func maxOf(vals ...[]float64) float64 {
	m := 0.0
	for _, vs := range vals {
		for _, v := range vs {
			m = math.Max(m, v)
		}
	}
	return m
}

// xRange pads the axis so a single round still has a non-zero range.
func xRange(xs []float64) *chart.ContinuousRange {
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return &chart.ContinuousRange{Min: lo - 0.5, Max: hi + 0.5}
}

func yRange(max float64) *chart.ContinuousRange {
	if max <= 0 {
		max = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: math.Ceil(max * 1.1)}
}

func render(ch chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", ch.Title, err)
	}
	return buf.Bytes(), nil
}

// SeasonPoints plots points scored per round for a driver, with the teammate
// as a dashed second series when present.
func SeasonPoints(s normalize.Season, opts Options) ([]byte, error) {
	rows := s.Metrics.PointsByRace
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	opts = opts.withDefaults()

	xs, ticks := roundAxis(rows)
	ys := make([]float64, len(rows))
	for i, r := range rows {
		ys[i] = r.Points
	}
	series := []chart.Series{chart.ContinuousSeries{
		Name:    seriesName(s.Driver),
		XValues: xs,
		YValues: ys,
		Style:   lineStyle(hexColour(opts.Primary), false),
	}}
	allY := [][]float64{ys}
	allX := xs

	if tm := s.Teammate; tm != nil && len(tm.Metrics.PointsByRace) > 0 {
		txs, _ := roundAxis(tm.Metrics.PointsByRace)
		tys := make([]float64, len(tm.Metrics.PointsByRace))
		for i, r := range tm.Metrics.PointsByRace {
			tys[i] = r.Points
		}
		series = append(series, chart.ContinuousSeries{
			Name:    seriesName(tm.Driver),
			XValues: txs,
			YValues: tys,
			Style:   lineStyle(hexColour(opts.Secondary), true),
		})
		allY = append(allY, tys)
		allX = append(append([]float64{}, xs...), txs...)
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s points by race, %d", seriesName(s.Driver), s.Season),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Range: xRange(allX), Ticks: ticks},
		YAxis:      chart.YAxis{Name: "Points", Range: yRange(maxOf(allY...))},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch)
}

func seriesName(d normalize.DriverIdentity) string {
	if d.Code != "" {
		return d.Code
	}
	if d.Name != "" {
		return d.Name
	}
	return "Driver"
}

// Timeline plots cumulative points of both drivers round by round.
func Timeline(t normalize.Timeline, opts Options) ([]byte, error) {
	if len(t.Rounds) == 0 {
		return nil, ErrNoData
	}
	opts = opts.withDefaults()

	xs := make([]float64, len(t.Rounds))
	as := make([]float64, len(t.Rounds))
	bs := make([]float64, len(t.Rounds))
	ticks := make([]chart.Tick, 0, len(t.Rounds))
	for i, r := range t.Rounds {
		x := float64(r.Round)
		if r.Round <= 0 {
			x = float64(i + 1)
		}
		xs[i], as[i], bs[i] = x, r.CumulativeA, r.CumulativeB
		ticks = append(ticks, chart.Tick{Value: x, Label: "R" + strconv.Itoa(int(x))})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s vs %s, %s", t.DriverA, t.DriverB, t.Season),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Range: xRange(xs), Ticks: ticks},
		YAxis:      chart.YAxis{Name: "Cumulative points", Range: yRange(maxOf(as, bs))},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: t.DriverA, XValues: xs, YValues: as, Style: lineStyle(hexColour(opts.Primary), false)},
			chart.ContinuousSeries{Name: t.DriverB, XValues: xs, YValues: bs, Style: lineStyle(hexColour(opts.Secondary), true)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return render(ch)
}

// Radar renders 0-100 radar scores as bars.
func Radar(title string, axes []normalize.RadarAxis, opts Options) ([]byte, error) {
	if len(axes) == 0 {
		return nil, ErrNoData
	}
	opts = opts.withDefaults()
	col := hexColour(opts.Primary)

	bars := make([]chart.Value, 0, len(axes))
	for _, a := range axes {
		bars = append(bars, chart.Value{
			Label: a.Label,
			Value: math.Max(0, math.Min(100, a.Value)),
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})
	}
	barWidth := opts.Width / (2 * len(axes))
	bc := chart.BarChart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render radar: %w", err)
	}
	return buf.Bytes(), nil
}
