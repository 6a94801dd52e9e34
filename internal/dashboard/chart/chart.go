// Package chart renders a two-column chart of a table as SVG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

const (
	defaultWidth  = 900
	defaultHeight = 450
	maxTicks      = 20
	minBarWidth   = 4
)

var (
	// ErrUnknownColumn is returned when an axis names a column the table lacks.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNonNumeric is returned when the y column holds text.
	ErrNonNumeric = errors.New("column is not numeric")
	// ErrNoData is returned when no row has a plottable pair of values.
	ErrNoData = errors.New("no plottable rows")
)

// spreadScale divides an axis whose min to max spread overflows float64.
const spreadScale = 10

// Options sizes the rendered chart. Zero values pick defaults.
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

type renderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Build renders req against t. It returns nil, nil when either axis is unset.
// An empty kind means entity.DefaultChartKind.
func Build(t *entity.Table, req entity.ChartRequest, opt Options) (*entity.Chart, error) {
	if !req.Complete() {
		return nil, nil
	}

	kind := entity.DefaultChartKind
	if req.Kind != "" {
		k, err := entity.ParseChartKind(req.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}

	xcol, ok := t.Column(req.X)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, req.X)
	}
	ycol, ok := t.Column(req.Y)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, req.Y)
	}
	if !ycol.IsNumeric() {
		return nil, fmt.Errorf("%w: %q", ErrNonNumeric, req.Y)
	}

	pts := collect(xcol, ycol)
	if len(pts) == 0 {
		return nil, ErrNoData
	}

	title := req.Y + " vs " + req.X
	width, height := opt.size()

	var r renderer
	switch kind {
	case entity.ChartKindBar:
		r = barChart(title, pts, width, height)
	default:
		r = xyChart(title, kind, xcol, ycol.Name, pts, width, height)
	}

	var buf bytes.Buffer
	if err := render(r, &buf); err != nil {
		return nil, err
	}

	return &entity.Chart{
		Title: title,
		Kind:  kind,
		X:     req.X,
		Y:     req.Y,
		SVG:   buf.Bytes(),
	}, nil
}

type point struct {
	x     float64
	y     float64
	label string
}

// collect pairs the two columns row by row. Rows with a missing or
// non-finite y, or a numeric x that is unusable, are skipped. Text x values
// are placed at their row position.
func collect(xcol, ycol entity.Column) []point {
	pts := make([]point, 0, len(ycol.Values))
	for i, yv := range ycol.Values {
		if yv.Missing || !finite(yv.Number) {
			continue
		}

		p := point{x: float64(i), y: yv.Number, label: xcol.Format(i)}
		if xcol.IsNumeric() {
			xv := xcol.Values[i]
			if xv.Missing || !finite(xv.Number) {
				continue
			}
			p.x = xv.Number
		}
		pts = append(pts, p)
	}
	return pts
}

func xyChart(title string, kind entity.ChartKind, xcol entity.Column, yname string, pts []point, width, height int) chart.Chart {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.x, p.y
	}

	style := chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}
	if kind == entity.ChartKindScatter {
		style = chart.Style{
			StrokeColor: drawing.ColorTransparent,
			DotWidth:    4,
			DotColor:    chart.ColorBlue,
		}
	}

	x := newAxis(xcol.Name, xs)
	y := newAxis(yname, ys)

	xaxis := chart.XAxis{Name: x.name, Range: x.rangeOf()}
	if !xcol.IsNumeric() {
		xaxis.Ticks = labelTicks(pts)
	}

	return chart.Chart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xaxis,
		YAxis:      chart.YAxis{Name: y.name, Range: y.rangeOf()},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    yname,
			XValues: x.values,
			YValues: y.values,
			Style:   style,
		}},
	}
}

func barChart(title string, pts []point, width, height int) chart.BarChart {
	ys := make([]float64, len(pts), len(pts)+1)
	for i, p := range pts {
		ys[i] = p.y
	}
	// The zero baseline stays inside the range.
	y := newAxis("", append(ys, 0))

	bars := make([]chart.Value, len(pts))
	for i, p := range pts {
		bars[i] = chart.Value{Label: p.label, Value: y.values[i]}
	}

	spacing := 10
	barWidth := (width-100)/len(bars) - spacing
	if barWidth < minBarWidth {
		spacing = 1
		barWidth = max((width-100)/len(bars)-spacing, minBarWidth)
	}
	width = max(width, len(bars)*(barWidth+spacing)+100)

	return chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Name: y.name, Range: y.rangeOf()},
		Bars:       bars,
	}
}

// labelTicks labels row positions with their text value, thinned to at most
// maxTicks. The axis spans the ticks, so the last point always gets one and a
// lone point is framed by blank ticks.
func labelTicks(pts []point) []chart.Tick {
	if len(pts) == 1 {
		x := pts[0].x
		return []chart.Tick{{Value: x - 1}, {Value: x, Label: pts[0].label}, {Value: x + 1}}
	}

	step := 1
	if len(pts) > maxTicks {
		step = int(math.Ceil(float64(len(pts)) / (maxTicks - 1)))
	}

	ticks := make([]chart.Tick, 0, min(len(pts), maxTicks))
	for i := 0; i < len(pts); i += step {
		ticks = append(ticks, chart.Tick{Value: pts[i].x, Label: pts[i].label})
	}
	if last := pts[len(pts)-1]; ticks[len(ticks)-1].Value != last.x {
		ticks = append(ticks, chart.Tick{Value: last.x, Label: last.label})
	}
	return ticks
}

// axis holds the values plotted along one axis and the range shown for them.
type axis struct {
	name   string
	values []float64
	lo, hi float64
}

// newAxis computes the range of vs. When the spread does not fit a float64
// the values are divided by spreadScale and the name says so.
func newAxis(name string, vs []float64) axis {
	lo, hi := bounds(vs)
	if !math.IsInf(hi-lo, 0) {
		return axis{name: name, values: vs, lo: lo, hi: hi}
	}

	scaled := make([]float64, len(vs))
	for i, v := range vs {
		scaled[i] = v / spreadScale
	}
	if name != "" {
		name = fmt.Sprintf("%s (/%d)", name, spreadScale)
	}
	return axis{name: name, values: scaled, lo: lo / spreadScale, hi: hi / spreadScale}
}

func (a axis) rangeOf() *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: a.lo, Max: a.hi}
}

// bounds returns the min and max of vs. Equal values are widened around the
// value without leaving the float64 range.
func bounds(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo != hi {
		return lo, hi
	}

	pad := math.Max(1, math.Abs(lo)/1000)
	switch {
	case math.IsInf(hi+pad, 0):
		return lo - 2*pad, hi
	case math.IsInf(lo-pad, 0):
		return lo, hi + 2*pad
	default:
		return lo - pad, hi + pad
	}
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func render(r renderer, w io.Writer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render chart: %v", p)
		}
	}()

	if err := r.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
