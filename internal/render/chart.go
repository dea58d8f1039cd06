package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/SapirCardona/linkedinsights/internal/report"
)

// Chart canvas size in pixels
const (
	ChartWidth  = 800
	ChartHeight = 400
)

var (
	defaultColor = drawing.ColorFromHex("636efa")
	// Low and high ends of the count scale (plasma)
	scaleLow  = drawing.ColorFromHex("0d0887")
	scaleHigh = drawing.ColorFromHex("f0f921")
)

// RenderSVG draws spec as inline SVG. Specs without a drawable point get a
// "No data" placeholder instead of an error.
func RenderSVG(spec report.ChartSpec) (template.HTML, error) {
	if !spec.HasData() {
		return placeholder(spec.Title), nil
	}

	var (
		buf bytes.Buffer
		err error
	)
	switch spec.Kind {
	case report.ChartLine:
		err = lineChart(spec).Render(chart.SVG, &buf)
	case report.ChartBar:
		err = barChart(spec).Render(chart.SVG, &buf)
	default:
		return "", fmt.Errorf("chart %s: unknown kind %q", spec.ID, spec.Kind)
	}
	if err != nil {
		return "", fmt.Errorf("chart %s: %w", spec.ID, err)
	}
	return template.HTML(buf.String()), nil
}

func barChart(spec report.ChartSpec) chart.BarChart {
	lo, hi := valueRange(spec.Points)
	base := color(spec.Color)

	bars := make([]chart.Value, len(spec.Points))
	for i, p := range spec.Points {
		fill := base
		if spec.ColorByValue {
			fill = scale(p.Value, lo, hi)
		}
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}

	spacing := 12
	width := (ChartWidth-120)/len(bars) - spacing
	if width > 80 {
		width = 80
	}
	if width < 4 {
		width = 4
	}

	yMin, yMax := axisBounds(lo, hi)
	bc := chart.BarChart{
		Width:      ChartWidth,
		Height:     ChartHeight,
		BarWidth:   width,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  spec.YTitle,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Bars: bars,
	}
	if spec.ShowValues {
		bc.Elements = []chart.Renderable{barLabels(spec.Points, width, spacing, yMin, yMax)}
	}
	return bc
}

// barLabels writes each value above its bar. Bars sit left to right from
// the plot's left edge, half a spacing in, the way BarChart lays them out.
func barLabels(points []report.ChartPoint, width, spacing int, yMin, yMax float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		n := len(points)
		if n == 0 || yMax <= yMin {
			return
		}
		if n*(width+spacing) > box.Width() {
			width = box.Width()/n - spacing
		}

		r.SetFont(defaults.Font)
		r.SetFontSize(9)
		r.SetFontColor(drawing.ColorFromHex("333333"))

		x := box.Left + spacing/2
		for _, p := range points {
			label := report.FormatNumber(p.Value)
			top := box.Bottom - int(math.Ceil((p.Value-yMin)/(yMax-yMin)*float64(box.Height())))
			tw := r.MeasureText(label).Width()
			r.Text(label, x+(width-tw)/2, top-4)
			x += width + spacing
		}
	}
}

// lineChart plots defined points on an index axis labelled by category.
// Undefined points split the line into separate segments.
func lineChart(spec report.ChartSpec) chart.Chart {
	c := color(spec.Color)
	style := chart.Style{StrokeColor: c, StrokeWidth: 2}
	if spec.Markers {
		style.DotColor = c
		style.DotWidth = 4
	}

	var (
		series []chart.Series
		xs, ys []float64
	)
	flush := func() {
		if len(xs) == 0 {
			return
		}
		if len(xs) == 1 {
			xs = append(xs, xs[0]+0.001)
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{XValues: xs, YValues: ys, Style: style})
		xs, ys = nil, nil
	}

	ticks := make([]chart.Tick, len(spec.Points))
	for i, p := range spec.Points {
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
		if !p.Defined {
			flush()
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, p.Value)
	}
	flush()

	lo, hi := valueRange(spec.Points)
	yMin, yMax := axisBounds(lo, hi)
	return chart.Chart{
		Width:      ChartWidth,
		Height:     ChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  spec.XTitle,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(spec.Points)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  spec.YTitle,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
	}
}

// valueRange spans the defined points and always includes zero
func valueRange(points []report.ChartPoint) (lo, hi float64) {
	for _, p := range points {
		if !p.Defined {
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi
}

// axisBounds pads the range by a tenth and never returns an empty span
func axisBounds(lo, hi float64) (float64, float64) {
	if hi == lo {
		return lo, lo + 1
	}
	pad := (hi - lo) * 0.1
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}

func color(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return defaultColor
	}
	return drawing.ColorFromHex(hex)
}

// scale maps v in [lo, hi] onto the low..high gradient
func scale(v, lo, hi float64) drawing.Color {
	t := 1.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return drawing.Color{
		R: mix(scaleLow.R, scaleHigh.R),
		G: mix(scaleLow.G, scaleHigh.G),
		B: mix(scaleLow.B, scaleHigh.B),
		A: 255,
	}
}

func placeholder(title string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" role="img" aria-label="%s: no data">`+
			`<rect width="100%%" height="100%%" fill="#fafafa" stroke="#ddd"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" fill="#888" font-family="sans-serif" font-size="16">No data</text>`+
			`</svg>`,
		ChartWidth, ChartHeight/2, html.EscapeString(title)))
}
