package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNothingToPlot = errors.New("no points inside the plot window")

type Series struct {
	Name string
	X    []float64
	Y    []float64
}

type ChartInput struct {
	Title        string
	Theoretical  Series // may be empty when the theoretical file was missing
	Experimental Series
	MinX, MaxX   float64
	Width        int
	Height       int
}

// RenderChart draws both curves over each other and returns PNG bytes.
func RenderChart(in ChartInput) ([]byte, error) {
	if in.Width <= 0 {
		in.Width = 1000
	}
	if in.Height <= 0 {
		in.Height = 600
	}

	grid := chart.Style{
		StrokeColor:     drawing.ColorFromHex("b0b0b0"),
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 4},
	}

	var series []chart.Series
	if x, y := clip(in.Theoretical, in.MinX, in.MaxX); len(x) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    in.Theoretical.Name,
			XValues: x,
			YValues: y,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
		})
	}
	if x, y := clip(in.Experimental, in.MinX, in.MaxX); len(x) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    in.Experimental.Name,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor:     chart.ColorRed,
				StrokeWidth:     2,
				StrokeDashArray: []float64{8, 6},
			},
		})
	}
	if len(series) == 0 {
		return nil, ErrNothingToPlot
	}

	var ticks []chart.Tick
	for v := in.MinX; v <= in.MaxX+1e-9; v++ {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}

	ch := chart.Chart{
		Title:      in.Title,
		Width:      in.Width,
		Height:     in.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Displacement (mm)",
			Range:          &chart.ContinuousRange{Min: in.MinX, Max: in.MaxX},
			Ticks:          ticks,
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "Flexural Stress (MPa)",
			GridMajorStyle: grid,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// clip keeps the points whose X falls inside [lo, hi]. A segment crossing an
// edge of the window is cut at that edge.
func clip(s Series, lo, hi float64) ([]float64, []float64) {
	n := min(len(s.X), len(s.Y))
	var xs, ys []float64
	for i := 0; i < n; i++ {
		x, y := s.X[i], s.Y[i]
		if i > 0 {
			px, py := s.X[i-1], s.Y[i-1]
			edges := []float64{lo, hi}
			if px > x {
				edges = []float64{hi, lo}
			}
			for _, e := range edges {
				if (px-e)*(x-e) < 0 {
					xs = append(xs, e)
					ys = append(ys, py+(y-py)*(e-px)/(x-px))
				}
			}
		}
		if x >= lo && x <= hi {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}
