package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartConfig sizes the rendered chart, in pixels.
type ChartConfig struct {
	// Default: 800x400.
	Width  int
	Height int

	// Default: 60 and 30.
	BarWidth   int
	BarSpacing int
}

// Bar colours: teal at 60% opacity with an opaque outline.
var (
	barFill   = drawing.Color{R: 75, G: 192, B: 192, A: 153}
	barStroke = drawing.Color{R: 75, G: 192, B: 192, A: 255}
)

// GoChartRenderer renders bar charts with go-chart.
type GoChartRenderer struct {
	config ChartConfig
}

// NewChartRenderer creates a renderer, applying defaults to cfg.
func NewChartRenderer(cfg ChartConfig) *GoChartRenderer {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 400
	}
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = 60
	}
	if cfg.BarSpacing <= 0 {
		cfg.BarSpacing = 30
	}
	return &GoChartRenderer{config: cfg}
}

// RenderChart implements ChartRenderer.
//
// The y axis always starts at zero; an all-zero week is drawn on a
// 0..1 scale.
func (r *GoChartRenderer) RenderChart(ctx context.Context, c Chart) ([]byte, error) {
	if len(c.Values) == 0 || len(c.Values) != len(c.Labels) {
		return nil, ErrEmptyChart
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	top := 1.0
	bars := make([]chart.Value, len(c.Values))
	for i, v := range c.Values {
		if v > top {
			top = v
		}
		bars[i] = chart.Value{
			Label: c.Labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   barFill,
				StrokeColor: barStroke,
				StrokeWidth: 1,
			},
		}
	}

	title := c.Title
	if title == "" {
		title = c.SeriesLabel
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      r.config.Width,
		Height:     r.config.Height,
		BarWidth:   r.config.BarWidth,
		BarSpacing: r.config.BarSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name: c.SeriesLabel,
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: top,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
