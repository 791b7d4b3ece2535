// Package chart draws pie charts of category spending as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"

	"despesas/internal/report"
)

// ErrNothingToPlot is returned when a series has no positive value.
var ErrNothingToPlot = errors.New("nothing to plot")

const (
	defaultWidth  = 640
	defaultHeight = 640
)

// Renderer draws pie charts with a fixed canvas size.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: defaultWidth, Height: defaultHeight}
}

// Pie renders series as a PNG. Slices with a zero or negative value cannot be
// drawn as a share of the whole and are left out.
func (r *Renderer) Pie(series report.ChartSeries) ([]byte, error) {
	values := make([]gochart.Value, 0, len(series.Values))
	for i, v := range series.Values {
		if v <= 0 || i >= len(series.Labels) {
			continue
		}
		values = append(values, gochart.Value{Label: series.Labels[i], Value: v})
	}
	if len(values) == 0 {
		return nil, ErrNothingToPlot
	}

	pie := gochart.PieChart{
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
