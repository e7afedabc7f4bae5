package chart

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"

	"StockWatch/internal/domain/models"
)

// ErrEmptySeries is returned when a series holds too few points to draw.
var ErrEmptySeries = errors.New("chart: series has no drawable points")

// Renderer draws a price history line chart into a reusable surface. Every
// render resets the surface first, so the previous chart is fully discarded.
type Renderer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// New creates a chart renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render draws a single price-vs-date line series as a PNG.
func (r *Renderer) Render(symbol string, series *models.HistorySeries) ([]byte, error) {
	if series == nil || series.Len() < 2 {
		return nil, ErrEmptySeries
	}

	xs := make([]float64, series.Len())
	for i := range xs {
		xs[i] = float64(i)
	}
	dates := series.Dates

	graph := gochart.Chart{
		Title:  symbol,
		Width:  900,
		Height: 400,
		XAxis: gochart.XAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				i := int(f)
				if i < 0 || i >= len(dates) {
					return ""
				}
				return dates[i]
			},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    symbol,
				XValues: xs,
				YValues: series.Prices,
			},
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf.Reset()
	if err := graph.Render(gochart.PNG, &r.buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	out := make([]byte, r.buf.Len())
	copy(out, r.buf.Bytes())
	return out, nil
}
