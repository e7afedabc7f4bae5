package chart

import (
	"bytes"
	"errors"
	"testing"

	"StockWatch/internal/domain/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleSeries() *models.HistorySeries {
	return &models.HistorySeries{
		Dates:   []string{"10/03", "11/03", "12/03", "13/03"},
		Prices:  []float64{92100, 92500, 92300, 92800},
		Volumes: []int64{2_000_000, 2_100_000, 1_900_000, 2_200_000},
	}
}

func TestRenderPNG(t *testing.T) {
	r := New()
	png, err := r.Render("VCB", sampleSeries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderEmptySeries(t *testing.T) {
	r := New()
	for name, series := range map[string]*models.HistorySeries{
		"nil":       nil,
		"empty":     {},
		"one point": {Dates: []string{"10/03"}, Prices: []float64{92100}, Volumes: []int64{1}},
	} {
		if _, err := r.Render("VCB", series); !errors.Is(err, ErrEmptySeries) {
			t.Errorf("%s: expected ErrEmptySeries, got %v", name, err)
		}
	}
}

func TestRenderReusesBuffer(t *testing.T) {
	r := New()

	first, err := r.Render("VCB", sampleSeries())
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := r.Render("FPT", sampleSeries())
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	// Both outputs must be complete PNGs; the internal buffer reuse must not
	// leak bytes between renders.
	if !bytes.HasPrefix(first, pngMagic) || !bytes.HasPrefix(second, pngMagic) {
		t.Error("re-render produced a corrupt PNG")
	}
}
