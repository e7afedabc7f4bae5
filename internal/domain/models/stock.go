package models

import "time"

// CatalogEntry describes a listed instrument. Entries are fixed at process
// start and never mutated.
type CatalogEntry struct {
	Symbol     string
	Name       string
	Exchange   string
	Industry   string
	BasePrice  float64
	Volatility float64 // daily volatility as a fraction of base price
}

// Quote is a point-in-time price snapshot. Derived fresh on every request,
// never persisted.
type Quote struct {
	Symbol        string    `json:"ticker"`
	Name          string    `json:"name"`
	Exchange      string    `json:"exchange,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	Ceiling       float64   `json:"ceiling"`
	Floor         float64   `json:"floor"`
	Timestamp     time.Time `json:"timestamp"`
	MarketOpen    bool      `json:"marketOpen"`
}

// HistorySeries holds parallel date/price/volume sequences, oldest first,
// one entry per trading day. All three slices always have equal length.
// Partial marks a series whose window held no trading days or whose upstream
// rows had to be zero-filled.
type HistorySeries struct {
	Dates   []string  `json:"dates"`
	Prices  []float64 `json:"prices"`
	Volumes []int64   `json:"volumes"`
	Partial bool      `json:"partial,omitempty"`
}

// Len returns the number of entries in the series.
func (h *HistorySeries) Len() int {
	return len(h.Dates)
}
