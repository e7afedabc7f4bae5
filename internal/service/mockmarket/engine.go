package mockmarket

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"StockWatch/internal/catalog"
	"StockWatch/internal/domain/models"
	"StockWatch/pkg/util"
)

const (
	noiseFraction   = 0.3 // share of daily volatility applied as quote noise
	historyNoise    = 0.5 // share of daily volatility applied as history noise
	openIntraday    = 1.5
	closedIntraday  = 0.5
	quoteVolumeBase = 2_000_000
	quoteVolumeSpan = 3_000_000
	histVolumeBase  = 1_500_000
	histVolumeSpan  = 2_500_000
	ceilingFactor   = 1.07
	floorFactor     = 0.93
)

// Engine synthesizes plausible quotes and price history for the catalog.
// Prices drift on a slow 7-day sine wave plus an intraday oscillation and
// uniform noise; the noise source and clock are injectable so tests can pin
// down exact outputs.
type Engine struct {
	catalog *catalog.Table
	now     func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand replaces the random source.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// New creates a mock market engine over the given catalog.
func New(cat *catalog.Table, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source identifies this engine as the mock data source.
func (e *Engine) Source() string { return "mock" }

// Quote synthesizes a current quote with a derived OHLC record.
func (e *Engine) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	entry, ok := e.catalog.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, strings.ToUpper(strings.TrimSpace(symbol)))
	}

	now := e.now()
	marketOpen := marketOpenAt(now)

	price := e.currentPrice(entry, now, marketOpen)

	// Open/high/low are each perturbed independently from the current price.
	spread := price * entry.Volatility
	open := round100(price + (e.uniform()-0.5)*spread)
	high := round100(price + e.uniform()*spread)
	low := round100(price - e.uniform()*spread)

	change := price - open
	changePercent := round2(change / open * 100)

	volume := quoteVolumeBase + e.uniform()*quoteVolumeSpan
	if marketOpen {
		volume *= 1.5
	} else {
		volume *= 0.3
	}

	return &models.Quote{
		Symbol:        entry.Symbol,
		Name:          entry.Name,
		Exchange:      entry.Exchange,
		Industry:      entry.Industry,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        int64(math.Round(volume)),
		High:          high,
		Low:           low,
		Open:          open,
		Ceiling:       round100(open * ceilingFactor),
		Floor:         round100(open * floorFactor),
		Timestamp:     now,
		MarketOpen:    marketOpen,
	}, nil
}

// History synthesizes a daily price series for the last days calendar days,
// skipping weekends, oldest first. Range bounds are enforced by the caller.
func (e *Engine) History(_ context.Context, symbol string, days int) (*models.HistorySeries, error) {
	entry, ok := e.catalog.Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, strings.ToUpper(strings.TrimSpace(symbol)))
	}

	now := e.now()
	series := &models.HistorySeries{}

	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		if util.IsWeekend(day) {
			continue
		}

		trend := math.Sin(float64(util.DaysSinceEpoch(day))/7) * entry.Volatility * entry.BasePrice
		noise := (e.uniform() - 0.5) * entry.Volatility * entry.BasePrice * historyNoise

		series.Dates = append(series.Dates, util.DateLabel(day))
		series.Prices = append(series.Prices, round100(entry.BasePrice+trend+noise))
		series.Volumes = append(series.Volumes, int64(math.Round(histVolumeBase+e.uniform()*histVolumeSpan)))
	}

	// A window of weekend days only yields no rows; flag it rather than
	// letting the caller guess.
	series.Partial = series.Len() == 0

	return series, nil
}

// currentPrice applies the daily trend, intraday oscillation and noise terms
// to the base price.
func (e *Engine) currentPrice(entry models.CatalogEntry, now time.Time, marketOpen bool) float64 {
	daily := math.Sin(float64(util.DaysSinceEpoch(now))/7) * entry.Volatility * entry.BasePrice

	intradayFactor := closedIntraday
	if marketOpen {
		intradayFactor = openIntraday
	}
	intraday := math.Sin(float64(util.MinutesSinceEpoch(now))/30) * entry.Volatility * entry.BasePrice * intradayFactor

	noise := (e.uniform() - 0.5) * entry.Volatility * entry.BasePrice * noiseFraction

	return round100(entry.BasePrice + daily + intraday + noise)
}

func (e *Engine) uniform() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.Float64()
}

// marketOpenAt reports whether the exchange session is active: weekdays,
// local hour in [9, 15).
func marketOpenAt(t time.Time) bool {
	if util.IsWeekend(t) {
		return false
	}
	h := t.Hour()
	return h >= 9 && h < 15
}

// round100 rounds to the nearest 100 currency units, the HOSE tick used for
// every price field.
func round100(v float64) float64 {
	return math.Round(v/100) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
