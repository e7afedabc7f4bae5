package repository

import (
	"context"

	"StockWatch/internal/domain/models"
)

// MarketData supplies quotes and price history for a symbol. The mock engine
// and the live upstream adapter both implement it; which one serves requests
// is a startup-time configuration choice.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	History(ctx context.Context, symbol string, days int) (*models.HistorySeries, error)
}

// Source identifies which MarketData implementation is serving.
type Source interface {
	Source() string // "mock" or "live"
}

type Metrics interface {
	RecordQuoteServed(source, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
