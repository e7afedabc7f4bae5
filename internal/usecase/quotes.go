package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockWatch/internal/catalog"
	"StockWatch/internal/domain/models"
	domrepo "StockWatch/internal/domain/repository"
	"StockWatch/pkg/cache"
	applogger "StockWatch/pkg/logger"
)

const (
	// MinHistoryDays and MaxHistoryDays bound a history request window.
	MinHistoryDays = 1
	MaxHistoryDays = 365
)

// QuoteService serves quotes and price history from the configured data
// source with an optional read-through cache. It is the contract boundary
// that enforces the history range.
type QuoteService struct {
	data       domrepo.MarketData
	source     string
	catalog    *catalog.Table
	cache      cache.Service
	quoteTTL   time.Duration
	historyTTL time.Duration
	metrics    domrepo.Metrics
	logger     *applogger.Logger
}

// QuoteOption configures QuoteService.
type QuoteOption func(*QuoteService)

// WithCache enables read-through caching with the given TTLs.
func WithCache(c cache.Service, quoteTTL, historyTTL time.Duration) QuoteOption {
	return func(s *QuoteService) {
		s.cache = c
		s.quoteTTL = quoteTTL
		s.historyTTL = historyTTL
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m domrepo.Metrics) QuoteOption {
	return func(s *QuoteService) { s.metrics = m }
}

// WithLogger sets the structured logger.
func WithLogger(l *applogger.Logger) QuoteOption {
	return func(s *QuoteService) { s.logger = l }
}

// NewQuoteService creates a quote service over the given data source.
func NewQuoteService(data domrepo.MarketData, cat *catalog.Table, opts ...QuoteOption) *QuoteService {
	s := &QuoteService{
		data:    data,
		source:  "unknown",
		catalog: cat,
	}
	if src, ok := data.(domrepo.Source); ok {
		s.source = src.Source()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source reports which data source is serving.
func (s *QuoteService) Source() string { return s.source }

// Quote returns the current quote for symbol.
func (s *QuoteService) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	start := time.Now()

	if s.cache != nil {
		var cached models.Quote
		if err := s.cache.Get(ctx, quoteKey(sym), &cached); err == nil {
			return &cached, nil
		}
	}

	q, err := s.data.Quote(ctx, sym)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, quoteKey(sym), q, s.quoteTTL); err != nil && s.logger != nil {
			s.logger.Warn("quote cache write failed", applogger.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordQuoteServed(s.source, sym)
		s.metrics.RecordLastPrice(sym, q.Price)
		s.metrics.RecordLatency("quote", time.Since(start).Seconds())
	}
	return q, nil
}

// History returns the price series for the last days calendar days.
// The range contract is enforced here, not in the data sources.
func (s *QuoteService) History(ctx context.Context, symbol string, days int) (*models.HistorySeries, error) {
	if days < MinHistoryDays || days > MaxHistoryDays {
		return nil, fmt.Errorf("%w: got %d", models.ErrInvalidRange, days)
	}

	sym := strings.ToUpper(strings.TrimSpace(symbol))
	start := time.Now()

	if s.cache != nil {
		var cached models.HistorySeries
		if err := s.cache.Get(ctx, historyKey(sym, days), &cached); err == nil {
			return &cached, nil
		}
	}

	h, err := s.data.History(ctx, sym, days)
	if err != nil {
		s.recordError(err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, historyKey(sym, days), h, s.historyTTL); err != nil && s.logger != nil {
			s.logger.Warn("history cache write failed", applogger.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordLatency("history", time.Since(start).Seconds())
	}
	return h, nil
}

// Popular fetches quotes for the whole catalog concurrently and returns the
// ones that succeeded, in catalog order. A partial upstream failure yields a
// partial list, never an error.
func (s *QuoteService) Popular(ctx context.Context) []models.Quote {
	symbols := s.catalog.Symbols()
	results := make([]*models.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			q, err := s.Quote(ctx, sym)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("popular quote fetch failed",
						applogger.String("symbol", sym),
						applogger.Error(err),
					)
				}
				return
			}
			results[i] = q
		}(i, sym)
	}
	wg.Wait()

	quotes := make([]models.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

func (s *QuoteService) recordError(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, models.ErrUnknownSymbol):
		s.metrics.RecordError("unknown_symbol")
	case errors.Is(err, models.ErrUpstreamUnavailable):
		s.metrics.RecordError("upstream_unavailable")
	case errors.Is(err, models.ErrInvalidRange):
		s.metrics.RecordError("invalid_range")
	default:
		s.metrics.RecordError("internal")
	}
}

func quoteKey(sym string) string {
	return "quote:" + sym
}

func historyKey(sym string, days int) string {
	return fmt.Sprintf("history:%s:%d", sym, days)
}
