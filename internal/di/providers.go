package di

import (
	"fmt"

	"StockWatch/internal/catalog"
	domrepo "StockWatch/internal/domain/repository"
	"StockWatch/internal/handler/api"
	"StockWatch/internal/handler/ws"
	"StockWatch/internal/service/chart"
	"StockWatch/internal/service/mockmarket"
	"StockWatch/internal/service/tcbs"
	"StockWatch/internal/usecase"
	"StockWatch/pkg/cache"
	"StockWatch/pkg/config"
	xhttp "StockWatch/pkg/http"
	applogger "StockWatch/pkg/logger"
	"StockWatch/pkg/metrics"
	"StockWatch/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideCatalog returns the built-in instrument catalog.
func ProvideCatalog() *catalog.Table {
	return catalog.Default()
}

// ProvideCacheService creates the configured cache backend. An empty cache
// type disables caching.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Type {
	case "":
		return nil, nil
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(
			cache.WithAddr(cfg.Cache.Redis.Addr),
			cache.WithCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideMarketData selects the data source at startup: the mock engine or
// the live upstream adapter.
func ProvideMarketData(cfg *config.Config, cat *catalog.Table, l *applogger.Logger) domrepo.MarketData {
	if cfg.Data.Source == "live" {
		return tcbs.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout,
			tcbs.WithRetry(cfg.Upstream.RetryMax, cfg.Upstream.RetryBackoff),
			tcbs.WithLogger(l),
		)
	}
	return mockmarket.New(cat)
}

// ProvideQuoteService creates the quote use case.
func ProvideQuoteService(cfg *config.Config, data domrepo.MarketData, cat *catalog.Table, c cache.Service, m domrepo.Metrics, l *applogger.Logger) *usecase.QuoteService {
	opts := []usecase.QuoteOption{
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
	}
	if c != nil {
		opts = append(opts, usecase.WithCache(c, cfg.Data.QuoteTTL, cfg.Data.HistoryTTL))
	}
	return usecase.NewQuoteService(data, cat, opts...)
}

// ProvideWatchlist creates the watchlist use case.
func ProvideWatchlist(quotes *usecase.QuoteService, l *applogger.Logger) *usecase.Watchlist {
	return usecase.NewWatchlist(quotes, l)
}

// ProvideChartRenderer creates the chart renderer.
func ProvideChartRenderer() *chart.Renderer {
	return chart.New()
}

// ProvideStocksHandler creates the REST handler.
func ProvideStocksHandler(l *applogger.Logger, quotes *usecase.QuoteService, watch *usecase.Watchlist, charts *chart.Renderer) *api.StocksEchoHandler {
	return api.NewStocksEchoHandler(l, quotes, watch, charts)
}

// ProvideQuoteStream creates the WebSocket quote stream handler.
func ProvideQuoteStream(cfg *config.Config, watch *usecase.Watchlist, l *applogger.Logger) *ws.QuoteStream {
	return ws.NewQuoteStream(watch, cfg.Stream.Interval, l)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, h *api.StocksEchoHandler, qs *ws.QuoteStream, c cache.Service) *server.App {
	return server.New(cfg, l, xhttp.Compose(h, qs), c)
}
