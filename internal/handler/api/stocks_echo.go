package api

import (
	"errors"
	"net/http"
	"strings"

	"StockWatch/internal/domain/models"
	"StockWatch/internal/service/chart"
	"StockWatch/internal/usecase"
	xhttp "StockWatch/pkg/http"
	xlogger "StockWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

const apiVersion = "1.0.0"

// StocksEchoHandler implements the Echo-based HTTP surface: stock quotes,
// history, the popular list, and the watchlist.
type StocksEchoHandler struct {
	logger *xlogger.Logger
	quotes *usecase.QuoteService
	watch  *usecase.Watchlist
	charts *chart.Renderer
}

func NewStocksEchoHandler(logger *xlogger.Logger, quotes *usecase.QuoteService, watch *usecase.Watchlist, charts *chart.Renderer) *StocksEchoHandler {
	return &StocksEchoHandler{logger: logger, quotes: quotes, watch: watch, charts: charts}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Info)

	g := e.Group("/api")
	g.GET("/stock/:ticker", h.Stock)
	g.GET("/stock/:ticker/history", h.StockHistory)
	g.GET("/stocks/popular", h.Popular)
	g.GET("/watchlist", h.Watchlist)
	g.POST("/watchlist/:ticker", h.WatchlistAdd)
	g.DELETE("/watchlist/:ticker", h.WatchlistRemove)
	g.GET("/watchlist/:ticker/chart", h.WatchlistChart)
}

// Info is the health/info endpoint.
func (h *StocksEchoHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "StockWatch API",
		"version": apiVersion,
		"source":  h.quotes.Source(),
		"endpoints": map[string]string{
			"stock_price":    "/api/stock/:ticker",
			"stock_history":  "/api/stock/:ticker/history?days=30",
			"popular_stocks": "/api/stocks/popular",
			"watchlist":      "/api/watchlist",
		},
	})
}

// Stock serves the current quote for a ticker.
func (h *StocksEchoHandler) Stock(c echo.Context) error {
	ticker, err := tickerParam(c)
	if err != nil {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ticker must not be empty")
	}

	q, err := h.quotes.Quote(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("quote fetch failed", xlogger.String("ticker", ticker), xlogger.Error(err))
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, q)
}

// HistoryRequest carries the history window query. Days defaults to 30.
type HistoryRequest struct {
	Days *int `query:"days" default:"30" validate:"required,gte=1,lte=365"`
}

// StockHistory serves the daily price series for a ticker.
func (h *StocksEchoHandler) StockHistory(c echo.Context) error {
	ticker, err := tickerParam(c)
	if err != nil {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ticker must not be empty")
	}

	req := &HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.quotes.History(c.Request().Context(), ticker, *req.Days)
	if err != nil {
		h.logger.Error("history fetch failed",
			xlogger.String("ticker", ticker),
			xlogger.Int("days", *req.Days),
			xlogger.Error(err),
		)
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, series)
}

// Popular serves quotes for the whole catalog; a partial upstream failure
// yields a partial list.
func (h *StocksEchoHandler) Popular(c echo.Context) error {
	quotes := h.quotes.Popular(c.Request().Context())
	return xhttp.SuccessResponse(c, quotes)
}

// Watchlist serves the tracked quotes in order.
func (h *StocksEchoHandler) Watchlist(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.watch.Snapshot())
}

// WatchlistAdd tracks a new ticker.
func (h *StocksEchoHandler) WatchlistAdd(c echo.Context) error {
	ticker, err := tickerParam(c)
	if err != nil {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ticker must not be empty")
	}

	q, err := h.watch.Add(c.Request().Context(), ticker)
	if err != nil {
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, q)
}

// WatchlistRemove stops tracking a ticker.
func (h *StocksEchoHandler) WatchlistRemove(c echo.Context) error {
	ticker, err := tickerParam(c)
	if err != nil {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ticker must not be empty")
	}

	if err := h.watch.Remove(ticker); err != nil {
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"removed": strings.ToUpper(strings.TrimSpace(ticker))})
}

// ChartRequest carries the chart window query, limited to the preset windows.
type ChartRequest struct {
	Days *int `query:"days" default:"30" validate:"required,oneof=7 30 90 365"`
}

// WatchlistChart renders the price chart for a ticker as PNG.
func (h *StocksEchoHandler) WatchlistChart(c echo.Context) error {
	ticker, err := tickerParam(c)
	if err != nil {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ticker must not be empty")
	}

	req := &ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.watch.Select(c.Request().Context(), ticker, *req.Days)
	if err != nil {
		return h.respondError(c, err)
	}

	png, err := h.charts.Render(strings.ToUpper(strings.TrimSpace(ticker)), series)
	if err != nil {
		if errors.Is(err, chart.ErrEmptySeries) {
			return xhttp.ErrorResponse(c, http.StatusNotFound, "history unavailable")
		}
		h.logger.Error("chart render failed", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// respondError maps domain errors onto the uniform envelope. Upstream causes
// never reach the caller verbatim.
func (h *StocksEchoHandler) respondError(c echo.Context, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, models.ErrInvalidRange):
		appErr = xhttp.BadRequestError(models.ErrInvalidRange.Error())
	case errors.Is(err, models.ErrUnknownSymbol), errors.Is(err, models.ErrNotWatched):
		appErr = xhttp.NotFoundError(err.Error())
	case errors.Is(err, models.ErrDuplicateSymbol):
		appErr = xhttp.ConflictError(err.Error())
	case errors.Is(err, models.ErrAddInFlight):
		appErr = xhttp.ConflictError(models.ErrAddInFlight.Error())
	case errors.Is(err, models.ErrStaleResult):
		appErr = xhttp.ConflictError("superseded by a newer request")
	case errors.Is(err, models.ErrUpstreamUnavailable):
		appErr = xhttp.InternalError(models.ErrUpstreamUnavailable.Error())
	default:
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.AppErrorResponse(c, appErr.WithError(err))
}

func tickerParam(c echo.Context) (string, error) {
	ticker := strings.TrimSpace(c.Param("ticker"))
	if ticker == "" {
		return "", errors.New("empty ticker")
	}
	return ticker, nil
}
