package ws

import (
	"net/http"
	"time"

	"StockWatch/internal/usecase"
	applogger "StockWatch/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// QuoteStream pushes refreshed watchlist snapshots over a WebSocket on a
// fixed interval.
type QuoteStream struct {
	logger   *applogger.Logger
	watch    *usecase.Watchlist
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewQuoteStream creates the stream handler.
func NewQuoteStream(watch *usecase.Watchlist, interval time.Duration, l *applogger.Logger) *QuoteStream {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &QuoteStream{
		logger:   l,
		watch:    watch,
		interval: interval,
		upgrader: websocket.Upgrader{
			// Browser origins are filtered by the CORS layer; the socket
			// itself accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *QuoteStream) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/quotes", s.handle)
}

func (s *QuoteStream) handle(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// Read pump: we only care about the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.watch.Snapshot()); err != nil {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.watch.Refresh(ctx)
			if err := conn.WriteJSON(s.watch.Snapshot()); err != nil {
				if s.logger != nil {
					s.logger.Debug("quote stream closed", applogger.Error(err))
				}
				return nil
			}
		}
	}
}
