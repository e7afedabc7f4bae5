package tcbs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockWatch/internal/domain/models"
	xhttp "StockWatch/pkg/http"
	applogger "StockWatch/pkg/logger"
	"StockWatch/pkg/util"
)

const (
	priceInfoPath = "/stock-insight/v1/stock/sec-price-info"
	barsPath      = "/stock-insight/v1/stock/bars-long-term"
)

// Client is a pass-through adapter for the TCBS public market-data API.
// Upstream fields that are missing default to zero; every transport failure,
// timeout or non-2xx is wrapped as ErrUpstreamUnavailable carrying the symbol.
type Client struct {
	http    *xhttp.Client
	baseURL string
	retry   util.RetryConfig
	logger  *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithRetry sets retry attempts and initial backoff for upstream failures.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.retry.MaxAttempts = maxAttempts
		}
		if backoff > 0 {
			c.retry.InitialDelay = backoff
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a TCBS adapter with the given base URL and request timeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   util.DefaultRetryConfig(),
	}
	// Retry only transient upstream failures, never a permanent miss.
	c.retry.Retryable = func(err error) bool {
		return errors.Is(err, models.ErrUpstreamUnavailable)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies this adapter as the live data source.
func (c *Client) Source() string { return "live" }

type priceInfoResponse struct {
	Name               string  `json:"name"`
	LastPrice          float64 `json:"lastPrice"`
	PriceChange        float64 `json:"priceChange"`
	PercentPriceChange float64 `json:"percentPriceChange"`
	TotalVolume        int64   `json:"totalVolume"`
	HighPrice          float64 `json:"highPrice"`
	LowPrice           float64 `json:"lowPrice"`
	OpenPrice          float64 `json:"openPrice"`
	CeilingPrice       float64 `json:"ceilingPrice"`
	FloorPrice         float64 `json:"floorPrice"`
}

// Quote fetches the current price snapshot for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	return util.RetryWithResult(ctx, c.retry, func() (*models.Quote, error) {
		var resp priceInfoResponse
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + priceInfoPath,
			QueryParams: map[string][]string{"secCd": {sym}},
		}, &resp)
		if err != nil {
			return nil, c.upstreamErr(sym, err)
		}

		name := resp.Name
		if name == "" {
			name = sym
		}

		return &models.Quote{
			Symbol:        sym,
			Name:          name,
			Price:         resp.LastPrice,
			Change:        resp.PriceChange,
			ChangePercent: resp.PercentPriceChange,
			Volume:        resp.TotalVolume,
			High:          resp.HighPrice,
			Low:           resp.LowPrice,
			Open:          resp.OpenPrice,
			Ceiling:       resp.CeilingPrice,
			Floor:         resp.FloorPrice,
			Timestamp:     time.Now(),
		}, nil
	})
}

type barsResponse struct {
	Data []struct {
		TradingDate string  `json:"tradingDate"`
		Close       float64 `json:"close"`
		Volume      int64   `json:"volume"`
	} `json:"data"`
}

// History fetches daily bars for the last days calendar days.
func (c *Client) History(ctx context.Context, symbol string, days int) (*models.HistorySeries, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	return util.RetryWithResult(ctx, c.retry, func() (*models.HistorySeries, error) {
		var resp barsResponse
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + barsPath,
			QueryParams: map[string][]string{
				"ticker":     {sym},
				"type":       {"stock"},
				"resolution": {"D"},
				"from":       {strconv.FormatInt(from.Unix(), 10)},
				"to":         {strconv.FormatInt(to.Unix(), 10)},
			},
		}, &resp)
		if err != nil {
			return nil, c.upstreamErr(sym, err)
		}

		series := &models.HistorySeries{}
		for _, row := range resp.Data {
			label, ok := parseTradingDate(row.TradingDate)
			if !ok || row.Close == 0 {
				// Malformed upstream row: keep the slot zero-filled but say so.
				series.Partial = true
			}
			series.Dates = append(series.Dates, label)
			series.Prices = append(series.Prices, row.Close)
			series.Volumes = append(series.Volumes, row.Volume)
		}
		if series.Len() == 0 {
			series.Partial = true
		}
		return series, nil
	})
}

func (c *Client) upstreamErr(symbol string, cause error) error {
	if c.logger != nil {
		c.logger.Warn("upstream request failed",
			applogger.String("symbol", symbol),
			applogger.Error(cause),
		)
	}
	return fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, symbol, cause)
}

// parseTradingDate turns an upstream timestamp into a dd/MM label.
func parseTradingDate(s string) (string, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return util.DateLabel(t), true
		}
	}
	return "", false
}
