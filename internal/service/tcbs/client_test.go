package tcbs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockWatch/internal/domain/models"
)

func TestQuoteFieldMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock-insight/v1/stock/sec-price-info" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("secCd"); got != "VCB" {
			t.Errorf("secCd = %q, want VCB", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Vietcombank",
			"lastPrice": 92500,
			"priceChange": 400,
			"percentPriceChange": 0.43,
			"totalVolume": 1234567,
			"highPrice": 93000,
			"lowPrice": 91800,
			"openPrice": 92100,
			"ceilingPrice": 98500,
			"floorPrice": 85700
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	q, err := c.Quote(context.Background(), " vcb ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Symbol != "VCB" {
		t.Errorf("symbol = %s", q.Symbol)
	}
	if q.Name != "Vietcombank" {
		t.Errorf("name = %s", q.Name)
	}
	if q.Price != 92500 || q.Change != 400 || q.ChangePercent != 0.43 {
		t.Errorf("price fields = %v/%v/%v", q.Price, q.Change, q.ChangePercent)
	}
	if q.Volume != 1234567 {
		t.Errorf("volume = %d", q.Volume)
	}
	if q.High != 93000 || q.Low != 91800 || q.Open != 92100 {
		t.Errorf("ohl fields = %v/%v/%v", q.High, q.Low, q.Open)
	}
	if q.Ceiling != 98500 || q.Floor != 85700 {
		t.Errorf("band fields = %v/%v", q.Ceiling, q.Floor)
	}
}

func TestQuoteZeroFillAndNameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lastPrice": 50000}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	q, err := c.Quote(context.Background(), "HPG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Name != "HPG" {
		t.Errorf("missing name must fall back to the symbol, got %q", q.Name)
	}
	if q.Price != 50000 {
		t.Errorf("price = %v", q.Price)
	}
	if q.Volume != 0 || q.High != 0 || q.Open != 0 {
		t.Errorf("absent fields must be zero, got %d/%v/%v", q.Volume, q.High, q.Open)
	}
}

func TestQuoteUpstreamFailureRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, WithRetry(3, time.Millisecond))
	_, err := c.Quote(context.Background(), "VCB")
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestQuoteRecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lastPrice": 28700}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, WithRetry(3, time.Millisecond))
	q, err := c.Quote(context.Background(), "HPG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 28700 {
		t.Errorf("price = %v", q.Price)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestHistoryMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock-insight/v1/stock/bars-long-term" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ticker") != "FPT" || q.Get("type") != "stock" || q.Get("resolution") != "D" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("from") == "" || q.Get("to") == "" {
			t.Error("missing from/to range")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"tradingDate": "2025-03-10T00:00:00.000Z", "close": 124800, "volume": 2100000},
			{"tradingDate": "2025-03-11", "close": 125300, "volume": 1900000}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	h, err := c.History(context.Background(), "fpt", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", h.Len())
	}
	if h.Dates[0] != "10/03" || h.Dates[1] != "11/03" {
		t.Errorf("dates = %v", h.Dates)
	}
	if h.Prices[0] != 124800 || h.Prices[1] != 125300 {
		t.Errorf("prices = %v", h.Prices)
	}
	if h.Partial {
		t.Error("well-formed series must not be partial")
	}
}

func TestHistoryMalformedRowsFlagPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"tradingDate": "not-a-date", "close": 124800, "volume": 2100000},
			{"tradingDate": "2025-03-11", "close": 0, "volume": 1900000}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	h, err := c.History(context.Background(), "FPT", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.Partial {
		t.Error("malformed rows must flag the series partial")
	}
	if h.Len() != 2 {
		t.Errorf("rows are kept zero-filled, got %d", h.Len())
	}
}

func TestHistoryEmptyIsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	h, err := c.History(context.Background(), "GAS", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Len() != 0 || !h.Partial {
		t.Errorf("expected empty partial series, got len=%d partial=%v", h.Len(), h.Partial)
	}
}

func TestSourceIsLive(t *testing.T) {
	c := New("http://example.invalid", time.Second)
	if c.Source() != "live" {
		t.Errorf("source = %s", c.Source())
	}
}
