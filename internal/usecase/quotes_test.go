package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"StockWatch/internal/catalog"
	"StockWatch/internal/domain/models"
	"StockWatch/pkg/cache"
)

// gate lets a test hold a fake fetch open: entered fires when the call
// begins, release lets it finish.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

// fakeMarket is a controllable MarketData double. Per-symbol errors can be
// injected, calls are counted, and a symbol can be gated to simulate a slow
// upstream.
type fakeMarket struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
	gates map[string]*gate
	price float64
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		calls: make(map[string]int),
		fail:  make(map[string]error),
		gates: make(map[string]*gate),
		price: 50_000,
	}
}

// gateSymbol makes the next fetches for sym block until release is closed.
func (f *fakeMarket) gateSymbol(sym string) *gate {
	g := &gate{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	f.mu.Lock()
	f.gates[sym] = g
	f.mu.Unlock()
	return g
}

func (f *fakeMarket) setPrice(p float64) {
	f.mu.Lock()
	f.price = p
	f.mu.Unlock()
}

func (f *fakeMarket) Source() string { return "fake" }

func (f *fakeMarket) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	f.mu.Lock()
	f.calls[symbol]++
	err := f.fail[symbol]
	g := f.gates[symbol]
	price := f.price
	f.mu.Unlock()

	if g != nil {
		select {
		case g.entered <- struct{}{}:
		default:
		}
		<-g.release
	}
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		Symbol:    symbol,
		Name:      symbol + " Corp",
		Price:     price,
		Open:      49_900,
		Volume:    1_000_000,
		Timestamp: time.Now(),
	}, nil
}

func (f *fakeMarket) History(_ context.Context, symbol string, days int) (*models.HistorySeries, error) {
	f.mu.Lock()
	f.calls["history:"+symbol]++
	err := f.fail[symbol]
	g := f.gates[symbol]
	f.mu.Unlock()

	if g != nil {
		select {
		case g.entered <- struct{}{}:
		default:
		}
		<-g.release
	}
	if err != nil {
		return nil, err
	}
	return &models.HistorySeries{
		Dates:   []string{"10/03", "11/03"},
		Prices:  []float64{49_800, 50_000},
		Volumes: []int64{2_000_000, 2_100_000},
	}, nil
}

func (f *fakeMarket) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func TestQuoteNormalizesSymbol(t *testing.T) {
	fm := newFakeMarket()
	svc := NewQuoteService(fm, catalog.Default())

	q, err := svc.Quote(context.Background(), "  vcb ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "VCB" {
		t.Errorf("expected VCB, got %s", q.Symbol)
	}
	if fm.callCount("VCB") != 1 {
		t.Errorf("expected one upstream call for VCB, got %d", fm.callCount("VCB"))
	}
}

func TestQuotePropagatesSourceError(t *testing.T) {
	fm := newFakeMarket()
	fm.fail["ZZZ"] = fmt.Errorf("%w: ZZZ", models.ErrUnknownSymbol)
	svc := NewQuoteService(fm, catalog.Default())

	_, err := svc.Quote(context.Background(), "ZZZ")
	if !errors.Is(err, models.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestHistoryRangeEnforcedBeforeFetch(t *testing.T) {
	fm := newFakeMarket()
	svc := NewQuoteService(fm, catalog.Default())

	for _, days := range []int{0, -1, 366, 400} {
		_, err := svc.History(context.Background(), "VCB", days)
		if !errors.Is(err, models.ErrInvalidRange) {
			t.Errorf("days=%d: expected ErrInvalidRange, got %v", days, err)
		}
	}
	if n := fm.callCount("history:VCB"); n != 0 {
		t.Errorf("out-of-range requests must not reach the source, got %d calls", n)
	}

	for _, days := range []int{1, 365} {
		if _, err := svc.History(context.Background(), "VCB", days); err != nil {
			t.Errorf("days=%d: unexpected error: %v", days, err)
		}
	}
}

func TestQuoteReadThroughCache(t *testing.T) {
	fm := newFakeMarket()
	mem := cache.NewMemoryCache()
	defer mem.Close()
	svc := NewQuoteService(fm, catalog.Default(),
		WithCache(mem, time.Minute, time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := svc.Quote(context.Background(), "FPT"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := fm.callCount("FPT"); n != 1 {
		t.Errorf("expected a single upstream call with a warm cache, got %d", n)
	}
}

func TestPopularPartialFailure(t *testing.T) {
	fm := newFakeMarket()
	fm.fail["HPG"] = fmt.Errorf("%w: HPG: boom", models.ErrUpstreamUnavailable)
	svc := NewQuoteService(fm, catalog.Default())

	quotes := svc.Popular(context.Background())

	symbols := catalog.Default().Symbols()
	if len(quotes) != len(symbols)-1 {
		t.Fatalf("expected %d quotes, got %d", len(symbols)-1, len(quotes))
	}

	// Catalog order is preserved with the failed symbol skipped.
	want := make([]string, 0, len(symbols)-1)
	for _, s := range symbols {
		if s != "HPG" {
			want = append(want, s)
		}
	}
	for i, q := range quotes {
		if q.Symbol != want[i] {
			t.Errorf("quotes[%d] = %s, want %s", i, q.Symbol, want[i])
		}
	}
}

func TestSourceReported(t *testing.T) {
	svc := NewQuoteService(newFakeMarket(), catalog.Default())
	if svc.Source() != "fake" {
		t.Errorf("expected source fake, got %s", svc.Source())
	}
}
