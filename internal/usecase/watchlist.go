package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"StockWatch/internal/domain/models"
	applogger "StockWatch/pkg/logger"
)

// Watchlist is an in-memory ordered list of tracked symbols with cached
// quote snapshots. Uniqueness is enforced at insertion. Each add or select
// action carries a generation token; a fetch that completes after a newer
// action superseded it is discarded rather than applied.
type Watchlist struct {
	quotes *QuoteService
	logger *applogger.Logger

	mu       sync.Mutex
	entries  []models.Quote
	adding   bool
	addGen   uint64
	selGen   uint64
	selected *models.HistorySeries
	selSym   string
}

// NewWatchlist creates an empty watchlist backed by the quote service.
func NewWatchlist(quotes *QuoteService, l *applogger.Logger) *Watchlist {
	return &Watchlist{quotes: quotes, logger: l}
}

// Add fetches a quote for symbol and appends it. Duplicates are rejected
// without touching state; only one add may be in flight at a time.
func (w *Watchlist) Add(ctx context.Context, symbol string) (*models.Quote, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	w.mu.Lock()
	if w.indexOf(sym) >= 0 {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateSymbol, sym)
	}
	if w.adding {
		w.mu.Unlock()
		return nil, models.ErrAddInFlight
	}
	w.adding = true
	w.addGen++
	gen := w.addGen
	w.mu.Unlock()

	q, err := w.quotes.Quote(ctx, sym)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.adding = false

	if gen != w.addGen {
		return nil, models.ErrStaleResult
	}
	if err != nil {
		return nil, err
	}
	// State may have changed while the fetch was out.
	if w.indexOf(sym) >= 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateSymbol, sym)
	}

	w.entries = append(w.entries, *q)
	return q, nil
}

// Select fetches a history series for symbol over the given window and makes
// it the currently selected series, replacing any previous one. A stale
// completion never replaces the result of a newer select.
func (w *Watchlist) Select(ctx context.Context, symbol string, days int) (*models.HistorySeries, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	w.mu.Lock()
	w.selGen++
	gen := w.selGen
	w.mu.Unlock()

	h, err := w.quotes.History(ctx, sym, days)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.selGen {
		return nil, models.ErrStaleResult
	}
	if err != nil {
		return nil, err
	}

	w.selected = h
	w.selSym = sym
	return h, nil
}

// Remove deletes symbol from the watchlist. It also supersedes any in-flight
// add so a slow fetch cannot resurrect the entry.
func (w *Watchlist) Remove(symbol string) error {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(sym)
	if i < 0 {
		return fmt.Errorf("%w: %s", models.ErrNotWatched, sym)
	}
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
	w.addGen++
	return nil
}

// Refresh re-fetches every tracked quote, replacing snapshots wholesale.
// Entries whose fetch fails keep their previous snapshot.
func (w *Watchlist) Refresh(ctx context.Context) {
	w.mu.Lock()
	symbols := make([]string, len(w.entries))
	for i, e := range w.entries {
		symbols[i] = e.Symbol
	}
	w.mu.Unlock()

	for _, sym := range symbols {
		q, err := w.quotes.Quote(ctx, sym)
		if err != nil {
			if w.logger != nil {
				w.logger.Warn("watchlist refresh failed",
					applogger.String("symbol", sym),
					applogger.Error(err),
				)
			}
			continue
		}
		w.mu.Lock()
		if i := w.indexOf(sym); i >= 0 {
			w.entries[i] = *q
		}
		w.mu.Unlock()
	}
}

// Snapshot returns an ordered copy of the tracked quotes.
func (w *Watchlist) Snapshot() []models.Quote {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.Quote, len(w.entries))
	copy(out, w.entries)
	return out
}

// Selected returns the currently selected history series, if any.
func (w *Watchlist) Selected() (string, *models.HistorySeries, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selSym, w.selected, w.selected != nil
}

// Len returns the number of tracked symbols.
func (w *Watchlist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// indexOf requires w.mu to be held.
func (w *Watchlist) indexOf(sym string) int {
	for i, e := range w.entries {
		if e.Symbol == sym {
			return i
		}
	}
	return -1
}
