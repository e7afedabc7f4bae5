package catalog

import (
	"strings"

	"StockWatch/internal/domain/models"
)

// Table is an immutable, read-only catalog of tradable instruments keyed by
// symbol. Lookups are case-insensitive. Built once at startup.
type Table struct {
	entries map[string]models.CatalogEntry
	order   []string
}

// New builds a table from the given entries, preserving their order.
func New(entries []models.CatalogEntry) *Table {
	t := &Table{
		entries: make(map[string]models.CatalogEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		sym := strings.ToUpper(e.Symbol)
		if _, dup := t.entries[sym]; dup {
			continue
		}
		e.Symbol = sym
		t.entries[sym] = e
		t.order = append(t.order, sym)
	}
	return t
}

// Default returns the built-in HOSE catalog.
func Default() *Table {
	return New([]models.CatalogEntry{
		{Symbol: "VCB", Name: "Ngan hang TMCP Ngoai thuong Viet Nam", Exchange: "HOSE", Industry: "Banking", BasePrice: 92500, Volatility: 0.02},
		{Symbol: "VNM", Name: "Cong ty CP Sua Viet Nam", Exchange: "HOSE", Industry: "Food & Beverage", BasePrice: 78000, Volatility: 0.015},
		{Symbol: "FPT", Name: "Cong ty CP FPT", Exchange: "HOSE", Industry: "Technology", BasePrice: 125000, Volatility: 0.025},
		{Symbol: "VIC", Name: "Tap doan Vingroup", Exchange: "HOSE", Industry: "Real Estate", BasePrice: 45500, Volatility: 0.02},
		{Symbol: "HPG", Name: "Cong ty CP Tap doan Hoa Phat", Exchange: "HOSE", Industry: "Steel", BasePrice: 28700, Volatility: 0.03},
		{Symbol: "VHM", Name: "Cong ty CP Vinhomes", Exchange: "HOSE", Industry: "Real Estate", BasePrice: 52300, Volatility: 0.025},
		{Symbol: "MSN", Name: "Cong ty CP Tap doan Masan", Exchange: "HOSE", Industry: "Consumer Goods", BasePrice: 68500, Volatility: 0.022},
		{Symbol: "TCB", Name: "Ngan hang TMCP Ky thuong Viet Nam", Exchange: "HOSE", Industry: "Banking", BasePrice: 48900, Volatility: 0.018},
		{Symbol: "MWG", Name: "Cong ty CP Dau tu The Gioi Di Dong", Exchange: "HOSE", Industry: "Retail", BasePrice: 54200, Volatility: 0.025},
		{Symbol: "GAS", Name: "Tong Cong ty Khi Viet Nam", Exchange: "HOSE", Industry: "Oil & Gas", BasePrice: 89400, Volatility: 0.02},
	})
}

// Lookup finds an entry by symbol, case-insensitively.
func (t *Table) Lookup(symbol string) (models.CatalogEntry, bool) {
	e, ok := t.entries[strings.ToUpper(strings.TrimSpace(symbol))]
	return e, ok
}

// Symbols returns the catalog symbols in their listing order.
func (t *Table) Symbols() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.order)
}
