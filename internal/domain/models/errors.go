package models

import "errors"

var (
	// ErrUnknownSymbol is returned when a symbol is absent from the catalog.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrInvalidRange is returned when a history window is outside [1, 365].
	ErrInvalidRange = errors.New("history range must be between 1 and 365 days")

	// ErrUpstreamUnavailable is returned when the external market-data
	// provider fails (network error, timeout, non-2xx).
	ErrUpstreamUnavailable = errors.New("upstream market data unavailable")

	// ErrDuplicateSymbol is returned when adding a symbol that is already
	// on the watchlist.
	ErrDuplicateSymbol = errors.New("symbol already on watchlist")

	// ErrAddInFlight is returned while a previous add is still pending.
	ErrAddInFlight = errors.New("an add is already in flight")

	// ErrNotWatched is returned when removing a symbol that is not on the
	// watchlist.
	ErrNotWatched = errors.New("symbol not on watchlist")

	// ErrStaleResult marks a fetch that completed after a newer action
	// superseded it; its result was discarded.
	ErrStaleResult = errors.New("stale result discarded")
)
