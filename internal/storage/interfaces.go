package storage

import (
	"context"
	"fmt"

	"github.com/mohamedkhairy/tvstore/internal/models"
)

// BarStore is the durable, ticker-partitioned OHLCV table. It owns the
// (ticker, timestamp) uniqueness invariant and is the only component that
// mutates persisted bars.
type BarStore interface {
	// InsertBar inserts a bar if its (ticker, timestamp) key is absent.
	// A duplicate key is a silent no-op, never an error: the upstream
	// alert source can deliver the same bar more than once and a retry
	// must not overwrite or corrupt history.
	InsertBar(ctx context.Context, bar models.Bar) error

	// QueryRange returns all bars for ticker with timestamp in
	// [start, end] lexicographic-inclusive, ascending. An empty result
	// is not an error; callers decide whether empty is fatal.
	QueryRange(ctx context.Context, ticker, start, end string) (models.Series, error)

	// ListTickers returns the distinct tickers with at least one stored
	// bar, ascending.
	ListTickers(ctx context.Context) ([]string, error)

	// DateRange returns earliest/latest timestamps and row count for a
	// ticker, or nil (not an error) when the ticker has zero bars.
	DateRange(ctx context.Context, ticker string) (*models.TickerSummary, error)

	// Close closes the storage connection
	Close() error
}

// StorageError wraps an underlying persistence I/O failure with enough
// context to log and retry externally. It is always fatal to the current
// operation; the store never retries internally.
type StorageError struct {
	Op     string
	Ticker string
	Err    error
}

func (e *StorageError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s (ticker=%s): %v", e.Op, e.Ticker, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
