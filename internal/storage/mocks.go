package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/mohamedkhairy/tvstore/internal/models"
)

// MemoryBarStore is an in-memory BarStore for tests. It mirrors the
// persistent backends' semantics exactly: first-write-wins inserts,
// ascending range reads, empty-not-error lookups.
type MemoryBarStore struct {
	mu   sync.RWMutex
	bars map[string]map[string]models.Bar // ticker -> timestamp -> bar

	// InsertErr, QueryErr force storage failures in tests.
	InsertErr error
	QueryErr  error
}

// NewMemoryBarStore creates an empty in-memory store.
func NewMemoryBarStore() *MemoryBarStore {
	return &MemoryBarStore{
		bars: make(map[string]map[string]models.Bar),
	}
}

func (m *MemoryBarStore) InsertBar(ctx context.Context, bar models.Bar) error {
	if m.InsertErr != nil {
		return &StorageError{Op: "insert bar", Ticker: bar.Ticker, Err: m.InsertErr}
	}
	if err := bar.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	byTime, ok := m.bars[bar.Ticker]
	if !ok {
		byTime = make(map[string]models.Bar)
		m.bars[bar.Ticker] = byTime
	}
	if _, exists := byTime[bar.Timestamp]; exists {
		return nil
	}
	byTime[bar.Timestamp] = bar
	return nil
}

func (m *MemoryBarStore) QueryRange(ctx context.Context, ticker, start, end string) (models.Series, error) {
	if m.QueryErr != nil {
		return nil, &StorageError{Op: "query range", Ticker: ticker, Err: m.QueryErr}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	series := models.Series{}
	for ts, bar := range m.bars[ticker] {
		if ts >= start && ts <= end {
			series = append(series, bar)
		}
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp < series[j].Timestamp
	})
	return series, nil
}

func (m *MemoryBarStore) ListTickers(ctx context.Context) ([]string, error) {
	if m.QueryErr != nil {
		return nil, &StorageError{Op: "list tickers", Err: m.QueryErr}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tickers := []string{}
	for ticker, byTime := range m.bars {
		if len(byTime) > 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (m *MemoryBarStore) DateRange(ctx context.Context, ticker string) (*models.TickerSummary, error) {
	if m.QueryErr != nil {
		return nil, &StorageError{Op: "date range", Ticker: ticker, Err: m.QueryErr}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	byTime := m.bars[ticker]
	if len(byTime) == 0 {
		return nil, nil
	}

	summary := &models.TickerSummary{Count: int64(len(byTime))}
	for ts := range byTime {
		if summary.Min == "" || ts < summary.Min {
			summary.Min = ts
		}
		if ts > summary.Max {
			summary.Max = ts
		}
	}
	return summary, nil
}

func (m *MemoryBarStore) Close() error {
	return nil
}
