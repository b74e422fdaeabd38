package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mohamedkhairy/tvstore/internal/config"
	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(config.StorageConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "market_data.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testBar(ticker, timestamp string, close float64) models.Bar {
	return models.Bar{
		Ticker:    ticker,
		Timestamp: timestamp,
		Open:      close - 0.5,
		High:      close + 1.0,
		Low:       close - 1.0,
		Close:     close,
		Volume:    1000,
	}
}

func TestSQLiteStore_InsertBar_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testBar("AAPL", "2024-01-02", 150.5)
	require.NoError(t, store.InsertBar(ctx, first))

	// Same key, different values: the retry must not overwrite history.
	second := testBar("AAPL", "2024-01-02", 999.0)
	require.NoError(t, store.InsertBar(ctx, second))

	series, err := store.QueryRange(ctx, "AAPL", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 150.5, series[0].Close)
}

func TestSQLiteStore_InsertBar_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bar := testBar("", "2024-01-02", 150.5)
	assert.ErrorIs(t, store.InsertBar(ctx, bar), models.ErrInvalidTicker)

	bar = testBar("AAPL", "2024-01-02", 150.5)
	bar.Volume = -5
	assert.ErrorIs(t, store.InsertBar(ctx, bar), models.ErrInvalidVolume)
}

func TestSQLiteStore_QueryRange_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bar := models.Bar{
		Ticker:    "MSFT",
		Timestamp: "2024-03-15",
		Open:      410.125,
		High:      415.9,
		Low:       408.3,
		Close:     414.42,
		Volume:    250000,
	}
	require.NoError(t, store.InsertBar(ctx, bar))

	series, err := store.QueryRange(ctx, "MSFT", "2024-03-15", "2024-03-15")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, bar, series[0])
}

func TestSQLiteStore_QueryRange_Ordering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Insert out of order.
	dates := []string{"2024-01-05", "2024-01-02", "2024-01-04", "2024-01-03"}
	for i, d := range dates {
		require.NoError(t, store.InsertBar(ctx, testBar("AAPL", d, 100+float64(i))))
	}

	series, err := store.QueryRange(ctx, "AAPL", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, series, 4)
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Timestamp, series[i].Timestamp)
	}
}

func TestSQLiteStore_QueryRange_InclusiveBounds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []string{"2024-01-02", "2024-01-03", "2024-01-04"} {
		require.NoError(t, store.InsertBar(ctx, testBar("AAPL", d, 100)))
	}

	series, err := store.QueryRange(ctx, "AAPL", "2024-01-02", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2024-01-02", series[0].Timestamp)
	assert.Equal(t, "2024-01-03", series[1].Timestamp)
}

func TestSQLiteStore_QueryRange_EmptyResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Unknown ticker returns an empty series, not an error.
	series, err := store.QueryRange(ctx, "UNKNOWN", "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Empty(t, series)

	// Inverted range is the caller's problem; the store just returns nothing.
	require.NoError(t, store.InsertBar(ctx, testBar("AAPL", "2024-01-02", 100)))
	series, err = store.QueryRange(ctx, "AAPL", "2024-12-31", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestSQLiteStore_ListTickers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tickers, err := store.ListTickers(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickers)

	require.NoError(t, store.InsertBar(ctx, testBar("MSFT", "2024-01-02", 410)))
	require.NoError(t, store.InsertBar(ctx, testBar("AAPL", "2024-01-02", 150)))
	require.NoError(t, store.InsertBar(ctx, testBar("AAPL", "2024-01-03", 151)))

	tickers, err = store.ListTickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestSQLiteStore_DateRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Unknown ticker is absent, never an error.
	summary, err := store.DateRange(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, summary)

	for _, d := range []string{"2024-01-02", "2024-01-03", "2024-01-05"} {
		require.NoError(t, store.InsertBar(ctx, testBar("AAPL", d, 100)))
	}

	summary, err = store.DateRange(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "2024-01-02", summary.Min)
	assert.Equal(t, "2024-01-05", summary.Max)
	assert.Equal(t, int64(3), summary.Count)
}

func TestSQLiteStore_CaseSensitiveTickers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertBar(ctx, testBar("aapl", "2024-01-02", 100)))
	require.NoError(t, store.InsertBar(ctx, testBar("AAPL", "2024-01-02", 200)))

	lower, err := store.QueryRange(ctx, "aapl", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, lower, 1)
	assert.Equal(t, 100.0, lower[0].Close)
}
