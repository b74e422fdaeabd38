package series

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *storage.MemoryBarStore {
	t.Helper()

	store := storage.NewMemoryBarStore()
	bars := []models.Bar{
		{Ticker: "AAPL", Timestamp: "2024-01-02", Open: 150.123, High: 151.456, Low: 149.0, Close: 150.5, Volume: 1000},
		{Ticker: "AAPL", Timestamp: "2024-01-03", Open: 150.5, High: 152.0, Low: 150.0, Close: 151.75, Volume: 2000},
		{Ticker: "AAPL", Timestamp: "2024-01-04", Open: 151.75, High: 153.0, Low: 151.0, Close: 152.0, Volume: 1500},
	}
	for _, b := range bars {
		require.NoError(t, store.InsertBar(context.Background(), b))
	}
	return store
}

func TestReader_FetchRange(t *testing.T) {
	reader := NewReader(seededStore(t))

	s, err := reader.FetchRange(context.Background(), "AAPL", "2024-01-02", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, "2024-01-02", s[0].Timestamp)
	assert.Equal(t, "2024-01-03", s[1].Timestamp)
}

func TestReader_FetchRange_InvalidDate(t *testing.T) {
	store := seededStore(t)
	store.QueryErr = errors.New("should not be reached")
	reader := NewReader(store)

	// Malformed dates fail before any storage access.
	_, err := reader.FetchRange(context.Background(), "AAPL", "01/02/2024", "2024-01-03")
	assert.ErrorIs(t, err, models.ErrInvalidDateFormat)

	_, err = reader.FetchRange(context.Background(), "AAPL", "2024-01-02", "2024-13-40")
	assert.ErrorIs(t, err, models.ErrInvalidDateFormat)
}

func TestReader_FetchRange_NoData(t *testing.T) {
	reader := NewReader(seededStore(t))

	_, err := reader.FetchRange(context.Background(), "UNKNOWN", "2024-01-01", "2024-12-31")
	assert.ErrorIs(t, err, models.ErrNoDataAvailable)
}

func TestReader_FetchRange_StorageFailure(t *testing.T) {
	store := storage.NewMemoryBarStore()
	store.QueryErr = errors.New("disk on fire")
	reader := NewReader(store)

	_, err := reader.FetchRange(context.Background(), "AAPL", "2024-01-01", "2024-12-31")
	var storageErr *storage.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.NotErrorIs(t, err, models.ErrNoDataAvailable)
}

func TestReader_Extract(t *testing.T) {
	reader := NewReader(seededStore(t))
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

	out, err := reader.Extract(context.Background(), "AAPL", "2024-01-02", "2024-01-04", now)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "# Stock data for AAPL from 2024-01-02 to 2024-01-04", lines[0])
	assert.Equal(t, "# Total records: 3", lines[1])
	assert.Equal(t, "# Source: TradingView webhook", lines[2])
	assert.Equal(t, "# Data retrieved on: 2024-01-10 09:30:00", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "Date,Open,High,Low,Close,Volume", lines[5])
	// OHLC rounded to 2 decimals, trailing zeros trimmed.
	assert.Equal(t, "2024-01-02,150.12,151.46,149,150.5,1000", lines[6])
	assert.Equal(t, "2024-01-03,150.5,152,150,151.75,2000", lines[7])
	assert.Equal(t, "2024-01-04,151.75,153,151,152,1500", lines[8])
}

func TestReader_Extract_NoData(t *testing.T) {
	reader := NewReader(storage.NewMemoryBarStore())

	_, err := reader.Extract(context.Background(), "AAPL", "2024-01-01", "2024-01-31", time.Now())
	assert.ErrorIs(t, err, models.ErrNoDataAvailable)
}
