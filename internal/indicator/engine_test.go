package indicator

import (
	"context"
	"strconv"
	"testing"

	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/internal/series"
	"github.com/mohamedkhairy/tvstore/internal/storage"
	indicatorpkg "github.com/mohamedkhairy/tvstore/pkg/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, store storage.BarStore) *Engine {
	t.Helper()
	return NewEngine(series.NewReader(store), indicatorpkg.DefaultRegistry(), DefaultWarmupDays)
}

// Tue 2024-01-02 through Fri 2024-01-05.
func acmeStore(t *testing.T) *storage.MemoryBarStore {
	t.Helper()

	store := storage.NewMemoryBarStore()
	closes := map[string]float64{
		"2024-01-02": 10,
		"2024-01-03": 11,
		"2024-01-04": 12,
		"2024-01-05": 13,
	}
	for date, c := range closes {
		require.NoError(t, store.InsertBar(context.Background(), models.Bar{
			Ticker:    "ACME",
			Timestamp: date,
			Open:      c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		}))
	}
	return store
}

func TestEngine_Report_WindowCompleteness(t *testing.T) {
	engine := newTestEngine(t, acmeStore(t))

	report, err := engine.Report(context.Background(), "ACME", "close_10_ema", "2024-01-08", 3)
	require.NoError(t, err)

	// Exactly lookBackDays+1 calendar days, newest first, no gaps.
	require.Len(t, report.Entries, 4)
	assert.Equal(t, "2024-01-08", report.Entries[0].Date)
	assert.Equal(t, "2024-01-07", report.Entries[1].Date)
	assert.Equal(t, "2024-01-06", report.Entries[2].Date)
	assert.Equal(t, "2024-01-05", report.Entries[3].Date)
	assert.Equal(t, "2024-01-05", report.From)
	assert.Equal(t, "2024-01-08", report.To)
}

// newShortWindowEngine registers an SMA small enough to stabilize over the
// four ACME bars, so traded days report numeric values.
func newShortWindowEngine(t *testing.T, store storage.BarStore) *Engine {
	t.Helper()

	registry := indicatorpkg.NewRegistry()
	require.NoError(t, registry.Register("close_2_sma", indicatorpkg.SMA(2)))
	return NewEngine(series.NewReader(store), registry, DefaultWarmupDays)
}

func TestEngine_Report_NonTradingDaySentinel(t *testing.T) {
	engine := newShortWindowEngine(t, acmeStore(t))

	report, err := engine.Report(context.Background(), "ACME", "close_2_sma", "2024-01-08", 3)
	require.NoError(t, err)

	// Saturday and Sunday have no bars: trading-day sentinel.
	assert.Equal(t, NotTradingDay, report.Entries[1].Value)
	assert.Equal(t, NotTradingDay, report.Entries[2].Value)
	// Monday's bar has not arrived either, so it is absent from the
	// computed lookup and renders the same sentinel.
	assert.Equal(t, NotTradingDay, report.Entries[0].Value)

	// Friday traded: numeric value, parseable at full precision.
	_, err = strconv.ParseFloat(report.Entries[3].Value, 64)
	assert.NoError(t, err)
}

func TestEngine_Report_ZeroLookBack(t *testing.T) {
	engine := newTestEngine(t, acmeStore(t))

	report, err := engine.Report(context.Background(), "ACME", "close_10_ema", "2024-01-05", 0)
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, "2024-01-05", report.Entries[0].Date)
	assert.NotEqual(t, NotTradingDay, report.Entries[0].Value)
}

func TestEngine_Report_WarmupExcludedFromOutput(t *testing.T) {
	engine := newTestEngine(t, acmeStore(t))

	// Only 2024-01-05 is in the window; earlier bars are warm-up only.
	report, err := engine.Report(context.Background(), "ACME", "close_10_ema", "2024-01-05", 0)
	require.NoError(t, err)

	for _, entry := range report.Entries {
		assert.GreaterOrEqual(t, entry.Date, "2024-01-05")
	}
}

func TestEngine_Report_UnknownIndicator(t *testing.T) {
	store := acmeStore(t)
	// The registry check must run before the warm-up fetch.
	store.QueryErr = assert.AnError
	engine := newTestEngine(t, store)

	_, err := engine.Report(context.Background(), "ACME", "bogus_indicator", "2024-01-08", 3)
	assert.ErrorIs(t, err, models.ErrUnsupportedIndicator)
}

func TestEngine_Report_NoData(t *testing.T) {
	engine := newTestEngine(t, storage.NewMemoryBarStore())

	_, err := engine.Report(context.Background(), "GHOST", "rsi", "2024-01-08", 3)
	assert.ErrorIs(t, err, models.ErrNoDataAvailable)
}

func TestEngine_Report_InvalidInput(t *testing.T) {
	engine := newTestEngine(t, acmeStore(t))

	_, err := engine.Report(context.Background(), "ACME", "rsi", "01/08/2024", 3)
	assert.ErrorIs(t, err, models.ErrInvalidDateFormat)

	_, err = engine.Report(context.Background(), "ACME", "rsi", "2024-01-08", -1)
	assert.Error(t, err)
}

func TestEngine_Report_ShortHistoryNotAvailable(t *testing.T) {
	// Four stored bars is far less history than any of these formulas
	// need; every traded day must render the undefined sentinel, never a
	// numeric zero.
	engine := newTestEngine(t, acmeStore(t))

	for _, name := range []string{"close_50_sma", "macd", "rsi", "atr", "boll_ub"} {
		report, err := engine.Report(context.Background(), "ACME", name, "2024-01-05", 0)
		require.NoError(t, err, name)
		require.Len(t, report.Entries, 1, name)
		assert.Equal(t, NotAvailable, report.Entries[0].Value, name)
	}
}

func TestEngine_Report_StabilityHorizonBoundary(t *testing.T) {
	store := acmeStore(t)
	registry := indicatorpkg.NewRegistry()
	require.NoError(t, registry.Register("close_3_sma", indicatorpkg.SMA(3)))
	engine := NewEngine(series.NewReader(store), registry, DefaultWarmupDays)

	report, err := engine.Report(context.Background(), "ACME", "close_3_sma", "2024-01-05", 3)
	require.NoError(t, err)
	require.Len(t, report.Entries, 4)

	// Fri (11+12+13)/3 and Thu (10+11+12)/3 sit at or past the three-bar
	// horizon: numeric.
	assert.Equal(t, "12", report.Entries[0].Value)
	assert.Equal(t, "11", report.Entries[1].Value)
	// Wed and Tue have fewer than three bars of history: undefined.
	assert.Equal(t, NotAvailable, report.Entries[2].Value)
	assert.Equal(t, NotAvailable, report.Entries[3].Value)
}

func TestEngine_Report_ValueMatchesFormula(t *testing.T) {
	engine := newShortWindowEngine(t, acmeStore(t))

	report, err := engine.Report(context.Background(), "ACME", "close_2_sma", "2024-01-05", 0)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)

	// SMA(2) on Friday: (12+13)/2.
	value, err := strconv.ParseFloat(report.Entries[0].Value, 64)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, value, 1e-9)
}

func TestRender(t *testing.T) {
	report := &models.IndicatorReport{
		Indicator: "close_50_sma",
		Ticker:    "ACME",
		From:      "2024-01-05",
		To:        "2024-01-08",
		Entries: []models.ReportEntry{
			{Date: "2024-01-08", Value: NotTradingDay},
			{Date: "2024-01-07", Value: NotTradingDay},
			{Date: "2024-01-06", Value: NotTradingDay},
			{Date: "2024-01-05", Value: "12.5"},
		},
	}

	out := Render(report)
	assert.Contains(t, out, "## close_50_sma values from 2024-01-05 to 2024-01-08:")
	assert.Contains(t, out, "2024-01-05: 12.5\n")
	assert.Contains(t, out, "2024-01-08: "+NotTradingDay+"\n")
	assert.Contains(t, out, "Source: TradingView webhook data")
}
