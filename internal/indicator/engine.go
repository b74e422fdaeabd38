package indicator

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/internal/series"
	indicatorpkg "github.com/mohamedkhairy/tvstore/pkg/indicator"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
)

const (
	// NotAvailable marks a day whose bar exists but whose formula value is
	// undefined: the bar sits before the formula's stability horizon
	// (fewer bars stored than the indicator window) or the computed value
	// is NaN.
	NotAvailable = "N/A"

	// NotTradingDay marks a calendar day with no bar in storage. Kept
	// distinct from NotAvailable so consumers can tell "market closed"
	// from "value undefined".
	NotTradingDay = "N/A: Not a trading day (weekend or holiday)"
)

// DefaultWarmupDays is the extra history fetched before the reporting
// window so lagging formulas (SMA-200 and friends) stabilize before the
// first reported day.
const DefaultWarmupDays = 200

// Engine computes one named indicator per calendar day over a requested
// window. Formulas come from the registry; the engine only iterates and
// reports, it never branches on indicator names.
type Engine struct {
	reader     *series.Reader
	registry   *indicatorpkg.Registry
	warmupDays int
}

// NewEngine creates an engine over the given reader and formula registry.
// warmupDays <= 0 selects DefaultWarmupDays.
func NewEngine(reader *series.Reader, registry *indicatorpkg.Registry, warmupDays int) *Engine {
	if warmupDays <= 0 {
		warmupDays = DefaultWarmupDays
	}
	return &Engine{
		reader:     reader,
		registry:   registry,
		warmupDays: warmupDays,
	}
}

// Report computes the named indicator for every calendar day in
// [currDate − lookBackDays, currDate], newest first. Weekend/holiday days
// render the NotTradingDay sentinel; days whose value is undefined (too
// little history for the formula, or NaN) render NotAvailable. Warm-up
// bars prime the formulas but never appear in the output.
func (e *Engine) Report(ctx context.Context, ticker, name, currDate string, lookBackDays int) (*models.IndicatorReport, error) {
	curr, err := series.ParseDate(currDate)
	if err != nil {
		return nil, err
	}
	if lookBackDays < 0 {
		return nil, fmt.Errorf("look_back_days must be non-negative, got %d", lookBackDays)
	}

	// Validation precedes I/O: an unknown indicator fails before the
	// warm-up fetch.
	formula, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}

	windowStart := curr.AddDate(0, 0, -lookBackDays)
	warmupStart := windowStart.AddDate(0, 0, -e.warmupDays)

	bars, err := e.reader.FetchRange(ctx, ticker, warmupStart.Format(series.DateLayout), currDate)
	if err != nil {
		return nil, err
	}

	ts := indicatorpkg.BuildTimeSeries(bars)
	ind := formula.Build(ts)

	// One computed value per bar, keyed by the bar's trading date.
	// techan returns zero, not NaN, for indexes inside an indicator's own
	// warm-up, so bars before the formula's stability horizon are
	// undefined regardless of what Calculate reports.
	values := make(map[string]string, len(bars))
	for i, bar := range bars {
		if i+1 < formula.MinBars {
			values[bar.Date()] = NotAvailable
			continue
		}
		v := ind.Calculate(i).Float()
		if math.IsNaN(v) {
			values[bar.Date()] = NotAvailable
		} else {
			values[bar.Date()] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	report := &models.IndicatorReport{
		Indicator: name,
		Ticker:    ticker,
		From:      windowStart.Format(series.DateLayout),
		To:        currDate,
		Entries:   make([]models.ReportEntry, 0, lookBackDays+1),
	}

	// Day-by-day descending walk: every calendar day gets an entry, even
	// across weekends.
	for d := curr; !d.Before(windowStart); d = d.AddDate(0, 0, -1) {
		date := d.Format(series.DateLayout)
		value, ok := values[date]
		if !ok {
			value = NotTradingDay
		}
		report.Entries = append(report.Entries, models.ReportEntry{
			Date:  date,
			Value: value,
		})
	}

	logger.Debug("Computed indicator report",
		logger.String("ticker", ticker),
		logger.String("indicator", name),
		logger.String("from", report.From),
		logger.String("to", report.To),
		logger.Int("bars", len(bars)),
	)

	return report, nil
}
