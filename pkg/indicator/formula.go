package indicator

import (
	"time"

	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"
)

// Builder constructs a techan indicator over a chronological price series.
// The result is a pure function of the full prior history: callers invoke
// Calculate(i) for each bar index to get the value aligned to that bar's
// trading day.
type Builder func(series *techan.TimeSeries) techan.Indicator

// Formula pairs a builder with its stability horizon. MinBars is the
// number of bars the built indicator needs before its value is defined;
// techan indicators return zero, not NaN, inside their own warm-up, so the
// horizon is what lets callers tell "undefined" apart from a genuine zero.
// New indicators are added by registering a Formula, never by branching in
// the consumer.
type Formula struct {
	Build   Builder
	MinBars int
}

var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseBarTime(ts string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BuildTimeSeries converts an ordered bar series into a techan TimeSeries.
// Bars whose timestamps cannot be parsed keep their position via a
// synthetic day offset so indicator alignment is preserved.
func BuildTimeSeries(bars models.Series) *techan.TimeSeries {
	series := techan.NewTimeSeries()

	for i, bar := range bars {
		start, ok := parseBarTime(bar.Timestamp)
		if !ok {
			start = time.Unix(0, 0).UTC().AddDate(0, 0, i)
		}

		candle := techan.NewCandle(techan.NewTimePeriod(start, 24*time.Hour))
		candle.OpenPrice = big.NewDecimal(bar.Open)
		candle.MaxPrice = big.NewDecimal(bar.High)
		candle.MinPrice = big.NewDecimal(bar.Low)
		candle.ClosePrice = big.NewDecimal(bar.Close)
		candle.Volume = big.NewDecimal(float64(bar.Volume))

		series.AddCandle(candle)
	}

	return series
}
