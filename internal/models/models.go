package models

// Bar represents a single OHLCV observation pushed by a TradingView alert.
// Timestamps are kept as the ISO-8601 strings TradingView sends (date or
// date-time); they sort lexicographically, which is what range queries rely on.
type Bar struct {
	Ticker    string  `json:"ticker"`
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// Validate validates a Bar before it is handed to storage.
func (b *Bar) Validate() error {
	if b.Ticker == "" {
		return ErrInvalidTicker
	}
	if b.Timestamp == "" {
		return ErrInvalidTimestamp
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// Date returns the YYYY-MM-DD portion of the bar's timestamp.
// "2024-01-02T15:30:00Z" and "2024-01-02 15:30:00" both truncate cleanly;
// a plain date is returned as-is.
func (b *Bar) Date() string {
	if len(b.Timestamp) > 10 {
		return b.Timestamp[:10]
	}
	return b.Timestamp
}

// Series is an ordered sequence of bars for one ticker, ascending by timestamp.
type Series []Bar

// TickerSummary describes the stored history for one ticker.
type TickerSummary struct {
	Min   string `json:"min"`
	Max   string `json:"max"`
	Count int64  `json:"count"`
}

// IndicatorReport is a day-indexed indicator result covering every calendar
// day in the requested window, newest first.
type IndicatorReport struct {
	Indicator string
	Ticker    string
	From      string // YYYY-MM-DD, oldest day in the window
	To        string // YYYY-MM-DD, newest day in the window
	Entries   []ReportEntry
}

// ReportEntry is one calendar day of an IndicatorReport. Value is either the
// computed number rendered as a string, or one of the sentinels.
type ReportEntry struct {
	Date  string
	Value string
}
