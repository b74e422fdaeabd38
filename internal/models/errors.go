package models

import "errors"

var (
	ErrInvalidTicker    = errors.New("invalid ticker")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidVolume    = errors.New("invalid volume")

	// ErrInvalidDateFormat is returned when a boundary date does not parse
	// as YYYY-MM-DD. It is always raised before any storage access.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrNoDataAvailable is returned by the read paths when a range or
	// warm-up query matches zero bars. The store itself never returns it;
	// it reports empty results.
	ErrNoDataAvailable = errors.New("no data available")

	// ErrUnsupportedIndicator is returned when the requested indicator name
	// has no registered formula.
	ErrUnsupportedIndicator = errors.New("unsupported indicator")
)
