package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mohamedkhairy/tvstore/internal/models"
)

var (
	// ErrInvalidPayload is returned when the body is not a JSON object.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrMissingFields is returned when any of ticker/time/open/high/low/
	// close cannot be resolved from the payload.
	ErrMissingFields = errors.New("missing required OHLCV fields")
)

// NormalizeBar extracts an OHLCV bar from an arbitrary JSON payload.
// TradingView alert templates differ per user, so common synonyms are
// accepted per field: symbol/pair for ticker, timestamp/date for time, and
// single-letter o/h/l/c/v. Volume is optional and defaults to 0; every
// other field is required.
func NormalizeBar(raw []byte) (models.Bar, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.Bar{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	bar := models.Bar{}

	ticker, ok := firstString(data, "ticker", "symbol", "pair")
	if !ok {
		return models.Bar{}, fmt.Errorf("%w: ticker", ErrMissingFields)
	}
	bar.Ticker = ticker

	timestamp, ok := firstString(data, "time", "timestamp", "date")
	if !ok {
		return models.Bar{}, fmt.Errorf("%w: time", ErrMissingFields)
	}
	bar.Timestamp = timestamp

	fields := []struct {
		dest *float64
		name string
		keys []string
	}{
		{&bar.Open, "open", []string{"open", "o"}},
		{&bar.High, "high", []string{"high", "h"}},
		{&bar.Low, "low", []string{"low", "l"}},
		{&bar.Close, "close", []string{"close", "c"}},
	}
	for _, f := range fields {
		value, ok := firstNumber(data, f.keys...)
		if !ok {
			return models.Bar{}, fmt.Errorf("%w: %s", ErrMissingFields, f.name)
		}
		*f.dest = value
	}

	if volume, ok := firstNumber(data, "volume", "v"); ok {
		bar.Volume = int64(volume)
	}

	return bar, nil
}

// firstString returns the first non-empty string value among keys.
// Numbers are accepted and rendered, since some alert templates send the
// timestamp unquoted.
func firstString(data map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		switch v := data[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

// firstNumber returns the first numeric value among keys, accepting JSON
// numbers and numeric strings.
func firstNumber(data map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := data[key].(type) {
		case float64:
			return v, true
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}
