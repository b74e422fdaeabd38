package series

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Raw-extract rendering. The output shape matches the canonical vendor CSV
// (yfinance-style columns) so downstream consumers need no per-source
// translation: four comment lines, then Date,Open,High,Low,Close,Volume
// rows with OHLC rounded to 2 decimals.

const extractTimeLayout = "2006-01-02 15:04:05"

// Extract fetches [start, end] for ticker and renders the raw CSV extract.
// now stamps the retrieval time in the header.
func (r *Reader) Extract(ctx context.Context, ticker, start, end string, now time.Time) (string, error) {
	s, err := r.FetchRange(ctx, ticker, start, end)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Stock data for %s from %s to %s\n", ticker, start, end)
	fmt.Fprintf(&b, "# Total records: %d\n", len(s))
	b.WriteString("# Source: TradingView webhook\n")
	fmt.Fprintf(&b, "# Data retrieved on: %s\n\n", now.Format(extractTimeLayout))

	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	for _, bar := range s {
		b.WriteString(bar.Date())
		b.WriteByte(',')
		b.WriteString(formatPrice(bar.Open))
		b.WriteByte(',')
		b.WriteString(formatPrice(bar.High))
		b.WriteByte(',')
		b.WriteString(formatPrice(bar.Low))
		b.WriteByte(',')
		b.WriteString(formatPrice(bar.Close))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(bar.Volume, 10))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// formatPrice rounds to 2 decimals and renders without trailing zeros,
// matching the vendor output (150.50 prints as 150.5).
func formatPrice(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
