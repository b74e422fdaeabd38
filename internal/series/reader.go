package series

import (
	"context"
	"fmt"
	"time"

	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/internal/storage"
)

// DateLayout is the boundary-date format accepted by the read paths.
const DateLayout = "2006-01-02"

// Reader is a thin, read-only view over the bar store that validates
// boundary dates before touching storage and treats empty results as an
// error condition (unlike the store, which reports them as empty).
type Reader struct {
	store storage.BarStore
}

// NewReader creates a Reader over the given store.
func NewReader(store storage.BarStore) *Reader {
	return &Reader{store: store}
}

// ParseDate validates a YYYY-MM-DD boundary date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidDateFormat, value)
	}
	return t, nil
}

// FetchRange returns the ordered bars for ticker in [start, end] inclusive.
// Both dates must be valid YYYY-MM-DD; a malformed date fails before any
// storage access. start <= end is the caller's responsibility: an inverted
// range simply matches nothing and reports ErrNoDataAvailable.
func (r *Reader) FetchRange(ctx context.Context, ticker, start, end string) (models.Series, error) {
	if _, err := ParseDate(start); err != nil {
		return nil, err
	}
	if _, err := ParseDate(end); err != nil {
		return nil, err
	}

	s, err := r.store.QueryRange(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: no bars for %q between %s and %s",
			models.ErrNoDataAvailable, ticker, start, end)
	}
	return s, nil
}
