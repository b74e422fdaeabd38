package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBar_StandardFields(t *testing.T) {
	raw := []byte(`{"ticker":"AAPL","time":"2024-01-02","open":150.0,"high":151.5,"low":149.25,"close":150.75,"volume":12345}`)

	bar, err := NormalizeBar(raw)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", bar.Ticker)
	assert.Equal(t, "2024-01-02", bar.Timestamp)
	assert.Equal(t, 150.0, bar.Open)
	assert.Equal(t, 151.5, bar.High)
	assert.Equal(t, 149.25, bar.Low)
	assert.Equal(t, 150.75, bar.Close)
	assert.Equal(t, int64(12345), bar.Volume)
}

func TestNormalizeBar_Synonyms(t *testing.T) {
	raw := []byte(`{"symbol":"BTCUSD","timestamp":"2024-01-02T00:00:00Z","o":42000,"h":43000,"l":41000,"c":42500,"v":99}`)

	bar, err := NormalizeBar(raw)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSD", bar.Ticker)
	assert.Equal(t, "2024-01-02T00:00:00Z", bar.Timestamp)
	assert.Equal(t, 42000.0, bar.Open)
	assert.Equal(t, int64(99), bar.Volume)

	raw = []byte(`{"pair":"ETHUSD","date":"2024-01-02","open":"2200.5","high":"2300","low":"2100","close":"2250"}`)
	bar, err = NormalizeBar(raw)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSD", bar.Ticker)
	assert.Equal(t, 2200.5, bar.Open)
	// Volume is optional and defaults to 0.
	assert.Equal(t, int64(0), bar.Volume)
}

func TestNormalizeBar_MissingFields(t *testing.T) {
	cases := []string{
		`{"time":"2024-01-02","open":1,"high":2,"low":0.5,"close":1.5}`,
		`{"ticker":"AAPL","open":1,"high":2,"low":0.5,"close":1.5}`,
		`{"ticker":"AAPL","time":"2024-01-02","high":2,"low":0.5,"close":1.5}`,
		`{"ticker":"AAPL","time":"2024-01-02","open":1,"high":2,"low":0.5}`,
	}
	for _, raw := range cases {
		_, err := NormalizeBar([]byte(raw))
		assert.ErrorIs(t, err, ErrMissingFields, raw)
	}
}

func TestNormalizeBar_InvalidJSON(t *testing.T) {
	_, err := NormalizeBar([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
