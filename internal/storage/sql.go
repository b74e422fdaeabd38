package storage

import (
	"context"
	"database/sql"

	"github.com/mohamedkhairy/tvstore/internal/models"
)

// Read helpers shared by the SQLite and PostgreSQL backends. Both drivers
// accept ?-style placeholders through database/sql except lib/pq, which
// needs $N, so the statements are passed in per backend.

const (
	queryRangeSQL = `
		SELECT ticker, timestamp, open, high, low, close, volume
		FROM market_data
		WHERE ticker = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`

	queryRangePostgresSQL = `
		SELECT ticker, timestamp, open, high, low, close, volume
		FROM market_data
		WHERE ticker = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC`

	listTickersSQL = `SELECT DISTINCT ticker FROM market_data ORDER BY ticker`

	dateRangeSQL = `
		SELECT MIN(timestamp), MAX(timestamp), COUNT(*)
		FROM market_data
		WHERE ticker = ?`

	dateRangePostgresSQL = `
		SELECT MIN(timestamp), MAX(timestamp), COUNT(*)
		FROM market_data
		WHERE ticker = $1`
)

func queryRange(ctx context.Context, db *sql.DB, query, ticker, start, end string) (models.Series, error) {
	rows, err := db.QueryContext(ctx, query, ticker, start, end)
	if err != nil {
		return nil, &StorageError{Op: "query range", Ticker: ticker, Err: err}
	}
	defer rows.Close()

	series := models.Series{}
	for rows.Next() {
		var bar models.Bar
		if err := rows.Scan(
			&bar.Ticker,
			&bar.Timestamp,
			&bar.Open,
			&bar.High,
			&bar.Low,
			&bar.Close,
			&bar.Volume,
		); err != nil {
			return nil, &StorageError{Op: "scan bar", Ticker: ticker, Err: err}
		}
		series = append(series, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate bars", Ticker: ticker, Err: err}
	}

	return series, nil
}

func listTickers(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, listTickersSQL)
	if err != nil {
		return nil, &StorageError{Op: "list tickers", Err: err}
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, &StorageError{Op: "scan ticker", Err: err}
		}
		tickers = append(tickers, ticker)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "iterate tickers", Err: err}
	}

	return tickers, nil
}

func dateRange(ctx context.Context, db *sql.DB, query, ticker string) (*models.TickerSummary, error) {
	var min, max sql.NullString
	var count int64

	err := db.QueryRowContext(ctx, query, ticker).Scan(&min, &max, &count)
	if err != nil {
		return nil, &StorageError{Op: "date range", Ticker: ticker, Err: err}
	}

	// MIN/MAX over zero rows come back NULL: unknown ticker, not an error.
	if !min.Valid {
		return nil, nil
	}

	return &models.TickerSummary{
		Min:   min.String,
		Max:   max.String,
		Count: count,
	}, nil
}
