package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/mohamedkhairy/tvstore/internal/config"
	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// SQLiteStore implements BarStore on a local SQLite file. This is the
// default backend and matches the upstream webhook receiver's storage
// layout: one market_data table with a unique (ticker, timestamp) key.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS market_data (
	timestamp TEXT NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume INTEGER NOT NULL,
	ticker TEXT NOT NULL,
	UNIQUE(ticker, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_market_data_ticker_timestamp ON market_data (ticker, timestamp);
`

// NewSQLiteStore opens (creating if needed) the SQLite database at the
// configured path and ensures the schema exists.
func NewSQLiteStore(cfg config.StorageConfig) (*SQLiteStore, error) {
	dbPath := cfg.SQLitePath

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %q: %w", dir, err)
		}
	}

	// WAL mode allows concurrent readers while a write is in flight.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database at %q: %w", dbPath, err)
	}

	// The go driver benefits from a single writer connection; SQLite
	// serializes writes internally anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Connected to SQLite",
		logger.String("path", dbPath),
	)

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// InsertBar inserts a bar with insert-if-absent semantics. INSERT OR IGNORE
// resolves duplicate-key races inside the engine: at most one logical write
// wins, ties are no-ops.
func (s *SQLiteStore) InsertBar(ctx context.Context, bar models.Bar) error {
	if err := bar.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO market_data (ticker, timestamp, open, high, low, close, volume)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bar.Ticker, bar.Timestamp, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	)
	if err != nil {
		insertTotal.WithLabelValues("error").Inc()
		return &StorageError{Op: "insert bar", Ticker: bar.Ticker, Err: err}
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		insertTotal.WithLabelValues("duplicate").Inc()
		logger.Debug("Duplicate bar ignored",
			logger.String("ticker", bar.Ticker),
			logger.String("timestamp", bar.Timestamp),
		)
		return nil
	}

	insertTotal.WithLabelValues("inserted").Inc()
	return nil
}

// QueryRange returns bars for ticker inside [start, end], ascending by timestamp.
func (s *SQLiteStore) QueryRange(ctx context.Context, ticker, start, end string) (models.Series, error) {
	timer := prometheus.NewTimer(queryLatency.WithLabelValues("query_range"))
	defer timer.ObserveDuration()
	return queryRange(ctx, s.db, queryRangeSQL, ticker, start, end)
}

// ListTickers returns the distinct stored tickers, ascending.
func (s *SQLiteStore) ListTickers(ctx context.Context) ([]string, error) {
	timer := prometheus.NewTimer(queryLatency.WithLabelValues("list_tickers"))
	defer timer.ObserveDuration()
	return listTickers(ctx, s.db)
}

// DateRange returns min/max timestamps and the row count for a ticker,
// or nil when nothing is stored for it.
func (s *SQLiteStore) DateRange(ctx context.Context, ticker string) (*models.TickerSummary, error) {
	timer := prometheus.NewTimer(queryLatency.WithLabelValues("date_range"))
	defer timer.ObserveDuration()
	return dateRange(ctx, s.db, dateRangeSQL, ticker)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
