package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/mohamedkhairy/tvstore/internal/config"
	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// PostgresStore implements BarStore on PostgreSQL. Same logical schema as
// the SQLite backend; duplicate inserts resolve through the engine's
// ON CONFLICT DO NOTHING primitive.
type PostgresStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS market_data (
	timestamp TEXT NOT NULL,
	open DOUBLE PRECISION NOT NULL,
	high DOUBLE PRECISION NOT NULL,
	low DOUBLE PRECISION NOT NULL,
	close DOUBLE PRECISION NOT NULL,
	volume BIGINT NOT NULL,
	ticker TEXT NOT NULL,
	UNIQUE (ticker, timestamp)
)`

// NewPostgresStore creates a new PostgreSQL-backed bar store.
func NewPostgresStore(cfg config.StorageConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)

	return &PostgresStore{db: db}, nil
}

// InsertBar inserts a bar with insert-if-absent semantics.
func (p *PostgresStore) InsertBar(ctx context.Context, bar models.Bar) error {
	if err := bar.Validate(); err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx,
		`INSERT INTO market_data (ticker, timestamp, open, high, low, close, volume)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (ticker, timestamp) DO NOTHING`,
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
func (p *PostgresStore) QueryRange(ctx context.Context, ticker, start, end string) (models.Series, error) {
	timer := prometheus.NewTimer(queryLatency.WithLabelValues("query_range"))
	defer timer.ObserveDuration()
	return queryRange(ctx, p.db, queryRangePostgresSQL, ticker, start, end)
}

// ListTickers returns the distinct stored tickers, ascending.
func (p *PostgresStore) ListTickers(ctx context.Context) ([]string, error) {
	timer := prometheus.NewTimer(queryLatency.WithLabelValues("list_tickers"))
	defer timer.ObserveDuration()
	return listTickers(ctx, p.db)
}

// DateRange returns min/max timestamps and the row count for a ticker,
// or nil when nothing is stored for it.
func (p *PostgresStore) DateRange(ctx context.Context, ticker string) (*models.TickerSummary, error) {
	timer := prometheus.NewTimer(queryLatency.WithLabelValues("date_range"))
	defer timer.ObserveDuration()
	return dateRange(ctx, p.db, dateRangePostgresSQL, ticker)
}

// Close closes the database connection
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
