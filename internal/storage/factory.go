package storage

import (
	"fmt"

	"github.com/mohamedkhairy/tvstore/internal/config"
)

// New creates the BarStore selected by the storage configuration.
func New(cfg config.StorageConfig) (BarStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteStore(cfg)
	case "postgres":
		return NewPostgresStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
