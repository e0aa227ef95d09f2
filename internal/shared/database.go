package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens the SQLite database described by cfg and verifies the
// connection. The DSN sets a busy timeout so credential writes fired from
// token-refresh callbacks wait out a write lock held by the track cache
// instead of failing immediately. Pool limits of zero keep the driver
// defaults; a Path of ":memory:" opens an in-memory database.
func NewDatabase(cfg DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return db, nil
}
