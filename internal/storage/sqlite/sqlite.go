// Package sqlite persists user accounts, feedback and ratings. Each
// storage owns its table schema; all writes are single independent
// inserts relying on SQLite's native atomicity.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/snehareddy22/airaware/pkg/logger"
	_ "modernc.org/sqlite"
)

// Timestamp layout stored as text, matching the original schema.
const timeLayout = "2006-01-02 15:04:05"

// Open opens (or creates) the SQLite database at dbPath with the
// pragmas the application relies on.
func Open(dbPath string, log *logger.Logger) (*sql.DB, error) {
	log.Named("sqlite").Info("Opening SQLite database",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}
