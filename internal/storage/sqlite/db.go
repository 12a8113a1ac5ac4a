// Package sqlite persists analysis run history. The sidecar next to each
// video remains the source of truth for analysis results; this database only
// tracks what was processed, when and how it went.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// Open opens (creating if needed) the history database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", path, err)
	}

	// modernc's driver is not safe for concurrent writers over multiple
	// connections; a single connection serializes access.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	return db, nil
}
