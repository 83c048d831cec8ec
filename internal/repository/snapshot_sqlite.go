package repository

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

var sqliteDialect = sqlDialect{
	name: "sqlite",
	create: `
	CREATE TABLE IF NOT EXISTS kv_slots (
		slot_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`,
	load: `SELECT payload FROM kv_slots WHERE slot_key = ?`,
	save: `
		INSERT INTO kv_slots (slot_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
}

// NewSQLiteSnapshotRepository opens (or creates) the SQLite file at dbPath.
func NewSQLiteSnapshotRepository(dbPath, key string) (*SQLSnapshotRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	repo, err := newSQLSnapshotRepository(db, key, sqliteDialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[SQLiteSnapshotRepository] Initialized with database: %s", dbPath)
	return repo, nil
}
