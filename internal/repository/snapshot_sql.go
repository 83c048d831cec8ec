package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// sqlDialect holds the statements that differ between SQL backends.
type sqlDialect struct {
	name   string
	create string
	load   string
	save   string
}

// SQLSnapshotRepository stores the snapshot as one row of a key-value table.
type SQLSnapshotRepository struct {
	db      *sql.DB
	key     string
	dialect sqlDialect
	mu      sync.Mutex
}

func newSQLSnapshotRepository(db *sql.DB, key string, d sqlDialect) (*SQLSnapshotRepository, error) {
	if key == "" {
		key = DefaultSlotKey
	}
	if _, err := db.Exec(d.create); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLSnapshotRepository{db: db, key: key, dialect: d}, nil
}

// Load reads the snapshot row.
func (r *SQLSnapshotRepository) Load(ctx context.Context) ([]byte, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, r.dialect.load, r.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return []byte(payload), true, nil
}

// Save upserts the snapshot row.
func (r *SQLSnapshotRepository) Save(ctx context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, r.dialect.save, r.key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetStats reports the backend and the stored snapshot size.
func (r *SQLSnapshotRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{
		"backend":  r.dialect.name,
		"slot_key": r.key,
	}

	data, ok, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	stats["present"] = ok
	stats["snapshot_bytes"] = len(data)

	dbStats := r.db.Stats()
	stats["open_connections"] = dbStats.OpenConnections
	return stats, nil
}

// Close closes the database connection.
func (r *SQLSnapshotRepository) Close() error {
	return r.db.Close()
}

var _ SnapshotRepository = (*SQLSnapshotRepository)(nil)
