package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var mysqlDialect = sqlDialect{
	name: "mysql",
	create: `
	CREATE TABLE IF NOT EXISTS kv_slots (
		slot_key VARCHAR(191) PRIMARY KEY,
		payload LONGTEXT NOT NULL,
		updated_at DATETIME(3) NOT NULL
	)`,
	load: `SELECT payload FROM kv_slots WHERE slot_key = ?`,
	save: `
		INSERT INTO kv_slots (slot_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			payload = VALUES(payload),
			updated_at = VALUES(updated_at)`,
}

// NewMySQLSnapshotRepository connects to MySQL.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLSnapshotRepository(dsn, key string) (*SQLSnapshotRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	repo, err := newSQLSnapshotRepository(db, key, mysqlDialect)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[MySQLSnapshotRepository] Initialized")
	return repo, nil
}
