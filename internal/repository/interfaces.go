package repository

import (
	"context"
)

// DefaultSlotKey is the name of the slot holding the inventory snapshot.
const DefaultSlotKey = "inventory-items"

// SnapshotRepository stores a single named snapshot.
type SnapshotRepository interface {
	// Load returns the snapshot, or ok=false when the slot has never been written.
	Load(ctx context.Context) (data []byte, ok bool, err error)

	// Save replaces the snapshot atomically.
	Save(ctx context.Context, data []byte) error

	// GetStats returns backend statistics for the admin endpoint.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
