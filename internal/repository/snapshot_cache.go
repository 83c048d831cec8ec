package repository

import (
	"context"
	"errors"
	"fmt"

	"stockroom-api/internal/cache"
)

// CacheSnapshotRepository keeps the snapshot under one key of a cache.Cache
// (memory or Redis).
type CacheSnapshotRepository struct {
	cache   cache.Cache
	key     string
	backend string
}

// NewCacheSnapshotRepository wraps c. backend names it in stats output.
func NewCacheSnapshotRepository(c cache.Cache, key, backend string) *CacheSnapshotRepository {
	if key == "" {
		key = DefaultSlotKey
	}
	return &CacheSnapshotRepository{cache: c, key: key, backend: backend}
}

// Load reads the snapshot key.
func (r *CacheSnapshotRepository) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := r.cache.Get(ctx, r.key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, true, nil
}

// Save writes the snapshot key without expiry.
func (r *CacheSnapshotRepository) Save(ctx context.Context, data []byte) error {
	if err := r.cache.Set(ctx, r.key, data, 0); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetStats reports the backend and whether the snapshot exists.
func (r *CacheSnapshotRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	ok, err := r.cache.Exists(ctx, r.key)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"backend":  r.backend,
		"slot_key": r.key,
		"present":  ok,
	}, nil
}

// Close closes the underlying cache.
func (r *CacheSnapshotRepository) Close() error {
	return r.cache.Close()
}

var _ SnapshotRepository = (*CacheSnapshotRepository)(nil)
