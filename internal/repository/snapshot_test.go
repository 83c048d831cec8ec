package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom-api/internal/cache"
)

func exerciseSnapshot(t *testing.T, repo SnapshotRepository) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh slot is empty")

	require.NoError(t, repo.Save(ctx, []byte(`[{"id":"1"}]`)))
	require.NoError(t, repo.Save(ctx, []byte(`[{"id":"1"},{"id":"2"}]`)))

	data, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"},{"id":"2"}]`, string(data))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, stats["present"])
}

func TestSQLiteSnapshotRepository(t *testing.T) {
	repo, err := NewSQLiteSnapshotRepository(filepath.Join(t.TempDir(), "data", "inventory.db"), "")
	require.NoError(t, err)
	defer repo.Close()

	exerciseSnapshot(t, repo)

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", stats["backend"])
	assert.Equal(t, DefaultSlotKey, stats["slot_key"])
}

func TestSQLiteSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	ctx := context.Background()

	repo, err := NewSQLiteSnapshotRepository(path, "slot-a")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, []byte(`[]`)))
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteSnapshotRepository(path, "slot-a")
	require.NoError(t, err)
	defer repo.Close()

	data, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(data))

	other, err := NewSQLiteSnapshotRepository(path, "slot-b")
	require.NoError(t, err)
	defer other.Close()
	_, ok, err = other.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "slots are keyed")
}

func TestCacheSnapshotRepository(t *testing.T) {
	repo := NewCacheSnapshotRepository(cache.NewMemoryCache(), "", "memory")
	defer repo.Close()

	exerciseSnapshot(t, repo)
}
