package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	webstorage "github.com/madrasahweb/site/internal/services/web/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "web-cache.db")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpenRunsMigrations(t *testing.T) {
	_, path := openTestStore(t)

	sqlDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() {
		_ = sqlDB.Close()
	}()

	for _, table := range []string{"cache_entries", "cache_tags"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}

func TestCacheEntryRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	refreshedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	expiresAt := refreshedAt.Add(time.Minute)

	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{
		CacheKey:     "content:published:abc",
		Tags:         []string{"newsEvent", " ", "newsEvent", "home"},
		PayloadBytes: []byte(`[{"_id":"n1"}]`),
		RefreshedAt:  refreshedAt,
		ExpiresAt:    expiresAt,
	}))

	entry, found, err := store.GetCacheEntry(ctx, "content:published:abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"_id":"n1"}]`, string(entry.PayloadBytes))
	assert.Equal(t, []string{"home", "newsEvent"}, entry.Tags)
	assert.True(t, entry.RefreshedAt.Equal(refreshedAt))
	assert.True(t, entry.ExpiresAt.Equal(expiresAt))
	assert.True(t, entry.Fresh(refreshedAt))
	assert.False(t, entry.Fresh(expiresAt))
}

func TestGetMissingEntry(t *testing.T) {
	store, _ := openTestStore(t)

	_, found, err := store.GetCacheEntry(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = store.GetCacheEntry(context.Background(), " ")
	require.Error(t, err)
}

func TestPutValidatesEntry(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.Error(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{PayloadBytes: []byte("x")}))
	require.Error(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "k"}))
}

func TestPutReplacesTags(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "k", Tags: []string{"page"}, PayloadBytes: []byte("1")}))
	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "k", Tags: []string{"facility"}, PayloadBytes: []byte("2")}))

	removed, err := store.InvalidateTags(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	entry, found, err := store.GetCacheEntry(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2", string(entry.PayloadBytes))
	assert.Equal(t, []string{"facility"}, entry.Tags)
}

func TestInvalidateTags(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "news-all", Tags: []string{"newsEvent"}, PayloadBytes: []byte("[]")}))
	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "news-featured", Tags: []string{"newsEvent", "home"}, PayloadBytes: []byte("[]")}))
	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "programs", Tags: []string{"academicProgram"}, PayloadBytes: []byte("[]")}))

	removed, err := store.InvalidateTags(ctx, "newsEvent", "home")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, found, err := store.GetCacheEntry(ctx, "news-featured")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = store.GetCacheEntry(ctx, "programs")
	require.NoError(t, err)
	assert.True(t, found)

	removed, err = store.InvalidateTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestDeleteAndPurge(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "old", PayloadBytes: []byte("1"), ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "live", PayloadBytes: []byte("2"), ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.PutCacheEntry(ctx, webstorage.CacheEntry{CacheKey: "forever", PayloadBytes: []byte("3")}))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	require.NoError(t, store.DeleteCacheEntry(ctx, "live"))
	_, found, err := store.GetCacheEntry(ctx, "live")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.GetCacheEntry(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, found)
	require.Error(t, store.DeleteCacheEntry(ctx, ""))
}
