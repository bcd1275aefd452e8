package contentcache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/madrasahweb/site/internal/services/web/content"
	webstorage "github.com/madrasahweb/site/internal/services/web/storage"
	"github.com/madrasahweb/site/internal/services/web/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls    int
	response string
	err      error
}

func (s *countingSource) Fetch(context.Context, content.Query, content.Perspective) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.response), nil
}

// gatedSource signals started on each Fetch and waits for release.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
	calls   int
}

func (s *gatedSource) Fetch(ctx context.Context, _ content.Query, _ content.Perspective) (json.RawMessage, error) {
	s.calls++
	s.started <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return json.RawMessage(`[{"_id":"stale"}]`), nil
}

type failingStore struct{}

func (failingStore) Close() error { return nil }
func (failingStore) GetCacheEntry(context.Context, string) (webstorage.CacheEntry, bool, error) {
	return webstorage.CacheEntry{}, false, errors.New("disk full")
}
func (failingStore) PutCacheEntry(context.Context, webstorage.CacheEntry) error {
	return errors.New("disk full")
}
func (failingStore) DeleteCacheEntry(context.Context, string) error { return errors.New("disk full") }
func (failingStore) InvalidateTags(context.Context, ...string) (int, error) {
	return 0, errors.New("disk full")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var newsQuery = content.Query{Type: content.TypeNewsEvent, Order: []content.Order{content.Desc("publishedAt")}}

func TestCacheHitAvoidsSecondSourceCall(t *testing.T) {
	src := &countingSource{response: `[{"_id":"n1"}]`}
	cache := New(src, openStore(t), WithLogger(quietLogger()))
	ctx := context.Background()

	first, err := cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)
	second, err := cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.JSONEq(t, string(first), string(second))
}

func TestExpiredEntryRefetches(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	src := &countingSource{response: `[]`}
	cache := New(src, openStore(t), WithTTL(time.Minute), WithClock(func() time.Time { return now }), WithLogger(quietLogger()))
	ctx := context.Background()

	_, err := cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestRevalidateForcesRefetch(t *testing.T) {
	src := &countingSource{response: `[]`}
	cache := New(src, openStore(t), WithLogger(quietLogger()))
	ctx := context.Background()

	_, err := cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)

	removed, err := cache.Revalidate(ctx, content.TypeAcademicProgram)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	_, err = cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	removed, err = cache.Revalidate(ctx, content.TypeNewsEvent)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestReadOverlappingRevalidateIsNotStored(t *testing.T) {
	src := &gatedSource{started: make(chan struct{}, 1), release: make(chan struct{})}
	store := openStore(t)
	cache := New(src, store, WithLogger(quietLogger()))
	ctx := context.Background()

	type result struct {
		raw json.RawMessage
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
		done <- result{raw: raw, err: err}
	}()

	<-src.started
	_, err := cache.Revalidate(ctx, content.TypeNewsEvent)
	require.NoError(t, err)
	close(src.release)

	got := <-done
	require.NoError(t, got.err)
	assert.JSONEq(t, `[{"_id":"stale"}]`, string(got.raw))

	_, found, err := store.GetCacheEntry(ctx, Key(newsQuery, content.PerspectivePublished))
	require.NoError(t, err)
	assert.False(t, found, "read started before revalidation was cached")

	_, err = cache.Fetch(ctx, newsQuery, content.PerspectivePublished)
	require.NoError(t, err)
	<-src.started
	assert.Equal(t, 2, src.calls)
	_, found, err = store.GetCacheEntry(ctx, Key(newsQuery, content.PerspectivePublished))
	require.NoError(t, err)
	assert.True(t, found, "read after revalidation should be cached")
}

func TestPreviewReadsBypassCache(t *testing.T) {
	src := &countingSource{response: `[]`}
	cache := New(src, openStore(t), WithLogger(quietLogger()))
	ctx := context.Background()

	for range 2 {
		_, err := cache.Fetch(ctx, newsQuery, content.PerspectivePreviewDrafts)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.calls)
}

func TestStoreFailuresAreBypassed(t *testing.T) {
	src := &countingSource{response: `[{"_id":"f1"}]`}
	cache := New(src, failingStore{}, WithLogger(quietLogger()))

	raw, err := cache.Fetch(context.Background(), content.Query{Type: content.TypeFacility}, content.PerspectivePublished)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"f1"}]`, string(raw))

	_, err = cache.Revalidate(context.Background(), content.TypeFacility)
	require.Error(t, err)
}

func TestSourceErrorsAreNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("cms down")}
	store := openStore(t)
	cache := New(src, store, WithLogger(quietLogger()))

	_, err := cache.Fetch(context.Background(), newsQuery, content.PerspectivePublished)
	require.Error(t, err)

	_, found, err := store.GetCacheEntry(context.Background(), Key(newsQuery, content.PerspectivePublished))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilStorePassesThrough(t *testing.T) {
	src := &countingSource{response: `[]`}
	cache := New(src, nil)
	for range 2 {
		_, err := cache.Fetch(context.Background(), newsQuery, content.PerspectivePublished)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.calls)

	removed, err := cache.Revalidate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestKeySeparatesPerspectives(t *testing.T) {
	assert.NotEqual(t, Key(newsQuery, content.PerspectivePublished), Key(newsQuery, content.PerspectivePreviewDrafts))
}
