// Package contentcache wraps a content source with a read-through cache for
// published reads, invalidated by TTL or by revalidation tags.
package contentcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/madrasahweb/site/internal/platform/timeouts"
	"github.com/madrasahweb/site/internal/services/web/content"
	webstorage "github.com/madrasahweb/site/internal/services/web/storage"
)

// DefaultTTL is how long published reads are served from cache.
const DefaultTTL = 60 * time.Second

// Cache is a content.Source that caches published reads in a store. Draft
// reads always go to the wrapped source. Store failures are logged and
// bypassed.
//
// A read that started before a Revalidate of one of its tags is returned
// to the caller but not stored.
type Cache struct {
	source content.Source
	store  webstorage.Store
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu          sync.RWMutex
	generation  uint64
	invalidated map[string]uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wraps source. A nil store disables caching.
func New(source content.Source, store webstorage.Store, opts ...Option) *Cache {
	c := &Cache{
		source: source,
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: slog.Default(),

		invalidated: map[string]uint64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ content.Source = (*Cache)(nil)

// Key returns the cache key for q under perspective.
func Key(q content.Query, perspective content.Perspective) string {
	return "content:" + string(perspective) + ":" + q.Fingerprint()
}

// Fetch serves published reads from the store when fresh and otherwise
// reads through to the source.
func (c *Cache) Fetch(ctx context.Context, q content.Query, perspective content.Perspective) (json.RawMessage, error) {
	if c.store == nil || perspective != content.PerspectivePublished {
		return c.source.Fetch(ctx, q, perspective)
	}
	key := Key(q, perspective)
	if payload, ok := c.lookup(ctx, key); ok {
		return payload, nil
	}

	started := c.currentGeneration()
	raw, err := c.source.Fetch(ctx, q, perspective)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, key, q.CacheTags(), raw, started)
	return raw, nil
}

func (c *Cache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// invalidatedSince reports whether any tag was revalidated after
// generation. Callers hold c.mu.
func (c *Cache) invalidatedSince(generation uint64, tags []string) bool {
	for _, tag := range tags {
		if c.invalidated[tag] > generation {
			return true
		}
	}
	return false
}

func (c *Cache) lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.CacheOperation)
	defer cancel()
	entry, found, err := c.store.GetCacheEntry(opCtx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "content cache read failed", slog.String("key", key), logging.Err(err))
		return nil, false
	}
	if !found || !entry.Fresh(c.now()) {
		return nil, false
	}
	return json.RawMessage(entry.PayloadBytes), true
}

func (c *Cache) remember(ctx context.Context, key string, tags []string, raw json.RawMessage, started uint64) {
	if len(raw) == 0 {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.invalidatedSince(started, tags) {
		c.logger.DebugContext(ctx, "content cache write skipped after revalidation", slog.String("key", key))
		return
	}
	now := c.now().UTC()
	opCtx, cancel := context.WithTimeout(ctx, timeouts.CacheOperation)
	defer cancel()
	err := c.store.PutCacheEntry(opCtx, webstorage.CacheEntry{
		CacheKey:     key,
		Tags:         tags,
		PayloadBytes: raw,
		RefreshedAt:  now,
		ExpiresAt:    now.Add(c.ttl),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "content cache write failed", slog.String("key", key), logging.Err(err))
	}
}

// Revalidate drops cached reads carrying any of tags and reports how many
// entries were removed.
func (c *Cache) Revalidate(ctx context.Context, tags ...string) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for _, tag := range tags {
		c.invalidated[tag] = c.generation
	}
	removed, err := c.store.InvalidateTags(ctx, tags...)
	if err != nil {
		return 0, err
	}
	c.logger.InfoContext(ctx, "content cache revalidated", slog.Any("tags", tags), slog.Int("removed", removed))
	return removed, nil
}
