package storage

import (
	"context"
	"time"
)

// CacheEntry stores one cached content payload and its freshness metadata.
//
// Cache data is always derived and can be discarded and rebuilt from the
// content source.
type CacheEntry struct {
	CacheKey     string
	Tags         []string
	PayloadBytes []byte
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// Fresh reports whether the entry may still be served at now. A zero
// ExpiresAt never expires.
func (e CacheEntry) Fresh(now time.Time) bool {
	return e.ExpiresAt.IsZero() || now.Before(e.ExpiresAt)
}

// Store persists cached content payloads with revalidation tags.
type Store interface {
	Close() error
	GetCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, cacheKey string) error
	// InvalidateTags removes every entry carrying any of tags and reports
	// how many entries were removed.
	InvalidateTags(ctx context.Context, tags ...string) (int, error)
}
