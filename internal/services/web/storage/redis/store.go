// Package redis provides a content cache store shared across site
// instances through Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/platform/timeouts"
	webstorage "github.com/madrasahweb/site/internal/services/web/storage"
	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "site:cache:"

// Options configures a Store.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key. Defaults to "site:cache:".
	Prefix string
}

// Store keeps cache entries as JSON values with Redis expiry and tracks
// tag membership in sets.
type Store struct {
	client *goredis.Client
	prefix string
}

type envelope struct {
	Payload     []byte   `json:"payload"`
	Tags        []string `json:"tags,omitempty"`
	RefreshedAt int64    `json:"refreshedAt,omitempty"`
	ExpiresAt   int64    `json:"expiresAt,omitempty"`
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	if parsed, err := url.Parse(addr); err == nil && parsed.Scheme == "redis" {
		addr = parsed.Host
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*timeouts.CacheOperation)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string) *Store {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) entryKey(cacheKey string) string {
	return s.prefix + "entry:" + cacheKey
}

func (s *Store) tagKey(tag string) string {
	return s.prefix + "tag:" + tag
}

// GetCacheEntry loads a cache entry by key.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (webstorage.CacheEntry, bool, error) {
	if s == nil || s.client == nil {
		return webstorage.CacheEntry{}, false, errors.New("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return webstorage.CacheEntry{}, false, errors.New("cache key is required")
	}
	raw, err := s.client.Get(ctx, s.entryKey(cacheKey)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return webstorage.CacheEntry{}, false, nil
		}
		return webstorage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	return decodeEntry(cacheKey, raw)
}

// PutCacheEntry stores entry and records its tags.
func (s *Store) PutCacheEntry(ctx context.Context, entry webstorage.CacheEntry) error {
	if s == nil || s.client == nil {
		return errors.New("storage is not configured")
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return errors.New("cache key is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return errors.New("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = time.Now().UTC()
	}
	ttl := time.Duration(0)
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	raw, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	key := s.entryKey(entry.CacheKey)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, key, raw, ttl)
		for _, tag := range entry.Tags {
			pipe.SAdd(ctx, s.tagKey(tag), entry.CacheKey)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a cache entry by key. Tag sets are pruned lazily
// on invalidation.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if s == nil || s.client == nil {
		return errors.New("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return errors.New("cache key is required")
	}
	if err := s.client.Del(ctx, s.entryKey(cacheKey)).Err(); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// InvalidateTags removes every entry recorded under any of tags.
func (s *Store) InvalidateTags(ctx context.Context, tags ...string) (int, error) {
	if s == nil || s.client == nil {
		return 0, errors.New("storage is not configured")
	}
	seen := map[string]struct{}{}
	var entryKeys []string
	var tagKeys []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tagKey := s.tagKey(tag)
		tagKeys = append(tagKeys, tagKey)
		members, err := s.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return 0, fmt.Errorf("list tag %s: %w", tag, err)
		}
		for _, member := range members {
			if _, ok := seen[member]; ok {
				continue
			}
			seen[member] = struct{}{}
			entryKeys = append(entryKeys, s.entryKey(member))
		}
	}
	if len(tagKeys) == 0 {
		return 0, nil
	}

	var removed int64
	if len(entryKeys) > 0 {
		n, err := s.client.Del(ctx, entryKeys...).Result()
		if err != nil {
			return 0, fmt.Errorf("invalidate cache entries: %w", err)
		}
		removed = n
	}
	if err := s.client.Del(ctx, tagKeys...).Err(); err != nil {
		return 0, fmt.Errorf("clear tag sets: %w", err)
	}
	return int(removed), nil
}

func encodeEntry(entry webstorage.CacheEntry) ([]byte, error) {
	env := envelope{
		Payload:     entry.PayloadBytes,
		Tags:        entry.Tags,
		RefreshedAt: toMillis(entry.RefreshedAt),
		ExpiresAt:   toMillis(entry.ExpiresAt),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return raw, nil
}

func decodeEntry(cacheKey string, raw []byte) (webstorage.CacheEntry, bool, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return webstorage.CacheEntry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return webstorage.CacheEntry{
		CacheKey:     cacheKey,
		Tags:         env.Tags,
		PayloadBytes: env.Payload,
		RefreshedAt:  fromMillis(env.RefreshedAt),
		ExpiresAt:    fromMillis(env.ExpiresAt),
	}, true, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

var _ webstorage.Store = (*Store)(nil)
