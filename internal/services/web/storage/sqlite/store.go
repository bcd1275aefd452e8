package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/madrasahweb/site/internal/services/web/storage"
	"github.com/madrasahweb/site/internal/services/web/storage/sqlite/migrations"
)

// Store provides SQLite-backed persistence for cached content reads.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a cache SQLite store.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := sqlitemigrate.Open(ctx, path, migrations.FS, "")
	if err != nil {
		return nil, err
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetCacheEntry loads a cache payload, metadata and tags by key.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (webstorage.CacheEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.CacheEntry{}, false, errors.New("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return webstorage.CacheEntry{}, false, errors.New("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT cache_key, payload_json, refreshed_at, expires_at
		 FROM cache_entries
		 WHERE cache_key = ?`,
		cacheKey,
	)

	var entry webstorage.CacheEntry
	var refreshedAt int64
	var expiresAt int64
	if err := row.Scan(&entry.CacheKey, &entry.PayloadBytes, &refreshedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.CacheEntry{}, false, nil
		}
		return webstorage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)

	tags, err := s.tagsFor(ctx, cacheKey)
	if err != nil {
		return webstorage.CacheEntry{}, false, err
	}
	entry.Tags = tags
	return entry, true, nil
}

func (s *Store) tagsFor(ctx context.Context, cacheKey string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT tag FROM cache_tags WHERE cache_key = ? ORDER BY tag`, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("list cache tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan cache tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache tags: %w", err)
	}
	return tags, nil
}

// PutCacheEntry upserts a cache payload and replaces its tags.
func (s *Store) PutCacheEntry(ctx context.Context, entry webstorage.CacheEntry) error {
	if s == nil || s.sqlDB == nil {
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

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put cache entry: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO cache_entries (cache_key, payload_json, refreshed_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    payload_json = excluded.payload_json,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		entry.PayloadBytes,
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	); err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_tags WHERE cache_key = ?`, entry.CacheKey); err != nil {
		return fmt.Errorf("clear cache tags: %w", err)
	}
	for _, tag := range normalizeTags(entry.Tags) {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO cache_tags (cache_key, tag) VALUES (?, ?)`,
			entry.CacheKey,
			tag,
		); err != nil {
			return fmt.Errorf("put cache tag: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a cache entry by key.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return errors.New("cache key is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_tags WHERE cache_key = ?`, cacheKey); err != nil {
		return fmt.Errorf("delete cache tags: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, cacheKey); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// InvalidateTags removes every entry carrying any of tags.
func (s *Store) InvalidateTags(ctx context.Context, tags ...string) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, errors.New("storage is not configured")
	}
	tags = normalizeTags(tags)
	if len(tags) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tags)), ", ")
	args := make([]any, len(tags))
	for i, tag := range tags {
		args[i] = tag
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin invalidate tags: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	keysQuery := `SELECT DISTINCT cache_key FROM cache_tags WHERE tag IN (` + placeholders + `)`
	res, err := tx.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key IN (`+keysQuery+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("invalidate cache entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count invalidated entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_tags WHERE cache_key NOT IN (SELECT cache_key FROM cache_entries)`); err != nil {
		return 0, fmt.Errorf("prune cache tags: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit invalidate tags: %w", err)
	}
	return int(removed), nil
}

// PurgeExpired removes entries that expired before now.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, errors.New("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cache_entries WHERE expires_at > 0 AND expires_at <= ?`,
		timeToUnixMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("purge expired entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count purged entries: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_tags WHERE cache_key NOT IN (SELECT cache_key FROM cache_entries)`); err != nil {
		return 0, fmt.Errorf("prune cache tags: %w", err)
	}
	return int(removed), nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
