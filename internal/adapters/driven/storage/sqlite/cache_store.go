package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// ==================== Cache Store ====================

// cacheStore implements driven.CacheStore.
type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

// Get returns a live entry or domain.ErrCacheMiss.
// Expired rows are left for PurgeExpired.
func (s *cacheStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT key, value, expires_at FROM query_cache WHERE key = ?", key)

	var entry domain.CacheEntry
	var expiresAt int64
	if err := row.Scan(&entry.Key, &entry.Value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}
	entry.ExpiresAt = time.Unix(0, expiresAt).UTC()

	if !entry.IsLive(s.store.now()) {
		return nil, domain.ErrCacheMiss
	}
	return &entry, nil
}

// Put stores value under key, overwriting any existing entry.
func (s *cacheStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := s.store.now().Add(ttl).UnixNano()

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_cache (key, value, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// PurgeExpired removes expired entries.
func (s *cacheStore) PurgeExpired(ctx context.Context) (int, error) {
	return s.store.purge(ctx, "query_cache")
}

// ==================== Idempotency Store ====================

// idempotencyStore implements driven.IdempotencyStore.
type idempotencyStore struct {
	store *Store
}

var _ driven.IdempotencyStore = (*idempotencyStore)(nil)

// Get returns a live record or domain.ErrNotFound.
func (s *idempotencyStore) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT key, request_hash, response, resource_id, created_at, expires_at
		FROM idempotency_keys WHERE key = ?
	`, key)

	var rec domain.IdempotencyRecord
	var createdAt, expiresAt int64
	if err := row.Scan(&rec.Key, &rec.RequestHash, &rec.Response, &rec.ResourceID,
		&createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning idempotency record: %w", err)
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.ExpiresAt = time.Unix(0, expiresAt).UTC()

	if !rec.IsLive(s.store.now()) {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Save stores a record. A live record with the same key is never replaced.
func (s *idempotencyStore) Save(ctx context.Context, rec *domain.IdempotencyRecord) error {
	now := s.store.now().UnixNano()

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, request_hash, response, resource_id, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			request_hash = excluded.request_hash,
			response = excluded.response,
			resource_id = excluded.resource_id,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
		WHERE idempotency_keys.expires_at <= ?
	`, rec.Key, rec.RequestHash, rec.Response, rec.ResourceID,
		rec.CreatedAt.UnixNano(), rec.ExpiresAt.UnixNano(), now)
	if err != nil {
		return fmt.Errorf("saving idempotency record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving idempotency record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrConflictingKey, rec.Key)
	}
	return nil
}

// PurgeExpired removes expired records.
func (s *idempotencyStore) PurgeExpired(ctx context.Context) (int, error) {
	return s.store.purge(ctx, "idempotency_keys")
}

// purge deletes expired rows from a table with an expires_at column.
func (s *Store) purge(ctx context.Context, table string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE expires_at <= ?", s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purging %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging %s: %w", table, err)
	}
	return int(n), nil
}
