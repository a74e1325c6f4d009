package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// CacheStore memoises serialised responses keyed by an opaque string.
type CacheStore interface {
	// Get returns a live entry, or domain.ErrCacheMiss if the key is absent
	// or expired.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)

	// Put stores value under key, overwriting any existing entry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// PurgeExpired removes expired entries and returns how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}

// IdempotencyStore persists idempotency keys.
type IdempotencyStore interface {
	// Get returns a live record, or domain.ErrNotFound if the key is absent
	// or expired.
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)

	// Save stores a record, replacing an expired record with the same key.
	// Returns domain.ErrConflictingKey if a live record already holds the key.
	Save(ctx context.Context, record *domain.IdempotencyRecord) error

	// PurgeExpired removes expired records and returns how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}
