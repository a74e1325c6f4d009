package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Ensure the stores implement their interfaces.
var (
	_ driven.CacheStore       = (*CacheStore)(nil)
	_ driven.IdempotencyStore = (*IdempotencyStore)(nil)
)

// CacheStore is an in-memory implementation of driven.CacheStore.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
	now     func() time.Time
}

// NewCacheStore creates a new in-memory cache store.
// A nil clock uses time.Now.
func NewCacheStore(now func() time.Time) *CacheStore {
	if now == nil {
		now = time.Now
	}
	return &CacheStore{
		entries: make(map[string]domain.CacheEntry),
		now:     now,
	}
}

// Get returns a live entry or domain.ErrCacheMiss.
func (s *CacheStore) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok || !entry.IsLive(s.now()) {
		return nil, domain.ErrCacheMiss
	}
	entry.Value = append([]byte(nil), entry.Value...)
	return &entry, nil
}

// Put stores value under key, overwriting any existing entry.
func (s *CacheStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = domain.CacheEntry{
		Key:       key,
		Value:     append([]byte(nil), value...),
		ExpiresAt: s.now().Add(ttl),
	}
	return nil
}

// PurgeExpired removes expired entries.
func (s *CacheStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for key, entry := range s.entries {
		if !entry.IsLive(now) {
			delete(s.entries, key)
			n++
		}
	}
	return n, nil
}

// IdempotencyStore is an in-memory implementation of driven.IdempotencyStore.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]domain.IdempotencyRecord
	now     func() time.Time
}

// NewIdempotencyStore creates a new in-memory idempotency store.
// A nil clock uses time.Now.
func NewIdempotencyStore(now func() time.Time) *IdempotencyStore {
	if now == nil {
		now = time.Now
	}
	return &IdempotencyStore{
		records: make(map[string]domain.IdempotencyRecord),
		now:     now,
	}
}

// Get returns a live record or domain.ErrNotFound.
func (s *IdempotencyStore) Get(_ context.Context, key string) (*domain.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok || !rec.IsLive(s.now()) {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Save stores a record. A live record with the same key is never replaced.
func (s *IdempotencyStore) Save(_ context.Context, rec *domain.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[rec.Key]; ok && existing.IsLive(s.now()) {
		return fmt.Errorf("%w: %s", domain.ErrConflictingKey, rec.Key)
	}
	s.records[rec.Key] = *rec
	return nil
}

// PurgeExpired removes expired records.
func (s *IdempotencyStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for key, rec := range s.records {
		if !rec.IsLive(now) {
			delete(s.records, key)
			n++
		}
	}
	return n, nil
}
