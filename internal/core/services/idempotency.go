package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// IdempotencyGuard replays the stored response of a keyed creation request.
//
// A key is bound to the hash of the request that first used it. Reusing
// the key with the same request returns the original response; reusing it
// with a different request fails with domain.ErrConflictingKey. Records
// expire after the configured TTL.
type IdempotencyGuard struct {
	store driven.IdempotencyStore
	ttl   time.Duration
	now   func() time.Time
}

// NewIdempotencyGuard creates a guard. A non-positive ttl uses 24 hours.
func NewIdempotencyGuard(store driven.IdempotencyStore, ttl time.Duration) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = domain.DefaultAppSettings().Idempotency.TTL
	}
	return &IdempotencyGuard{store: store, ttl: ttl, now: time.Now}
}

// RequestHash returns the SHA-256 (hex) of the canonical JSON of request.
// Object keys are sorted, so field order never changes the hash.
func RequestHash(request any) (string, error) {
	raw, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Round-trip through a generic value: encoding/json writes map keys sorted.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("decode request: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("marshal canonical request: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Replay decodes the stored response for key into out.
// Returns false when the key is unused or expired.
func (g *IdempotencyGuard) Replay(ctx context.Context, key, requestHash string, out any) (bool, error) {
	found := domain.LookupOf(g.store.Get(ctx, key))
	switch found.State {
	case domain.LookupNotFound:
		return false, nil
	case domain.LookupFailed:
		return false, fmt.Errorf("get idempotency key: %w", found.Err)
	}

	if found.Value.RequestHash != requestHash {
		return false, fmt.Errorf("%w: %s", domain.ErrConflictingKey, key)
	}
	if err := json.Unmarshal(found.Value.Response, out); err != nil {
		return false, fmt.Errorf("decode stored response: %w", err)
	}

	logger.Debug("Idempotency key %s replayed", key)
	return true, nil
}

// Remember stores response under key.
func (g *IdempotencyGuard) Remember(ctx context.Context, key, requestHash, resourceID string, response any) error {
	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	now := g.now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Response:    raw,
		ResourceID:  resourceID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(g.ttl),
	}
	if err := g.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save idempotency key: %w", err)
	}
	return nil
}
