package domain

import "time"

// CacheEntry is a memoised ask response.
type CacheEntry struct {
	Key       string
	Value     []byte
	ExpiresAt time.Time
}

// IsLive returns true if the entry has not expired at now.
func (e *CacheEntry) IsLive(now time.Time) bool {
	return e.ExpiresAt.After(now)
}

// IdempotencyRecord stores the response of a keyed creation request.
type IdempotencyRecord struct {
	// Key is the caller-supplied token.
	Key string

	// RequestHash is the SHA-256 of the canonical request body.
	RequestHash string

	// Response is the serialised original response.
	Response []byte

	// ResourceID identifies the entity the request created.
	ResourceID string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsLive returns true if the record has not expired at now.
func (r *IdempotencyRecord) IsLive(now time.Time) bool {
	return r.ExpiresAt.After(now)
}
