package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Parser Errors. Not retryable: the caller must fix the input.

	// ErrUnsupportedFormat indicates the filename extension has no parser.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoSupportedEntry indicates an archive holds no parseable entry.
	ErrNoSupportedEntry = errors.New("no supported entry in archive")

	// ErrEmbeddingDimensionMismatch indicates a vector whose length differs
	// from the configured dimension. This is a programming error.
	ErrEmbeddingDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDocumentNotCompleted indicates a document is still processing or failed.
	// Search and matching skip such documents.
	ErrDocumentNotCompleted = errors.New("document not completed")

	// ErrCacheMiss indicates no live cache entry exists for a key.
	// It is normal control flow, not a failure.
	ErrCacheMiss = errors.New("cache miss")

	// ErrConflictingKey indicates an idempotency key was reused with a
	// different request payload.
	ErrConflictingKey = errors.New("idempotency key reused with a different request")
)
