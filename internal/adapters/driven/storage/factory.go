// Package storage selects a storage backend from settings.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/vector/linear"
	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Backend kinds.
const (
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindMemory   = "memory"
)

// MemoryDSN selects the in-process backend. Nothing survives the process.
const MemoryDSN = "memory://"

// Backend bundles the stores of one storage backend.
type Backend struct {
	Kind        string
	Documents   driven.DocumentStore
	Jobs        driven.JobStore
	Cache       driven.CacheStore
	Idempotency driven.IdempotencyStore
	Search      driven.SimilaritySearch

	close func() error
}

// Close releases the backend connection.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// IsPostgresDSN returns true for postgres:// and postgresql:// URLs.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open creates the backend described by settings.
//   - Postgres DSN: pgvector store with native search
//   - memory://: in-process maps with a linear scan
//   - Empty: SQLite under settings.DataDir with a linear scan
func Open(ctx context.Context, settings domain.StorageSettings, dimensions int) (*Backend, error) {
	if IsPostgresDSN(settings.DSN) {
		store, err := postgres.NewStore(ctx, settings.DSN, dimensions)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Backend{
			Kind:        KindPostgres,
			Documents:   store.DocumentStore(),
			Jobs:        store.JobStore(),
			Cache:       store.CacheStore(),
			Idempotency: store.IdempotencyStore(),
			Search:      store.SimilaritySearch(),
			close:       store.Close,
		}, nil
	}

	if settings.DSN == MemoryDSN {
		documents := memory.NewDocumentStore(dimensions)
		return &Backend{
			Kind:        KindMemory,
			Documents:   documents,
			Jobs:        memory.NewJobStore(),
			Cache:       memory.NewCacheStore(time.Now),
			Idempotency: memory.NewIdempotencyStore(time.Now),
			Search:      linear.New(documents, dimensions),
		}, nil
	}

	if settings.DSN != "" {
		return nil, fmt.Errorf("%w: unsupported storage dsn %q", domain.ErrInvalidInput, settings.DSN)
	}

	store, err := sqlite.NewStore(settings.DataDir, sqlite.WithDimensions(dimensions))
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	documents := store.DocumentStore()
	return &Backend{
		Kind:        KindSQLite,
		Documents:   documents,
		Jobs:        store.JobStore(),
		Cache:       store.CacheStore(),
		Idempotency: store.IdempotencyStore(),
		Search:      linear.New(documents, dimensions),
		close:       store.Close,
	}, nil
}
