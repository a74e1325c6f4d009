// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Resume and chunk persistence
//   - JobStore: Job posting persistence
//   - CacheStore: Ask response memoisation with TTL
//   - IdempotencyStore: Idempotency key records
//
// SQLite has no vector type. Embeddings are stored as little-endian float32
// BLOBs and searched by the linear-scan adapter in vector/linear.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.resumerag/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
