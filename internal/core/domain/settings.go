package domain

import "time"

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// ChunkSize is the window length in characters.
	ChunkSize int

	// Overlap is the number of characters shared by consecutive windows.
	Overlap int
}

// EmbeddingSettings configures the hash embedder.
type EmbeddingSettings struct {
	// Dimensions is the vector length D.
	Dimensions int
}

// AskSettings configures the ask pipeline.
type AskSettings struct {
	// DefaultK is used when a request does not set k.
	DefaultK int

	// Fanout multiplies k to size the similarity search.
	Fanout int

	// CacheTTL is the lifetime of a cached answer.
	CacheTTL time.Duration
}

// JobSettings configures job matching.
type JobSettings struct {
	// DefaultTopN is used when a match request does not set top_n.
	DefaultTopN int
}

// IdempotencySettings configures idempotency key retention.
type IdempotencySettings struct {
	TTL time.Duration
}

// StorageSettings selects the storage backend.
type StorageSettings struct {
	// DSN selects Postgres when it starts with postgres:// or postgresql://.
	// Empty means SQLite under DataDir.
	DSN string

	// DataDir holds the SQLite database.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunking    ChunkingSettings
	Embedding   EmbeddingSettings
	Ask         AskSettings
	Jobs        JobSettings
	Idempotency IdempotencySettings
	Storage     StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			ChunkSize: 800,
			Overlap:   200,
		},
		Embedding: EmbeddingSettings{
			Dimensions: 1536,
		},
		Ask: AskSettings{
			DefaultK: 5,
			Fanout:   5,
			CacheTTL: time.Hour,
		},
		Jobs: JobSettings{
			DefaultTopN: 10,
		},
		Idempotency: IdempotencySettings{
			TTL: 24 * time.Hour,
		},
	}
}
