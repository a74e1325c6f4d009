// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must be deterministic: the same text always yields the
// same vector, and every non-zero vector has unit L2 norm.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the dimension the stores were created with.
	Dimensions() int

	// ModelName returns the name of the embedding scheme.
	ModelName() string

	// Close releases resources.
	Close() error
}
