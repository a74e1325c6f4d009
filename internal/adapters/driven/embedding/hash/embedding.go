// Package hash provides a deterministic hash-based embedding service.
//
// Vectors are derived from the SHA-256 digest of the text, so the same text
// yields a bit-identical vector in every run and on every platform. They
// carry no semantic meaning.
package hash

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 1536
	ModelName         = "hash-sha256"
)

// Config holds configuration for the hash embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 1536).
	Dimensions int
}

// EmbeddingService generates embeddings from SHA-256 digests.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a new hash embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: cfg.Dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Vector(text, s.dimensions), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		embeddings[i] = Vector(text, s.dimensions)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding scheme.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// Vector maps text to a unit vector of length dim.
//
// Each digest byte x becomes x/127.5-1; the 32 values repeat cyclically up
// to dim and the result is L2-normalised in float64 before narrowing to
// float32. A zero-magnitude vector is returned unchanged.
func Vector(text string, dim int) []float32 {
	digest := sha256.Sum256([]byte(text))

	values := make([]float64, dim)
	for i := range values {
		values[i] = float64(digest[i%len(digest)])/127.5 - 1.0
	}

	// The explicit conversion keeps the compiler from fusing into FMA.
	var sum float64
	for _, v := range values {
		sum += float64(v * v)
	}
	norm := math.Sqrt(sum)

	out := make([]float32, dim)
	if norm == 0 {
		return out
	}
	for i, v := range values {
		out[i] = float32(v / norm)
	}
	return out
}
