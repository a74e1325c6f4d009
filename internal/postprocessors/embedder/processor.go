// Package embedder provides the processor that assigns chunk embeddings.
package embedder

import (
	"context"
	"fmt"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Processor embeds chunk text with an EmbeddingService.
// It implements the PostProcessor interface.
type Processor struct {
	service driven.EmbeddingService
}

// New creates an embedder processor.
func New(service driven.EmbeddingService) *Processor {
	return &Processor{service: service}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "embedder"
}

// Process sets the Embedding of every chunk.
// The returned vectors must all have the service's dimension.
func (p *Processor) Process(ctx context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := p.service.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	dim := p.service.Dimensions()
	out := make([]domain.Chunk, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("%w: chunk %s has %d, want %d",
				domain.ErrEmbeddingDimensionMismatch, chunk.ID, len(vectors[i]), dim)
		}
		chunk.Embedding = vectors[i]
		out[i] = chunk
	}
	return out, nil
}
