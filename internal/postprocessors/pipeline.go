// Package postprocessors turns a normalised document into embedded chunks.
package postprocessors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/logger"
	"github.com/custodia-labs/resumerag/internal/postprocessors/chunker"
	"github.com/custodia-labs/resumerag/internal/postprocessors/embedder"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs its stages in order, each receiving the previous stage's chunks.
type Pipeline struct {
	stages []driven.PostProcessor
}

// NewPipeline creates a pipeline from explicit stages.
func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// NewIngestPipeline builds the chunk-then-embed pipeline used at ingestion.
func NewIngestPipeline(settings domain.ChunkingSettings, embeddings driven.EmbeddingService) (*Pipeline, error) {
	if embeddings == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrInvalidInput)
	}
	if settings.ChunkSize < 0 || settings.Overlap < 0 {
		return nil, fmt.Errorf("%w: chunk size and overlap must not be negative", domain.ErrInvalidInput)
	}

	chunk := chunker.New(chunker.WithChunkSize(settings.ChunkSize), chunker.WithOverlap(settings.Overlap))
	return NewPipeline(chunk, embedder.New(embeddings)), nil
}

// Process runs the document through every stage.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		var err error
		chunks, err = stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		logger.L().Debug("post-processing stage done",
			zap.String("document_id", doc.ID),
			zap.String("stage", stage.Name()),
			zap.Int("chunks", len(chunks)),
		)
	}

	return chunks, nil
}
