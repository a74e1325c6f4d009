// Package linear provides an exact in-process similarity search.
//
// Every embedded chunk of a completed document is scored by L2 distance to
// the query. This is the search used with the SQLite and memory stores.
package linear

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// Ensure Search implements the interface.
var _ driven.SimilaritySearch = (*Search)(nil)

// ChunkSource lists candidate chunks.
type ChunkSource interface {
	ListEmbeddedChunks(ctx context.Context) ([]domain.Chunk, error)
}

// Search scans all embedded chunks.
type Search struct {
	source     ChunkSource
	dimensions int
}

// New creates a linear search over source.
// Queries and chunks must have the given dimension.
func New(source ChunkSource, dimensions int) *Search {
	return &Search{source: source, dimensions: dimensions}
}

// Search returns at most limit hits by ascending distance, ties by chunk ID.
func (s *Search) Search(ctx context.Context, query []float32, limit int) ([]domain.ScoredChunk, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d, want %d",
			domain.ErrEmbeddingDimensionMismatch, len(query), s.dimensions)
	}
	if limit <= 0 {
		return nil, nil
	}

	chunks, err := s.source.ListEmbeddedChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	hits := make([]domain.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) != s.dimensions {
			return nil, fmt.Errorf("%w: chunk %s has %d, want %d",
				domain.ErrEmbeddingDimensionMismatch, chunk.ID, len(chunk.Embedding), s.dimensions)
		}
		d := Distance(query, chunk.Embedding)
		hits = append(hits, domain.ScoredChunk{
			Chunk:    chunk,
			Distance: d,
			Score:    Score(d),
		})
	}

	SortHits(hits)

	if len(hits) > limit {
		hits = hits[:limit]
	}
	logger.Debug("Linear search: %d candidates, %d hits", len(chunks), len(hits))
	return hits, nil
}

// Distance returns the Euclidean distance between a and b in float64.
// The vectors must have equal length.
func Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += float64(d * d)
	}
	return math.Sqrt(sum)
}

// Score maps a distance to a similarity in (0, 1].
func Score(distance float64) float64 {
	return 1 / (1 + distance)
}

// SortHits orders hits by ascending distance, ties broken by chunk ID.
func SortHits(hits []domain.ScoredChunk) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})
}
