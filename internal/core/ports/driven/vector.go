package driven

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// SimilaritySearch finds the chunks nearest to a query vector.
//
// Results are ordered by ascending L2 distance, ties broken by chunk ID.
// Only chunks with an embedding whose document is completed are considered.
// A linear scan and a store-native implementation must return the same order.
type SimilaritySearch interface {
	// Search returns at most limit hits.
	Search(ctx context.Context, query []float32, limit int) ([]domain.ScoredChunk, error)
}
