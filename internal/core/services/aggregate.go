package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// maxSnippets is the number of representative hits kept per document.
const maxSnippets = 3

// Aggregator turns chunk hits into ranked documents.
type Aggregator struct {
	docStore driven.DocumentStore
}

// NewAggregator creates an aggregator that hydrates documents from docStore.
func NewAggregator(docStore driven.DocumentStore) *Aggregator {
	return &Aggregator{docStore: docStore}
}

// documentHits collects the hits of one document in search rank order.
type documentHits struct {
	documentID string
	score      float64
	hits       []domain.ScoredChunk
}

// groupHits groups hits by document, keeping first-seen document order.
// A document's score is the maximum score among its hits.
func groupHits(hits []domain.ScoredChunk) []*documentHits {
	byID := make(map[string]*documentHits)
	var groups []*documentHits

	for _, hit := range hits {
		g, ok := byID[hit.Chunk.DocumentID]
		if !ok {
			g = &documentHits{documentID: hit.Chunk.DocumentID, score: hit.Score}
			byID[hit.Chunk.DocumentID] = g
			groups = append(groups, g)
		}
		if hit.Score > g.score {
			g.score = hit.Score
		}
		g.hits = append(g.hits, hit)
	}

	return groups
}

// snippets returns the best hits as snippets, ties kept in rank order.
func (g *documentHits) snippets() []domain.Snippet {
	ordered := make([]domain.ScoredChunk, len(g.hits))
	copy(ordered, g.hits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	if len(ordered) > maxSnippets {
		ordered = ordered[:maxSnippets]
	}

	out := make([]domain.Snippet, len(ordered))
	for i, hit := range ordered {
		out[i] = domain.Snippet{
			Page:  hit.Chunk.Page,
			Text:  hit.Chunk.Text,
			Start: hit.Chunk.StartOffset,
			End:   hit.Chunk.EndOffset,
		}
	}
	return out
}

// Aggregate groups hits per document and returns the top k answers.
// Documents that no longer exist or are not completed are skipped.
// No hits yields an empty result, not an error.
func (a *Aggregator) Aggregate(ctx context.Context, hits []domain.ScoredChunk, k int) ([]domain.Answer, error) {
	groups := groupHits(hits)
	logger.Debug("Aggregating %d hits over %d documents", len(hits), len(groups))

	answers := make([]domain.Answer, 0, len(groups))
	for _, g := range groups {
		found := domain.LookupOf(a.docStore.GetDocument(ctx, g.documentID))
		switch found.State {
		case domain.LookupNotFound:
			logger.Warn("Skipping hits for missing document %s", g.documentID)
			continue
		case domain.LookupFailed:
			return nil, fmt.Errorf("get document %s: %w", g.documentID, found.Err)
		}

		doc := found.Value
		if doc.Status != domain.StatusCompleted {
			logger.Debug("Skipping document %s: %v", doc.ID, domain.ErrDocumentNotCompleted)
			continue
		}

		answers = append(answers, domain.Answer{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Score:      g.score,
			UploadedAt: doc.UploadedAt,
			Snippets:   g.snippets(),
		})
	}

	sort.Slice(answers, func(i, j int) bool {
		return rankedBefore(
			answers[i].Score, answers[i].UploadedAt, answers[i].DocumentID,
			answers[j].Score, answers[j].UploadedAt, answers[j].DocumentID)
	})

	if k >= 0 && len(answers) > k {
		answers = answers[:k]
	}
	return answers, nil
}
