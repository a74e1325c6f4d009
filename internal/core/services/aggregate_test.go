package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumerag/internal/core/domain"
)

func hit(docID, chunkID string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{ID: chunkID, DocumentID: docID, Page: 1, Text: "text " + chunkID},
		Score: score,
	}
}

func TestRankedBefore(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	assert.True(t, rankedBefore(0.9, late, "b", 0.8, early, "a"))
	assert.True(t, rankedBefore(0.5, early, "b", 0.5, late, "a"))
	assert.True(t, rankedBefore(0.5, early, "a", 0.5, early, "b"))
	assert.False(t, rankedBefore(0.5, early, "b", 0.5, early, "a"))
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 0.1235, roundScore(0.123456))
	assert.Equal(t, 1.0, roundScore(0.99999))
	assert.Equal(t, 0.5, roundScore(0.5))
}

func TestGroupHits(t *testing.T) {
	groups := groupHits([]domain.ScoredChunk{
		hit("b", "b1", 0.4),
		hit("a", "a1", 0.9),
		hit("b", "b2", 0.7),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "b", groups[0].documentID)
	assert.Equal(t, 0.7, groups[0].score)
	assert.Len(t, groups[0].hits, 2)
	assert.Equal(t, "a", groups[1].documentID)
	assert.Equal(t, 0.9, groups[1].score)
}

func TestDocumentHits_Snippets(t *testing.T) {
	g := &documentHits{hits: []domain.ScoredChunk{
		hit("a", "1", 0.2),
		hit("a", "2", 0.8),
		hit("a", "3", 0.5),
		hit("a", "4", 0.8),
	}}

	snippets := g.snippets()
	require.Len(t, snippets, 3)
	assert.Equal(t, "text 2", snippets[0].Text)
	assert.Equal(t, "text 4", snippets[1].Text)
	assert.Equal(t, "text 3", snippets[2].Text)
}

func TestAggregator_Aggregate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedDocument(t, store, "old", base)
	seedDocument(t, store, "new", base.Add(time.Hour))
	seedDocument(t, store, "best", base.Add(2*time.Hour))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "pending", FileHash: "hash-pending", Status: domain.StatusProcessing, UploadedAt: base,
	}))

	agg := NewAggregator(store)
	answers, err := agg.Aggregate(ctx, []domain.ScoredChunk{
		hit("new", "n1", 0.6),
		hit("pending", "p1", 0.99),
		hit("gone", "g1", 0.95),
		hit("best", "b1", 0.9),
		hit("old", "o1", 0.6),
		hit("new", "n2", 0.3),
	}, 5)
	require.NoError(t, err)

	require.Len(t, answers, 3)
	assert.Equal(t, "best", answers[0].DocumentID)
	assert.Equal(t, "old", answers[1].DocumentID)
	assert.Equal(t, "new", answers[2].DocumentID)
	assert.Equal(t, 0.6, answers[2].Score)
	assert.Len(t, answers[2].Snippets, 2)
	assert.Equal(t, "old.txt", answers[1].Filename)

	top, err := agg.Aggregate(ctx, []domain.ScoredChunk{hit("old", "o1", 0.6), hit("best", "b1", 0.9)}, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "best", top[0].DocumentID)
}

func TestAggregator_Aggregate_Empty(t *testing.T) {
	answers, err := NewAggregator(memory.NewDocumentStore()).Aggregate(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.NotNil(t, answers)
	assert.Empty(t, answers)
}

func TestAggregator_Aggregate_StoreFailure(t *testing.T) {
	store := &erroringDocStore{DocumentStore: memory.NewDocumentStore(), err: errors.New("disk I/O error")}

	_, err := NewAggregator(store).Aggregate(context.Background(), []domain.ScoredChunk{hit("a", "1", 0.5)}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
}
