package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resumerag/internal/adapters/driven/vector/linear"
	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/normalisers"
	"github.com/custodia-labs/resumerag/internal/normalisers/plaintext"
	"github.com/custodia-labs/resumerag/internal/postprocessors"
)

const testDims = 64

// fakeClock is a settable time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

// fixture wires the real parsing, chunking and embedding stack to memory stores.
type fixture struct {
	clock    *fakeClock
	docs     *memory.DocumentStore
	jobs     *memory.JobStore
	cache    *memory.CacheStore
	keys     *memory.IdempotencyStore
	embedder *hash.EmbeddingService
	guard    *IdempotencyGuard
	ingest   *IngestService
	ask      *AskService
	jobSvc   *JobService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithChunking(t, domain.ChunkingSettings{ChunkSize: 800, Overlap: 200})
}

func newFixtureWithChunking(t *testing.T, chunking domain.ChunkingSettings) *fixture {
	t.Helper()

	clock := newFakeClock()
	f := &fixture{
		clock:    clock,
		docs:     memory.NewDocumentStore(testDims),
		jobs:     memory.NewJobStore(),
		cache:    memory.NewCacheStore(clock.Now),
		keys:     memory.NewIdempotencyStore(clock.Now),
		embedder: hash.NewEmbeddingService(hash.Config{Dimensions: testDims}),
	}

	pipeline, err := postprocessors.NewIngestPipeline(chunking, f.embedder)
	require.NoError(t, err)

	f.guard = NewIdempotencyGuard(f.keys, 24*time.Hour)
	f.guard.now = clock.Now

	f.ingest = NewIngestService(normalisers.NewRegistry(plaintext.New()), pipeline, f.docs, f.guard)
	f.ingest.now = clock.Now

	f.ask = NewAskService(f.embedder, linear.New(f.docs, testDims), f.docs, f.cache, domain.AskSettings{})

	f.jobSvc = NewJobService(f.jobs, f.docs, f.guard, domain.JobSettings{})
	f.jobSvc.now = clock.Now

	return f
}

// upload ingests a text file and advances the clock so upload times differ.
func (f *fixture) upload(t *testing.T, filename, text string) *driving.IngestResult {
	t.Helper()
	res, err := f.ingest.Ingest(context.Background(), driving.IngestRequest{
		Filename: filename,
		Content:  []byte(text),
	})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	return res
}

// seedDocument stores a completed document with the given chunks directly.
func seedDocument(t *testing.T, store driven.DocumentStore, id string, uploaded time.Time, chunks ...domain.Chunk) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID:         id,
		Filename:   id + ".txt",
		FileHash:   "hash-" + id,
		Status:     domain.StatusCompleted,
		Visibility: domain.VisibilityPublic,
		UploadedAt: uploaded,
	}))
	for i := range chunks {
		chunks[i].DocumentID = id
	}
	if len(chunks) > 0 {
		require.NoError(t, store.SaveChunks(ctx, chunks))
	}
}

// failingPipeline always fails.
type failingPipeline struct{}

func (failingPipeline) Process(_ context.Context, _ *domain.Document) ([]domain.Chunk, error) {
	return nil, errors.New("embedding backend down")
}

// staticSearch returns fixed hits.
type staticSearch struct {
	hits  []domain.ScoredChunk
	err   error
	calls int
	limit int
}

func (s *staticSearch) Search(_ context.Context, _ []float32, limit int) ([]domain.ScoredChunk, error) {
	s.calls++
	s.limit = limit
	return s.hits, s.err
}

// failingCache fails every operation.
type failingCache struct{}

func (failingCache) Get(_ context.Context, _ string) (*domain.CacheEntry, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Put(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return errors.New("cache down")
}

func (failingCache) PurgeExpired(_ context.Context) (int, error) {
	return 0, errors.New("cache down")
}

// erroringDocStore fails document reads.
type erroringDocStore struct {
	*memory.DocumentStore
	err error
}

func (s *erroringDocStore) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	return nil, s.err
}
