package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/normalisers"
	"github.com/custodia-labs/resumerag/internal/normalisers/plaintext"
)

const janeResume = `Jane Doe
jane.doe@example.com
+1 (555) 123-4567

Skills: React, Node.js, Python

Experience
Built web applications for five years.`

func TestFileHash(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		FileHash(nil))
	assert.Equal(t, FileHash([]byte("abc")), FileHash([]byte("abc")))
	assert.NotEqual(t, FileHash([]byte("abc")), FileHash([]byte("abd")))
}

func TestIngestService_Ingest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.ingest.Ingest(ctx, driving.IngestRequest{
		Filename: "jane.txt",
		Content:  []byte(janeResume),
		OwnerID:  "u1",
	})
	require.NoError(t, err)

	assert.False(t, res.Deduplicated)
	assert.Equal(t, 1, res.ChunkCount)
	assert.Equal(t, domain.StatusCompleted, res.Document.Status)
	assert.Equal(t, domain.VisibilityPublic, res.Document.Visibility)
	assert.Equal(t, "u1", res.Document.OwnerID)
	assert.Equal(t, FileHash([]byte(janeResume)), res.Document.FileHash)
	assert.Equal(t, f.clock.now, res.Document.UploadedAt)

	stored, err := f.docs.GetDocument(ctx, res.Document.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, "Jane Doe", stored.Metadata.Name)
	assert.Equal(t, "jane.doe@example.com", stored.Metadata.Email)
	assert.Equal(t, 1, stored.Metadata.TotalPages)
	assert.Contains(t, stored.Content, "Skills: React, Node.js, Python")
	assert.NotEmpty(t, stored.ParsingHash)

	chunks, err := f.docs.GetChunks(ctx, res.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0].Embedding, testDims)
	assert.Equal(t, 1, chunks[0].Page)
}

func TestIngestService_Ingest_MultipleChunks(t *testing.T) {
	f := newFixtureWithChunking(t, domain.ChunkingSettings{ChunkSize: 20, Overlap: 5})

	res := f.upload(t, "long.txt", "Python developer with ten years of backend experience in Go and Rust")
	assert.Greater(t, res.ChunkCount, 1)

	chunks, err := f.docs.GetChunks(context.Background(), res.Document.ID)
	require.NoError(t, err)
	require.Len(t, chunks, res.ChunkCount)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].EndOffset, chunks[i].StartOffset)
		assert.Equal(t, chunks[i-1].SourceStart+15, chunks[i].SourceStart)
	}
}

func TestIngestService_Ingest_Deduplicates(t *testing.T) {
	f := newFixture(t)

	first := f.upload(t, "jane.txt", janeResume)
	second := f.upload(t, "jane-copy.txt", janeResume)

	assert.True(t, second.Deduplicated)
	assert.Equal(t, first.Document.ID, second.Document.ID)
	assert.Equal(t, first.ChunkCount, second.ChunkCount)
	assert.Equal(t, "jane.txt", second.Document.Filename)

	docs, err := f.docs.ListDocuments(context.Background(), driven.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIngestService_Ingest_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  driving.IngestRequest
	}{
		{name: "missing filename", req: driving.IngestRequest{Content: []byte("x")}},
		{name: "blank filename", req: driving.IngestRequest{Filename: "  ", Content: []byte("x")}},
		{name: "empty content", req: driving.IngestRequest{Filename: "a.txt"}},
		{name: "bad visibility", req: driving.IngestRequest{Filename: "a.txt", Content: []byte("x"), Visibility: "team"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ingest.Ingest(ctx, tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestIngestService_Ingest_UnsupportedFormatMarksFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	content := []byte("Jane Doe resume")

	_, err := f.ingest.Ingest(ctx, driving.IngestRequest{Filename: "resume.xyz", Content: content})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	doc, err := f.docs.FindByFileHash(ctx, FileHash(content))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.Contains(t, doc.FailureReason, "unsupported format")

	// The same bytes under a supported name are ingested again.
	res, err := f.ingest.Ingest(ctx, driving.IngestRequest{Filename: "resume.txt", Content: content})
	require.NoError(t, err)
	assert.False(t, res.Deduplicated)
	assert.NotEqual(t, doc.ID, res.Document.ID)
	assert.Equal(t, domain.StatusCompleted, res.Document.Status)

	_, err = f.docs.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestService_Ingest_NoExtensionDispatchesByContentType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.ingest.Ingest(ctx, driving.IngestRequest{Filename: "RESUME", Content: []byte(janeResume)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Document.Status)
	assert.Equal(t, "Jane Doe", res.Document.Metadata.Name)

	_, err = f.ingest.Ingest(ctx, driving.IngestRequest{
		Filename: "scan",
		MIMEType: "image/png",
		Content:  []byte("Bob Smith resume"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIngestService_Ingest_PipelineFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewIngestService(normalisers.NewRegistry(plaintext.New()), failingPipeline{}, f.docs, nil)

	_, err := svc.Ingest(ctx, driving.IngestRequest{Filename: "a.txt", Content: []byte("Go developer")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding backend down")

	doc, err := f.docs.FindByFileHash(ctx, FileHash([]byte("Go developer")))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, doc.Status)

	chunks, err := f.docs.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngestService_Ingest_ProcessingDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	content := []byte("Go developer")

	require.NoError(t, f.docs.SaveDocument(ctx, &domain.Document{
		ID:         "in-flight",
		Filename:   "a.txt",
		FileHash:   FileHash(content),
		Status:     domain.StatusProcessing,
		Visibility: domain.VisibilityPublic,
	}))

	res, err := f.ingest.Ingest(ctx, driving.IngestRequest{Filename: "a.txt", Content: content})
	require.NoError(t, err)
	assert.True(t, res.Deduplicated)
	assert.Equal(t, "in-flight", res.Document.ID)
	assert.Equal(t, domain.StatusProcessing, res.Document.Status)
}

func TestIngestService_Ingest_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := driving.IngestRequest{
		Filename:       "jane.txt",
		Content:        []byte(janeResume),
		IdempotencyKey: "upload-1",
	}

	first, err := f.ingest.Ingest(ctx, req)
	require.NoError(t, err)

	replayed, err := f.ingest.Ingest(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Document.ID, replayed.Document.ID)
	assert.Equal(t, first.ChunkCount, replayed.ChunkCount)
	assert.False(t, replayed.Deduplicated)

	rec, err := f.keys.Get(ctx, "upload-1")
	require.NoError(t, err)
	assert.Equal(t, first.Document.ID, rec.ResourceID)

	// Same key, different file.
	req.Content = []byte("someone else")
	_, err = f.ingest.Ingest(ctx, req)
	assert.ErrorIs(t, err, domain.ErrConflictingKey)

	// Once the key expires it can be reused.
	f.clock.Advance(25 * time.Hour)
	res, err := f.ingest.Ingest(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Document.ID, res.Document.ID)
}
