package postprocessors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/logger"
)

type stubStage struct {
	name   string
	chunks []domain.Chunk
	err    error
	got    []domain.Chunk
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	s.got = chunks
	if s.err != nil {
		return nil, s.err
	}
	if s.chunks != nil {
		return s.chunks, nil
	}
	return chunks, nil
}

func TestPipeline_Process(t *testing.T) {
	first := &stubStage{name: "first", chunks: []domain.Chunk{{ID: "c1", Text: "first"}}}
	second := &stubStage{name: "second"}
	p := NewPipeline(first, second)

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "d", Content: "x"})
	require.NoError(t, err)
	assert.Nil(t, first.got)
	assert.Equal(t, first.chunks, second.got)
	assert.Equal(t, first.chunks, chunks)
}

func TestPipeline_Process_LogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	logger.SetJSON(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetJSON(false)
		logger.SetOutput(os.Stderr)
	}()

	p := NewPipeline(&stubStage{name: "chunker", chunks: []domain.Chunk{{ID: "c1"}, {ID: "c2"}}})
	_, err := p.Process(context.Background(), &domain.Document{ID: "doc-1"})
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "doc-1", record["document_id"])
	assert.Equal(t, "chunker", record["stage"])
	assert.EqualValues(t, 2, record["chunks"])
}

func TestPipeline_Process_Errors(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	boom := errors.New("embedding backend down")
	p := NewPipeline(&stubStage{name: "embedder", err: boom})
	_, err = p.Process(context.Background(), &domain.Document{ID: "d"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "processor embedder")
}

func TestPipeline_Process_Empty(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), &domain.Document{ID: "d", Content: "x"})
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestNewIngestPipeline(t *testing.T) {
	embeddings := hash.NewEmbeddingService(hash.Config{Dimensions: 8})

	p, err := NewIngestPipeline(domain.ChunkingSettings{ChunkSize: 10, Overlap: 2}, embeddings)
	require.NoError(t, err)

	chunks, err := p.Process(context.Background(), &domain.Document{
		ID:      "d",
		Content: "Jane Doe, Go and Python engineer",
	})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Len(t, c.Embedding, 8)
		assert.LessOrEqual(t, len([]rune(c.Text)), 10)
		assert.Equal(t, "d", c.DocumentID)
	}
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 8, chunks[1].SourceStart, "windows advance by size minus overlap")
}

func TestNewIngestPipeline_ZeroSettingsUseDefaults(t *testing.T) {
	p, err := NewIngestPipeline(domain.ChunkingSettings{Overlap: 200}, hash.NewEmbeddingService(hash.Config{Dimensions: 4}))
	require.NoError(t, err)

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "d", Content: strings.Repeat("a", 1000)})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 600, chunks[1].SourceStart)
}

func TestNewIngestPipeline_Invalid(t *testing.T) {
	_, err := NewIngestPipeline(domain.ChunkingSettings{ChunkSize: 800, Overlap: 200}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewIngestPipeline(domain.ChunkingSettings{ChunkSize: -1}, hash.NewEmbeddingService(hash.Config{Dimensions: 4}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
