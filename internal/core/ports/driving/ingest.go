package driving

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// IngestService turns uploaded files into searchable documents.
type IngestService interface {
	// Ingest parses, chunks, embeds and persists one file.
	// Identical bytes return the existing document without re-parsing.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
}

// IngestRequest describes one upload.
type IngestRequest struct {
	Filename string
	Content  []byte

	// MIMEType is the declared content type. It selects the parser only
	// when Filename has no extension; otherwise the content is sniffed.
	MIMEType string

	// OwnerID identifies the uploader. Optional.
	OwnerID string

	// Visibility defaults to public.
	Visibility domain.Visibility

	// IdempotencyKey makes retries return the original result. Optional.
	IdempotencyKey string
}

// IngestResult is the outcome of an upload.
type IngestResult struct {
	Document domain.Document

	// ChunkCount is the number of chunks persisted for the document.
	ChunkCount int

	// Deduplicated is true when identical bytes were already ingested.
	Deduplicated bool
}
