package driven

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite by default, or Postgres.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// UpdateStatus sets a document's lifecycle status and failure reason.
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByFileHash retrieves the document ingested from identical bytes.
	// Returns domain.ErrNotFound when no such document exists.
	FindByFileHash(ctx context.Context, fileHash string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document in (page, start) order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// GetChunksForDocuments retrieves chunks for a set of documents,
	// keyed by document ID, each in (page, start) order.
	GetChunksForDocuments(ctx context.Context, documentIDs []string) (map[string][]domain.Chunk, error)

	// ListEmbeddedChunks returns every chunk with an embedding whose
	// document is completed.
	ListEmbeddedChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns documents matching the filter, newest first.
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]domain.Document, error)
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	// Status restricts to one lifecycle state. Empty means any.
	Status domain.DocumentStatus

	// OwnerID restricts to one uploader. Empty means any.
	OwnerID string

	// Visibility restricts to one visibility. Empty means any.
	Visibility domain.Visibility

	// Limit caps the result size. Zero means no limit.
	Limit int

	// Offset skips leading results.
	Offset int
}
