package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// DocumentService exposes ingested resumes.
type DocumentService interface {
	// List returns completed documents, newest first, redacted for role.
	List(ctx context.Context, opts ListOptions) (*DocumentList, error)

	// Get returns a document with its chunk snippets, redacted for role.
	Get(ctx context.Context, documentID string, role domain.Role) (*DocumentDetails, error)

	// GetContent returns the normalised text of a document.
	GetContent(ctx context.Context, documentID string) (string, error)
}

// ListOptions filters and pages a document listing.
type ListOptions struct {
	// Query filters by case-insensitive substring of name, filename or content.
	Query string

	// OwnerID and Visibility match exactly when set.
	OwnerID    string
	Visibility domain.Visibility

	Limit  int
	Offset int
	Role   domain.Role
}

// DocumentList is one page of a listing.
type DocumentList struct {
	Items []DocumentSummary

	// NextOffset is set when more results exist.
	NextOffset *int
}

// DocumentSummary is a listing row.
type DocumentSummary struct {
	ID         string                `json:"id"`
	Filename   string                `json:"filename"`
	Name       string                `json:"name,omitempty"`
	Snippet    string                `json:"snippet,omitempty"`
	Status     domain.DocumentStatus `json:"status"`
	UploadedAt time.Time             `json:"uploaded_at"`
}

// DocumentDetails is the full view of one document.
type DocumentDetails struct {
	ID         string                  `json:"id"`
	Filename   string                  `json:"filename"`
	Metadata   domain.DocumentMetadata `json:"metadata"`
	Status     domain.DocumentStatus   `json:"status"`
	UploadedAt time.Time               `json:"uploaded_at"`
	Snippets   []domain.Snippet        `json:"snippets"`
	ChunkCount int                     `json:"chunk_count"`
}
