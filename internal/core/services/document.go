package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/redact"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Listing limits.
const (
	defaultListLimit = 20
	maxListLimit     = 100
	listSnippetLen   = 200
)

// DocumentService exposes ingested resumes.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns completed documents, newest first.
// Query filters by name, filename or content, ignoring case.
func (s *DocumentService) List(ctx context.Context, opts driving.ListOptions) (*driving.DocumentList, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if opts.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidInput)
	}
	if opts.Visibility != "" && !opts.Visibility.IsValid() {
		return nil, fmt.Errorf("%w: unknown visibility %q", domain.ErrInvalidInput, opts.Visibility)
	}

	docs, err := s.docStore.ListDocuments(ctx, driven.DocumentFilter{
		Status:     domain.StatusCompleted,
		OwnerID:    strings.TrimSpace(opts.OwnerID),
		Visibility: opts.Visibility,
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	var filtered []domain.Document
	for _, doc := range docs {
		if query == "" || documentContains(doc, query) {
			filtered = append(filtered, doc)
		}
	}

	list := &driving.DocumentList{Items: []driving.DocumentSummary{}}
	if opts.Offset >= len(filtered) {
		return list, nil
	}

	page := filtered[opts.Offset:]
	if len(page) > limit {
		page = page[:limit]
		next := opts.Offset + limit
		list.NextOffset = &next
	}

	for _, doc := range page {
		list.Items = append(list.Items, driving.DocumentSummary{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Name:       redact.Text(doc.Metadata.Name, opts.Role),
			Snippet:    redact.Text(prefixRunes(doc.Content, listSnippetLen), opts.Role),
			Status:     doc.Status,
			UploadedAt: doc.UploadedAt,
		})
	}
	return list, nil
}

func documentContains(doc domain.Document, query string) bool {
	return strings.Contains(strings.ToLower(doc.Metadata.Name), query) ||
		strings.Contains(strings.ToLower(doc.Filename), query) ||
		strings.Contains(strings.ToLower(doc.Content), query)
}

// Get returns a document with its chunks as snippets.
func (s *DocumentService) Get(ctx context.Context, documentID string, role domain.Role) (*driving.DocumentDetails, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}

	snippets := make([]domain.Snippet, len(chunks))
	for i, c := range chunks {
		snippets[i] = domain.Snippet{
			Page:  c.Page,
			Text:  redact.Text(c.Text, role),
			Start: c.StartOffset,
			End:   c.EndOffset,
		}
	}

	return &driving.DocumentDetails{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Metadata:   redact.Metadata(doc.Metadata, role),
		Status:     doc.Status,
		UploadedAt: doc.UploadedAt,
		Snippets:   snippets,
		ChunkCount: len(chunks),
	}, nil
}

// GetContent returns the normalised text of a document.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("get document %s: %w", documentID, err)
	}
	return doc.Content, nil
}
