package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu         sync.RWMutex
	documents  map[string]domain.Document
	chunks     map[string][]domain.Chunk
	dimensions int
}

// NewDocumentStore creates a new in-memory document store.
// A positive dimensions value enables the embedding length check.
func NewDocumentStore(dimensions ...int) *DocumentStore {
	s := &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
	if len(dimensions) > 0 {
		s.dimensions = dimensions[0]
	}
	return s
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.documents {
		if id != doc.ID && existing.FileHash == doc.FileHash {
			return fmt.Errorf("%w: file hash %s", domain.ErrAlreadyExists, doc.FileHash)
		}
	}

	stored := *doc
	stored.Pages = nil
	s.documents[doc.ID] = stored
	return nil
}

// UpdateStatus sets a document's lifecycle status and failure reason.
func (s *DocumentStore) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.FailureReason = reason
	s.documents[id] = doc
	return nil
}

// SaveChunks stores chunks, replacing any with the same ID.
func (s *DocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		if s.dimensions > 0 && chunk.HasEmbedding() && len(chunk.Embedding) != s.dimensions {
			return fmt.Errorf("%w: chunk %s has %d, store expects %d",
				domain.ErrEmbeddingDimensionMismatch, chunk.ID, len(chunk.Embedding), s.dimensions)
		}
		if _, ok := s.documents[chunk.DocumentID]; !ok {
			return fmt.Errorf("saving chunk %s: document %s: %w", chunk.ID, chunk.DocumentID, domain.ErrNotFound)
		}
	}

	for _, chunk := range chunks {
		list := s.chunks[chunk.DocumentID]
		replaced := false
		for i := range list {
			if list[i].ID == chunk.ID {
				list[i] = chunk
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, chunk)
		}
		sortChunks(list)
		s.chunks[chunk.DocumentID] = list
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// FindByFileHash retrieves the document ingested from identical bytes.
func (s *DocumentStore) FindByFileHash(_ context.Context, fileHash string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.documents {
		if doc.FileHash == fileHash {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetChunks retrieves all chunks for a document.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Chunk(nil), s.chunks[documentID]...), nil
}

// GetChunksForDocuments retrieves chunks for a set of documents.
func (s *DocumentStore) GetChunksForDocuments(_ context.Context, documentIDs []string) (map[string][]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]domain.Chunk, len(documentIDs))
	for _, id := range documentIDs {
		if chunks := s.chunks[id]; len(chunks) > 0 {
			result[id] = append([]domain.Chunk(nil), chunks...)
		}
	}
	return result, nil
}

// ListEmbeddedChunks returns every embedded chunk of a completed document.
func (s *DocumentStore) ListEmbeddedChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Chunk
	for docID, chunks := range s.chunks {
		if s.documents[docID].Status != domain.StatusCompleted {
			continue
		}
		for _, chunk := range chunks {
			if chunk.HasEmbedding() {
				result = append(result, chunk)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// ListDocuments returns documents matching the filter, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, filter driven.DocumentFilter) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if matchesFilter(doc, filter) {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID < result[j].ID
	})

	if filter.Offset >= len(result) {
		return nil, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matchesFilter(doc domain.Document, filter driven.DocumentFilter) bool {
	if filter.Status != "" && doc.Status != filter.Status {
		return false
	}
	if filter.OwnerID != "" && doc.OwnerID != filter.OwnerID {
		return false
	}
	return filter.Visibility == "" || doc.Visibility == filter.Visibility
}

// sortChunks orders chunks by (page, start offset).
func sortChunks(chunks []domain.Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Page != chunks[j].Page {
			return chunks[i].Page < chunks[j].Page
		}
		return chunks[i].StartOffset < chunks[j].StartOffset
	})
}
