package domain

import "time"

// DocumentStatus is the ingestion lifecycle state of a document.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusProcessing means the document is being parsed, chunked and embedded.
	StatusProcessing DocumentStatus = "processing"

	// StatusCompleted means every chunk was embedded and persisted.
	// Only completed documents are visible to search and matching.
	StatusCompleted DocumentStatus = "completed"

	// StatusFailed means ingestion stopped with an error.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Visibility controls who may list a document.
type Visibility string

// Available visibilities.
const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// IsValid returns true if the visibility is recognised.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Document represents an ingested resume.
// It is the canonical representation after parsing.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the name the document was uploaded under.
	Filename string

	// FileHash is the SHA-256 of the uploaded bytes (hex).
	// Re-ingesting identical bytes returns the existing document.
	FileHash string

	// ParsingHash is the SHA-256 of the normalised text (hex).
	ParsingHash string

	// Content is the full normalised text, pages joined by a newline.
	Content string

	// Metadata holds the best-effort fields extracted while parsing.
	Metadata DocumentMetadata

	// Status is the ingestion lifecycle state.
	Status DocumentStatus

	// FailureReason is set when Status is StatusFailed.
	FailureReason string

	// OwnerID identifies the uploader. Empty for anonymous uploads.
	OwnerID string

	// Visibility controls listing for other callers.
	Visibility Visibility

	// UploadedAt is the ingestion timestamp used for tie-breaking.
	UploadedAt time.Time

	// Pages carries the parser output through the ingestion pipeline.
	// It is not persisted.
	Pages []PageSpan
}

// DocumentMetadata contains fields extracted from resume text.
// Absent values are left empty.
type DocumentMetadata struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	TotalPages int    `json:"total_pages"`
	Format     string `json:"format,omitempty"`
}

// Chunk represents a searchable window within a document page.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Page is the 1-based page number.
	Page int

	// StartOffset and EndOffset are running markers: each chunk starts where
	// the previous chunk on the page ended, so they increase monotonically
	// but do not locate overlapping windows in the page text.
	StartOffset int
	EndOffset   int

	// SourceStart and SourceEnd locate the window in the page text
	// (character offsets relative to the page start).
	SourceStart int
	SourceEnd   int

	// Text is the raw window text.
	Text string

	// Embedding is nil until the embedder assigns it.
	Embedding []float32
}

// HasEmbedding returns true once a vector has been assigned.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
