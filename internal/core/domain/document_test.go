package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   DocumentStatus
		expected bool
	}{
		{"processing is valid", StatusProcessing, true},
		{"completed is valid", StatusCompleted, true},
		{"failed is valid", StatusFailed, true},
		{"empty is invalid", DocumentStatus(""), false},
		{"unknown is invalid", DocumentStatus("queued"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestDocumentStatus_String(t *testing.T) {
	assert.Equal(t, "completed", StatusCompleted.String())
}

func TestVisibility_IsValid(t *testing.T) {
	assert.True(t, VisibilityPublic.IsValid())
	assert.True(t, VisibilityPrivate.IsValid())
	assert.False(t, Visibility("team").IsValid())
}

func TestDocument_Fields(t *testing.T) {
	now := time.Now()
	doc := Document{
		ID:         "doc-1",
		Filename:   "jane.pdf",
		FileHash:   "ff",
		Status:     StatusCompleted,
		Visibility: VisibilityPublic,
		UploadedAt: now,
		Metadata:   DocumentMetadata{Name: "Jane", Email: "jane@example.com", TotalPages: 1},
	}

	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "jane@example.com", doc.Metadata.Email)
	assert.Equal(t, now, doc.UploadedAt)
	assert.Nil(t, doc.Pages)
}

func TestChunk_HasEmbedding(t *testing.T) {
	chunk := Chunk{ID: "c1"}
	assert.False(t, chunk.HasEmbedding())

	chunk.Embedding = []float32{1}
	assert.True(t, chunk.HasEmbedding())
}
