package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawDocument_Extension(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"resume.pdf", ".pdf"},
		{"Resume.PDF", ".pdf"},
		{"cv.final.docx", ".docx"},
		{"bundle.zip", ".zip"},
		{"README", ""},
		{"dir/notes.TXT", ".txt"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			raw := RawDocument{Filename: tt.filename}
			assert.Equal(t, tt.expected, raw.Extension())
		})
	}
}

func TestParseResult_Fields(t *testing.T) {
	result := ParseResult{
		Text: "Jane Doe\nEngineer",
		Pages: []PageSpan{
			{Page: 1, Start: 0, End: 8, Text: "Jane Doe"},
			{Page: 2, Start: 9, End: 17, Text: "Engineer"},
		},
		ContentHash: "abc",
		Metadata:    DocumentMetadata{Name: "Jane Doe", TotalPages: 2},
	}

	assert.Len(t, result.Pages, 2)
	assert.Equal(t, result.Pages[0].End+1, result.Pages[1].Start)
	assert.Equal(t, 2, result.Metadata.TotalPages)
}
