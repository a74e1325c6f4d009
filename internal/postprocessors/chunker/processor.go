// Package chunker provides a sliding-window text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits each page of a document into overlapping windows.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document's pages into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
//
// Windows advance by chunkSize-overlap characters and whitespace-only
// windows are dropped. StartOffset/EndOffset start at the page's running
// offset and advance by each emitted chunk's length, so they stay
// contiguous even though windows overlap. SourceStart/SourceEnd hold the
// window's true position in the page text.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	pages := doc.Pages
	if len(pages) == 0 {
		if doc.Content == "" {
			// Empty content produces no chunks
			return nil, nil
		}
		runes := []rune(doc.Content)
		pages = []domain.PageSpan{{Page: 1, Start: 0, End: len(runes), Text: doc.Content}}
	}

	step := p.chunkSize - p.overlap
	var chunks []domain.Chunk

	for _, page := range pages {
		runes := []rune(page.Text)
		n := len(runes)
		offset := page.Start

		for start := 0; start < n; start += step {
			end := start + p.chunkSize
			if end > n {
				end = n
			}

			text := string(runes[start:end])
			if strings.TrimSpace(text) != "" {
				length := end - start
				chunks = append(chunks, domain.Chunk{
					ID:          uuid.New().String(),
					DocumentID:  doc.ID,
					Page:        page.Page,
					StartOffset: offset,
					EndOffset:   offset + length,
					SourceStart: start,
					SourceEnd:   end,
					Text:        text,
				})
				offset += length
			}

			if end == n {
				break
			}
		}
	}

	return chunks, nil
}
