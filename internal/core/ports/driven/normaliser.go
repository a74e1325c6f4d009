package driven

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// Normaliser extracts page text from one file format.
// Each normaliser handles specific extensions (e.g., .pdf, .docx).
type Normaliser interface {
	// SupportedExtensions returns the lower-cased extensions handled, with dot.
	SupportedExtensions() []string

	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise extracts raw page text. Whitespace normalisation and offset
	// computation are applied afterwards by the registry.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of a format extractor.
type NormaliseResult struct {
	// Pages holds raw text per page, in page order. Page-less formats
	// return a single page.
	Pages []string

	// Format names the source format (e.g., "pdf").
	Format string
}
