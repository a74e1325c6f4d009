package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument represents uploaded bytes before parsing.
type RawDocument struct {
	// Filename is the upload name. Its extension selects the parser.
	Filename string

	// MIMEType is the declared content type, if any.
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Extension returns the lower-cased filename extension including the dot.
func (r *RawDocument) Extension() string {
	return strings.ToLower(filepath.Ext(r.Filename))
}

// PageSpan is one page of normalised text with its global offsets.
// Offsets are cumulative across pages with a one-character gap between
// consecutive pages.
type PageSpan struct {
	Page  int
	Start int
	End   int
	Text  string
}

// ParseResult is the output of parsing a raw document.
type ParseResult struct {
	// Text is the normalised full text (pages joined by "\n").
	Text string

	// Pages holds one span per non-empty page.
	Pages []PageSpan

	// ContentHash is the SHA-256 (hex) of Text.
	ContentHash string

	// Metadata holds best-effort extracted fields.
	Metadata DocumentMetadata
}
