package driven

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It dispatches on filename extension, unwraps archives, and turns raw
// page text into an offset-tracked domain.ParseResult.
type NormaliserRegistry interface {
	// Parse normalises a raw document.
	// Returns domain.ErrUnsupportedFormat for unknown extensions and
	// domain.ErrNoSupportedEntry for archives without a parseable entry.
	Parse(ctx context.Context, raw *domain.RawDocument) (*domain.ParseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all extensions that can be parsed.
	SupportedExtensions() []string
}
