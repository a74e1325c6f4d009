package driving

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// AskService answers natural language queries with ranked resumes.
type AskService interface {
	// Ask embeds the query, searches chunks, and aggregates per document.
	Ask(ctx context.Context, req AskRequest) (*domain.AskResponse, error)
}

// AskRequest is one ask query.
type AskRequest struct {
	Query string

	// K is the number of documents to return. Zero uses the default.
	K int

	// Role decides snippet redaction.
	Role domain.Role
}
