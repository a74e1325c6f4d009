package driven

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// JobStore persists job postings.
type JobStore interface {
	// SaveJob stores or updates a job.
	SaveJob(ctx context.Context, job *domain.Job) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, id string) (*domain.Job, error)
}
