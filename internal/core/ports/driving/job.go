package driving

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// JobService creates job postings and matches them against resumes.
type JobService interface {
	// Create stores a job with its extracted requirements.
	Create(ctx context.Context, req CreateJobRequest) (*domain.Job, error)

	// Get retrieves a job by ID.
	Get(ctx context.Context, jobID string) (*domain.Job, error)

	// Match ranks completed resumes against the job's requirements.
	Match(ctx context.Context, req MatchRequest) (*domain.MatchResponse, error)
}

// CreateJobRequest describes a new job.
type CreateJobRequest struct {
	Title       string
	Description string
	OwnerID     string

	// IdempotencyKey makes retries return the original job. Optional.
	IdempotencyKey string
}

// MatchRequest asks for the best resumes for a job.
type MatchRequest struct {
	JobID string

	// TopN caps the matches returned. Zero uses the default.
	TopN int

	// Role decides evidence redaction.
	Role domain.Role
}
