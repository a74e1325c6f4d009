package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/logger"
	"github.com/custodia-labs/resumerag/internal/redact"
)

// Ensure JobService implements the interface.
var _ driving.JobService = (*JobService)(nil)

// JobService creates jobs and matches them against completed resumes.
type JobService struct {
	jobStore driven.JobStore
	docStore driven.DocumentStore
	guard    *IdempotencyGuard
	topN     int
	now      func() time.Time
}

// NewJobService creates a new job service.
// The guard is optional (can be nil); without it idempotency keys are ignored.
func NewJobService(
	jobStore driven.JobStore,
	docStore driven.DocumentStore,
	guard *IdempotencyGuard,
	settings domain.JobSettings,
) *JobService {
	topN := settings.DefaultTopN
	if topN <= 0 {
		topN = domain.DefaultAppSettings().Jobs.DefaultTopN
	}
	return &JobService{
		jobStore: jobStore,
		docStore: docStore,
		guard:    guard,
		topN:     topN,
		now:      time.Now,
	}
}

// createJobPayload is the part of a create request bound to an idempotency key.
type createJobPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create stores a job with requirements extracted from its description.
func (s *JobService) Create(ctx context.Context, req driving.CreateJobRequest) (*domain.Job, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}

	var requestHash string
	if req.IdempotencyKey != "" && s.guard != nil {
		var err error
		requestHash, err = RequestHash(createJobPayload{Title: req.Title, Description: req.Description})
		if err != nil {
			return nil, err
		}

		var replayed domain.Job
		ok, err := s.guard.Replay(ctx, req.IdempotencyKey, requestHash, &replayed)
		if err != nil {
			return nil, err
		}
		if ok {
			return &replayed, nil
		}
	}

	job := &domain.Job{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  req.Description,
		Requirements: ExtractRequirements(req.Description),
		OwnerID:      req.OwnerID,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.jobStore.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}
	logger.Debug("Created job %s with %d requirements", job.ID, len(job.Requirements))

	if requestHash != "" {
		if err := s.guard.Remember(ctx, req.IdempotencyKey, requestHash, job.ID, job); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// Get retrieves a job by ID.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job, nil
}

// Match ranks completed resumes by the fraction of job requirements they
// contain. Resumes matching nothing are left out.
func (s *JobService) Match(ctx context.Context, req driving.MatchRequest) (*domain.MatchResponse, error) {
	logger.Section("Job Match")

	topN := req.TopN
	if topN == 0 {
		topN = s.topN
	}
	if topN < domain.MinTopN || topN > domain.MaxTopN {
		return nil, fmt.Errorf("%w: top_n must be between %d and %d", domain.ErrInvalidInput, domain.MinTopN, domain.MaxTopN)
	}

	job, err := s.Get(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	response := &domain.MatchResponse{
		JobID:        job.ID,
		Requirements: job.Requirements,
		Matches:      []domain.MatchResult{},
	}

	docs, err := s.docStore.ListDocuments(ctx, driven.DocumentFilter{Status: domain.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return response, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	chunks, err := s.docStore.GetChunksForDocuments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}

	var matches []domain.MatchResult
	for _, doc := range docs {
		docChunks := chunks[doc.ID]
		if len(docChunks) == 0 {
			continue
		}

		m := matchDocument(job.Requirements, docChunks)
		if m.score <= 0 {
			continue
		}
		matches = append(matches, domain.MatchResult{
			DocumentID:          doc.ID,
			Filename:            doc.Filename,
			Score:               m.score,
			UploadedAt:          doc.UploadedAt,
			Evidence:            m.evidence,
			MissingRequirements: m.missing,
		})
	}
	logger.Debug("Job %s: %d of %d resumes match", job.ID, len(matches), len(docs))

	sort.Slice(matches, func(i, j int) bool {
		return rankedBefore(
			matches[i].Score, matches[i].UploadedAt, matches[i].DocumentID,
			matches[j].Score, matches[j].UploadedAt, matches[j].DocumentID)
	})
	if len(matches) > topN {
		matches = matches[:topN]
	}

	for i := range matches {
		matches[i].Score = roundScore(matches[i].Score)
		for j := range matches[i].Evidence {
			matches[i].Evidence[j].Text = redact.Text(matches[i].Evidence[j].Text, req.Role)
		}
	}
	response.Matches = matches
	if response.Matches == nil {
		response.Matches = []domain.MatchResult{}
	}
	return response, nil
}
