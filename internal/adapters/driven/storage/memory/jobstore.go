package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]domain.Job)}
}

// SaveJob stores or updates a job.
func (s *JobStore) SaveJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *job
	stored.Requirements = append([]string(nil), job.Requirements...)
	s.jobs[job.ID] = stored
	return nil
}

// GetJob retrieves a job by ID.
func (s *JobStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}
