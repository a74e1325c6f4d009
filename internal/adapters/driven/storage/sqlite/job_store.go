package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driven"
)

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// SaveJob stores or updates a job.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.Job) error {
	requirements := job.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	requirementsJSON, err := json.Marshal(requirements)
	if err != nil {
		return fmt.Errorf("marshalling requirements: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (id, title, description, requirements, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			requirements = excluded.requirements,
			owner_id = excluded.owner_id
	`, job.ID, job.Title, job.Description, string(requirementsJSON), job.OwnerID, job.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, title, description, requirements, owner_id, created_at
		FROM jobs WHERE id = ?
	`, id)

	var job domain.Job
	var requirementsJSON string
	if err := row.Scan(&job.ID, &job.Title, &job.Description, &requirementsJSON,
		&job.OwnerID, &job.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}
	job.CreatedAt = job.CreatedAt.UTC()

	if err := json.Unmarshal([]byte(requirementsJSON), &job.Requirements); err != nil {
		return nil, fmt.Errorf("unmarshaling requirements: %w", err)
	}

	return &job, nil
}
