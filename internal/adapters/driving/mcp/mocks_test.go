package mcp

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	response *domain.AskResponse
	err      error
	lastReq  driving.AskRequest
}

func (m *mockAskService) Ask(_ context.Context, req driving.AskRequest) (*domain.AskResponse, error) {
	m.lastReq = req
	return m.response, m.err
}

// mockJobService is a mock implementation of driving.JobService.
type mockJobService struct {
	job       *domain.Job
	match     *domain.MatchResponse
	err       error
	lastMatch driving.MatchRequest
}

func (m *mockJobService) Create(_ context.Context, _ driving.CreateJobRequest) (*domain.Job, error) {
	return m.job, m.err
}

func (m *mockJobService) Get(_ context.Context, _ string) (*domain.Job, error) {
	return m.job, m.err
}

func (m *mockJobService) Match(_ context.Context, req driving.MatchRequest) (*domain.MatchResponse, error) {
	m.lastMatch = req
	return m.match, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	list     *driving.DocumentList
	details  *driving.DocumentDetails
	content  string
	err      error
	lastRole domain.Role
}

func (m *mockDocumentService) List(_ context.Context, opts driving.ListOptions) (*driving.DocumentList, error) {
	m.lastRole = opts.Role
	return m.list, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string, role domain.Role) (*driving.DocumentDetails, error) {
	m.lastRole = role
	return m.details, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}
