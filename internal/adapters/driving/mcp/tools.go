package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"what to look for in resumes, e.g. 'python backend engineer'"`
	K     int    `json:"k,omitempty" jsonschema:"number of resumes to return, 1 to 100 (default 5)"`
	Role  string `json:"role,omitempty" jsonschema:"caller role: user, recruiter or admin (default user)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	QueryID string         `json:"query_id"`
	Answers []AnswerOutput `json:"answers"`
	Count   int            `json:"count"`
	Cached  bool           `json:"cached"`
}

// AnswerOutput is one ranked resume.
type AnswerOutput struct {
	ResumeID   string          `json:"resume_id"`
	Filename   string          `json:"filename"`
	Score      float64         `json:"score"`
	UploadedAt string          `json:"uploaded_at"`
	Snippets   []SnippetOutput `json:"snippets"`
}

// SnippetOutput is a located excerpt.
type SnippetOutput struct {
	Page  int    `json:"page"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CreateJobInput is the input schema for the create_job tool.
type CreateJobInput struct {
	Title          string `json:"title" jsonschema:"job title"`
	Description    string `json:"description" jsonschema:"job description; requirements are extracted from it"`
	IdempotencyKey string `json:"idempotency_key,omitempty" jsonschema:"optional token; retries with the same token return the original job"`
}

// JobOutput is the output schema for the create_job tool.
type JobOutput struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Requirements []string `json:"requirements"`
	CreatedAt    string   `json:"created_at"`
}

// MatchJobInput is the input schema for the match_job tool.
type MatchJobInput struct {
	JobID string `json:"job_id" jsonschema:"ID returned by create_job"`
	TopN  int    `json:"top_n,omitempty" jsonschema:"maximum number of resumes, 1 to 100 (default 10)"`
	Role  string `json:"role,omitempty" jsonschema:"caller role: user, recruiter or admin (default user)"`
}

// MatchJobOutput is the output schema for the match_job tool.
type MatchJobOutput struct {
	JobID        string        `json:"job_id"`
	Requirements []string      `json:"requirements"`
	Matches      []MatchOutput `json:"matches"`
}

// MatchOutput is one matched resume.
type MatchOutput struct {
	ResumeID            string           `json:"resume_id"`
	Filename            string           `json:"filename"`
	Score               float64          `json:"score"`
	Evidence            []EvidenceOutput `json:"evidence"`
	MissingRequirements []string         `json:"missing_requirements"`
}

// EvidenceOutput is an excerpt supporting matched requirements.
type EvidenceOutput struct {
	Page           int    `json:"page"`
	Text           string `json:"text"`
	MatchedKeyword string `json:"matched_keyword"`
	LineNumber     int    `json:"line_number"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Find the resumes that best answer a query",
	}, s.handleAsk)

	if s.ports.Jobs == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_job",
		Description: "Create a job posting and extract its requirements",
	}, s.handleCreateJob)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "match_job",
		Description: "Rank resumes by how many job requirements they contain",
	}, s.handleMatchJob)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, AskOutput{}, err
	}

	resp, err := s.ports.Ask.Ask(ctx, driving.AskRequest{Query: input.Query, K: input.K, Role: role})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		QueryID: resp.QueryID,
		Answers: make([]AnswerOutput, len(resp.Answers)),
		Count:   len(resp.Answers),
		Cached:  resp.Cached,
	}
	for i, a := range resp.Answers {
		snippets := make([]SnippetOutput, len(a.Snippets))
		for j, sn := range a.Snippets {
			snippets[j] = SnippetOutput{Page: sn.Page, Text: sn.Text, Start: sn.Start, End: sn.End}
		}
		output.Answers[i] = AnswerOutput{
			ResumeID:   a.DocumentID,
			Filename:   a.Filename,
			Score:      a.Score,
			UploadedAt: a.UploadedAt.Format(time.RFC3339),
			Snippets:   snippets,
		}
	}

	return nil, output, nil
}

// handleCreateJob handles the create_job tool invocation.
func (s *Server) handleCreateJob(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateJobInput,
) (*mcp.CallToolResult, JobOutput, error) {
	job, err := s.ports.Jobs.Create(ctx, driving.CreateJobRequest{
		Title:          input.Title,
		Description:    input.Description,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		return nil, JobOutput{}, err
	}

	requirements := job.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return nil, JobOutput{
		ID:           job.ID,
		Title:        job.Title,
		Requirements: requirements,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
	}, nil
}

// handleMatchJob handles the match_job tool invocation.
func (s *Server) handleMatchJob(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MatchJobInput,
) (*mcp.CallToolResult, MatchJobOutput, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, MatchJobOutput{}, err
	}

	resp, err := s.ports.Jobs.Match(ctx, driving.MatchRequest{JobID: input.JobID, TopN: input.TopN, Role: role})
	if err != nil {
		return nil, MatchJobOutput{}, err
	}

	output := MatchJobOutput{
		JobID:        resp.JobID,
		Requirements: append([]string{}, resp.Requirements...),
		Matches:      make([]MatchOutput, len(resp.Matches)),
	}
	for i, m := range resp.Matches {
		evidence := make([]EvidenceOutput, len(m.Evidence))
		for j, ev := range m.Evidence {
			evidence[j] = EvidenceOutput{
				Page:           ev.Page,
				Text:           ev.Text,
				MatchedKeyword: ev.MatchedKeyword,
				LineNumber:     ev.LineNumber,
			}
		}
		output.Matches[i] = MatchOutput{
			ResumeID:            m.DocumentID,
			Filename:            m.Filename,
			Score:               m.Score,
			Evidence:            evidence,
			MissingRequirements: append([]string{}, m.MissingRequirements...),
		}
	}

	return nil, output, nil
}
