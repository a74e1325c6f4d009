package domain

import "time"

// Job matching limits.
const (
	// MaxRequirements caps the extracted requirement list.
	MaxRequirements = 20

	// MaxEvidence caps the evidence entries reported per document.
	MaxEvidence = 3

	// MinTopN and MaxTopN bound a match request.
	MinTopN = 1
	MaxTopN = 100
)

// Job is a job posting.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements []string  `json:"parsed_requirements"`
	OwnerID      string    `json:"owner_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Evidence is a located excerpt supporting one or more matched requirements.
type Evidence struct {
	Page int    `json:"page"`
	Text string `json:"text"`

	// MatchedKeyword lists every matched requirement found in Text,
	// comma-joined in requirement order.
	MatchedKeyword string `json:"matched_keyword"`

	// LineNumber is the 1-based line of the match within its chunk.
	LineNumber int `json:"line_number"`
}

// MatchResult scores one document against a job. It is not persisted.
type MatchResult struct {
	DocumentID          string     `json:"resume_id"`
	Filename            string     `json:"filename"`
	Score               float64    `json:"score"`
	UploadedAt          time.Time  `json:"-"`
	Evidence            []Evidence `json:"evidence"`
	MissingRequirements []string   `json:"missing_requirements"`
}

// MatchResponse is the result of matching a job against all resumes.
type MatchResponse struct {
	JobID        string        `json:"job_id"`
	Requirements []string      `json:"requirements"`
	Matches      []MatchResult `json:"matches"`
}
