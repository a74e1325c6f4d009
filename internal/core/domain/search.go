package domain

import "time"

// Ask request bounds.
const (
	MinAskK = 1
	MaxAskK = 100
)

// ScoredChunk is a similarity hit: a chunk and its bounded score.
// Score is 1/(1+distance), in (0, 1].
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
	Score    float64
}

// Snippet is a located excerpt of a document.
type Snippet struct {
	Page  int    `json:"page"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Answer is one ranked document for an ask query.
type Answer struct {
	DocumentID string    `json:"resume_id"`
	Filename   string    `json:"filename"`
	Score      float64   `json:"score"`
	UploadedAt time.Time `json:"uploaded_at"`
	Snippets   []Snippet `json:"snippets"`
}

// AskResponse is the result of an ask query.
type AskResponse struct {
	QueryID string   `json:"query_id"`
	Query   string   `json:"query"`
	K       int      `json:"k"`
	Answers []Answer `json:"answers"`

	// Cached is true when the answers came from the query cache.
	Cached bool `json:"cached"`
}
