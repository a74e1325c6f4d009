// Package domain defines the core business entities for ResumeRAG.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested resume with lifecycle status and metadata
//   - Chunk: A page-anchored window of a document's normalised text
//   - ParseResult: Normalised text and page spans produced by a parser
//   - Job: A job posting with extracted requirements
//   - MatchResult: A ranked resume match with evidence
//   - Answer: A ranked resume returned for an "ask" query
//   - CacheEntry / IdempotencyRecord: Memoised responses
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
