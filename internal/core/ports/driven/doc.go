// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - NormaliserRegistry: Selects a parser by filename extension
//   - Normaliser: Extracts page text from one file format
//   - PostProcessorPipeline: Chunks and embeds a parsed document
//   - EmbeddingService: Maps text to a fixed-dimension unit vector
//   - DocumentStore: Document and chunk persistence
//   - SimilaritySearch: Nearest chunks to a query vector
//   - JobStore: Job posting persistence
//   - CacheStore: Query cache with TTL
//   - IdempotencyStore: Idempotency key persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
