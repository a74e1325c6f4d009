package mcp

import (
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ask answers natural language queries.
	Ask driving.AskService

	// Jobs creates and matches job postings. Optional: without it the
	// job tools are not registered.
	Jobs driving.JobService

	// Documents exposes resumes as resources. Optional.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	return nil
}
