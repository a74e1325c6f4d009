// Package mcp provides an MCP (Model Context Protocol) server adapter for resumerag.
// It lets AI assistants query resumes, create jobs and match them.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")
