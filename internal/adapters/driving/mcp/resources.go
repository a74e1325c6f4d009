package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/redact"
)

const (
	// uriScheme is the custom URI scheme for resumerag resources.
	uriScheme = "resumerag://"

	// resourceListLimit caps the resume listing resource.
	resourceListLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
// Resources are read with the user role, so personal data is redacted.
func (s *Server) registerResources() {
	if s.ports.Documents == nil {
		return
	}

	// Static resource for listing resumes.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "resumes",
		Name:        "resumes",
		Description: "Ingested resumes, newest first",
		MIMEType:    "application/json",
	}, s.handleResumesResource)

	// Template for one resume's details.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "resumes/{resumeId}",
		Name:        "resume",
		Description: "Metadata and chunks of a specific resume",
		MIMEType:    "application/json",
	}, s.handleResumeResource)

	// Template for resume text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "resumes/{resumeId}/content",
		Name:        "resume-content",
		Description: "Normalised text of a specific resume",
		MIMEType:    "text/plain",
	}, s.handleResumeContentResource)
}

// handleResumesResource returns the resume listing.
func (s *Server) handleResumesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	list, err := s.ports.Documents.List(ctx, driving.ListOptions{Limit: resourceListLimit, Role: domain.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}

	items := list.Items
	if items == nil {
		items = []driving.DocumentSummary{}
	}
	return jsonResource(req.Params.URI, items)
}

// handleResumeResource returns one resume's details.
func (s *Server) handleResumeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	resumeID, sub := extractResumeID(req.Params.URI)
	if resumeID == "" || sub != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	details, err := s.ports.Documents.Get(ctx, resumeID, domain.RoleUser)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting resume: %w", err)
	}

	return jsonResource(req.Params.URI, details)
}

// handleResumeContentResource returns the text of a resume.
func (s *Server) handleResumeContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	resumeID, sub := extractResumeID(req.Params.URI)
	if resumeID == "" || sub != "content" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content, err := s.ports.Documents.GetContent(ctx, resumeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting resume content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     redact.Text(content, domain.RoleUser),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractResumeID splits a URI like resumerag://resumes/{resumeId}[/{sub}]
// into the resume ID and the optional sub-resource.
func extractResumeID(uri string) (id, sub string) {
	const prefix = uriScheme + "resumes/"

	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	id, sub, _ = strings.Cut(rest, "/")
	return id, sub
}
