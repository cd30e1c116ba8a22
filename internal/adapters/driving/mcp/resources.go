package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pdfrag resources.
	uriScheme = "pdfrag://"

	promptURI   = uriScheme + "prompt/grounding"
	settingsURI = uriScheme + "settings"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         promptURI,
		Name:        "grounding-prompt",
		Description: "Template used to ground answers in retrieved context",
		MIMEType:    "text/plain",
	}, s.handlePromptResource)

	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         settingsURI,
			Name:        "settings",
			Description: "Effective configuration with secrets masked",
			MIMEType:    "application/json",
		}, s.handleSettingsResource)
	}
}

// handlePromptResource returns the active grounding template.
func (s *Server) handlePromptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tmpl := domain.DefaultGroundingPrompt
	if s.ports.Prompt != nil {
		tmpl = s.ports.Prompt.Template()
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     tmpl,
		}},
	}, nil
}

// handleSettingsResource returns the redacted settings as JSON.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	data, err := json.MarshalIndent(settings.Redacted(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
