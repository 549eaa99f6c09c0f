package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

const uriScheme = "promptdeck://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "prompts",
		Name:        "prompts",
		Description: "All stored prompts with their commands",
		MIMEType:    "application/json",
	}, s.handlePromptsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "prompts/{title}",
		Name:        "prompt-content",
		Description: "Content of a prompt, by title",
		MIMEType:    "text/plain",
	}, s.handlePromptContentResource)
}

func (s *Server) handlePromptsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	prompts, err := s.ports.Prompt.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}

	infos := make([]PromptOutput, len(prompts))
	for i := range prompts {
		infos[i] = toOutput(&prompts[i], false)
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling prompts: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handlePromptContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	title := extractTitle(req.Params.URI)
	if title == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	prompt, err := s.ports.Prompt.Get(ctx, title)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting prompt: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     prompt.Content,
		}},
	}, nil
}

// extractTitle extracts the title from a URI like promptdeck://prompts/{title}.
// Titles are percent-encoded in the URI.
func extractTitle(uri string) string {
	const prefix = uriScheme + "prompts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	title, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return title
}
