package mcp

import (
	"net/http"

	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Prompt manages stored prompts.
	Prompt driving.PromptService

	// NewEngine creates a match engine. Each tool call gets its own,
	// since engines are single-owner.
	NewEngine func() driving.MatchEngine

	// Metrics is served on /metrics by RunHTTP. Optional.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Prompt == nil {
		return ErrMissingPromptService
	}
	if p.NewEngine == nil {
		return ErrMissingEngine
	}
	return nil
}
