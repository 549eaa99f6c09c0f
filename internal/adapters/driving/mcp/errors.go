// Package mcp provides an MCP (Model Context Protocol) server adapter for promptdeck.
// It lets assistants list prompts, preview command matches and expand text.
package mcp

import "errors"

// ErrMissingPromptService is returned when the prompt service is not provided.
var ErrMissingPromptService = errors.New("mcp: prompt service is required")

// ErrMissingEngine is returned when no match engine factory is provided.
var ErrMissingEngine = errors.New("mcp: match engine is required")
