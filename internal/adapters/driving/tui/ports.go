// Package tui provides an interactive terminal user interface for promptdeck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
)

// Ports aggregates the services required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Prompt manages stored prompts.
	Prompt driving.PromptService

	// NewEngine creates the match engine owned by the composer.
	NewEngine func() driving.MatchEngine

	// Sink receives submitted text. Optional; without it submissions are
	// only shown in the status bar.
	Sink driven.SubmissionSink

	// MaxVisible caps the suggestions shown at once. Zero uses the default.
	MaxVisible int
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
