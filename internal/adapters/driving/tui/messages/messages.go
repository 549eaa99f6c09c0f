// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewComposer is the input field with command suggestions.
	ViewComposer
	// ViewPrompts lists stored prompts.
	ViewPrompts
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewComposer:
		return "composer"
	case ViewPrompts:
		return "prompts"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// PromptsLoaded carries the stored prompts.
type PromptsLoaded struct {
	Prompts []domain.PromptRecord
	Err     error
}

// PromptDeleted signals a prompt was removed.
type PromptDeleted struct {
	Title string
	Err   error
}

// Submitted signals the composer handed text to the sink.
type Submitted struct {
	Text string
	Sink string
	Err  error
}

// IndexReloaded signals the command index was rebuilt outside the TUI,
// typically after the prompt file changed on disk.
type IndexReloaded struct {
	Report *domain.RebuildReport
	Err    error
}
