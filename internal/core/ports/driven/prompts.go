package driven

import (
	"context"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// PromptStore persists prompt records.
// Implementations enforce title uniqueness and case-insensitive command
// uniqueness (via domain.CheckConflicts) at create and update time.
type PromptStore interface {
	// List returns all prompts in storage order.
	// Records that cannot be decoded are skipped, not returned as errors.
	List(ctx context.Context) ([]domain.PromptRecord, error)

	// Get retrieves a prompt by title.
	// Returns domain.ErrNotFound if the title is unknown.
	Get(ctx context.Context, title string) (*domain.PromptRecord, error)

	// Create appends a new prompt.
	// Returns domain.ErrAlreadyExists for a taken title,
	// domain.ErrDuplicateCommand for a taken command and
	// domain.ErrInvalidCommand for a malformed command.
	Create(ctx context.Context, record domain.PromptRecord) error

	// Update replaces the prompt stored under title. The record may carry a
	// new title, in which case the prompt is renamed in place and keeps its
	// position in storage order.
	Update(ctx context.Context, title string, record domain.PromptRecord) error

	// Delete removes a prompt by title.
	// Returns domain.ErrNotFound if the title is unknown.
	Delete(ctx context.Context, title string) error
}

// PromptFileLocator is implemented by stores backed by a single file.
// The prompt watcher uses it to know which path to observe.
type PromptFileLocator interface {
	// Path returns the file holding the prompts.
	Path() string
}
