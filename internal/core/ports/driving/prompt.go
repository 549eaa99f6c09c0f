package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// PromptService manages prompt records and keeps the command index current.
type PromptService interface {
	// Create stores a new prompt and rebuilds the index.
	// Creator and timestamps are stamped by the service.
	Create(ctx context.Context, record domain.PromptRecord) (*domain.PromptRecord, error)

	// Get retrieves a prompt by title.
	Get(ctx context.Context, title string) (*domain.PromptRecord, error)

	// List returns all prompts in storage order.
	List(ctx context.Context) ([]domain.PromptRecord, error)

	// Update replaces the title, command and content of the prompt stored
	// under title. Creator and creation time are kept.
	Update(ctx context.Context, title string, record domain.PromptRecord) (*domain.PromptRecord, error)

	// Delete removes a prompt and rebuilds the index.
	Delete(ctx context.Context, title string) error

	// Reload re-reads storage and rebuilds the index.
	// Called after external changes to the prompt file.
	Reload(ctx context.Context) (*domain.RebuildReport, error)

	// Commands returns one "/command - Title" line per indexed prompt.
	Commands() []string

	// Export writes all prompts to w in the given format.
	Export(ctx context.Context, w io.Writer, format string) error

	// Import reads prompts from r in the given format and creates each one.
	// Records that fail validation or collide are reported, not fatal.
	Import(ctx context.Context, r io.Reader, format string) (*domain.ImportReport, error)

	// Formats lists the export/import formats available.
	Formats() []string
}
