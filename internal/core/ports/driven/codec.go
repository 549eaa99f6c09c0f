package driven

import (
	"io"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// PromptCodec serialises prompt packs for export and import.
type PromptCodec interface {
	// Encode writes records to w, preserving their order.
	Encode(w io.Writer, records []domain.PromptRecord) error

	// Decode reads records from r in the order they appear.
	Decode(r io.Reader) ([]domain.PromptRecord, error)

	// Format returns the format name (e.g. "json", "yaml").
	Format() string
}
