package driving

import "github.com/custodia-labs/promptdeck/internal/core/domain"

// CommandIndex is the shared, atomically replaced snapshot of known commands.
// All methods are safe for concurrent use.
type CommandIndex interface {
	// Rebuild replaces the snapshot with records. Invalid records and later
	// duplicates (by title or case-insensitive command) are skipped.
	Rebuild(records []domain.PromptRecord) domain.RebuildReport

	// Query returns every record whose command starts with "/" + prefix,
	// compared case-insensitively, in index order.
	Query(prefix string) []domain.PromptRecord

	// Lookup finds the record whose command equals command case-insensitively.
	Lookup(command string) (domain.PromptRecord, bool)

	// All returns the whole snapshot in index order.
	All() []domain.PromptRecord

	// Len returns the number of indexed records.
	Len() int
}
