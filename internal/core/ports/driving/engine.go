package driving

import "github.com/custodia-labs/promptdeck/internal/core/domain"

// MatchEngine tracks one input field: it detects command tokens, computes
// candidates and rewrites the buffer on commit.
//
// Engines are single-owner and must not be used from multiple goroutines.
type MatchEngine interface {
	// BufferChanged reports a new buffer and cursor position (in runes;
	// negative means end of buffer).
	BufferChanged(text string, cursor int)

	// Key handles a navigation or control key. A non-nil submission is
	// returned when the key committed a candidate.
	Key(k domain.Key) *domain.Submission

	// Hover highlights the candidate at index i. Out-of-range indexes are ignored.
	Hover(i int)

	// Click commits the candidate at index i.
	Click(i int) *domain.Submission

	// MoveHighlight moves the highlight by delta with wrap-around.
	MoveHighlight(delta int)

	// Select commits the given record as if it were highlighted.
	// Ignored while idle.
	Select(record domain.PromptRecord) *domain.Submission

	// Commit commits the highlighted candidate. With no highlight the
	// session closes and the buffer is unchanged.
	Commit() *domain.Submission

	// Cancel closes the session without touching the buffer.
	Cancel()

	// Refresh re-evaluates the current buffer against the index.
	Refresh()

	// Expand resolves text that starts with an exact command.
	// ok is false, and text is returned unchanged, when no command matches.
	Expand(text string) (resolved string, ok bool)

	// State returns the current session state.
	State() domain.SessionState

	// Session returns a copy of the open session, or nil while idle.
	Session() *domain.MatchSession

	// Buffer returns the current buffer text.
	Buffer() string
}
