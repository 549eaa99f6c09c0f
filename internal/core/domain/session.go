package domain

// SessionState is the state of a match engine.
type SessionState int

const (
	// SessionIdle means no command token is being composed.
	SessionIdle SessionState = iota

	// SessionComposing means a command token is open and candidates are live.
	SessionComposing
)

// String returns the string representation of the state.
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionComposing:
		return "composing"
	default:
		return "unknown"
	}
}

// NoHighlight is the highlighted index of a session with no candidates.
const NoHighlight = -1

// MatchSession is the ephemeral state of one command token being typed.
type MatchSession struct {
	// ID correlates log lines for a single session.
	ID string

	// QueryPrefix is the text between the slash and the cursor.
	QueryPrefix string

	// TokenStart is the rune offset of the triggering slash.
	TokenStart int

	// TokenEnd is the rune offset just past the command token
	// (the first whitespace at or after the cursor, or the buffer end).
	TokenEnd int

	// Candidates are the index records matching QueryPrefix, in index order.
	Candidates []PromptRecord

	// HighlightedIndex is the position of the highlighted candidate,
	// or NoHighlight.
	HighlightedIndex int
}

// Highlighted returns the highlighted candidate, if any.
func (s *MatchSession) Highlighted() (PromptRecord, bool) {
	if s == nil || s.HighlightedIndex < 0 || s.HighlightedIndex >= len(s.Candidates) {
		return PromptRecord{}, false
	}
	return s.Candidates[s.HighlightedIndex], true
}

// Key is a keyboard event the engine reacts to.
type Key int

const (
	// KeyArrowUp moves the highlight to the previous candidate.
	KeyArrowUp Key = iota
	// KeyArrowDown moves the highlight to the next candidate.
	KeyArrowDown
	// KeyEnter commits the highlighted candidate.
	KeyEnter
	// KeyEscape cancels the session.
	KeyEscape
)

// String returns the string representation of the key.
func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	default:
		return "unknown"
	}
}

// Submission is the result of a commit: the resolved text that replaced
// the input buffer and the record it came from.
type Submission struct {
	Text   string
	Record PromptRecord
	// Trailing is the free text that was available for the placeholder.
	Trailing string
}
