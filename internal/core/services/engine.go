package services

import (
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// Ensure MatchEngine implements the interface.
var _ driving.MatchEngine = (*MatchEngine)(nil)

// Reasons a session closes, as reported to metrics.
const (
	closeCommit      = "commit"
	closeEmpty       = "empty"
	closeCancel      = "cancel"
	closeInvalidated = "invalidated"
	closeRetriggered = "retriggered"
)

// MatchEngine implements command matching and selection for one input field.
// It owns at most one session at a time and is not safe for concurrent use.
type MatchEngine struct {
	index   driving.CommandIndex
	metrics driven.EngineMetrics

	text    []rune
	cursor  int
	session *domain.MatchSession

	// dismissed is the token the user cancelled. It stays closed until the
	// buffer text changes.
	dismissed *dismissal
}

type dismissal struct {
	start int
	text  string
}

// NewMatchEngine creates an idle engine reading from index.
func NewMatchEngine(index driving.CommandIndex) *MatchEngine {
	return &MatchEngine{index: index}
}

// SetMetrics sets the optional metrics recorder.
func (e *MatchEngine) SetMetrics(m driven.EngineMetrics) {
	e.metrics = m
}

// BufferChanged re-evaluates the trigger context for a new buffer and cursor.
func (e *MatchEngine) BufferChanged(text string, cursor int) {
	e.text = []rune(text)
	if cursor < 0 || cursor > len(e.text) {
		cursor = len(e.text)
	}
	e.cursor = cursor

	start, ok := triggerStart(e.text, cursor)
	if e.dismissed != nil {
		if e.dismissed.text != text {
			e.dismissed = nil
		} else if ok && start == e.dismissed.start {
			return
		}
	}
	if !ok {
		if e.session != nil {
			e.close(closeInvalidated)
		}
		return
	}

	if e.session != nil && e.session.TokenStart != start {
		e.close(closeRetriggered)
	}
	if e.session == nil {
		e.open(start)
	}

	e.session.TokenEnd = tokenEnd(e.text, cursor)
	e.update(string(e.text[start+1 : cursor]))
}

// triggerStart returns the offset of the slash opening the token that ends
// at cursor. The token starts after the last whitespace before the cursor.
func triggerStart(text []rune, cursor int) (int, bool) {
	i := cursor
	for i > 0 && !unicode.IsSpace(text[i-1]) {
		i--
	}
	if i >= cursor || text[i] != '/' {
		return 0, false
	}
	return i, true
}

// tokenEnd returns the offset of the first whitespace at or after cursor.
func tokenEnd(text []rune, cursor int) int {
	for i := cursor; i < len(text); i++ {
		if unicode.IsSpace(text[i]) {
			return i
		}
	}
	return len(text)
}

// trailingText returns the buffer after end, minus one leading whitespace rune.
func trailingText(text []rune, end int) string {
	rest := text[end:]
	if len(rest) > 0 && unicode.IsSpace(rest[0]) {
		rest = rest[1:]
	}
	return string(rest)
}

func (e *MatchEngine) open(start int) {
	e.session = &domain.MatchSession{
		ID:               uuid.NewString(),
		TokenStart:       start,
		HighlightedIndex: domain.NoHighlight,
	}
	logger.Debug("engine[%s]: session opened at %d", e.session.ID, start)
	if e.metrics != nil {
		e.metrics.SessionOpened()
	}
}

func (e *MatchEngine) close(reason string) {
	logger.Debug("engine[%s]: session closed (%s)", e.session.ID, reason)
	e.session = nil
	if e.metrics != nil {
		e.metrics.SessionClosed(reason)
	}
}

// update recomputes candidates for prefix, keeping the highlight on the same
// record when it is still a candidate.
func (e *MatchEngine) update(prefix string) {
	prev, hadPrev := e.session.Highlighted()

	candidates := e.index.Query(prefix)
	highlight := domain.NoHighlight
	if len(candidates) > 0 {
		highlight = 0
	}
	if hadPrev {
		for i := range candidates {
			if candidates[i].Title == prev.Title {
				highlight = i
				break
			}
		}
	}

	e.session.QueryPrefix = prefix
	e.session.Candidates = candidates
	e.session.HighlightedIndex = highlight

	if e.metrics != nil {
		e.metrics.CandidatesComputed(len(candidates))
	}
}

// Key handles a navigation or control key.
func (e *MatchEngine) Key(k domain.Key) *domain.Submission {
	switch k {
	case domain.KeyArrowUp:
		e.MoveHighlight(-1)
	case domain.KeyArrowDown:
		e.MoveHighlight(1)
	case domain.KeyEnter:
		return e.Commit()
	case domain.KeyEscape:
		e.Cancel()
	}
	return nil
}

// Hover highlights the candidate at index i.
func (e *MatchEngine) Hover(i int) {
	if e.session == nil || i < 0 || i >= len(e.session.Candidates) {
		return
	}
	e.session.HighlightedIndex = i
}

// Click commits the candidate at index i.
func (e *MatchEngine) Click(i int) *domain.Submission {
	if e.session == nil || i < 0 || i >= len(e.session.Candidates) {
		return nil
	}
	e.session.HighlightedIndex = i
	return e.Commit()
}

// MoveHighlight moves the highlight by delta, wrapping in both directions.
func (e *MatchEngine) MoveHighlight(delta int) {
	if e.session == nil {
		return
	}
	n := len(e.session.Candidates)
	if n == 0 {
		return
	}
	cur := e.session.HighlightedIndex
	if cur < 0 {
		cur = 0
	}
	e.session.HighlightedIndex = ((cur+delta)%n + n) % n
}

// Select commits record as if it were the highlighted candidate.
func (e *MatchEngine) Select(record domain.PromptRecord) *domain.Submission {
	if e.session == nil {
		return nil
	}
	return e.commit(record)
}

// Commit commits the highlighted candidate.
func (e *MatchEngine) Commit() *domain.Submission {
	if e.session == nil {
		return nil
	}
	rec, ok := e.session.Highlighted()
	if !ok {
		e.close(closeEmpty)
		return nil
	}
	return e.commit(rec)
}

func (e *MatchEngine) commit(rec domain.PromptRecord) *domain.Submission {
	trailing := trailingText(e.text, e.session.TokenEnd)
	resolved := rec.Resolve(trailing)

	e.text = []rune(resolved)
	e.cursor = len(e.text)
	e.close(closeCommit)

	return &domain.Submission{Text: resolved, Record: rec, Trailing: trailing}
}

// Cancel closes the session without touching the buffer.
func (e *MatchEngine) Cancel() {
	if e.session != nil {
		e.dismissed = &dismissal{start: e.session.TokenStart, text: string(e.text)}
		e.close(closeCancel)
	}
}

// Refresh re-queries the index for the open session, keeping the highlight.
func (e *MatchEngine) Refresh() {
	if e.session == nil {
		return
	}
	e.update(e.session.QueryPrefix)
}

// Expand resolves text beginning with an exact command followed by
// whitespace or end of text.
func (e *MatchEngine) Expand(text string) (string, bool) {
	runes := []rune(text)
	if len(runes) == 0 || runes[0] != '/' {
		e.recordExpand(false)
		return text, false
	}

	end := tokenEnd(runes, 0)
	rec, ok := e.index.Lookup(string(runes[:end]))
	if !ok {
		e.recordExpand(false)
		return text, false
	}

	e.recordExpand(true)
	return rec.Resolve(trailingText(runes, end)), true
}

func (e *MatchEngine) recordExpand(matched bool) {
	if e.metrics != nil {
		e.metrics.Expanded(matched)
	}
}

// State returns the current session state.
func (e *MatchEngine) State() domain.SessionState {
	if e.session == nil {
		return domain.SessionIdle
	}
	return domain.SessionComposing
}

// Session returns a copy of the open session, or nil while idle.
func (e *MatchEngine) Session() *domain.MatchSession {
	if e.session == nil {
		return nil
	}
	s := *e.session
	s.Candidates = append([]domain.PromptRecord(nil), e.session.Candidates...)
	return &s
}

// Buffer returns the current buffer text.
func (e *MatchEngine) Buffer() string {
	return string(e.text)
}

// Cursor returns the current cursor offset in runes.
func (e *MatchEngine) Cursor() int {
	return e.cursor
}
