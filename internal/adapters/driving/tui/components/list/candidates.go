// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// DefaultMaxVisible is used when no cap is configured.
const DefaultMaxVisible = domain.DefaultMaxVisible

// Candidates renders the suggestion popup for a match session. It holds
// no selection state of its own: the highlight comes from the session.
// At most maxVisible rows are drawn, scrolled to keep the highlight in view.
type Candidates struct {
	styles     *styles.Styles
	session    *domain.MatchSession
	maxVisible int
	offset     int
	width      int
}

// NewCandidates creates a candidate list.
func NewCandidates(s *styles.Styles, maxVisible int) *Candidates {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if maxVisible <= 0 {
		maxVisible = DefaultMaxVisible
	}

	return &Candidates{
		styles:     s,
		maxVisible: maxVisible,
		width:      60,
	}
}

// SetSession updates the displayed session. nil hides the popup.
func (c *Candidates) SetSession(session *domain.MatchSession) {
	c.session = session
	c.scroll()
}

// scroll keeps the highlighted row inside the visible window.
func (c *Candidates) scroll() {
	if c.session == nil {
		c.offset = 0
		return
	}
	n := len(c.session.Candidates)
	h := c.session.HighlightedIndex
	switch {
	case h < 0:
		c.offset = 0
	case h < c.offset:
		c.offset = h
	case h >= c.offset+c.maxVisible:
		c.offset = h - c.maxVisible + 1
	}
	if c.offset > n-c.maxVisible {
		c.offset = max(0, n-c.maxVisible)
	}
}

// Visible reports whether the popup is shown.
func (c *Candidates) Visible() bool {
	return c.session != nil
}

// Rows returns the number of candidate rows drawn.
func (c *Candidates) Rows() int {
	if c.session == nil {
		return 0
	}
	return min(len(c.session.Candidates)-c.offset, c.maxVisible)
}

// IndexAt maps a rendered candidate row (0 = first drawn row) to a
// candidate index, or -1 when the row shows no candidate.
func (c *Candidates) IndexAt(row int) int {
	if row < 0 || row >= c.Rows() {
		return -1
	}
	return c.offset + row
}

// View renders the popup, or "" when hidden.
func (c *Candidates) View() string {
	if c.session == nil {
		return ""
	}
	if len(c.session.Candidates) == 0 {
		return c.styles.Popup.Render(c.styles.Muted.Render("No matching prompts"))
	}

	lines := make([]string, 0, c.Rows()+1)
	end := c.offset + c.Rows()
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderRow(i, &c.session.Candidates[i]))
	}
	if hidden := len(c.session.Candidates) - c.Rows(); hidden > 0 {
		lines = append(lines, c.styles.Muted.Render(fmt.Sprintf("  %d of %d", c.session.HighlightedIndex+1, len(c.session.Candidates))))
	}
	return c.styles.Popup.Render(strings.Join(lines, "\n"))
}

func (c *Candidates) renderRow(i int, rec *domain.PromptRecord) string {
	maxTitle := c.width - len([]rune(rec.Command)) - 8
	if maxTitle < 10 {
		maxTitle = 10
	}
	title := truncate(rec.Title, maxTitle)

	if i == c.session.HighlightedIndex {
		return c.styles.Selected.Render(fmt.Sprintf("> %s  %s", rec.Command, title))
	}
	return "  " + c.styles.Command.Render(rec.Command) + "  " + c.styles.Normal.Render(title)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetWidth sets the popup width.
func (c *Candidates) SetWidth(width int) {
	c.width = width
}

// MaxVisible returns the row cap.
func (c *Candidates) MaxVisible() int {
	return c.maxVisible
}

// Offset returns the index of the first drawn candidate.
func (c *Candidates) Offset() int {
	return c.offset
}
