// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/styles"
)

// Composer wraps a bubbles textinput. Cursor positions are rune offsets,
// matching the match engine.
type Composer struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewComposer creates a focused composer input.
func NewComposer(s *styles.Styles) *Composer {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Type / to insert a prompt..."
	ti.Prompt = "› "
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60

	return &Composer{
		textinput: ti,
		styles:    s,
		width:     60,
	}
}

// Init starts the cursor blink.
func (c *Composer) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *Composer) Update(msg tea.Msg) (*Composer, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the framed input.
func (c *Composer) View() string {
	return c.styles.Input.Render(c.textinput.View())
}

// Value returns the current text.
func (c *Composer) Value() string {
	return c.textinput.Value()
}

// Position returns the cursor position in runes.
func (c *Composer) Position() int {
	return c.textinput.Position()
}

// SetValue replaces the text and moves the cursor to the end.
func (c *Composer) SetValue(value string) {
	c.textinput.SetValue(value)
	c.textinput.CursorEnd()
}

// SetCursor moves the cursor to pos.
func (c *Composer) SetCursor(pos int) {
	c.textinput.SetCursor(pos)
}

// Focus sets focus on the input.
func (c *Composer) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *Composer) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *Composer) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *Composer) SetWidth(width int) {
	c.width = width
	// Account for prompt, border and padding
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *Composer) Width() int {
	return c.width
}

// Reset clears the input.
func (c *Composer) Reset() {
	c.textinput.Reset()
}
