// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Accent marks titles and the suggestion popup.
	Accent lipgloss.Color

	// Command is the colour of slash commands.
	Command lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for hints and secondary text.
	Muted lipgloss.Color

	// Highlight is the background of the highlighted suggestion.
	Highlight lipgloss.Color

	// Success indicates a delivered submission.
	Success lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the input border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#E0A458"), // amber
		Command:    lipgloss.Color("#6CB4EE"), // sky
		Foreground: lipgloss.Color("#E6E1CF"),
		Muted:      lipgloss.Color("#7F8490"),
		Highlight:  lipgloss.Color("#3B4252"),
		Success:    lipgloss.Color("#A3BE8C"),
		Error:      lipgloss.Color("#E06C75"),
		Border:     lipgloss.Color("#4C566A"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	// Input frames the composer text field.
	Input lipgloss.Style

	// Popup frames the suggestion list.
	Popup lipgloss.Style

	// Command renders a slash command.
	Command lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Highlight),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Popup: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),

		Command: lipgloss.NewStyle().
			Foreground(theme.Command),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
