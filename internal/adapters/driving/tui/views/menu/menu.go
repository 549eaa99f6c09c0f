// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label string
	// Hint is shown under the list while the item is selected.
	Hint string
	View messages.ViewType
	Quit bool
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		items: []Item{
			{Label: "Compose", Hint: "Type / to pick a prompt, Enter to send", View: messages.ViewComposer},
			{Label: "Prompts", Hint: "Browse and delete saved prompts", View: messages.ViewPrompts},
			{Label: "Help", Hint: "Key bindings", View: messages.ViewHelp},
			{Label: "Quit", Hint: "Leave promptdeck", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case "enter":
			return v, v.activate(v.selected)
		case "q":
			return v, tea.Quit
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			i := int(msg.Runes[0] - '1')
			if i < len(v.items) {
				v.selected = i
				return v, v.activate(i)
			}
		}
	}

	return v, nil
}

func (v *View) activate(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("promptdeck"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Slash commands for your prompts"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if hint := v.items[v.selected].Hint; hint != "" {
		b.WriteString(v.styles.Muted.Render(hint))
		b.WriteString("\n\n")
	}
	b.WriteString(v.styles.Muted.Render("[j/k] Navigate  [1-4] Jump  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
