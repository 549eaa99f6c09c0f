// Package prompts provides the stored prompt browser for the TUI.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
)

var errServiceUnavailable = errors.New("prompt service not available")

// View lists stored prompts with their commands.
type View struct {
	styles        *styles.Styles
	promptService driving.PromptService
	ctx           context.Context

	prompts  []domain.PromptRecord
	selected int
	expanded bool
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new prompts view.
func NewView(s *styles.Styles, promptService driving.PromptService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		promptService: promptService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads prompts.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadPrompts(false)
}

// loadPrompts returns a command listing prompts, re-reading storage first
// when reload is set.
func (v *View) loadPrompts(reload bool) tea.Cmd {
	svc := v.promptService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.PromptsLoaded{Err: errServiceUnavailable}
		}
		if reload {
			if _, err := svc.Reload(ctx); err != nil {
				return messages.PromptsLoaded{Err: err}
			}
		}
		prompts, err := svc.List(ctx)
		return messages.PromptsLoaded{Prompts: prompts, Err: err}
	}
}

func (v *View) deletePrompt(title string) tea.Cmd {
	svc := v.promptService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.PromptDeleted{Title: title, Err: errServiceUnavailable}
		}
		return messages.PromptDeleted{Title: title, Err: svc.Delete(ctx, title)}
	}
}

// Update handles messages for the prompts view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PromptsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.prompts = msg.Prompts
		v.err = nil
		if v.selected >= len(v.prompts) {
			v.selected = max(0, len(v.prompts)-1)
		}
		return v, nil

	case messages.PromptDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadPrompts(false)

	case messages.IndexReloaded:
		return v, v.loadPrompts(false)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.prompts)-1 {
			v.selected++
		}
	case "enter":
		v.expanded = !v.expanded
	case "d", "delete":
		if v.selected < len(v.prompts) {
			return v, v.deletePrompt(v.prompts[v.selected].Title)
		}
	case "r":
		v.loading = true
		return v, v.loadPrompts(true)
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the prompts list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Prompts"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading prompts..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.prompts) == 0:
		b.WriteString(v.styles.Muted.Render("No prompts yet. Add one with: promptdeck prompt add"))
	default:
		for i := range v.prompts {
			b.WriteString(v.renderPrompt(i, &v.prompts[i]))
			b.WriteString("\n")
		}
		if v.expanded && v.selected < len(v.prompts) {
			b.WriteString("\n")
			b.WriteString(v.renderContent(&v.prompts[v.selected]))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[enter] preview  [d] delete  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderPrompt(index int, p *domain.PromptRecord) string {
	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-16s %s", p.Command, p.Title))
	}
	return "  " + v.styles.Command.Render(fmt.Sprintf("%-16s", p.Command)) + " " + v.styles.Normal.Render(p.Title)
}

func (v *View) renderContent(p *domain.PromptRecord) string {
	var b strings.Builder
	b.WriteString(v.styles.Normal.Render(p.Content))
	if p.Creator != "" || !p.Modified.IsZero() {
		b.WriteString("\n")
		meta := "by " + p.Creator
		if !p.Modified.IsZero() {
			meta += ", modified " + p.Modified.Format("2006-01-02 15:04")
		}
		b.WriteString(v.styles.Muted.Render(meta))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Prompts returns the loaded prompts.
func (v *View) Prompts() []domain.PromptRecord {
	return v.prompts
}

// SelectedIndex returns the selected prompt index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
