package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/views/composer"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/views/prompts"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	composerView *composer.View
	promptsView  *prompts.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		composerView: composer.NewView(s, km, ports.NewEngine(), ports.Sink, ports.MaxVisible),
		promptsView:  prompts.NewView(s, ports.Prompt),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.composerView.WithContext(ctx)
	a.promptsView.WithContext(ctx)
	return a
}

// StartIn sets the view shown first.
func (a *App) StartIn(view messages.ViewType) *App {
	a.currentView = view
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("promptdeck")}
	switch a.currentView {
	case messages.ViewComposer:
		cmds = append(cmds, a.composerView.Init())
	case messages.ViewPrompts:
		cmds = append(cmds, a.promptsView.Init())
	case messages.ViewMenu, messages.ViewHelp:
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			if keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewHelp
				return a, nil
			}
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewComposer:
			a.composerView, cmd = a.composerView.Update(msg)
		case messages.ViewPrompts:
			a.promptsView, cmd = a.promptsView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewComposer:
			a.composerView.Reset()
			return a, a.composerView.Init()
		case messages.ViewPrompts:
			return a, a.promptsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.IndexReloaded:
		// The composer's engine must see the new index whichever view is active.
		var cmds []tea.Cmd
		a.composerView, cmd = a.composerView.Update(msg)
		cmds = append(cmds, cmd)
		if a.currentView == messages.ViewPrompts {
			a.promptsView, cmd = a.promptsView.Update(msg)
			cmds = append(cmds, cmd)
		}
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, tea.Batch(cmds...)

	case messages.Submitted:
		a.composerView, cmd = a.composerView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.PromptsLoaded, messages.PromptDeleted:
		a.promptsView, cmd = a.promptsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewComposer {
			a.composerView, cmd = a.composerView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward everything else (cursor blink, mouse) to the active view.
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewComposer:
		a.composerView, cmd = a.composerView.Update(msg)
	case messages.ViewPrompts:
		a.promptsView, cmd = a.promptsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewComposer:
		return a.composerView.View()
	case messages.ViewPrompts:
		return a.promptsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("Type / in the composer to search prompts by command.\n"))
	b.WriteString(a.styles.Muted.Render("Prompts may contain {input}; text after the command fills it."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.composerView.SetDimensions(width, height)
	a.promptsView.SetDimensions(width, height)
}
