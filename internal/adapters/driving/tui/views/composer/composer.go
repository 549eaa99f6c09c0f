// Package composer provides the text field with slash-command suggestions.
package composer

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// headerLines is the title line plus the blank line under it.
const headerLines = 2

// View is the composer: an input field, the suggestion popup under it
// and a status bar. It owns one match engine.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Composer
	list      *list.Candidates
	statusbar *status.Bar

	engine driving.MatchEngine
	sink   driven.SubmissionSink
	ctx    context.Context

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a composer view. sink may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	engine driving.MatchEngine,
	sink driven.SubmissionSink,
	maxVisible int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewComposer(s),
		list:      list.NewCandidates(s, maxVisible),
		statusbar: status.NewBar(s, km),
		engine:    engine,
		sink:      sink,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for submissions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the input field.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Update handles messages for the composer.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case tea.MouseMsg:
		v.handleMouse(msg)
		return v, nil

	case messages.Submitted:
		v.handleSubmitted(msg)
		return v, nil

	case messages.IndexReloaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.engine.Refresh()
		v.sync()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.engine.State() == domain.SessionComposing {
		if handled := v.handleComposingKey(msg); handled {
			return v, nil
		}
	} else {
		switch {
		case keymap.Matches(msg.String(), v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(msg.String(), v.keymap.Submit):
			return v, v.submit()
		}
	}

	value, pos := v.input.Value(), v.input.Position()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() != value || v.input.Position() != pos {
		v.engine.BufferChanged(v.input.Value(), v.input.Position())
	}
	v.statusbar.SetMessage("")
	v.sync()
	return v, cmd
}

// handleComposingKey routes popup keys to the engine. It reports false for
// keys that belong to the input field.
func (v *View) handleComposingKey(msg tea.KeyMsg) bool {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.engine.Key(domain.KeyArrowUp)
	case keymap.Matches(k, v.keymap.Down):
		v.engine.Key(domain.KeyArrowDown)
	case keymap.Matches(k, v.keymap.Select):
		v.applySubmission(v.engine.Key(domain.KeyEnter))
	case keymap.Matches(k, v.keymap.Cancel):
		v.engine.Key(domain.KeyEscape)
	default:
		return false
	}
	v.sync()
	return true
}

func (v *View) handleMouse(msg tea.MouseMsg) {
	if !v.list.Visible() {
		return
	}
	idx := v.list.IndexAt(msg.Y - v.popupFirstRow())
	if idx < 0 {
		return
	}

	switch {
	case msg.Action == tea.MouseActionMotion:
		v.engine.Hover(idx)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		v.applySubmission(v.engine.Click(idx))
	}
	v.sync()
}

// popupFirstRow is the screen row of the first candidate: below the
// header, the framed input and the popup's top border.
func (v *View) popupFirstRow() int {
	return headerLines + lipgloss.Height(v.renderInput()) + 1
}

// applySubmission writes a committed expansion back into the input field.
func (v *View) applySubmission(sub *domain.Submission) {
	if sub == nil {
		v.statusbar.SetMessage("Nothing highlighted")
		return
	}
	v.input.SetValue(sub.Text)
	v.statusbar.SetMessage("Inserted " + sub.Record.Command)
	logger.Debug("composer: inserted %s", sub.Record.Command)
}

// submit expands the buffer and hands it to the sink.
func (v *View) submit() tea.Cmd {
	text := v.input.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	resolved, _ := v.engine.Expand(text)

	sink := v.sink
	ctx := v.ctx
	return func() tea.Msg {
		if sink == nil {
			return messages.Submitted{Text: resolved}
		}
		err := sink.Submit(ctx, resolved)
		return messages.Submitted{Text: resolved, Sink: sink.Name(), Err: err}
	}
}

func (v *View) handleSubmitted(msg messages.Submitted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.input.Reset()
	v.engine.BufferChanged("", 0)
	v.sync()

	v.statusbar.SetState(status.StateSent)
	if msg.Sink != "" {
		v.statusbar.SetMessage("Sent to " + msg.Sink)
	} else {
		v.statusbar.SetMessage(fmt.Sprintf("Composed %d characters", len([]rune(msg.Text))))
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// sync refreshes the popup and status bar from the engine.
func (v *View) sync() {
	session := v.engine.Session()
	v.list.SetSession(session)
	if session != nil {
		v.err = nil
		v.statusbar.SetState(status.StateComposing)
		v.statusbar.SetCandidates(len(session.Candidates))
		return
	}
	if v.statusbar.State() == status.StateComposing {
		v.statusbar.SetState(status.StateReady)
	}
	v.statusbar.SetCandidates(0)
}

// View renders the composer.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Compose"))
	b.WriteString("\n\n")
	b.WriteString(v.renderInput())
	b.WriteString("\n")

	used := headerLines + lipgloss.Height(v.renderInput())
	if popup := v.list.View(); popup != "" {
		b.WriteString(popup)
		b.WriteString("\n")
		used += lipgloss.Height(popup)
	}

	// Keep the status bar on the last line.
	if gap := v.height - used - 1; gap > 0 {
		b.WriteString(strings.Repeat("\n", gap))
	}
	b.WriteString(v.statusbar.View())
	return b.String()
}

func (v *View) renderInput() string {
	return v.input.View()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.list.SetWidth(width - 4)
	v.statusbar.SetWidth(width)
}

// Reset clears the input and closes any open session.
func (v *View) Reset() {
	v.input.Reset()
	v.engine.BufferChanged("", 0)
	v.err = nil
	v.statusbar.Clear()
	v.sync()
}

// Value returns the input text.
func (v *View) Value() string {
	return v.input.Value()
}

// Session returns the open match session, or nil.
func (v *View) Session() *domain.MatchSession {
	return v.engine.Session()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
