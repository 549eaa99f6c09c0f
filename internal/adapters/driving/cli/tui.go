package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui"
	"github.com/custodia-labs/promptdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

var tuiCompose bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The composer suggests prompts as you type a slash command. Submitted text
goes to the configured sink (sink.target); with the stdout sink it is printed
after the UI exits.

Controls:
  /        - Start a command
  ↑/↓      - Move through suggestions (or hover with the mouse)
  Enter    - Use the highlighted prompt / send the text
  Tab      - Use the highlighted prompt
  Esc      - Dismiss suggestions / back
  ?        - Help (from the menu)
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiCompose, "compose", false, "open the composer directly")
	rootCmd.AddCommand(tuiCmd)
}

// heldSink keeps stdout submissions until the alternate screen is gone.
type heldSink struct {
	mu    sync.Mutex
	texts []string
}

func (h *heldSink) Submit(_ context.Context, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.texts = append(h.texts, text)
	return nil
}

func (h *heldSink) Name() string { return "stdout (on exit)" }

func (h *heldSink) flush(ctx context.Context, to driven.SubmissionSink) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, text := range h.texts {
		if err := to.Submit(ctx, text); err != nil {
			return err
		}
	}
	h.texts = nil
	return nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// The TUI owns the terminal, so logs go to a file while it runs.
	if logFile != "" {
		restore, err := logger.UseFile(logFile)
		if err != nil {
			return err
		}
		defer restore() //nolint:errcheck
	}

	ports := &tui.Ports{
		Prompt:    promptService,
		NewEngine: newEngine,
		Sink:      submissionSink,
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			ports.MaxVisible = settings.UI.MaxVisible
		}
	}

	var held *heldSink
	if submissionSink != nil && submissionSink.Name() == domain.SinkTargetStdout.String() {
		held = &heldSink{}
		ports.Sink = held
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx)
	if tuiCompose {
		app.StartIn(messages.ViewComposer)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if indexWatcher != nil {
		indexWatcher.OnReload(func(report *domain.RebuildReport, err error) {
			p.Send(messages.IndexReloaded{Report: report, Err: err})
		})
		go func() {
			if err := indexWatcher.Run(ctx); err != nil {
				logger.Warn("watcher stopped: %v", err)
			}
		}()
	}

	_, runErr := p.Run()
	cancel()

	if held != nil {
		if err := held.flush(cmd.Context(), submissionSink); err != nil {
			return err
		}
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}
