// Package cli provides the promptdeck command line interface.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// version is set at build time via -ldflags or by the composition root.
var version = "dev"

var verbose bool

// Services wired by the composition root.
var (
	promptService   driving.PromptService
	settingsService driving.SettingsService
	commandIndex    driving.CommandIndex
	newEngine       func() driving.MatchEngine
	submissionSink  driven.SubmissionSink
	metricsHandler  http.Handler
	indexWatcher    IndexWatcher
	logFile         string
	startup         func(ctx context.Context) error
)

// IndexWatcher reloads the command index when prompts change on disk.
type IndexWatcher interface {
	Run(ctx context.Context) error
	OnReload(fn func(*domain.RebuildReport, error))
}

// Services bundles the dependencies the commands use.
type Services struct {
	Prompt   driving.PromptService
	Settings driving.SettingsService
	Index    driving.CommandIndex
	// NewEngine returns a fresh engine bound to the shared index.
	NewEngine func() driving.MatchEngine
	Sink      driven.SubmissionSink
	// Metrics is served on /metrics by "mcp serve --port". Optional.
	Metrics http.Handler
	// Watcher runs while long-lived commands (tui, mcp serve) are up. Optional.
	Watcher IndexWatcher
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string
	// Startup runs once flags are parsed and logging is configured. Optional.
	Startup func(ctx context.Context) error
}

// SetServices installs the services used by all commands.
func SetServices(s *Services) {
	promptService = s.Prompt
	settingsService = s.Settings
	commandIndex = s.Index
	newEngine = s.NewEngine
	submissionSink = s.Sink
	metricsHandler = s.Metrics
	indexWatcher = s.Watcher
	logFile = s.LogFile
	startup = s.Startup
}

// SetVersion sets the version reported by "promptdeck version".
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "promptdeck",
	Short: "Slash-command prompt snippets",
	Long: `promptdeck stores reusable prompt snippets, each bound to a slash command,
and expands them as you type.

Type "/" followed by part of a command to see matching prompts; committing a
match replaces the input with the prompt, substituting {input} with any text
you typed after the command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if startup == nil {
			return nil
		}
		return startup(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
