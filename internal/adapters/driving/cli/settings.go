package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errSettingsServiceMissing = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.promptdeck/config.toml.

Changes to storage and watch settings apply on the next start.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting.

Keys:
  storage.backend    json | sqlite | memory
  storage.dir        data directory (default ~/.promptdeck)
  prompt.creator     name stamped on new prompts
  ui.max_visible     suggestions shown at once
  sink.target        stdout | clipboard
  watch.enabled      reload when the prompt file changes (true | false)
  watch.debounce_ms  quiet period before reloading
  log.file           log file used while the TUI runs`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	cmd.Printf("  Directory: %s\n", valueOr(settings.Storage.Dir, "(default)"))
	cmd.Println()

	cmd.Println("[Prompt]")
	cmd.Printf("  Creator: %s\n", settings.Prompt.Creator)
	cmd.Println()

	cmd.Println("[UI]")
	cmd.Printf("  Max visible suggestions: %d\n", settings.UI.MaxVisible)
	cmd.Println()

	cmd.Println("[Sink]")
	cmd.Printf("  Target: %s\n", settings.Sink.Target.Description())
	cmd.Println()

	cmd.Println("[Watch]")
	if settings.Watch.Enabled {
		cmd.Printf("  Enabled: yes (debounce %dms)\n", settings.Watch.DebounceMS)
	} else {
		cmd.Println("  Enabled: no")
	}
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  File: %s\n", valueOr(settings.Log.File, "(default)"))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}

	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
