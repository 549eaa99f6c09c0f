package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// stdinIsTerminal reports whether stdin is interactive. Content is read
// from stdin only when it is piped.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var promptCmd = &cobra.Command{
	Use:     "prompt",
	Aliases: []string{"prompts"},
	Short:   "Manage prompts",
	Long: `Create, inspect, edit and share prompts.

Each prompt has a unique title, a unique slash command (case-insensitive) and
content. Content may contain one {input} placeholder, which is replaced by the
text typed after the command.`,
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available commands",
	Args:  cobra.NoArgs,
	RunE:  runPromptList,
}

var promptShowCmd = &cobra.Command{
	Use:   "show [title]",
	Short: "Show a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptShow,
}

var promptAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a prompt",
	Long: `Add a prompt. Content is taken from --content, or read from stdin when
stdin is piped.

Examples:
  promptdeck prompt add --title Spanish --command /spanish --content "Translate to Spanish: {input}"
  cat review.md | promptdeck prompt add --title Review --command /review`,
	Args: cobra.NoArgs,
	RunE: runPromptAdd,
}

var promptEditCmd = &cobra.Command{
	Use:   "edit [title]",
	Short: "Edit or rename a prompt",
	Long: `Change the title, command or content of a prompt. Only the flags given
are changed. Content can also be piped on stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runPromptEdit,
}

var promptRemoveCmd = &cobra.Command{
	Use:     "remove [title]",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a prompt",
	Args:    cobra.ExactArgs(1),
	RunE:    runPromptRemove,
}

var promptExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export prompts",
	Long: `Write all prompts to stdout or a file.

Formats:
  json - the prompts.json shape, an object keyed by title
  yaml - a list of records`,
	Args: cobra.NoArgs,
	RunE: runPromptExport,
}

var promptImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import prompts",
	Long: `Create prompts from an exported pack. Use "-" to read stdin.

The format defaults to yaml for .yaml/.yml files and json otherwise.
Prompts whose title or command already exists are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runPromptImport,
}

func init() {
	promptListCmd.Flags().Bool("json", false, "output prompts as JSON")

	for _, c := range []*cobra.Command{promptAddCmd, promptEditCmd} {
		c.Flags().StringP("title", "t", "", "prompt title")
		c.Flags().StringP("command", "c", "", "slash command, e.g. /spanish")
		c.Flags().String("content", "", "prompt content (may contain {input})")
	}
	_ = promptAddCmd.MarkFlagRequired("title")
	_ = promptAddCmd.MarkFlagRequired("command")

	promptExportCmd.Flags().StringP("format", "f", "json", "export format")
	promptExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	promptImportCmd.Flags().StringP("format", "f", "", "import format (default from file extension)")

	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptShowCmd)
	promptCmd.AddCommand(promptAddCmd)
	promptCmd.AddCommand(promptEditCmd)
	promptCmd.AddCommand(promptRemoveCmd)
	promptCmd.AddCommand(promptExportCmd)
	promptCmd.AddCommand(promptImportCmd)
	rootCmd.AddCommand(promptCmd)
}

var errPromptServiceMissing = errors.New("prompt service not configured")

func runPromptList(cmd *cobra.Command, _ []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		records, err := promptService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list prompts: %w", err)
		}
		if records == nil {
			records = []domain.PromptRecord{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal prompts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	commands := promptService.Commands()
	if len(commands) == 0 {
		cmd.Println("No prompts yet. Add one with: promptdeck prompt add --title NAME --command /cmd")
		return nil
	}
	cmd.Println("Available commands:")
	for _, line := range commands {
		cmd.Printf("  %s\n", line)
	}
	return nil
}

func runPromptShow(cmd *cobra.Command, args []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	record, err := promptService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Title:    %s\n", record.Title)
	cmd.Printf("Command:  %s\n", record.Command)
	cmd.Printf("Creator:  %s\n", record.Creator)
	if !record.Created.IsZero() {
		cmd.Printf("Created:  %s\n", record.Created.Local().Format("2006-01-02 15:04"))
	}
	if !record.Modified.IsZero() {
		cmd.Printf("Modified: %s\n", record.Modified.Local().Format("2006-01-02 15:04"))
	}
	cmd.Println()
	cmd.Println(record.Content)
	return nil
}

func runPromptAdd(cmd *cobra.Command, _ []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	title, _ := cmd.Flags().GetString("title")
	command, _ := cmd.Flags().GetString("command")
	content, _, err := readContent(cmd)
	if err != nil {
		return err
	}

	record, err := promptService.Create(cmd.Context(), domain.PromptRecord{
		Title:   title,
		Command: command,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("failed to add prompt: %w", err)
	}

	cmd.Printf("Added %s\n", record.Label())
	return nil
}

func runPromptEdit(cmd *cobra.Command, args []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	existing, err := promptService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	updated := *existing
	changed := false
	if cmd.Flags().Changed("title") {
		updated.Title, _ = cmd.Flags().GetString("title")
		changed = true
	}
	if cmd.Flags().Changed("command") {
		updated.Command, _ = cmd.Flags().GetString("command")
		changed = true
	}
	content, ok, err := readContent(cmd)
	if err != nil {
		return err
	}
	if ok {
		updated.Content = content
		changed = true
	}
	if !changed {
		return errors.New("nothing to change: pass --title, --command or --content")
	}

	record, err := promptService.Update(cmd.Context(), args[0], updated)
	if err != nil {
		return fmt.Errorf("failed to edit prompt: %w", err)
	}

	cmd.Printf("Updated %s\n", record.Label())
	return nil
}

// readContent returns --content when given, else piped stdin. ok is false
// when neither supplied anything.
func readContent(cmd *cobra.Command) (string, bool, error) {
	if cmd.Flags().Changed("content") {
		content, _ := cmd.Flags().GetString("content")
		return content, true, nil
	}
	if stdinIsTerminal() {
		return "", false, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return strings.TrimSuffix(string(data), "\n"), true, nil
}

func runPromptRemove(cmd *cobra.Command, args []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	if err := promptService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove prompt: %w", err)
	}

	cmd.Printf("Removed %q\n", args[0])
	return nil
}

func runPromptExport(cmd *cobra.Command, _ []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := promptService.Export(cmd.Context(), w, format); err != nil {
		return fmt.Errorf("failed to export prompts: %w", err)
	}
	if output != "" {
		cmd.Printf("Exported prompts to %s\n", output)
	}
	return nil
}

func runPromptImport(cmd *cobra.Command, args []string) error {
	if promptService == nil {
		return errPromptServiceMissing
	}

	path := args[0]
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = formatFromPath(path)
	}

	r := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	report, err := promptService.Import(cmd.Context(), r, format)
	if err != nil {
		return fmt.Errorf("failed to import prompts: %w", err)
	}

	cmd.Printf("Imported %d prompt(s)\n", len(report.Created))
	for _, s := range report.Skipped {
		cmd.Printf("  skipped %q (%s): %v\n", s.Title, s.Command, s.Reason)
	}
	return nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
