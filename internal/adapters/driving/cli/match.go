package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
)

var errEngineMissing = errors.New("match engine not configured")

var matchCmd = &cobra.Command{
	Use:   "match [buffer]",
	Short: "Show the candidates for a partially typed buffer",
	Long: `Feed a buffer to the match engine and print the session it opens.

The cursor defaults to the end of the buffer. --down and --up move the
highlight before --commit rewrites the buffer with the highlighted prompt.

Examples:
  promptdeck match "/sp"
  promptdeck match "/s hello" --cursor 2 --down 1 --commit`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

var expandCmd = &cobra.Command{
	Use:   "expand [text]",
	Short: "Expand text that starts with a command",
	Long: `Resolve text that starts with an exact command, substituting {input} with
the text after the command. Text that does not start with a known command is
printed unchanged.

With --submit the result is handed to the configured sink (stdout or
clipboard) instead of being printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func init() {
	matchCmd.Flags().Int("cursor", -1, "cursor position in runes (-1 = end of buffer)")
	matchCmd.Flags().Int("down", 0, "move the highlight down N times")
	matchCmd.Flags().Int("up", 0, "move the highlight up N times")
	matchCmd.Flags().Bool("commit", false, "commit the highlighted candidate")
	expandCmd.Flags().Bool("submit", false, "send the result to the configured sink")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(expandCmd)
}

func engine() (driving.MatchEngine, error) {
	if newEngine == nil {
		return nil, errEngineMissing
	}
	return newEngine(), nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	e, err := engine()
	if err != nil {
		return err
	}

	cursor, _ := cmd.Flags().GetInt("cursor")
	down, _ := cmd.Flags().GetInt("down")
	up, _ := cmd.Flags().GetInt("up")
	commit, _ := cmd.Flags().GetBool("commit")

	e.BufferChanged(args[0], cursor)
	for i := 0; i < down; i++ {
		e.Key(domain.KeyArrowDown)
	}
	for i := 0; i < up; i++ {
		e.Key(domain.KeyArrowUp)
	}

	session := e.Session()
	if session == nil {
		cmd.Println("No command at cursor.")
		return nil
	}
	printSession(cmd, session)

	if !commit {
		return nil
	}
	sub := e.Key(domain.KeyEnter)
	if sub == nil {
		cmd.Println("Nothing highlighted; buffer unchanged.")
		return nil
	}
	cmd.Println()
	cmd.Println(sub.Text)
	return nil
}

func printSession(cmd *cobra.Command, s *domain.MatchSession) {
	cmd.Printf("Query:  /%s\n", s.QueryPrefix)
	cmd.Printf("Token:  [%d, %d)\n", s.TokenStart, s.TokenEnd)
	if len(s.Candidates) == 0 {
		cmd.Println("No matching prompts.")
		return
	}
	cmd.Println("Candidates:")
	for i := range s.Candidates {
		marker := " "
		if i == s.HighlightedIndex {
			marker = ">"
		}
		cmd.Printf("  %s %s\n", marker, s.Candidates[i].Label())
	}
}

func runExpand(cmd *cobra.Command, args []string) error {
	e, err := engine()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	resolved, ok := e.Expand(text)
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "no matching command; text unchanged")
	}

	submit, _ := cmd.Flags().GetBool("submit")
	if !submit {
		fmt.Fprintln(cmd.OutOrStdout(), resolved)
		return nil
	}
	if submissionSink == nil {
		return errors.New("submission sink not configured")
	}
	if err := submissionSink.Submit(cmd.Context(), resolved); err != nil {
		return fmt.Errorf("failed to submit: %w", err)
	}
	cmd.Printf("Sent to %s\n", submissionSink.Name())
	return nil
}
