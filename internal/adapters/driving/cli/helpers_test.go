package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/codec"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/sink"
	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/core/services"
)

type testEnv struct {
	prompts *services.PromptService
	index   *services.CommandIndex
	sinkOut *bytes.Buffer
}

// setupTestServices wires in-memory services seeded with records.
func setupTestServices(t *testing.T, seed ...domain.PromptRecord) *testEnv {
	t.Helper()

	idx := services.NewCommandIndex()
	prompts := services.NewPromptService(memory.NewPromptStore(seed...), idx)
	prompts.SetCreator("tester")
	prompts.RegisterCodec(codec.NewJSONCodec())
	prompts.RegisterCodec(codec.NewYAMLCodec())
	_, err := prompts.Reload(context.Background())
	require.NoError(t, err)

	sinkOut := &bytes.Buffer{}
	SetServices(&Services{
		Prompt:    prompts,
		Settings:  services.NewSettingsService(memory.NewConfigStore()),
		Index:     idx,
		NewEngine: func() driving.MatchEngine { return services.NewMatchEngine(idx) },
		Sink:      sink.NewWriterSink(sinkOut),
	})

	origTerminal := stdinIsTerminal
	stdinIsTerminal = func() bool { return true }

	t.Cleanup(func() {
		SetServices(&Services{})
		stdinIsTerminal = origTerminal
	})

	return &testEnv{prompts: prompts, index: idx, sinkOut: sinkOut}
}

// resetFlags restores every flag in the command tree to its default so
// state does not leak between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	var in io.Reader = strings.NewReader(stdin)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func rec(title, command, content string) domain.PromptRecord {
	return domain.PromptRecord{Title: title, Command: command, Content: content}
}
