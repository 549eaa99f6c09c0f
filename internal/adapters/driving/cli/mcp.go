package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptdeck/internal/adapters/driving/mcp"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can list prompts,
preview command matches and expand text.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead. The HTTP listener also serves
Prometheus metrics on /metrics.

Examples:
  # Stdio mode (default)
  promptdeck mcp serve

  # HTTP mode
  promptdeck mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "promptdeck": {
        "command": "/path/to/promptdeck",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Prompt:    promptService,
		NewEngine: newEngine,
		Metrics:   metricsHandler,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if indexWatcher != nil {
		go func() {
			if err := indexWatcher.Run(ctx); err != nil {
				logger.Warn("watcher stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
