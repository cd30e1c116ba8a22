package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search the
ingested documents and ask grounded questions.

Tools: search_documents, ask, ingest.
Resources: pdfrag://prompt/grounding, pdfrag://settings.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

Examples:
  # Stdio mode (default)
  pdfrag mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  pdfrag mcp serve --port 8080

Desktop client configuration:
  {
    "mcpServers": {
      "pdfrag": {
        "command": "/path/to/pdfrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ensurePipeline(ctx); err != nil {
		return err
	}

	mcp.Version = version
	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Answer:    answerService,
		Ingestion: ingestionService,
		Settings:  settingsService,
	}
	if promptSource != nil {
		ports.Prompt = promptSource
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	return server.Serve(ctx, serveConfig(cmd, port))
}

// serveConfig maps --port to a transport; zero keeps stdio.
func serveConfig(cmd *cobra.Command, port int) mcp.ServeConfig {
	if port <= 0 {
		return mcp.ServeConfig{}
	}
	return mcp.ServeConfig{
		Addr: fmt.Sprintf(":%d", port),
		Ready: func(addr string) {
			fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		},
	}
}
