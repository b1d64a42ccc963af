package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gsignin/internal/adapters/driving/mcp"
	"github.com/custodia-labs/gsignin/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can sign in and
obtain verified access tokens.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

The configuration file is watched while the server runs; edits apply to the
next tool call.

Examples:
  # Stdio mode (default)
  gsignin mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  gsignin mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "gsignin": {
        "command": "/path/to/gsignin",
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

	a, err := requireApp()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Bridge:   a.Bridge,
		Acquirer: a.Acquirer,
		Accounts: a.Accounts,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if a.Watch != nil {
		go func() {
			if err := a.Watch(cmd.Context(), a.Reconfigure); err != nil {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
