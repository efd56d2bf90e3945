package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/config"
	amcp "github.com/askdb/askdb/internal/mcp"
	"github.com/askdb/askdb/internal/service"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server that exposes the sales database
as tools for AI agents. Supports stdio (default) and HTTP transports.

In stdio mode, the MCP server communicates over stdin/stdout using JSON-RPC,
suitable for direct integration with MCP clients that launch it as a subprocess.

In HTTP mode, the server listens on the specified port for streamable HTTP
connections.

The schema discovery and SQL tools work without credentials; the ask tool
additionally needs an LLM API key.`,
		Example: `  askdb mcp                              # stdio mode
  askdb mcp --transport http --port 3001 # streamable HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(transport, port)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().IntVar(&port, "port", 3001, "HTTP port (only used with --transport http)")

	return cmd
}

func runMCP(transport string, port int) error {
	// Logs go to stderr; in stdio mode stdout carries the JSON-RPC stream.
	logger := newLogger(false)
	ctx := context.Background()

	cfg := config.Load()

	st, inserted, err := bootstrapStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	if inserted > 0 {
		logger.Info("seeded sales database", "path", st.Path(), "sales_rows", inserted)
	}

	// The ask tool degrades gracefully when no key is configured; the schema
	// and SQL tools keep working either way.
	querySvc := service.NewQueryService()
	if cfg.LLM.APIKey != "" {
		ag, err := agent.New(cfg.LLM, st)
		if err != nil {
			logger.Warn("agent unavailable, ask tool disabled", "error", err)
		} else {
			querySvc.Bind(ag)
			logger.Info("agent ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		}
	} else {
		logger.Warn("no LLM API key configured, ask tool disabled")
	}

	mcpSrv := amcp.NewMCPServer(st, querySvc, appVersion, logger)

	switch transport {
	case "stdio":
		return mcpSrv.ServeStdio()
	case "http":
		addr := fmt.Sprintf(":%d", port)
		return mcpSrv.ServeHTTP(addr)
	default:
		return fmt.Errorf("unsupported transport %q; use 'stdio' or 'http'", transport)
	}
}
