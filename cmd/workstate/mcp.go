package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grigi/workstate/internal/logging"
	"github.com/grigi/workstate/pkg/adapters/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp [dir]",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the model to AI agents as MCP tools (validate_model, get_graph,
list_scopes, describe_model) and the workstate://graph resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			ws, err := a.workstate(cmd, args, nil)
			if err != nil {
				return err
			}
			srv := mcp.NewServer(ws)

			switch transport {
			case "stdio":
				// Ensure logs don't corrupt JSON-RPC on Stdout
				log.SetOutput(os.Stderr)
				level, _ := logging.ParseLevel(a.cfg.LogLevel)
				logging.New(level).Info("starting workstate MCP server (stdio)", "model", ws.Name)
				return srv.ServeStdio()
			case "sse":
				a.logger.Info("starting workstate MCP server (SSE)", "port", port)

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				a.logger.Info("MCP server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}

	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	return cmd
}
