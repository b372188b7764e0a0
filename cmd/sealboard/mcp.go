package main

import (
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			logger.Info("starting stdio transport", "tenant", cfg.Auth.DefaultTenant)
			// Run blocks until stdin closes or ctx is canceled.
			return a.mcpServer(cfg, logger).Run(ctx, &sdkmcp.StdioTransport{})
		},
	}
}
