package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rpggio/sealboard/internal/config"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg        config.Config
	logger     *slog.Logger
	logCloser  io.Closer
	configPath string
	tenantFlag string
)

func newRootCmd() *cobra.Command {
	configPath, tenantFlag = "", ""

	root := &cobra.Command{
		Use:           "sealboard",
		Short:         "Product-development board service",
		Long:          "sealboard serves the Red Seal / Green Seal project board over REST and MCP.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := os.Setenv("SEALBOARD_CONFIG_PATH", configPath); err != nil {
					return err
				}
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			if cmd.Name() == "mcp" {
				cfg.Transport.Mode = "stdio"
			}

			l, closer, err := newLogger(cfg.Log, cfg.Transport.Mode == "stdio", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger, logCloser = l, closer
			if tenantFlag == "" {
				tenantFlag = cfg.Auth.DefaultTenant
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&tenantFlag, "tenant", "", "tenant ID (defaults to auth.default_tenant)")

	root.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newListCmd(),
		newImportCmd(),
		newAPIKeyCmd(),
		newMigrateCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
