package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage MCP API keys",
	}

	var description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Mint an API key for --tenant",
		Long:  "Mint an API key for --tenant. The key is printed once; only its hash is stored.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			token, err := a.apiKeys.CreateKey(cmd.Context(), tenantFlag, description)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	create.Flags().StringVar(&description, "description", "", "note stored with the key")
	cmd.AddCommand(create)
	return cmd
}
