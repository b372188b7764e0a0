package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch projects from the ERP backend and upsert them locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := newSourceClient(cfg.Source, from, logger)
			defer client.Close()

			projects, err := client.FetchProjects(cmd.Context())
			if err != nil {
				return err
			}

			a, err := openApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.projects.Import(cmd.Context(), tenantFlag, projects, "import")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported into %s: %d created, %d updated, %d skipped\n",
				tenantFlag, res.Created, res.Updated, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "backend base URL (default source.base_url)")
	return cmd
}
