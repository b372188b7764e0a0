package main

import (
	"fmt"

	"github.com/rpggio/sealboard/internal/sqlite"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ensureDBDir(cfg.DB.Path); err != nil {
				return err
			}
			db, err := sqlite.New(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.RunMigrations(); err != nil {
				return err
			}
			v, err := db.SchemaVersion()
			if err != nil {
				return err
			}
			logger.Info("migrations applied", "db", cfg.DB.Path, "version", v)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return nil
		},
	}
}
