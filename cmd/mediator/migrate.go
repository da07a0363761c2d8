package main

import (
	"context"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.migrate(ctx); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}
