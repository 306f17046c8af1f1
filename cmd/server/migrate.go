package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the bookings and contacts tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		if cfg.DatastoreURL == "" {
			return errors.New("DATASTORE_URL is not set")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, driver, err := database.Open(ctx, cfg.DatastoreURL, cfg.DatastoreKey)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db, driver); err != nil {
			return err
		}
		logger.Info("schema up to date", zap.String("driver", string(driver)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
