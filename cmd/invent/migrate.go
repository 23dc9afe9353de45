package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AkiliNova/in-vent/migrations"
	"github.com/AkiliNova/in-vent/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := initLogger(cfg); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		ctx := cmd.Context()
		db, err := connectPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := migrations.Apply(ctx, db.Pool())
		if err != nil {
			return err
		}
		for _, name := range applied {
			logger.Info("migration applied", zap.String("file", name))
		}
		return nil
	},
}
