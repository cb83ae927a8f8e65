package main

import (
	"dentalclinic/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Tạo/cập nhật schema database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := database.NewConnection(&cfg.Database, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				log.Error("migration failed", zap.Error(err))
				return err
			}
			log.Info("database migration completed")
			return nil
		},
	}
}
