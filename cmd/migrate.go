package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"invoicegen-backend/config"
	"invoicegen-backend/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured store",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Int("timeout", 60, "Migration timeout in seconds")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithComponent("migrate")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	s, err := config.ConnectStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Migration complete")
	return nil
}
