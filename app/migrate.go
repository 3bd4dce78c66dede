package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/authdesk/authdesk/internal/daemon"
	"github.com/authdesk/authdesk/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed the initial data",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		gormDB, err := db.Open(&cfg.DB, cfg.DevMode)
		if err != nil {
			return err
		}

		if err := db.Migrate(gormDB); err != nil {
			return err
		}

		if err := daemon.Seed(cmd.Context(), &cfg.Seed, gormDB); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.Engine).Msg("database migrated")

		return nil
	},
}
