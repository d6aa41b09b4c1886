package main

import (
	"acmeledger/internal/config"
	"acmeledger/internal/repositories/mongostore"
	"acmeledger/pkg/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables or indexes of the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			ctx := cmd.Context()

			switch cfg.StoreDriver {
			case config.StorePostgres:
				pool, err := database.NewPool(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := database.Migrate(ctx, pool); err != nil {
					return err
				}
			case config.StoreMongo:
				s, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
				if err != nil {
					return err
				}
				s.Repositories().Close()
			default:
				log.Info().Str("store", cfg.StoreDriver).Msg("nothing to migrate")
				return nil
			}

			log.Info().Str("store", cfg.StoreDriver).Msg("migration complete")
			return nil
		},
	}
}
