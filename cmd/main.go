package main

import (
	"fmt"
	"os"

	"acmeledger/internal/config"
	"acmeledger/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "acmeledger",
		Short:         "ACME back-office ledger, inventory and PDF report API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Setup(loaded.LoggerConfig()); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			cfg = loaded
			return nil
		},
	}

	getConfig := func() *config.Config { return cfg }
	root.AddCommand(
		newServeCmd(getConfig),
		newMigrateCmd(getConfig),
		newReportCmd(getConfig),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
