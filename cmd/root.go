package cmd

import (
	"context"
	"os"

	"gambler/wager-engine/config"

	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"
)

// NewRootCommand builds the wager-engine CLI
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wager-engine",
		Short:         "Wager resolution and ledger engine for the chat casino",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCommand(),
		newMigrateCommand(),
		newReconcileCommand(),
		newSimulateCommand(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

// configureLogging applies LOG_LEVEL and LOG_FORMAT
func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
