package cmd

import (
	"fmt"
	"os"

	"hysync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "hysync",
	Short: "Hysync player data service",
	Long: `Hysync keeps player inventories, stashes, sessions and votes in one
shared database so a player can move between game servers without losing
state. It serves the HTTP API for external collaborators and ships the
one-off migration and diagnostic tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level for readable CLI error output
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
