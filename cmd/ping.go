package cmd

import (
	"fmt"

	"hysync/core/config"
	"hysync/core/database"
	"hysync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity and schema",
	Long: `Connects to the configured database, pings it and reports which of the
sync tables exist. Useful before first serve or a migration run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		logg.Info("Database reachable",
			zap.String("driver", cfg.Database.Driver),
			zap.String("host", cfg.Database.Host),
			zap.String("name", cfg.Database.Name),
		)

		missing, err := database.VerifyTables(db, database.SyncTables)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if len(missing) > 0 {
			logg.Warn("Schema incomplete, run serve with --migrate-schema",
				zap.Strings("missing", missing))
			return nil
		}
		logg.Info("Schema complete", zap.Strings("tables", database.SyncTables))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(pingCmd)
}
