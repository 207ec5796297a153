package cmd

import (
	"context"
	"fmt"

	"hysync/core/config"
	"hysync/core/database"
	"hysync/core/logger"
	"hysync/core/storage"
	"hysync/feature/migration"
	"hysync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migratePathFlag   string
	migrateBucketFlag bool
	migratePrefixFlag string
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import file-based player archives into the database",
	Long: `Reads the pre-database JSON archives (player files or stash directories)
and upserts them through the same rules as live traffic. Runs are safe to
repeat; re-importing the same tree converges.`,
}

// migratePlayersCmd represents the migrate players command
var migratePlayersCmd = &cobra.Command{
	Use:   "players",
	Short: "Import player inventory archives",
	Long: `Scans a universe/players tree of <uuid>.json files (or <uuid>/ directories)
and upserts each player's inventory, hotbar and display name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd.Context(), func(src migration.Source, facade *sync.Facade, logg *zap.Logger) migration.Result {
			return migration.NewPlayerRunner(src, facade, logg).Run(cmd.Context())
		})
	},
}

// migrateStashesCmd represents the migrate stashes command
var migrateStashesCmd = &cobra.Command{
	Use:   "stashes",
	Short: "Import stash archives",
	Long: `Scans a data/stash tree of <uuid>/ directories (stashes.json index plus
<name>_items.json payloads) and upserts each stash and per-player limit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd.Context(), func(src migration.Source, facade *sync.Facade, logg *zap.Logger) migration.Result {
			return migration.NewStashRunner(src, facade, logg).Run(cmd.Context())
		})
	},
}

func runMigration(ctx context.Context, run func(migration.Source, *sync.Facade, *zap.Logger) migration.Result) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	src, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection required: %w", err)
	}
	facade := sync.New(db, logg, sync.Options{
		ServerID:          cfg.Server.ServerID,
		DefaultMaxStashes: cfg.Server.DefaultMaxStashes,
	})

	logg.Info("Starting migration (this might take a while)...")
	result := run(src, facade, logg)
	if result.Failed() {
		return fmt.Errorf("migration aborted: %s", result.Message)
	}
	logg.Info("Migration finished",
		zap.Int("ok", result.OK),
		zap.Int("skip", result.Skip),
		zap.Int("err", result.Err),
	)
	return nil
}

func buildSource(ctx context.Context, cfg *config.Config) (migration.Source, error) {
	if migrateBucketFlag {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		src, err := migration.NewBucketSource(ctx, client, cfg.Storage.Bucket, migratePrefixFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to open bucket source: %w", err)
		}
		return src, nil
	}
	if migratePathFlag == "" {
		return nil, fmt.Errorf("either --path or --from-bucket is required")
	}
	src, err := migration.NewDirSource(migratePathFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory source: %w", err)
	}
	return src, nil
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migratePathFlag, "path", "", "local directory holding the archive tree")
	migrateCmd.PersistentFlags().BoolVar(&migrateBucketFlag, "from-bucket", false, "read the archive tree from the configured storage bucket")
	migrateCmd.PersistentFlags().StringVar(&migratePrefixFlag, "prefix", "", "key prefix inside the bucket (with --from-bucket)")
	migrateCmd.AddCommand(migratePlayersCmd)
	migrateCmd.AddCommand(migrateStashesCmd)
	RootCmd.AddCommand(migrateCmd)
}
