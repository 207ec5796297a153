package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"hysync/core/config"
	"hysync/core/database"
	"hysync/core/loader"
	"hysync/core/logger"
	"hysync/core/middleware/auth"
	"hysync/core/middleware/rayid"

	"hysync/feature/inventory"
	"hysync/feature/session"
	"hysync/feature/stash"
	"hysync/feature/sync"
	"hysync/feature/vote"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateSchemaFlag bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the player data HTTP API",
	Long: `Starts the HTTP server that exposes sessions, inventories, stashes and
votes to external collaborators. The configured server_id identifies this
process in the shared session table.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.HasServerID() {
			logg.Warn("server.server_id is not configured, session claims will be refused")
		} else {
			logg = logg.With(zap.String("server", cfg.Server.ServerID))
		}

		// 3. Connect to Database (required, the whole service is the database)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg.Info("Connected to player database", zap.String("driver", cfg.Database.Driver))

		if migrateSchemaFlag {
			if err := sync.AutoMigrate(db); err != nil {
				logg.Fatal("Schema migration failed", zap.Error(err))
			}
			logg.Info("Schema migration applied", zap.Strings("tables", database.SyncTables))
		}

		// 4. Build the facade and its services
		facade := sync.New(db, logg, sync.Options{
			ServerID:          cfg.Server.ServerID,
			DefaultMaxStashes: cfg.Server.DefaultMaxStashes,
		})

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(session.NewFeature(facade.Session(), cfg.Server.ServerID, logg))
		mgr.Register(inventory.NewFeature(facade.Inventory(), logg))
		mgr.Register(stash.NewFeature(facade.Stash(), cfg.Server.DefaultMaxStashes, logg))
		mgr.Register(vote.NewFeature(facade.Votes(), logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateSchemaFlag, "migrate-schema", false, "create or update the sync tables before serving")
	RootCmd.AddCommand(serveCmd)
}
