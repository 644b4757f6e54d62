package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"fabric-sync/core/collect"
	"fabric-sync/core/config"
	"fabric-sync/core/database"
	"fabric-sync/core/export"
	"fabric-sync/core/loader"
	"fabric-sync/core/logger"
	"fabric-sync/core/middleware/auth"
	"fabric-sync/core/middleware/rayid"
	"fabric-sync/core/pipeline"
	"fabric-sync/core/reconcile"
	"fabric-sync/core/registry"
	"fabric-sync/core/storage"

	"fabric-sync/feature/pipelines"
	"fabric-sync/feature/runs"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the fabric-sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
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

		// 3. Connect to Database (Optional)
		// Without it the service runs with history disabled.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to run history database")
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Object Storage (Optional)
		// Created only when a bucket is configured; without one exports stay
		// local files.
		var objects storage.Client
		if cfg.Storage.Bucket != "" {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			objects = client
		}
		exporter := export.NewService(cfg.Export, objects, cfg.Storage.Bucket, logg)

		// 6. Build the pipeline machinery
		collectors := collect.NewRegistry(cfg.Collect, logg)

		targets, err := collect.LoadTargets(cfg.Collect.TargetsFile)
		if err != nil {
			logg.Warn("Device targets unavailable, runs will see no devices", zap.Error(err))
		}

		var engine pipeline.SyncEngine
		if cfg.Registry.Configured() {
			engine = reconcile.NewEngine(registry.NewClient(cfg.Registry, logg), logg)
			logg = logg.With(zap.String("registry", cfg.Registry.URL))
		} else {
			logg.Warn("Registry not configured, sync steps will fail")
		}

		store := pipeline.NewStore(cfg.Pipelines.Dir, collectors.Known())
		executor := pipeline.NewExecutor(pipeline.Deps{
			Collectors: collectors,
			Targets:    targets,
			Engine:     engine,
			Exporter:   exporter,
			Logger:     logg,
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager(logg)

		// Register Features
		runsFeature := runs.NewFeature(db, logg)
		var recorder pipelines.RunRecorder
		if runStore := runsFeature.Store(); runStore != nil {
			recorder = runStore
		}
		service := pipelines.NewService(store, executor, collectors.Known(), recorder, logg)
		mgr.Register(pipelines.NewFeature(service, logg))
		mgr.Register(runsFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
