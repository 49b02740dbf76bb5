package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/Aakashvish187/jalrakshak.ai/internal/config"
	httpdelivery "github.com/Aakashvish187/jalrakshak.ai/internal/delivery/http"
	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
	"github.com/Aakashvish187/jalrakshak.ai/internal/engine"
	"github.com/Aakashvish187/jalrakshak.ai/internal/notify"
	"github.com/Aakashvish187/jalrakshak.ai/internal/observability/metrics"
	"github.com/Aakashvish187/jalrakshak.ai/internal/repository/memory"
	"github.com/Aakashvish187/jalrakshak.ai/internal/repository/postgres"
	"github.com/Aakashvish187/jalrakshak.ai/internal/repository/sqlite"
	"github.com/Aakashvish187/jalrakshak.ai/internal/service"
	"github.com/Aakashvish187/jalrakshak.ai/internal/simulator"
)

var serveMonitor bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "serve starts the flood backend with the configured storage and the optional background city monitor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return runServer(cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMonitor, "monitor", true, "Start the background city monitor")
}

func runServer(cfg *config.Config) error {
	metrics.Init()

	// Storage
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := openStore(ctx, cfg)
	defer store.Close()

	// Notifications
	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" && cfg.RescueChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.RescueChatID)
		if err != nil {
			log.Printf("Warning: Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
			log.Println("Telegram notifier enabled")
		}
	}

	// Monitoring roster
	cities, err := config.LoadCities(cfg.CitiesFile)
	if err != nil {
		return err
	}

	// Dependency Injection: Services
	generator := simulator.New()
	dispatcher := engine.NewDispatcher(store)
	predictionSvc := service.NewPredictionService(store)
	rescueSvc := service.NewRescueService(dispatcher, store, notifier)
	sosSvc := service.NewSOSService(store, notifier)
	reportSvc := service.NewReportService(store)
	routeSvc := service.NewRouteService(store)
	monitorSvc := service.NewMonitorService(cities, generator, store, notifier, cfg.MonitorSpec)

	if serveMonitor {
		if err := monitorSvc.Start(); err != nil {
			return err
		}
	}

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "JalRaksha API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	handler := httpdelivery.NewHandler(predictionSvc, rescueSvc, sosSvc, reportSvc, routeSvc, monitorSvc, generator, store)
	httpdelivery.SetupRoutes(app, handler)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if monitorSvc.Running() {
		if err := monitorSvc.Stop(); err != nil {
			log.Printf("Monitor stop failed: %v", err)
		}
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	predictionSvc.WaitBackground()
	log.Println("Server exited gracefully")
	return nil
}

// openStore picks the storage backend: Postgres when DATABASE_URL is
// set, SQLite otherwise, and in-memory as the last resort.
func openStore(ctx context.Context, cfg *config.Config) domain.Store {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			store, err := postgres.New(ctx, pool)
			if err == nil {
				seedStore(ctx, store)
				log.Println("Connected to PostgreSQL")
				return store
			}
			pool.Close()
			log.Printf("Warning: Postgres migration failed: %v", err)
		} else {
			log.Printf("Warning: Could not connect to database: %v", err)
		}
	}

	store, err := sqlite.New(cfg.SQLitePath)
	if err == nil {
		seedStore(ctx, store)
		log.Printf("Using SQLite store at %s", store.DBPath)
		return store
	}
	log.Printf("Warning: Could not open SQLite store: %v", err)

	log.Println("Running with in-memory data only")
	return memory.New(domain.DefaultRescueUnits(), domain.DefaultFloodZones())
}

type seeder interface {
	SeedUnits(ctx context.Context, units []domain.RescueUnit) error
	SeedZones(ctx context.Context, zones []domain.FloodZone) error
}

func seedStore(ctx context.Context, s seeder) {
	if err := s.SeedUnits(ctx, domain.DefaultRescueUnits()); err != nil {
		log.Printf("Warning: Could not seed rescue units: %v", err)
	}
	if err := s.SeedZones(ctx, domain.DefaultFloodZones()); err != nil {
		log.Printf("Warning: Could not seed flood zones: %v", err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
