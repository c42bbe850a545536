package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/odsmeteo/meteo-toulouse/internal/api/http"
	"github.com/odsmeteo/meteo-toulouse/internal/catalog"
	"github.com/odsmeteo/meteo-toulouse/internal/config"
	"github.com/odsmeteo/meteo-toulouse/internal/ingest"
	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
	"github.com/odsmeteo/meteo-toulouse/internal/ods"
	"github.com/odsmeteo/meteo-toulouse/internal/repository"
	"github.com/odsmeteo/meteo-toulouse/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound portal calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := ods.NewClient(cfg.ODSBaseURL, httpClient)

	// In-memory repository with per-station TTL bookkeeping.
	repo := repository.NewCached(cfg.CacheTTL)

	// Resolve the configured datasets into stations.
	startCtx, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	stations, err := catalog.New(client, repo).Load(startCtx, cfg.DatasetIDs)
	if err != nil {
		log.Fatalf("failed to load station catalog: %v", err)
	}
	log.Printf("catalog: %d stations registered", len(stations))

	// First ingest, then hand off to the scheduler.
	ingester := ingest.New(client, repo, meteo.NewCleaner(), cfg.MaxRowsPerStation)
	total := ingester.IngestAll(startCtx, stations)
	log.Printf("initial ingest stored %d observations", total)

	sched := scheduler.New(stations, cfg.FetchInterval, cfg.RefreshBatch, ingester)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "meteo-toulouse",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "meteo-toulouse",
		})
	})

	httpapi.RegisterRoutes(app, repo)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
