package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/osas/osas-backend/internal/inventory/events"
	"github.com/osas/osas-backend/internal/inventory/handler"
	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/service"
	"github.com/osas/osas-backend/pkg/cache"
	"github.com/osas/osas-backend/pkg/config"
	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
	"github.com/osas/osas-backend/pkg/messaging"
)

const alertScanInterval = 15 * time.Minute

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("inventory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("inventory-service", cfg.Server.Environment)
	log.Info().Msg("starting Inventory Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Connect to Redis. The service degrades to uncached dashboards when
	// Redis is unavailable.
	dashboardCache, err := cache.New(&cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
		dashboardCache = nil
	} else {
		defer dashboardCache.Close()
	}

	// Initialize event publisher
	publisher, err := events.NewInventoryEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	transferRepo := repository.NewTransferRepository(db)

	// Initialize services
	inventoryService := service.NewInventoryService(productRepo, warehouseRepo, levelRepo, batchRepo, alertRepo, publisher, dashboardCache, cfg.Redis.CacheTTL, log)
	transferService := service.NewTransferService(db, transferRepo, levelRepo, productRepo, publisher, log)

	// Initialize handlers
	productHandler := handler.NewProductHandler(inventoryService, log)
	warehouseHandler := handler.NewWarehouseHandler(inventoryService, log)
	levelHandler := handler.NewLevelHandler(inventoryService, log)
	batchHandler := handler.NewBatchHandler(inventoryService, log)
	transferHandler := handler.NewTransferHandler(transferService, log)
	alertHandler := handler.NewAlertHandler(alertRepo, log)
	dashboardHandler := handler.NewDashboardHandler(inventoryService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start alert scanner
	scanner := service.NewAlertScanner(levelRepo, batchRepo, alertRepo, publisher, log)
	scheduler := service.NewAlertScheduler(scanner, alertScanInterval, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(httputil.IdentityMiddleware) // Extract user identity from gateway headers

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "inventory-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		}
		if dashboardCache != nil {
			health["redis"] = dashboardCache.Health(r.Context())
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API routes
	r.Route("/api/v1/inventory", func(r chi.Router) {
		// Product routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		// Warehouse routes
		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", warehouseHandler.List)
			r.Post("/", warehouseHandler.Create)
			r.Get("/{id}", warehouseHandler.Get)
			r.Put("/{id}", warehouseHandler.Update)
			r.Delete("/{id}", warehouseHandler.Delete)
		})

		// Stock level routes
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", levelHandler.List)
			r.Post("/", levelHandler.Set)
			r.Get("/low", levelHandler.LowStockReport)
			r.Get("/{productId}/{warehouseId}", levelHandler.Get)
		})

		// Batch routes
		r.Route("/batches", func(r chi.Router) {
			r.Get("/", batchHandler.List)
			r.Post("/", batchHandler.Create)
			r.Get("/expiring", batchHandler.ListExpiring)
			r.Get("/{id}", batchHandler.Get)
			r.Put("/{id}", batchHandler.Update)
			r.Delete("/{id}", batchHandler.Delete)
		})

		// Transfer routes
		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", transferHandler.List)
			r.Post("/", transferHandler.Create)
			r.Get("/{id}", transferHandler.Get)
			r.Put("/{id}/approve", transferHandler.Approve)
			r.Put("/{id}/reject", transferHandler.Reject)
			r.Put("/{id}/complete", transferHandler.Complete)
		})

		// Alert routes
		r.Get("/alerts", alertHandler.List)
		r.Put("/alerts/{id}/acknowledge", alertHandler.Acknowledge)

		// Dashboard
		r.Get("/dashboard/stats", dashboardHandler.GetStats)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop the scheduler
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
