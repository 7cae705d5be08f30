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

	"github.com/osas/osas-backend/internal/sales/consumers"
	"github.com/osas/osas-backend/internal/sales/events"
	"github.com/osas/osas-backend/internal/sales/handler"
	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/internal/sales/service"
	"github.com/osas/osas-backend/pkg/config"
	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
	"github.com/osas/osas-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("sales-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("sales-service", cfg.Server.Environment)
	log.Info().Msg("starting Sales Service")

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

	// Initialize event publisher
	publisher, err := events.NewSalesEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize repositories
	retailerRepo := repository.NewRetailerRepository(db)
	productCacheRepo := repository.NewProductCacheRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	// Initialize service
	salesService := service.NewSalesService(retailerRepo, productCacheRepo, invoiceRepo, deliveryRepo, publisher, log)

	// Initialize handlers
	retailerHandler := handler.NewRetailerHandler(salesService, log)
	invoiceHandler := handler.NewInvoiceHandler(salesService, log)
	deliveryHandler := handler.NewDeliveryHandler(salesService, log)
	dashboardHandler := handler.NewDashboardHandler(salesService, log)

	// Start product event consumer to keep the local catalog in sync
	productConsumer, err := consumers.NewProductEventConsumer(rmq, productCacheRepo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create product event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := productConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start product event consumer")
	}

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
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "sales-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// API routes
	r.Route("/api/v1/sales", func(r chi.Router) {
		// Retailer routes
		r.Route("/retailers", func(r chi.Router) {
			r.Get("/", retailerHandler.List)
			r.Post("/", retailerHandler.Create)
			r.Get("/{id}", retailerHandler.Get)
			r.Put("/{id}", retailerHandler.Update)
			r.Delete("/{id}", retailerHandler.Delete)
		})

		// Invoice routes
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", invoiceHandler.List)
			r.Post("/", invoiceHandler.Create)
			r.Get("/{id}", invoiceHandler.Get)
			r.Put("/{id}/issue", invoiceHandler.Issue)
			r.Put("/{id}/pay", invoiceHandler.Pay)
			r.Put("/{id}/cancel", invoiceHandler.Cancel)
		})

		// Delivery routes
		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", deliveryHandler.List)
			r.Post("/", deliveryHandler.Create)
			r.Get("/{id}", deliveryHandler.Get)
			r.Put("/{id}/dispatch", deliveryHandler.Dispatch)
			r.Put("/{id}/complete", deliveryHandler.Complete)
			r.Put("/{id}/fail", deliveryHandler.Fail)
		})

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

	// Cancel context to stop consumers
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
