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
	"github.com/go-chi/cors"

	"github.com/osas/osas-backend/internal/gateway"
	"github.com/osas/osas-backend/pkg/config"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("api-gateway")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("api-gateway", cfg.Server.Environment)
	log.Info().Msg("starting API Gateway")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			// Allow localhost variations (development)
			if origin == "http://localhost:3000" || origin == "http://localhost:5173" {
				return true
			}
			// Allow *.osas.app for production
			if len(origin) > 9 && origin[len(origin)-9:] == ".osas.app" {
				return true
			}
			if origin == "https://osas.app" {
				return true
			}
			return false
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create proxy handler
	proxy := gateway.NewProxy(cfg, log)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "api-gateway",
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(proxy.AuthMiddleware)

			// Inventory routes
			r.Route("/inventory", func(r chi.Router) {
				// Product routes
				r.Route("/products", func(r chi.Router) {
					r.Get("/", proxy.ForwardToInventory)
					r.Post("/", proxy.ForwardToInventory)
					r.Get("/{id}", proxy.ForwardToInventory)
					r.Put("/{id}", proxy.ForwardToInventory)
					r.Delete("/{id}", proxy.ForwardToInventory)
				})

				// Warehouse routes
				r.Route("/warehouses", func(r chi.Router) {
					r.Get("/", proxy.ForwardToInventory)
					r.Post("/", proxy.ForwardToInventory)
					r.Get("/{id}", proxy.ForwardToInventory)
					r.Put("/{id}", proxy.ForwardToInventory)
					r.Delete("/{id}", proxy.ForwardToInventory)
				})

				// Stock level routes
				r.Route("/stock", func(r chi.Router) {
					r.Get("/", proxy.ForwardToInventory)
					r.Post("/", proxy.ForwardToInventory)
					r.Get("/low", proxy.ForwardToInventory)
					r.Get("/{productId}/{warehouseId}", proxy.ForwardToInventory)
				})

				// Batch routes
				r.Route("/batches", func(r chi.Router) {
					r.Get("/", proxy.ForwardToInventory)
					r.Post("/", proxy.ForwardToInventory)
					r.Get("/expiring", proxy.ForwardToInventory)
					r.Get("/{id}", proxy.ForwardToInventory)
					r.Put("/{id}", proxy.ForwardToInventory)
					r.Delete("/{id}", proxy.ForwardToInventory)
				})

				// Transfer routes
				r.Route("/transfers", func(r chi.Router) {
					r.Get("/", proxy.ForwardToInventory)
					r.Post("/", proxy.ForwardToInventory)
					r.Get("/{id}", proxy.ForwardToInventory)
					r.Put("/{id}/approve", proxy.ForwardToInventory)
					r.Put("/{id}/reject", proxy.ForwardToInventory)
					r.Put("/{id}/complete", proxy.ForwardToInventory)
				})

				// Alerts
				r.Get("/alerts", proxy.ForwardToInventory)
				r.Put("/alerts/{id}/acknowledge", proxy.ForwardToInventory)

				// Dashboard
				r.Get("/dashboard/stats", proxy.ForwardToInventory)
			})

			// Sales routes
			r.Route("/sales", func(r chi.Router) {
				// Retailer routes
				r.Route("/retailers", func(r chi.Router) {
					r.Get("/", proxy.ForwardToSales)
					r.Post("/", proxy.ForwardToSales)
					r.Get("/{id}", proxy.ForwardToSales)
					r.Put("/{id}", proxy.ForwardToSales)
					r.Delete("/{id}", proxy.ForwardToSales)
				})

				// Invoice routes
				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", proxy.ForwardToSales)
					r.Post("/", proxy.ForwardToSales)
					r.Get("/{id}", proxy.ForwardToSales)
					r.Put("/{id}/issue", proxy.ForwardToSales)
					r.Put("/{id}/pay", proxy.ForwardToSales)
					r.Put("/{id}/cancel", proxy.ForwardToSales)
				})

				// Delivery routes
				r.Route("/deliveries", func(r chi.Router) {
					r.Get("/", proxy.ForwardToSales)
					r.Post("/", proxy.ForwardToSales)
					r.Get("/{id}", proxy.ForwardToSales)
					r.Put("/{id}/dispatch", proxy.ForwardToSales)
					r.Put("/{id}/complete", proxy.ForwardToSales)
					r.Put("/{id}/fail", proxy.ForwardToSales)
				})

				// Dashboard
				r.Get("/dashboard/stats", proxy.ForwardToSales)
			})

			// Staff routes
			r.Route("/staff", func(r chi.Router) {
				r.Route("/employees", func(r chi.Router) {
					r.Get("/", proxy.ForwardToStaff)
					r.Post("/", proxy.ForwardToStaff)
					r.Get("/{id}", proxy.ForwardToStaff)
					r.Put("/{id}", proxy.ForwardToStaff)
					r.Delete("/{id}", proxy.ForwardToStaff)
				})
			})
		})
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

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
