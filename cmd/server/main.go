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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otcheredev/membership-data-plane/internal/cache"
	"github.com/otcheredev/membership-data-plane/internal/config"
	"github.com/otcheredev/membership-data-plane/internal/database"
	"github.com/otcheredev/membership-data-plane/internal/handlers"
	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/repository"
	"github.com/otcheredev/membership-data-plane/internal/services"
	"github.com/otcheredev/membership-data-plane/internal/store"
	"github.com/otcheredev/membership-data-plane/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting membership data plane")

	// Connect to the document store
	var docStore store.Client
	if cfg.Store.Type == "firestore" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		docStore, err = store.NewFirestoreClient(ctx, cfg.Store.ProjectID, cfg.Store.CredentialsFile)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Firestore")
		}
		log.Info().Str("project", cfg.Store.ProjectID).Msg("Firestore connected")
	} else {
		docStore = store.NewMemoryClient()
		log.Warn().Msg("Using in-memory document store; data will not persist")
	}
	defer docStore.Close()

	// Connect to the audit database
	var auditRepo *repository.AuditRepository
	if cfg.Database.Enabled {
		dbConfig := database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			LogLevel: cfg.Database.LogLevel,
		}

		if err := database.Connect(dbConfig); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to audit database")
		}
		defer database.Close()

		auditRepo = repository.NewAuditRepository()
	} else {
		log.Info().Msg("Audit database disabled")
	}

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize services
	businessService := services.NewBusinessService(docStore, cacheImpl)
	cardService := services.NewCardService(docStore, auditRepo)
	subscriptionService := services.NewSubscriptionService(docStore)
	shiftService := services.NewShiftService(docStore, businessService)
	leaveService := services.NewLeaveService(docStore, businessService, auditRepo)
	commentService := services.NewCommentService(docStore, businessService)
	paymentService := services.NewPaymentService(docStore, businessService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.Database.Enabled)
	businessHandler := handlers.NewBusinessHandler(businessService)
	cardHandler := handlers.NewCardHandler(cardService)
	customerHandler := handlers.NewCustomerHandler(subscriptionService, leaveService, commentService, paymentService)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	deviceHandler := handlers.NewDeviceHandler(docStore)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no tenant required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Business registration happens before a tenant id exists
		r.Post("/businesses", businessHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BusinessID)

			r.Get("/businesses/current", businessHandler.Current)
			r.Put("/businesses/current", businessHandler.Update)

			r.Post("/cards/assign", cardHandler.Assign)
			r.Post("/cards/replace", cardHandler.Replace)
			r.Post("/cards/return", cardHandler.Return)
			r.Post("/cards/unassign", cardHandler.Unassign)

			r.Route("/customers/{customerID}", func(r chi.Router) {
				r.Post("/subscription/append", customerHandler.AppendSubscription)
				r.Post("/subscription/remove", customerHandler.RemoveSubscription)
				r.Post("/subscription/replace", customerHandler.ReplaceSubscription)
				r.Post("/subscription/renew", customerHandler.RenewSubscription)
				r.Post("/subscription/deactivate", customerHandler.Deactivate)
				r.Post("/leave", customerHandler.GrantLeave)
				r.Post("/payments", customerHandler.CreatePayment)
				r.Post("/comments", customerHandler.CreateComment)
				r.Post("/shifts", shiftHandler.Create)
			})

			r.Put("/devices/{deviceID}", deviceHandler.Register)
			r.Patch("/devices/{deviceID}", deviceHandler.Update)

			if cfg.Database.Enabled {
				r.Get("/audit", auditHandler.List)
				r.Get("/customers/{customerID}/audit", auditHandler.ListByCustomer)
			}
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

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
